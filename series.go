/*
Copyright © 2024 the ACI authors.
This file is part of ACI.

ACI is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ACI is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ACI.  If not, see <http://www.gnu.org/licenses/>.
*/

package aci

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ctessum/sparse"
)

// Series is a time-indexed gridded variable. Data has shape
// [len(Time), ny, nx] and missing values are NaN, which propagates
// through all downstream arithmetic. Operations on a Series return new
// Series; the inputs are never mutated.
type Series struct {
	Time []time.Time
	Data *sparse.DenseArray
}

// NewSeries creates a Series after checking that the data shape matches
// the time index and that the index is in ascending order.
func NewSeries(times []time.Time, data *sparse.DenseArray) (*Series, error) {
	if data == nil || len(data.Shape) != 3 {
		return nil, fmt.Errorf("aci: series data must have shape [time, latitude, longitude]")
	}
	if data.Shape[0] != len(times) {
		return nil, fmt.Errorf("aci: series has %d time steps but data has %d records",
			len(times), data.Shape[0])
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("aci: series time index is not ascending at record %d (%v)",
				i, times[i])
		}
	}
	return &Series{Time: times, Data: data}, nil
}

// Ny is the number of grid cells in the South-North direction.
func (s *Series) Ny() int { return s.Data.Shape[1] }

// Nx is the number of grid cells in the West-East direction.
func (s *Series) Nx() int { return s.Data.Shape[2] }

// Copy returns a deep copy of s.
func (s *Series) Copy() *Series {
	t := make([]time.Time, len(s.Time))
	copy(t, s.Time)
	return &Series{Time: t, Data: s.Data.Copy()}
}

// Slice returns the part of s that falls within period p (endpoints
// included). It returns an EmptyPeriodError if no records remain.
func (s *Series) Slice(p Period) (*Series, error) {
	lo := sort.Search(len(s.Time), func(i int) bool { return !s.Time[i].Before(p.Start) })
	hi := sort.Search(len(s.Time), func(i int) bool { return s.Time[i].After(p.End) })
	if lo >= hi {
		return nil, EmptyPeriodError{Period: p}
	}
	ny, nx := s.Ny(), s.Nx()
	out := sparse.ZerosDense(hi-lo, ny, nx)
	copy(out.Elements, s.Data.Elements[lo*ny*nx:hi*ny*nx])
	times := make([]time.Time, hi-lo)
	copy(times, s.Time[lo:hi])
	return &Series{Time: times, Data: out}, nil
}

// AreaMean reduces the spatial dimensions by an unweighted mean that
// skips missing cells, leaving a single-cell grid per time step.
func (s *Series) AreaMean() *Series {
	nt, ny, nx := len(s.Time), s.Ny(), s.Nx()
	out := sparse.ZerosDense(nt, 1, 1)
	for k := 0; k < nt; k++ {
		sum, n := 0.0, 0
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				v := s.Data.Get(k, j, i)
				if math.IsNaN(v) {
					continue
				}
				sum += v
				n++
			}
		}
		if n == 0 {
			out.Set(math.NaN(), k, 0, 0)
		} else {
			out.Set(sum/float64(n), k, 0, 0)
		}
	}
	times := make([]time.Time, nt)
	copy(times, s.Time)
	return &Series{Time: times, Data: out}
}

// TimeSeries converts a spatially scalar Series (one grid cell) to a
// TimeSeries. Use AreaMean first for series that still carry a grid.
func (s *Series) TimeSeries() (*TimeSeries, error) {
	if s.Ny() != 1 || s.Nx() != 1 {
		return nil, fmt.Errorf("aci: series still has %d×%d spatial cells; area-average it first",
			s.Ny(), s.Nx())
	}
	ts := &TimeSeries{
		Time:   make([]time.Time, len(s.Time)),
		Values: make([]float64, len(s.Time)),
	}
	copy(ts.Time, s.Time)
	copy(ts.Values, s.Data.Elements)
	return ts, nil
}

// TimeSeries is a scalar time series: the product of area averaging, the
// sea-level component, and the composite columns.
type TimeSeries struct {
	Time   []time.Time
	Values []float64
}

// Slice returns the part of ts within period p (endpoints included),
// or an EmptyPeriodError.
func (ts *TimeSeries) Slice(p Period) (*TimeSeries, error) {
	out := &TimeSeries{}
	for i, t := range ts.Time {
		if p.Contains(t) {
			out.Time = append(out.Time, t)
			out.Values = append(out.Values, ts.Values[i])
		}
	}
	if len(out.Time) == 0 {
		return nil, EmptyPeriodError{Period: p}
	}
	return out, nil
}

// monthEnd returns the last day of the given month, the label used for
// all monthly resampled series so that the hazard outputs join cleanly.
func monthEnd(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// nanMean averages the non-NaN entries of vals, NaN when none remain.
func nanMean(vals []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func nanMax(vals []float64) float64 {
	out, ok := math.Inf(-1), false
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if v > out {
			out = v
		}
		ok = true
	}
	if !ok {
		return math.NaN()
	}
	return out
}

func nanMin(vals []float64) float64 {
	out, ok := math.Inf(1), false
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if v < out {
			out = v
		}
		ok = true
	}
	if !ok {
		return math.NaN()
	}
	return out
}

func nanSum(vals []float64) float64 {
	sum, ok := 0.0, false
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		ok = true
	}
	if !ok {
		return math.NaN()
	}
	return sum
}

// nanMeanStd returns the mean and standard deviation of the non-NaN
// entries of vals. When sample is true the variance divisor is n−1
// (undefined below two values); otherwise it is n, matching the
// convention of the gridded baselines.
func nanMeanStd(vals []float64, sample bool) (mean, std float64) {
	mean = nanMean(vals)
	if math.IsNaN(mean) {
		return math.NaN(), math.NaN()
	}
	ss, n := 0.0, 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		ss += d * d
		n++
	}
	if sample {
		if n < 2 {
			return mean, math.NaN()
		}
		return mean, math.Sqrt(ss / float64(n-1))
	}
	return mean, math.Sqrt(ss / float64(n))
}

// nanPercentile returns the q-th percentile (0–100) of the non-NaN
// entries of vals using linear interpolation between order statistics,
// NaN when none remain.
func nanPercentile(vals []float64, q float64) float64 {
	v := make([]float64, 0, len(vals))
	for _, x := range vals {
		if !math.IsNaN(x) {
			v = append(v, x)
		}
	}
	if len(v) == 0 {
		return math.NaN()
	}
	sort.Float64s(v)
	if len(v) == 1 {
		return v[0]
	}
	pos := q / 100 * float64(len(v)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return v[lo]*(1-frac) + v[hi]*frac
}
