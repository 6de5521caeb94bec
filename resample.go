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
	"time"

	"github.com/ctessum/sparse"
)

// aggregator reduces the valid values within one resampling bucket.
type aggregator func(vals []float64) float64

// aggFunc maps an aggregation name to its reducer. Invalid names are an
// error at the call boundary.
func aggFunc(agg string) (aggregator, error) {
	switch agg {
	case "min":
		return nanMin, nil
	case "max":
		return nanMax, nil
	case "mean":
		return nanMean, nil
	case "sum":
		return nanSum, nil
	default:
		return nil, fmt.Errorf("aci: aggregation in wrong format: should be 'min', 'max', 'mean' or 'sum', got %q", agg)
	}
}

// resampleBy groups the records of s by the bucket label keyOf assigns to
// each timestamp and reduces every bucket cell-wise with agg. Bucket
// labels appear in chronological order in the result.
func (s *Series) resampleBy(keyOf func(time.Time) time.Time, agg string) (*Series, error) {
	f, err := aggFunc(agg)
	if err != nil {
		return nil, err
	}
	var labels []time.Time
	members := make(map[time.Time][]int)
	for k, t := range s.Time {
		key := keyOf(t)
		if _, ok := members[key]; !ok {
			labels = append(labels, key)
		}
		members[key] = append(members[key], k)
	}
	ny, nx := s.Ny(), s.Nx()
	out := sparse.ZerosDense(len(labels), ny, nx)
	vals := make([]float64, 0, 64)
	for b, label := range labels {
		idx := members[label]
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				vals = vals[:0]
				for _, k := range idx {
					vals = append(vals, s.Data.Get(k, j, i))
				}
				out.Set(f(vals), b, j, i)
			}
		}
	}
	return &Series{Time: labels, Data: out}, nil
}

// ResampleDaily reduces sub-daily records to one record per calendar day.
// The day boundaries apply to the timestamps as stored in the series; no
// timezone conversion is performed.
func (s *Series) ResampleDaily(agg string) (*Series, error) {
	return s.resampleBy(func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}, agg)
}

// ResampleMonthly reduces records to one per calendar month, labelled
// with the last day of the month.
func (s *Series) ResampleMonthly(agg string) (*Series, error) {
	return s.resampleBy(func(t time.Time) time.Time {
		return monthEnd(t.Year(), t.Month())
	}, agg)
}

// ResampleQuarterlyDec reduces records to one per December-starting
// quarter (DJF, MAM, JJA, SON), labelled with the quarter's first day.
func (s *Series) ResampleQuarterlyDec(agg string) (*Series, error) {
	return s.resampleBy(func(t time.Time) time.Time {
		y, m := t.Year(), t.Month()
		switch {
		case m == time.December:
			return time.Date(y, time.December, 1, 0, 0, 0, 0, t.Location())
		case m <= time.February:
			return time.Date(y-1, time.December, 1, 0, 0, 0, 0, t.Location())
		case m <= time.May:
			return time.Date(y, time.March, 1, 0, 0, 0, 0, t.Location())
		case m <= time.August:
			return time.Date(y, time.June, 1, 0, 0, 0, 0, t.Location())
		default:
			return time.Date(y, time.September, 1, 0, 0, 0, 0, t.Location())
		}
	}, agg)
}

// ResampleAnnual reduces records to one per calendar year, labelled with
// the last day of the year.
func (s *Series) ResampleAnnual(agg string) (*Series, error) {
	return s.resampleBy(func(t time.Time) time.Time {
		return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, t.Location())
	}, agg)
}

// RollingSum computes a trailing sum over window consecutive records.
// A window containing fewer than minValid valid values yields NaN;
// minValid ≤ 0 requests the strict policy where every one of the window
// values must be valid (and the first window−1 records are NaN).
func (s *Series) RollingSum(window, minValid int) (*Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("aci: rolling window must be positive, got %d", window)
	}
	strict := minValid <= 0
	nt, ny, nx := len(s.Time), s.Ny(), s.Nx()
	out := sparse.ZerosDense(nt, ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			for k := 0; k < nt; k++ {
				lo := k - window + 1
				if lo < 0 {
					lo = 0
				}
				sum, n := 0.0, 0
				for m := lo; m <= k; m++ {
					v := s.Data.Get(m, j, i)
					if math.IsNaN(v) {
						continue
					}
					sum += v
					n++
				}
				switch {
				case strict && n < window:
					out.Set(math.NaN(), k, j, i)
				case !strict && n < minValid:
					out.Set(math.NaN(), k, j, i)
				default:
					out.Set(sum, k, j, i)
				}
			}
		}
	}
	times := make([]time.Time, nt)
	copy(times, s.Time)
	return &Series{Time: times, Data: out}, nil
}

// rollingPercentileCentered smooths s with a centered rolling q-th
// percentile over window records. Windows are truncated at the series
// edges (minimum one record), matching the smoothing used for the
// calendar temperature thresholds.
func (s *Series) rollingPercentileCentered(q float64, window int) *Series {
	nt, ny, nx := len(s.Time), s.Ny(), s.Nx()
	out := sparse.ZerosDense(nt, ny, nx)
	left := (window - 1) / 2
	right := window / 2
	vals := make([]float64, 0, window)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			for k := 0; k < nt; k++ {
				lo, hi := k-left, k+right
				if lo < 0 {
					lo = 0
				}
				if hi > nt-1 {
					hi = nt - 1
				}
				vals = vals[:0]
				for m := lo; m <= hi; m++ {
					vals = append(vals, s.Data.Get(m, j, i))
				}
				out.Set(nanPercentile(vals, q), k, j, i)
			}
		}
	}
	times := make([]time.Time, nt)
	copy(times, s.Time)
	return &Series{Time: times, Data: out}
}

// maxDayOfYear is the number of day-of-year slots in calendar threshold
// fields (leap years included).
const maxDayOfYear = 366

// groupDayOfYear gathers, for every cell, the values of s falling on each
// day of year and reduces them with f, producing a [366, ny, nx]
// threshold field. Days of year never observed are NaN.
func (s *Series) groupDayOfYear(f aggregator) *sparse.DenseArray {
	ny, nx := s.Ny(), s.Nx()
	byDay := make([][]int, maxDayOfYear)
	for k, t := range s.Time {
		d := t.YearDay() - 1
		byDay[d] = append(byDay[d], k)
	}
	out := sparse.ZerosDense(maxDayOfYear, ny, nx)
	vals := make([]float64, 0, 64)
	for d := 0; d < maxDayOfYear; d++ {
		if len(byDay[d]) == 0 {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					out.Set(math.NaN(), d, j, i)
				}
			}
			continue
		}
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				vals = vals[:0]
				for _, k := range byDay[d] {
					vals = append(vals, s.Data.Get(k, j, i))
				}
				out.Set(f(vals), d, j, i)
			}
		}
	}
	return out
}
