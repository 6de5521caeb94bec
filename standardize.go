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
	"math"
	"time"

	"github.com/ctessum/sparse"
)

// StandardizeConfig controls reference-period z-scoring of a derived
// metric series.
type StandardizeConfig struct {
	// Reference is the interval whose per-calendar-month statistics
	// define the baseline.
	Reference Period
	// AreaAverage reduces the spatial dimensions by unweighted mean
	// after standardization, leaving a single-cell grid.
	AreaAverage bool
}

// Standardize converts a metric series to a standardized anomaly:
// every value is z-scored against the mean and standard deviation of
// its calendar month over the reference period, cell by cell. Months
// with zero or undefined baseline variance yield NaN, never infinity:
// climate series legitimately have baseline-free periods, so this is
// data, not an error. The variance divisor is n, the convention the
// reference gridded baselines were produced with.
func Standardize(s *Series, cfg StandardizeConfig) (*Series, error) {
	ref, err := s.Slice(cfg.Reference)
	if err != nil {
		return nil, err
	}
	nt, ny, nx := len(s.Time), s.Ny(), s.Nx()

	// Per-cell baseline statistics for each calendar month present in
	// the reference slice.
	byMonth := make([][]int, 13)
	for k, t := range ref.Time {
		m := int(t.Month())
		byMonth[m] = append(byMonth[m], k)
	}
	means := sparse.ZerosDense(13, ny, nx)
	stds := sparse.ZerosDense(13, ny, nx)
	vals := make([]float64, 0, len(ref.Time))
	for m := 1; m <= 12; m++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				if len(byMonth[m]) == 0 {
					means.Set(math.NaN(), m, j, i)
					stds.Set(math.NaN(), m, j, i)
					continue
				}
				vals = vals[:0]
				for _, k := range byMonth[m] {
					vals = append(vals, ref.Data.Get(k, j, i))
				}
				mean, std := nanMeanStd(vals, false)
				means.Set(mean, m, j, i)
				stds.Set(std, m, j, i)
			}
		}
	}

	out := sparse.ZerosDense(nt, ny, nx)
	for k, t := range s.Time {
		m := int(t.Month())
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				v := s.Data.Get(k, j, i)
				mean := means.Get(m, j, i)
				std := stds.Get(m, j, i)
				if math.IsNaN(v) || math.IsNaN(mean) || math.IsNaN(std) || std == 0 {
					out.Set(math.NaN(), k, j, i)
					continue
				}
				out.Set((v-mean)/std, k, j, i)
			}
		}
	}
	times := make([]time.Time, nt)
	copy(times, s.Time)
	z := &Series{Time: times, Data: out}
	if cfg.AreaAverage {
		return z.AreaMean(), nil
	}
	return z, nil
}
