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

// DryDayThreshold is the daily precipitation total below which a day
// counts as dry, in the units of the input (meters for ERA5 total
// precipitation).
const DryDayThreshold = 0.001

// Drought computes the consecutive-dry-day hazard metric: the annual
// maximum run of dry days, interpolated to monthly resolution.
type Drought struct {
	precip *Series // masked sub-daily precipitation
}

// NewDrought masks the precipitation input.
func NewDrought(tp *Series, mask *Mask, maskThreshold float64) (*Drought, error) {
	masked, err := mask.Apply(tp, maskThreshold)
	if err != nil {
		return nil, err
	}
	return &Drought{precip: masked}, nil
}

// RunLength is the running count of consecutive dry days: for every day
// and cell, the number of dry days since the last wet day. A missing
// daily total yields NaN and resets the run. Iteration is chronological;
// the annual maxima depend on it.
func (d *Drought) RunLength() (*Series, error) {
	daily, err := d.precip.ResampleDaily("sum")
	if err != nil {
		return nil, err
	}
	nt, ny, nx := len(daily.Time), daily.Ny(), daily.Nx()
	out := sparse.ZerosDense(nt, ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			run := 0
			for k := 0; k < nt; k++ {
				v := daily.Data.Get(k, j, i)
				if math.IsNaN(v) {
					out.Set(math.NaN(), k, j, i)
					run = 0
					continue
				}
				if v < DryDayThreshold {
					run++
				} else {
					run = 0
				}
				out.Set(float64(run), k, j, i)
			}
		}
	}
	times := make([]time.Time, nt)
	copy(times, daily.Time)
	return &Series{Time: times, Data: out}, nil
}

// AnnualMax is the yearly drought duration: the maximum dry-day run
// length within each calendar year.
func (d *Drought) AnnualMax() (*Series, error) {
	runs, err := d.RunLength()
	if err != nil {
		return nil, err
	}
	return runs.ResampleAnnual("max")
}

// InterpolateYearlyToMonthly converts a yearly series to monthly
// resolution by linear interpolation between consecutive years: month m
// of year k gets weight (12−m)/12 on year k and m/12 on year k+1. The
// final year has no forward year to interpolate against and is repeated
// across its twelve months. The input must hold exactly one record per
// consecutive calendar year.
func InterpolateYearlyToMonthly(yearly *Series) (*Series, error) {
	nt, ny, nx := len(yearly.Time), yearly.Ny(), yearly.Nx()
	if nt == 0 {
		return nil, fmt.Errorf("aci: yearly series is empty")
	}
	for k := 1; k < nt; k++ {
		if yearly.Time[k].Year() != yearly.Time[k-1].Year()+1 {
			return nil, fmt.Errorf("aci: yearly series must cover consecutive years; got %d after %d",
				yearly.Time[k].Year(), yearly.Time[k-1].Year())
		}
	}
	out := sparse.ZerosDense(nt*12, ny, nx)
	times := make([]time.Time, nt*12)
	for k := 0; k < nt; k++ {
		year := yearly.Time[k].Year()
		for m := 1; m <= 12; m++ {
			b := k*12 + m - 1
			times[b] = monthEnd(year, time.Month(m))
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					cur := yearly.Data.Get(k, j, i)
					var v float64
					if k == nt-1 {
						v = cur
					} else {
						next := yearly.Data.Get(k+1, j, i)
						v = (float64(12-m)*cur + float64(m)*next) / 12
					}
					out.Set(v, b, j, i)
				}
			}
		}
	}
	return &Series{Time: times, Data: out}, nil
}

// Monthly is the yearly drought duration at monthly resolution.
func (d *Drought) Monthly() (*Series, error) {
	yearly, err := d.AnnualMax()
	if err != nil {
		return nil, err
	}
	return InterpolateYearlyToMonthly(yearly)
}

// Std is the monthly drought duration standardized against the
// reference period.
func (d *Drought) Std(cfg StandardizeConfig) (*Series, error) {
	monthly, err := d.Monthly()
	if err != nil {
		return nil, err
	}
	return Standardize(monthly, cfg)
}
