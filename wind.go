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

const (
	airDensity = 1.23 // kg/m3

	// windSigma scales the day-of-year standard deviation in the wind
	// power threshold: mean + 1.28 std is the 90th percentile of a
	// normal distribution. The threshold is this parametric
	// approximation, not an empirical percentile.
	windSigma = 1.28
)

// Wind computes the monthly fraction of days whose wind power exceeds a
// day-of-year threshold derived from the reference period.
type Wind struct {
	u, v *Series // masked sub-daily wind components
}

// NewWind masks the u and v wind component inputs.
func NewWind(u10, v10 *Series, mask *Mask, maskThreshold float64) (*Wind, error) {
	mu, err := mask.Apply(u10, maskThreshold)
	if err != nil {
		return nil, err
	}
	mv, err := mask.Apply(v10, maskThreshold)
	if err != nil {
		return nil, err
	}
	if len(mu.Time) != len(mv.Time) {
		return nil, fmt.Errorf("aci: wind u and v series lengths differ: %d vs %d",
			len(mu.Time), len(mv.Time))
	}
	return &Wind{u: mu, v: mv}, nil
}

// Power is daily wind power: 0.5 ρ ws³ where ws is the daily mean wind
// speed from the orthogonal components.
func (w *Wind) Power() (*Series, error) {
	nt, ny, nx := len(w.u.Time), w.u.Ny(), w.u.Nx()
	speed := sparse.ZerosDense(nt, ny, nx)
	for k := range w.u.Time {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				u := w.u.Data.Get(k, j, i)
				v := w.v.Data.Get(k, j, i)
				speed.Set(math.Sqrt(u*u+v*v), k, j, i)
			}
		}
	}
	times := make([]time.Time, nt)
	copy(times, w.u.Time)
	ws := &Series{Time: times, Data: speed}
	daily, err := ws.ResampleDaily("mean")
	if err != nil {
		return nil, err
	}
	out := daily.Copy()
	for i, v := range out.Data.Elements {
		out.Data.Elements[i] = 0.5 * airDensity * v * v * v
	}
	return out, nil
}

// Threshold is the day-of-year wind power threshold over the reference
// period: mean + 1.28 std of the wind power at each day of year.
func (w *Wind) Threshold(reference Period) (*sparse.DenseArray, error) {
	power, err := w.Power()
	if err != nil {
		return nil, err
	}
	ref, err := power.Slice(reference)
	if err != nil {
		return nil, err
	}
	return ref.groupDayOfYear(func(vals []float64) float64 {
		mean, std := nanMeanStd(vals, false)
		return mean + windSigma*std
	}), nil
}

// exceedance marks each day 1 where wind power exceeds the
// day-of-year-matched threshold.
func (w *Wind) exceedance(reference Period) (*Series, error) {
	thresholds, err := w.Threshold(reference)
	if err != nil {
		return nil, err
	}
	power, err := w.Power()
	if err != nil {
		return nil, err
	}
	return exceedanceIndicator(power, thresholds, true), nil
}

// ExceedanceFrequency is the monthly fraction of days whose wind power
// exceeds the reference-period threshold.
func (w *Wind) ExceedanceFrequency(reference Period) (*Series, error) {
	ind, err := w.exceedance(reference)
	if err != nil {
		return nil, err
	}
	return ind.ResampleMonthly("mean")
}

// SeasonalExceedanceFrequency aggregates the exceedance fraction over
// December-starting quarters instead of months.
func (w *Wind) SeasonalExceedanceFrequency(reference Period) (*Series, error) {
	ind, err := w.exceedance(reference)
	if err != nil {
		return nil, err
	}
	return ind.ResampleQuarterlyDec("mean")
}

// Std is the monthly exceedance frequency standardized against the
// reference period.
func (w *Wind) Std(cfg StandardizeConfig) (*Series, error) {
	freq, err := w.ExceedanceFrequency(cfg.Reference)
	if err != nil {
		return nil, err
	}
	return Standardize(freq, cfg)
}

// StdSeasonal is the seasonal exceedance frequency standardized against
// the reference period.
func (w *Wind) StdSeasonal(cfg StandardizeConfig) (*Series, error) {
	freq, err := w.SeasonalExceedanceFrequency(cfg.Reference)
	if err != nil {
		return nil, err
	}
	return Standardize(freq, cfg)
}
