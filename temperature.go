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

// TemperatureConfig sets the sub-daily partitioning and the smoothing
// windows for the calendar percentile thresholds. Hour buckets apply to
// the timestamps as stored in the input series; whether those are UTC or
// local time is a property of the data, not of this package.
type TemperatureConfig struct {
	DayHours    []int // default 06:00–21:00
	NightHours  []int // default 22:00–05:00
	DayWindow   int   // centered rolling window for day thresholds, default 80
	NightWindow int   // centered rolling window for night thresholds, default 40
}

func defaultTemperatureConfig() TemperatureConfig {
	return TemperatureConfig{
		DayHours:    []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21},
		NightHours:  []int{0, 1, 2, 3, 4, 5, 22, 23},
		DayWindow:   80,
		NightWindow: 40,
	}
}

// Temperature computes the T90 and T10 hazard metrics: the monthly
// fraction of day and night half-days beyond the calendar 90th and 10th
// percentile thresholds.
type Temperature struct {
	day, night *Series // masked sub-daily partitions
	cfg        TemperatureConfig
}

// NewTemperature masks the sub-daily temperature input and partitions it
// once into day and night hours.
func NewTemperature(t2m *Series, mask *Mask, maskThreshold float64, cfg TemperatureConfig) (*Temperature, error) {
	def := defaultTemperatureConfig()
	if cfg.DayHours == nil {
		cfg.DayHours = def.DayHours
	}
	if cfg.NightHours == nil {
		cfg.NightHours = def.NightHours
	}
	if cfg.DayWindow == 0 {
		cfg.DayWindow = def.DayWindow
	}
	if cfg.NightWindow == 0 {
		cfg.NightWindow = def.NightWindow
	}
	masked, err := mask.Apply(t2m, maskThreshold)
	if err != nil {
		return nil, err
	}
	t := &Temperature{cfg: cfg}
	t.day = selectHours(masked, cfg.DayHours)
	t.night = selectHours(masked, cfg.NightHours)
	return t, nil
}

// selectHours keeps the records whose hour of day is in hours.
func selectHours(s *Series, hours []int) *Series {
	in := make(map[int]bool, len(hours))
	for _, h := range hours {
		in[h] = true
	}
	var keep []int
	for k, t := range s.Time {
		if in[t.Hour()] {
			keep = append(keep, k)
		}
	}
	ny, nx := s.Ny(), s.Nx()
	out := sparse.ZerosDense(len(keep), ny, nx)
	times := make([]time.Time, len(keep))
	for b, k := range keep {
		times[b] = s.Time[k]
		copy(out.Elements[b*ny*nx:(b+1)*ny*nx], s.Data.Elements[k*ny*nx:(k+1)*ny*nx])
	}
	return &Series{Time: times, Data: out}
}

func (t *Temperature) partition(part string) (*Series, error) {
	switch part {
	case "day":
		return t.day, nil
	case "night":
		return t.night, nil
	default:
		return nil, fmt.Errorf("aci: day part in wrong format: should be 'day' or 'night', got %q", part)
	}
}

// Extremum resamples the given partition to its daily extremum.
// extremum must be "min" or "max".
func (t *Temperature) Extremum(part, extremum string) (*Series, error) {
	p, err := t.partition(part)
	if err != nil {
		return nil, err
	}
	switch extremum {
	case "min", "max":
		return p.ResampleDaily(extremum)
	default:
		return nil, fmt.Errorf("aci: extremum in wrong format: should be 'min' or 'max', got %q", extremum)
	}
}

// PercentileCalendar derives one q-th percentile threshold per day of
// year for the given partition: the reference slice of the daily
// extremum series is smoothed with a centered rolling percentile
// (window 80 records for day, 40 for night), then the q-th percentile is
// taken across the years sharing each day of year.
func (t *Temperature) PercentileCalendar(q float64, reference Period, part, extremum string) (*sparse.DenseArray, error) {
	ext, err := t.Extremum(part, extremum)
	if err != nil {
		return nil, err
	}
	ref, err := ext.Slice(reference)
	if err != nil {
		return nil, err
	}
	window := t.cfg.DayWindow
	if part == "night" {
		window = t.cfg.NightWindow
	}
	rolled := ref.rollingPercentileCentered(q, window)
	return rolled.groupDayOfYear(func(vals []float64) float64 {
		return nanPercentile(vals, q)
	}), nil
}

// halfDayFrequency computes the monthly fraction of half-days whose
// daily extremum is beyond the day-of-year-matched q-th percentile
// threshold: above it when above is true, below it otherwise. The
// fraction counts valid observations only.
func (t *Temperature) halfDayFrequency(q float64, reference Period, part, extremum string, above bool) (*Series, error) {
	ext, err := t.Extremum(part, extremum)
	if err != nil {
		return nil, err
	}
	thresholds, err := t.PercentileCalendar(q, reference, part, extremum)
	if err != nil {
		return nil, err
	}
	ind := exceedanceIndicator(ext, thresholds, above)
	return ind.ResampleMonthly("mean")
}

// exceedanceIndicator marks each record 1 where the sign condition
// against the day-of-year-matched threshold holds, 0 where it does not,
// and NaN where either side is missing.
func exceedanceIndicator(s *Series, thresholds *sparse.DenseArray, above bool) *Series {
	nt, ny, nx := len(s.Time), s.Ny(), s.Nx()
	out := sparse.ZerosDense(nt, ny, nx)
	for k, tm := range s.Time {
		d := tm.YearDay() - 1
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				v := s.Data.Get(k, j, i)
				th := thresholds.Get(d, j, i)
				if math.IsNaN(v) || math.IsNaN(th) {
					out.Set(math.NaN(), k, j, i)
					continue
				}
				diff := v - th
				if (above && diff > 0) || (!above && diff < 0) {
					out.Set(1, k, j, i)
				} else {
					out.Set(0, k, j, i)
				}
			}
		}
	}
	times := make([]time.Time, nt)
	copy(times, s.Time)
	return &Series{Time: times, Data: out}
}

// T90 is the monthly warm-extreme frequency: the average of the day and
// night fractions of half-days whose maximum exceeds the calendar 90th
// percentile.
func (t *Temperature) T90(reference Period) (*Series, error) {
	day, err := t.halfDayFrequency(90, reference, "day", "max", true)
	if err != nil {
		return nil, err
	}
	night, err := t.halfDayFrequency(90, reference, "night", "max", true)
	if err != nil {
		return nil, err
	}
	return averageSeries(day, night)
}

// T10 is the monthly cold-extreme frequency: the average of the day and
// night fractions of half-days whose minimum falls below the calendar
// 10th percentile.
func (t *Temperature) T10(reference Period) (*Series, error) {
	day, err := t.halfDayFrequency(10, reference, "day", "min", false)
	if err != nil {
		return nil, err
	}
	night, err := t.halfDayFrequency(10, reference, "night", "min", false)
	if err != nil {
		return nil, err
	}
	return averageSeries(day, night)
}

// averageSeries returns the element-wise mean of two series sharing a
// time index.
func averageSeries(a, b *Series) (*Series, error) {
	if len(a.Time) != len(b.Time) {
		return nil, fmt.Errorf("aci: series lengths differ: %d vs %d", len(a.Time), len(b.Time))
	}
	for i := range a.Time {
		if !a.Time[i].Equal(b.Time[i]) {
			return nil, fmt.Errorf("aci: series time indexes differ at record %d: %v vs %v",
				i, a.Time[i], b.Time[i])
		}
	}
	out := a.Copy()
	for i, v := range b.Data.Elements {
		out.Data.Elements[i] = 0.5 * (out.Data.Elements[i] + v)
	}
	return out, nil
}

// StdT90 is T90 standardized against the reference period.
func (t *Temperature) StdT90(cfg StandardizeConfig) (*Series, error) {
	t90, err := t.T90(cfg.Reference)
	if err != nil {
		return nil, err
	}
	return Standardize(t90, cfg)
}

// StdT10 is T10 standardized against the reference period.
func (t *Temperature) StdT10(cfg StandardizeConfig) (*Series, error) {
	t10, err := t.T10(cfg.Reference)
	if err != nil {
		return nil, err
	}
	return Standardize(t10, cfg)
}
