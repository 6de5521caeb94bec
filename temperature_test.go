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
	"testing"
	"time"

	"github.com/ctessum/sparse"
)

// hourlySeries builds a single-cell series with records every stepHours
// hours for the given number of days, with values from f.
func hourlySeries(t *testing.T, start time.Time, days, stepHours int, f func(tm time.Time) float64) *Series {
	t.Helper()
	var times []time.Time
	var vals []float64
	for d := 0; d < days; d++ {
		for h := 0; h < 24; h += stepHours {
			tm := start.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour)
			times = append(times, tm)
			vals = append(vals, f(tm))
		}
	}
	return gridSeries(t, times, vals)
}

func newTestTemperature(t *testing.T, s *Series) *Temperature {
	t.Helper()
	temp, err := NewTemperature(s, fullMask(t, 1, 1), DefaultMaskThreshold, TemperatureConfig{})
	if err != nil {
		t.Fatal(err)
	}
	return temp
}

func TestSelectHours(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeries(t, start, 1, 1, func(tm time.Time) float64 { return float64(tm.Hour()) })
	temp := newTestTemperature(t, s)
	if len(temp.day.Time) != 16 {
		t.Errorf("day partition has %d records, want 16", len(temp.day.Time))
	}
	if len(temp.night.Time) != 8 {
		t.Errorf("night partition has %d records, want 8", len(temp.night.Time))
	}
	for _, tm := range temp.night.Time {
		if tm.Hour() >= 6 && tm.Hour() <= 21 {
			t.Errorf("daytime hour %d in night partition", tm.Hour())
		}
	}
}

func TestExtremumValidation(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeries(t, start, 2, 6, func(time.Time) float64 { return 280 })
	temp := newTestTemperature(t, s)

	if _, err := temp.Extremum("noon", "max"); err == nil {
		t.Error("expected error for unknown day part")
	}
	if _, err := temp.Extremum("day", "avg"); err == nil {
		t.Error("expected error for unknown extremum")
	}
	got, err := temp.Extremum("day", "max")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Time) != 2 {
		t.Errorf("daily extremum has %d records, want 2", len(got.Time))
	}
}

func TestDailyExtremum(t *testing.T) {
	const testTolerance = 1.e-8
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	// Temperature peaks in the afternoon and bottoms out at night.
	s := hourlySeries(t, start, 1, 3, func(tm time.Time) float64 {
		return 280 - 10*math.Cos(2*math.Pi*float64(tm.Hour()-2)/24)
	})
	temp := newTestTemperature(t, s)

	dayMax, err := temp.Extremum("day", "max")
	if err != nil {
		t.Fatal(err)
	}
	nightMin, err := temp.Extremum("night", "min")
	if err != nil {
		t.Fatal(err)
	}
	if dayMax.Data.Get(0, 0, 0) <= nightMin.Data.Get(0, 0, 0) {
		t.Errorf("day maximum %g should exceed night minimum %g",
			dayMax.Data.Get(0, 0, 0), nightMin.Data.Get(0, 0, 0))
	}
	// The day maximum is the largest value among the day hours.
	wantMax := math.Inf(-1)
	for k, tm := range s.Time {
		if tm.Hour() >= 6 && tm.Hour() <= 21 {
			wantMax = math.Max(wantMax, s.Data.Elements[k])
		}
	}
	if different(dayMax.Data.Get(0, 0, 0), wantMax, testTolerance) {
		t.Errorf("day maximum = %g, want %g", dayMax.Data.Get(0, 0, 0), wantMax)
	}
}

func TestExceedanceIndicator(t *testing.T) {
	times := dailyTimes(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 3)
	s := gridSeries(t, times, []float64{5, 1, math.NaN()})

	thresholds := sparse.ZerosDense(maxDayOfYear, 1, 1)
	for d := 0; d < maxDayOfYear; d++ {
		thresholds.Set(3, d, 0, 0)
	}

	above := exceedanceIndicator(s, thresholds, true)
	wantAbove := []float64{1, 0, math.NaN()}
	for k, w := range wantAbove {
		if different(above.Data.Get(k, 0, 0), w, 1e-8) {
			t.Errorf("above indicator at %d = %g, want %g", k, above.Data.Get(k, 0, 0), w)
		}
	}

	below := exceedanceIndicator(s, thresholds, false)
	wantBelow := []float64{0, 1, math.NaN()}
	for k, w := range wantBelow {
		if different(below.Data.Get(k, 0, 0), w, 1e-8) {
			t.Errorf("below indicator at %d = %g, want %g", k, below.Data.Get(k, 0, 0), w)
		}
	}

	// Exact threshold hits count as no exceedance in either direction.
	s2 := gridSeries(t, times[:1], []float64{3})
	if v := exceedanceIndicator(s2, thresholds, true).Data.Get(0, 0, 0); v != 0 {
		t.Errorf("value equal to threshold counted as exceedance: %g", v)
	}

	// Missing thresholds propagate.
	thresholds.Set(math.NaN(), 0, 0, 0)
	if v := exceedanceIndicator(s2, thresholds, true).Data.Get(0, 0, 0); !math.IsNaN(v) {
		t.Errorf("missing threshold produced %g, want NaN", v)
	}
}

func TestTemperatureConstantInput(t *testing.T) {
	// A constant temperature never strictly crosses its own percentile
	// thresholds, so both frequencies are zero.
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeries(t, start, 120, 6, func(time.Time) float64 { return 280 })
	temp := newTestTemperature(t, s)
	reference := mustPeriod(t, "2000-01-01", "2000-03-31")

	t90, err := temp.T90(reference)
	if err != nil {
		t.Fatal(err)
	}
	t10, err := temp.T10(reference)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []*Series{t90, t10} {
		if len(s.Time) != 4 {
			t.Fatalf("monthly frequency has %d records, want 4", len(s.Time))
		}
		for k, tm := range s.Time {
			got := s.Data.Get(k, 0, 0)
			if reference.Contains(tm) {
				if got != 0 {
					t.Errorf("frequency at %v = %g, want 0", tm, got)
				}
			} else if !math.IsNaN(got) {
				// Days of year absent from the reference have no
				// threshold, so the frequency is missing.
				t.Errorf("frequency outside reference at %v = %g, want NaN", tm, got)
			}
			if tm.AddDate(0, 0, 1).Day() != 1 {
				t.Errorf("label %v is not a month end", tm)
			}
		}
	}
}

func TestT90Range(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	// A seasonal cycle with a linear warming trend.
	s := hourlySeries(t, start, 365, 6, func(tm time.Time) float64 {
		doy := float64(tm.YearDay())
		return 280 - 12*math.Cos(2*math.Pi*doy/365) + 0.01*doy +
			3*math.Sin(2*math.Pi*float64(tm.Hour())/24)
	})
	temp := newTestTemperature(t, s)
	t90, err := temp.T90(mustPeriod(t, "2000-01-01", "2000-12-31"))
	if err != nil {
		t.Fatal(err)
	}
	for k, tm := range t90.Time {
		v := t90.Data.Get(k, 0, 0)
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 1 {
			t.Errorf("frequency at %v = %g, outside [0, 1]", tm, v)
		}
	}
}

func TestAverageSeriesMismatch(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	a := gridSeries(t, dailyTimes(start, 3), []float64{1, 2, 3})
	b := gridSeries(t, dailyTimes(start, 2), []float64{1, 2})
	if _, err := averageSeries(a, b); err == nil {
		t.Error("expected error for differing series lengths")
	}
	c := gridSeries(t, dailyTimes(start.AddDate(0, 0, 1), 3), []float64{1, 2, 3})
	if _, err := averageSeries(a, c); err == nil {
		t.Error("expected error for differing time indexes")
	}
}
