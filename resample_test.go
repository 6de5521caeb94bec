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
)

func TestAggFunc(t *testing.T) {
	for _, agg := range []string{"min", "max", "mean", "sum"} {
		if _, err := aggFunc(agg); err != nil {
			t.Errorf("aggFunc(%q): %v", agg, err)
		}
	}
	if _, err := aggFunc("median"); err == nil {
		t.Error("expected error for unknown aggregation")
	}
}

func TestResampleDaily(t *testing.T) {
	const testTolerance = 1.e-8
	times := []time.Time{
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2000, 1, 2, 6, 0, 0, 0, time.UTC),
	}
	s := gridSeries(t, times, []float64{1, 3, 5})
	got, err := s.ResampleDaily("mean")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Time) != 2 {
		t.Fatalf("daily series has %d records, want 2", len(got.Time))
	}
	if !got.Time[0].Equal(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first label = %v, want 2000-01-01", got.Time[0])
	}
	if different(got.Data.Get(0, 0, 0), 2, testTolerance) {
		t.Errorf("day 1 mean = %g, want 2", got.Data.Get(0, 0, 0))
	}
	if different(got.Data.Get(1, 0, 0), 5, testTolerance) {
		t.Errorf("day 2 mean = %g, want 5", got.Data.Get(1, 0, 0))
	}
}

func TestResampleMonthlyLabels(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s := gridSeries(t, dailyTimes(start, 60), make([]float64, 60))
	got, err := s.ResampleMonthly("mean")
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		time.Date(2000, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	if len(got.Time) != len(want) {
		t.Fatalf("monthly series has %d records, want %d", len(got.Time), len(want))
	}
	for i := range want {
		if !got.Time[i].Equal(want[i]) {
			t.Errorf("label %d = %v, want %v", i, got.Time[i], want[i])
		}
	}
}

func TestResampleQuarterlyDecLabels(t *testing.T) {
	// Monthly records from December 2000 through November 2001.
	var times []time.Time
	for i := 0; i < 12; i++ {
		times = append(times, time.Date(2000, time.December, 15, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0))
	}
	s := gridSeries(t, times, make([]float64, 12))
	got, err := s.ResampleQuarterlyDec("mean")
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		time.Date(2000, time.December, 1, 0, 0, 0, 0, time.UTC), // Dec, Jan, Feb
		time.Date(2001, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2001, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2001, time.September, 1, 0, 0, 0, 0, time.UTC),
	}
	if len(got.Time) != len(want) {
		t.Fatalf("seasonal series has %d records, want %d", len(got.Time), len(want))
	}
	for i := range want {
		if !got.Time[i].Equal(want[i]) {
			t.Errorf("label %d = %v, want %v", i, got.Time[i], want[i])
		}
	}
}

func TestRollingSumStrict(t *testing.T) {
	const testTolerance = 1.e-8
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s := gridSeries(t, dailyTimes(start, 6), []float64{1, 2, 3, 4, 5, 6})
	got, err := s.RollingSum(5, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN(), 15, 20}
	for k, w := range want {
		if different(got.Data.Get(k, 0, 0), w, testTolerance) {
			t.Errorf("rolling sum at %d = %g, want %g", k, got.Data.Get(k, 0, 0), w)
		}
	}
}

func TestRollingSumMinValid(t *testing.T) {
	const testTolerance = 1.e-8
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	vals := []float64{1, 2, math.NaN(), 4, 5, 6}
	s := gridSeries(t, dailyTimes(start, 6), vals)

	// Strict: any window containing the gap is missing.
	strict, err := s.RollingSum(5, 0)
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < 6; k++ {
		if !math.IsNaN(strict.Data.Get(k, 0, 0)) {
			t.Errorf("strict rolling sum at %d = %g, want NaN", k, strict.Data.Get(k, 0, 0))
		}
	}

	// Relaxed: the gap is skipped when enough values remain.
	relaxed, err := s.RollingSum(5, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{math.NaN(), math.NaN(), math.NaN(), 7, 12, 17}
	for k, w := range want {
		if different(relaxed.Data.Get(k, 0, 0), w, testTolerance) {
			t.Errorf("relaxed rolling sum at %d = %g, want %g", k, relaxed.Data.Get(k, 0, 0), w)
		}
	}

	if _, err := s.RollingSum(0, 0); err == nil {
		t.Error("expected error for non-positive window")
	}
}

func TestRollingPercentileCentered(t *testing.T) {
	const testTolerance = 1.e-8
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s := gridSeries(t, dailyTimes(start, 4), []float64{1, 2, 3, 4})
	got := s.rollingPercentileCentered(50, 3)
	// Edge windows are truncated rather than dropped.
	want := []float64{1.5, 2, 3, 3.5}
	for k, w := range want {
		if different(got.Data.Get(k, 0, 0), w, testTolerance) {
			t.Errorf("rolling median at %d = %g, want %g", k, got.Data.Get(k, 0, 0), w)
		}
	}
}

func TestGroupDayOfYear(t *testing.T) {
	const testTolerance = 1.e-8
	times := []time.Time{
		time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC), // day of year 61 (leap)
		time.Date(2001, 3, 2, 0, 0, 0, 0, time.UTC), // day of year 61
		time.Date(2001, 3, 3, 0, 0, 0, 0, time.UTC), // day of year 62
	}
	s := gridSeries(t, times, []float64{10, 20, 30})
	got := s.groupDayOfYear(nanMean)
	if got.Shape[0] != maxDayOfYear {
		t.Fatalf("day-of-year field has %d slots, want %d", got.Shape[0], maxDayOfYear)
	}
	if different(got.Get(60, 0, 0), 15, testTolerance) {
		t.Errorf("day 61 mean = %g, want 15", got.Get(60, 0, 0))
	}
	if different(got.Get(61, 0, 0), 30, testTolerance) {
		t.Errorf("day 62 mean = %g, want 30", got.Get(61, 0, 0))
	}
	if !math.IsNaN(got.Get(0, 0, 0)) {
		t.Errorf("unobserved day of year = %g, want NaN", got.Get(0, 0, 0))
	}
}
