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

	"gonum.org/v1/gonum/stat"
)

// monthlySeries builds a single-cell monthly series where the value in
// month m of year index y is f(y, m).
func monthlySeries(t *testing.T, startYear, years int, f func(y, m int) float64) *Series {
	t.Helper()
	var times []time.Time
	var vals []float64
	for y := 0; y < years; y++ {
		for m := 1; m <= 12; m++ {
			times = append(times, monthEnd(startYear+y, time.Month(m)))
			vals = append(vals, f(y, m))
		}
	}
	return gridSeries(t, times, vals)
}

func TestStandardize(t *testing.T) {
	const testTolerance = 1.e-8

	// Three years of monthly values; the first two are the baseline.
	// Per calendar month the baseline holds {m, m+1}: mean m+0.5,
	// population standard deviation 0.5.
	s := monthlySeries(t, 2000, 3, func(y, m int) float64 {
		return float64(m + y)
	})
	cfg := StandardizeConfig{Reference: mustPeriod(t, "2000-01-01", "2001-12-31")}
	got, err := Standardize(s, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Time) != len(s.Time) {
		t.Fatalf("standardized series has %d records, want %d", len(got.Time), len(s.Time))
	}
	for k := range got.Time {
		var want float64
		switch k / 12 {
		case 0:
			want = -1
		case 1:
			want = 1
		case 2:
			want = 3
		}
		if different(got.Data.Get(k, 0, 0), want, testTolerance) {
			t.Errorf("z-score at %v = %g, want %g", got.Time[k], got.Data.Get(k, 0, 0), want)
		}
	}

	// The reference slice of the result has zero mean and unit
	// population standard deviation.
	ref, err := got.Slice(cfg.Reference)
	if err != nil {
		t.Fatal(err)
	}
	mean := stat.Mean(ref.Data.Elements, nil)
	std := stat.PopStdDev(ref.Data.Elements, nil)
	if different(mean, 0, testTolerance) {
		t.Errorf("reference mean = %g, want 0", mean)
	}
	if different(std, 1, testTolerance) {
		t.Errorf("reference standard deviation = %g, want 1", std)
	}
}

func TestStandardizeZeroVariance(t *testing.T) {
	s := monthlySeries(t, 2000, 3, func(y, m int) float64 { return 7 })
	got, err := Standardize(s, StandardizeConfig{Reference: mustPeriod(t, "2000-01-01", "2001-12-31")})
	if err != nil {
		t.Fatal(err)
	}
	for k := range got.Time {
		if !math.IsNaN(got.Data.Get(k, 0, 0)) {
			t.Errorf("zero-variance z-score at %v = %g, want NaN", got.Time[k], got.Data.Get(k, 0, 0))
		}
	}
}

func TestStandardizeMissingValues(t *testing.T) {
	s := monthlySeries(t, 2000, 3, func(y, m int) float64 {
		if y == 2 && m == 6 {
			return math.NaN()
		}
		return float64(m + y)
	})
	got, err := Standardize(s, StandardizeConfig{Reference: mustPeriod(t, "2000-01-01", "2001-12-31")})
	if err != nil {
		t.Fatal(err)
	}
	k := 2*12 + 5 // June of the third year
	if !math.IsNaN(got.Data.Get(k, 0, 0)) {
		t.Errorf("missing input z-score = %g, want NaN", got.Data.Get(k, 0, 0))
	}
	if math.IsNaN(got.Data.Get(k-1, 0, 0)) {
		t.Error("neighboring month should be unaffected by the gap")
	}
}

func TestStandardizeEmptyReference(t *testing.T) {
	s := monthlySeries(t, 2000, 2, func(y, m int) float64 { return float64(m) })
	_, err := Standardize(s, StandardizeConfig{Reference: mustPeriod(t, "1980-01-01", "1981-12-31")})
	if _, ok := err.(EmptyPeriodError); !ok {
		t.Errorf("expected EmptyPeriodError, got %v", err)
	}
}

func TestStandardizeAreaAverage(t *testing.T) {
	s := monthlySeries(t, 2000, 3, func(y, m int) float64 { return float64(m + y) })
	got, err := Standardize(s, StandardizeConfig{
		Reference:   mustPeriod(t, "2000-01-01", "2001-12-31"),
		AreaAverage: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Ny() != 1 || got.Nx() != 1 {
		t.Errorf("area-averaged result is %d×%d, want 1×1", got.Ny(), got.Nx())
	}
}
