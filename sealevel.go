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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// SeaLevelSentinel marks missing measurements in tide-gauge records and
// is converted to NaN before any statistic is computed.
const SeaLevelSentinel = -99999.0

// monthFractions maps the fractional part of a tide-gauge decimal-year
// date to its calendar month. Rows whose fraction matches no entry are
// dropped.
var monthFractions = map[string]time.Month{
	"0417": time.January, "125": time.February, "2083": time.March,
	"2917": time.April, "375": time.May, "4583": time.June,
	"5417": time.July, "625": time.August, "7083": time.September,
	"7917": time.October, "875": time.November, "9583": time.December,
}

// SeaLevel standardizes per-station monthly mean sea level against a
// reference period and averages across stations.
type SeaLevel struct {
	// Stations holds cleaned, date-corrected monthly series per
	// station, stamped on the first of the month.
	Stations map[string]*TimeSeries

	Study, Reference Period
}

// NewSeaLevel wraps already-loaded station series.
func NewSeaLevel(stations map[string]*TimeSeries, study, reference Period) (*SeaLevel, error) {
	if len(stations) == 0 {
		return nil, ConfigurationError{Msg: "no sea level stations loaded"}
	}
	return &SeaLevel{Stations: stations, Study: study, Reference: reference}, nil
}

// LoadSeaLevel reads every .txt station file in dir. Files are
// semicolon-delimited with columns [decimal-date, measurement, flag,
// flag]; rows with unparseable dates are dropped and sentinel
// measurements become NaN.
func LoadSeaLevel(dir string, study, reference Period) (*SeaLevel, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ConfigurationError{Msg: fmt.Sprintf("reading sea level directory: %v", err)}
	}
	stations := make(map[string]*TimeSeries)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		ts, err := loadStationFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if len(ts.Time) > 0 {
			stations[strings.TrimSuffix(e.Name(), ".txt")] = ts
		}
	}
	return NewSeaLevel(stations, study, reference)
}

func loadStationFile(path string) (*TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = ';'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("aci: reading sea level station %s: %v", path, err)
	}
	byTime := make(map[time.Time]float64)
	var times []time.Time
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		t, ok := parseDecimalDate(strings.TrimSpace(rec[0]))
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			continue
		}
		if v == SeaLevelSentinel {
			v = math.NaN()
		}
		if _, seen := byTime[t]; !seen {
			times = append(times, t)
		}
		byTime[t] = v
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	ts := &TimeSeries{Time: times, Values: make([]float64, len(times))}
	for i, t := range times {
		ts.Values[i] = byTime[t]
	}
	return ts, nil
}

// parseDecimalDate converts a decimal-year date such as "1960.0417" to
// the first of the encoded month. The fractional digits select the
// month via a fixed 12-entry table; trailing zeros are insignificant.
func parseDecimalDate(field string) (time.Time, bool) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return time.Time{}, false
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return time.Time{}, false
	}
	frac := s[dot+1:]
	if len(frac) > 4 {
		frac = frac[:4]
	}
	month, ok := monthFractions[frac]
	if !ok {
		return time.Time{}, false
	}
	year := int(v)
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

// monthIndex is the sorted union of the station time stamps.
func (sl *SeaLevel) monthIndex() []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, ts := range sl.Stations {
		for _, t := range ts.Time {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// stationMatrix arranges the stations as columns over the common month
// index, NaN where a station has no record.
func (sl *SeaLevel) stationMatrix(index []time.Time) [][]float64 {
	names := make([]string, 0, len(sl.Stations))
	for n := range sl.Stations {
		names = append(names, n)
	}
	sort.Strings(names)
	cols := make([][]float64, len(names))
	for c, n := range names {
		ts := sl.Stations[n]
		at := make(map[time.Time]float64, len(ts.Time))
		for i, t := range ts.Time {
			at[t] = ts.Values[i]
		}
		col := make([]float64, len(index))
		for i, t := range index {
			if v, ok := at[t]; ok {
				col[i] = v
			} else {
				col[i] = math.NaN()
			}
		}
		cols[c] = col
	}
	return cols
}

// inPeriod reproduces the half-open [start, end) slicing the tide-gauge
// processing has always used over its month-start stamps.
func inPeriod(t time.Time, p Period) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Baseline computes the per-calendar-month mean and standard deviation
// of the cross-station average over the reference period. The standard
// deviation uses the sample (n−1) divisor, the convention the reference
// sea-level baselines were produced with. stats must be "means" or
// "std".
func (sl *SeaLevel) Baseline(stats string) (map[time.Month]float64, error) {
	if stats != "means" && stats != "std" {
		return nil, fmt.Errorf("aci: stats in wrong format: should be 'means' or 'std', got %q", stats)
	}
	index := sl.monthIndex()
	cols := sl.stationMatrix(index)
	byMonth := make(map[time.Month][]float64)
	row := make([]float64, len(cols))
	for i, t := range index {
		if !inPeriod(t, sl.Reference) {
			continue
		}
		for c := range cols {
			row[c] = cols[c][i]
		}
		byMonth[t.Month()] = append(byMonth[t.Month()], nanMean(row))
	}
	out := make(map[time.Month]float64, 12)
	for m := time.January; m <= time.December; m++ {
		vals := validValues(byMonth[m])
		switch {
		case len(vals) == 0:
			out[m] = math.NaN()
		case stats == "means":
			out[m] = stat.Mean(vals, nil)
		case len(vals) < 2:
			out[m] = math.NaN()
		default:
			out[m] = stat.StdDev(vals, nil)
		}
	}
	return out, nil
}

func validValues(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Process cleans, standardizes, and averages the station records: every
// study-period station value is z-scored against its calendar month's
// reference baseline, then the stations are averaged. The result is
// stamped on month ends to align with the gridded hazard outputs.
func (sl *SeaLevel) Process() (*TimeSeries, error) {
	means, err := sl.Baseline("means")
	if err != nil {
		return nil, err
	}
	stds, err := sl.Baseline("std")
	if err != nil {
		return nil, err
	}
	index := sl.monthIndex()
	cols := sl.stationMatrix(index)

	var outTimes []time.Time
	var outVals []float64
	row := make([]float64, len(cols))
	for i, t := range index {
		if !inPeriod(t, sl.Study) {
			continue
		}
		m, s := means[t.Month()], stds[t.Month()]
		for c := range cols {
			v := cols[c][i]
			if math.IsNaN(v) || math.IsNaN(m) || math.IsNaN(s) || s == 0 {
				row[c] = math.NaN()
			} else {
				row[c] = (v - m) / s
			}
		}
		outTimes = append(outTimes, monthEnd(t.Year(), t.Month()))
		outVals = append(outVals, nanMean(row))
	}
	if len(outTimes) == 0 {
		return nil, EmptyPeriodError{Period: sl.Study}
	}
	return &TimeSeries{Time: outTimes, Values: outVals}, nil
}
