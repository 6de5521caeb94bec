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
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/gonum/floats"
	"github.com/sirupsen/logrus"
)

// ExecutionStrategy selects how the five hazard metrics are scheduled.
// They share no mutable state, so this is a performance policy, not a
// correctness requirement; the composite join is deterministic either
// way.
type ExecutionStrategy int

const (
	// Sequential computes the hazards one after another.
	Sequential ExecutionStrategy = iota
	// Parallel computes the hazards concurrently.
	Parallel
)

// Config is the constructor surface of the engine.
type Config struct {
	// NetCDF input locations.
	TemperatureData   string
	PrecipitationData string
	WindU10Data       string
	WindV10Data       string
	MaskData          string

	// SeaLevelDir holds per-station tide gauge files. When Country is
	// set, the files are read from that subdirectory instead.
	SeaLevelDir string
	Country     string

	Study     Period
	Reference Period

	// ErosionFactor scales the sea-level contribution to the
	// composite. Zero means the default of 1.
	ErosionFactor float64
	// MaskThreshold is the minimum coverage fraction for a cell to be
	// retained. Zero means the default of 0.8.
	MaskThreshold float64

	Rolling     RollingConfig
	Temperature TemperatureConfig
	Strategy    ExecutionStrategy
}

// Index computes the Actuaries Climate Index from its five hazard
// components.
type Index struct {
	Temperature   *Temperature
	Precipitation *Precipitation
	Drought       *Drought
	Wind          *Wind
	SeaLevel      *SeaLevel

	cfg Config
	Log logrus.FieldLogger
}

// New loads the gridded inputs and the mask from the locations in cfg
// and constructs the engine.
func New(cfg Config) (*Index, error) {
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	mask, err := LoadMask(cfg.MaskData)
	if err != nil {
		return nil, err
	}
	t2m, err := LoadGrid(cfg.TemperatureData, "t2m")
	if err != nil {
		return nil, err
	}
	tp, err := LoadGrid(cfg.PrecipitationData, "tp")
	if err != nil {
		return nil, err
	}
	u10, err := LoadGrid(cfg.WindU10Data, "u10")
	if err != nil {
		return nil, err
	}
	v10, err := LoadGrid(cfg.WindV10Data, "v10")
	if err != nil {
		return nil, err
	}
	seaDir := cfg.SeaLevelDir
	if cfg.Country != "" {
		seaDir = filepath.Join(seaDir, cfg.Country)
	}
	sea, err := LoadSeaLevel(seaDir, cfg.Study, cfg.Reference)
	if err != nil {
		return nil, err
	}
	return NewFromData(t2m, tp, u10, v10, mask, sea, cfg)
}

// NewFromData constructs the engine from in-memory inputs.
func NewFromData(t2m, tp, u10, v10 *Series, mask *Mask, sea *SeaLevel, cfg Config) (*Index, error) {
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	temp, err := NewTemperature(t2m, mask, cfg.MaskThreshold, cfg.Temperature)
	if err != nil {
		return nil, err
	}
	precip, err := NewPrecipitation(tp, mask, cfg.MaskThreshold, cfg.Rolling)
	if err != nil {
		return nil, err
	}
	drought, err := NewDrought(tp, mask, cfg.MaskThreshold)
	if err != nil {
		return nil, err
	}
	wind, err := NewWind(u10, v10, mask, cfg.MaskThreshold)
	if err != nil {
		return nil, err
	}
	return &Index{
		Temperature:   temp,
		Precipitation: precip,
		Drought:       drought,
		Wind:          wind,
		SeaLevel:      sea,
		cfg:           cfg,
		Log:           logrus.StandardLogger(),
	}, nil
}

func validate(cfg *Config) error {
	if cfg.ErosionFactor == 0 {
		cfg.ErosionFactor = 1
	}
	if cfg.MaskThreshold == 0 {
		cfg.MaskThreshold = DefaultMaskThreshold
	}
	if cfg.Study.Start.IsZero() || cfg.Reference.Start.IsZero() {
		return ConfigurationError{Msg: "study and reference periods are required"}
	}
	if !cfg.Reference.Overlaps(cfg.Study) {
		return ConfigurationError{Msg: "reference period must overlap the study period"}
	}
	return nil
}

// Compute runs the five hazard metrics, standardizes and area-averages
// each, and assembles the composite. With the Parallel strategy the
// hazards run concurrently; the join result does not depend on
// completion order.
func (ix *Index) Compute() (*Composite, error) {
	zcfg := StandardizeConfig{Reference: ix.cfg.Reference, AreaAverage: true}

	var t90, t10, precip, drought, wind, sea *TimeSeries
	area := func(f func(StandardizeConfig) (*Series, error), dst **TimeSeries, name string) func() error {
		return func() error {
			s, err := f(zcfg)
			if err != nil {
				return err
			}
			ts, err := s.TimeSeries()
			if err != nil {
				return err
			}
			ix.Log.WithFields(logrus.Fields{
				"hazard": name,
				"months": len(ts.Time),
			}).Info("standardized hazard metric")
			*dst = ts
			return nil
		}
	}
	tasks := []func() error{
		area(ix.Temperature.StdT90, &t90, "t90"),
		area(ix.Temperature.StdT10, &t10, "t10"),
		area(ix.Precipitation.Std, &precip, "precipitation"),
		area(ix.Drought.Std, &drought, "drought"),
		area(ix.Wind.Std, &wind, "wind"),
		func() error {
			ts, err := ix.SeaLevel.Process()
			if err != nil {
				return err
			}
			ix.Log.WithFields(logrus.Fields{
				"hazard": "sealevel",
				"months": len(ts.Time),
			}).Info("standardized hazard metric")
			sea = ts
			return nil
		},
	}

	if ix.cfg.Strategy == Parallel {
		errChan := make(chan error)
		for _, task := range tasks {
			go func(f func() error) {
				errChan <- f()
			}(task)
		}
		var firstErr error
		for range tasks {
			if err := <-errChan; err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if firstErr != nil {
			return nil, firstErr
		}
	} else {
		for _, task := range tasks {
			if err := task(); err != nil {
				return nil, err
			}
		}
	}

	return Assemble(t90, t10, precip, drought, wind, sea, ix.cfg.ErosionFactor), nil
}

// Composite is the terminal artifact: one row per month with the five
// standardized hazard values and the combined index.
type Composite struct {
	Time []time.Time
	T90, T10, Precipitation,
	Drought, Wind, SeaLevel, ACI []float64
}

// Len is the number of rows.
func (c *Composite) Len() int { return len(c.Time) }

// Assemble inner-joins the six standardized series on their monthly
// time index and computes
//
//	ACI = (T90 − T10 + precipitation + drought + erosion·sealevel + wind) / 6.
//
// Months missing from any series are dropped by the join. An empty
// intersection yields an empty table, not an error; callers must check
// Len.
func Assemble(t90, t10, precip, drought, wind, sea *TimeSeries, erosion float64) *Composite {
	series := []*TimeSeries{t90, t10, precip, drought, wind, sea}
	counts := make(map[time.Time]int)
	for _, s := range series {
		for _, t := range s.Time {
			counts[t]++
		}
	}
	var index []time.Time
	for t, n := range counts {
		if n == len(series) {
			index = append(index, t)
		}
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })

	col := func(s *TimeSeries) []float64 {
		at := make(map[time.Time]float64, len(s.Time))
		for i, t := range s.Time {
			at[t] = s.Values[i]
		}
		out := make([]float64, len(index))
		for i, t := range index {
			out[i] = at[t]
		}
		return out
	}
	c := &Composite{
		Time:          index,
		T90:           col(t90),
		T10:           col(t10),
		Precipitation: col(precip),
		Drought:       col(drought),
		Wind:          col(wind),
		SeaLevel:      col(sea),
	}
	aci := make([]float64, len(index))
	floats.Add(aci, c.T90)
	floats.AddScaled(aci, -1, c.T10)
	floats.Add(aci, c.Precipitation)
	floats.Add(aci, c.Drought)
	floats.AddScaled(aci, erosion, c.SeaLevel)
	floats.Add(aci, c.Wind)
	floats.Scale(1.0/6.0, aci)
	c.ACI = aci
	return c
}

// WriteCSV writes the composite table with one row per month.
func (c *Composite) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "t90", "t10", "precipitation", "drought", "wind", "sealevel", "ACI"}); err != nil {
		return err
	}
	fmtF := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	for i, t := range c.Time {
		row := []string{
			t.Format("2006-01-02"),
			fmtF(c.T90[i]), fmtF(c.T10[i]), fmtF(c.Precipitation[i]),
			fmtF(c.Drought[i]), fmtF(c.Wind[i]), fmtF(c.SeaLevel[i]), fmtF(c.ACI[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
