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

// DefaultRollingWindow is the accumulation window, in days, for the
// maximum-precipitation metric (Rx5day).
const DefaultRollingWindow = 5

// RollingConfig sets the accumulation window for the precipitation
// metric and its edge policy. With MinValid ≤ 0 a window must be
// entirely valid to produce a sum (the strict default); a positive
// MinValid permits partial sums over at least that many valid days.
type RollingConfig struct {
	Window   int
	MinValid int
}

// Precipitation computes the maximum rolling N-day accumulated
// precipitation per month or season.
type Precipitation struct {
	precip *Series // masked sub-daily precipitation
	cfg    RollingConfig
}

// NewPrecipitation masks the precipitation input.
func NewPrecipitation(tp *Series, mask *Mask, maskThreshold float64, cfg RollingConfig) (*Precipitation, error) {
	if cfg.Window == 0 {
		cfg.Window = DefaultRollingWindow
	}
	masked, err := mask.Apply(tp, maskThreshold)
	if err != nil {
		return nil, err
	}
	return &Precipitation{precip: masked, cfg: cfg}, nil
}

// RollingSum is the trailing accumulation of daily precipitation totals
// over the configured window.
func (p *Precipitation) RollingSum() (*Series, error) {
	daily, err := p.precip.ResampleDaily("sum")
	if err != nil {
		return nil, err
	}
	return daily.RollingSum(p.cfg.Window, p.cfg.MinValid)
}

// MonthlyMax is the maximum of the rolling accumulation in each month.
func (p *Precipitation) MonthlyMax() (*Series, error) {
	rolling, err := p.RollingSum()
	if err != nil {
		return nil, err
	}
	return rolling.ResampleMonthly("max")
}

// SeasonalMax is the maximum of the rolling accumulation in each
// December-starting quarter.
func (p *Precipitation) SeasonalMax() (*Series, error) {
	rolling, err := p.RollingSum()
	if err != nil {
		return nil, err
	}
	return rolling.ResampleQuarterlyDec("max")
}

// Std is the monthly maximum standardized against the reference period.
func (p *Precipitation) Std(cfg StandardizeConfig) (*Series, error) {
	monthly, err := p.MonthlyMax()
	if err != nil {
		return nil, err
	}
	return Standardize(monthly, cfg)
}

// StdSeasonal is the seasonal maximum standardized against the
// reference period.
func (p *Precipitation) StdSeasonal(cfg StandardizeConfig) (*Series, error) {
	seasonal, err := p.SeasonalMax()
	if err != nil {
		return nil, err
	}
	return Standardize(seasonal, cfg)
}
