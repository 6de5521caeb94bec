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

package aciutil

import (
	"fmt"
	"strings"

	"github.com/climatemodel/aci"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// IndexConfig builds an ACI configuration from the variables held in cfg.
func IndexConfig(cfg *viper.Viper) (aci.Config, error) {
	study, err := aci.NewPeriod(
		cast.ToString(cfg.Get("StudyStart")),
		cast.ToString(cfg.Get("StudyEnd")),
	)
	if err != nil {
		return aci.Config{}, fmt.Errorf("aci: study period: %v", err)
	}
	reference, err := aci.NewPeriod(
		cast.ToString(cfg.Get("ReferenceStart")),
		cast.ToString(cfg.Get("ReferenceEnd")),
	)
	if err != nil {
		return aci.Config{}, fmt.Errorf("aci: reference period: %v", err)
	}
	strategy, err := strategyFromString(cast.ToString(cfg.Get("Strategy")))
	if err != nil {
		return aci.Config{}, err
	}
	return aci.Config{
		TemperatureData:   cast.ToString(cfg.Get("TemperatureData")),
		PrecipitationData: cast.ToString(cfg.Get("PrecipitationData")),
		WindU10Data:       cast.ToString(cfg.Get("WindU10Data")),
		WindV10Data:       cast.ToString(cfg.Get("WindV10Data")),
		MaskData:          cast.ToString(cfg.Get("MaskData")),
		SeaLevelDir:       cast.ToString(cfg.Get("SeaLevelDir")),
		Country:           cast.ToString(cfg.Get("Country")),
		Study:             study,
		Reference:         reference,
		ErosionFactor:     cast.ToFloat64(cfg.Get("ErosionFactor")),
		MaskThreshold:     cast.ToFloat64(cfg.Get("MaskThreshold")),
		Rolling: aci.RollingConfig{
			Window: cast.ToInt(cfg.Get("RollingWindow")),
		},
		Strategy: strategy,
	}, nil
}

func strategyFromString(s string) (aci.ExecutionStrategy, error) {
	switch strings.ToLower(s) {
	case "", "parallel":
		return aci.Parallel, nil
	case "sequential":
		return aci.Sequential, nil
	default:
		return 0, fmt.Errorf("aci: invalid execution strategy %q; "+
			"valid options are 'sequential' and 'parallel'", s)
	}
}
