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

// Package aciutil holds the command-line interface and configuration
// handling for the ACI engine.
package aciutil

import (
	"fmt"
	"os"

	"github.com/climatemodel/aci"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the version of this ACI release.
const Version = "1.0.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ACI.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TemperatureData",
			usage: `
              TemperatureData is the path to the NetCDF file holding the
              sub-daily 2-meter temperature variable t2m.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PrecipitationData",
			usage: `
              PrecipitationData is the path to the NetCDF file holding the
              sub-daily total precipitation variable tp.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "WindU10Data",
			usage: `
              WindU10Data is the path to the NetCDF file holding the
              10-meter wind u-component variable u10.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "WindV10Data",
			usage: `
              WindV10Data is the path to the NetCDF file holding the
              10-meter wind v-component variable v10.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MaskData",
			usage: `
              MaskData is the path to the NetCDF file holding the fractional
              country coverage variable.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SeaLevelDir",
			usage: `
              SeaLevelDir is the directory holding per-station tide gauge
              files for the country of interest.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Country",
			usage: `
              Country is the abbreviation used to select sea level stations.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StudyStart",
			usage: `
              StudyStart is the first day of the study period (YYYY-MM-DD).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StudyEnd",
			usage: `
              StudyEnd is the last day of the study period (YYYY-MM-DD).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ReferenceStart",
			usage: `
              ReferenceStart is the first day of the reference period
              (YYYY-MM-DD) defining the climatological baseline.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ReferenceEnd",
			usage: `
              ReferenceEnd is the last day of the reference period
              (YYYY-MM-DD).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ErosionFactor",
			usage: `
              ErosionFactor scales the sea level contribution to the
              composite index.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MaskThreshold",
			usage: `
              MaskThreshold is the minimum coverage fraction for a grid cell
              to be retained.`,
			defaultVal: aci.DefaultMaskThreshold,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "RollingWindow",
			usage: `
              RollingWindow is the precipitation accumulation window in days.`,
			defaultVal: aci.DefaultRollingWindow,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Strategy",
			usage: `
              Strategy selects the hazard scheduling: 'sequential' or
              'parallel'.`,
			defaultVal: "parallel",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the composite table is written
              as CSV.`,
			shorthand:  "o",
			defaultVal: "aci.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ACI")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("aci: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "aci",
	Short: "Compute the Actuaries Climate Index.",
	Long: `ACI computes the Actuaries Climate Index: a monthly composite of five
standardized climate hazard signals (temperature extremes, heavy
precipitation, drought duration, wind power exceedance, and sea level)
derived from gridded reanalysis data and tide gauge records.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'ACI_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ACI.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ACI v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the composite index.",
	Long: `run loads the gridded and tide gauge inputs, computes the five hazard
metrics, standardizes each against the reference period, and writes the
monthly composite table to OutputFile as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logrus.StandardLogger()
		cfg, err := IndexConfig(Cfg)
		if err != nil {
			return err
		}
		ix, err := aci.New(cfg)
		if err != nil {
			return err
		}
		ix.Log = log
		composite, err := ix.Compute()
		if err != nil {
			return err
		}
		if composite.Len() == 0 {
			log.Warn("hazard series share no months; composite table is empty")
		}
		outputFile := Cfg.GetString("OutputFile")
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("aci: creating output file: %v", err)
		}
		defer f.Close()
		if err := composite.WriteCSV(f); err != nil {
			return fmt.Errorf("aci: writing output file: %v", err)
		}
		log.WithFields(logrus.Fields{
			"file": outputFile,
			"rows": composite.Len(),
		}).Info("wrote composite table")
		return nil
	},
	DisableAutoGenTag: true,
}
