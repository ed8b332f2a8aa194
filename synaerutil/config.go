/*
Copyright © 2024 the SYNAER authors.
This file is part of SYNAER.

SYNAER is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SYNAER is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SYNAER.  If not, see <http://www.gnu.org/licenses/>.
*/

package synaerutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/science/glint"
	"github.com/spatialmodel/synaer/science/land"
	"github.com/spatialmodel/synaer/science/ocean"
	"github.com/spf13/cast"
)

// expandStringSlice expands the environment variables in every element
// of s.
func expandStringSlice(s []string) []string {
	o := make([]string, len(s))
	for i, v := range s {
		o[i] = os.ExpandEnv(v)
	}
	return o
}

// checkInputFile makes sure that the input file is specified and exists,
// and expands any environment variables.
func checkInputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an input file configuration variable (for example: InputFile="pixels.msgpack")`)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("synaer: the InputFile doesn't exist: %v", err)
	}
	return f, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="results.msgpack")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("synaer: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}

// floats returns the configuration variable varName as a slice of
// numbers, accounting for the fact that it may have been set as a list
// of strings from the command line, as a list in a configuration file,
// or as a comma-separated environment variable.
func floats(cfg *viper.Viper, varName string) ([]float64, error) {
	var s []interface{}
	switch v := cfg.Get(varName).(type) {
	case nil:
		return nil, nil
	case []float64:
		return append([]float64(nil), v...), nil
	case []interface{}:
		s = v
	case []string:
		for _, e := range v {
			s = append(s, e)
		}
	case string:
		v = strings.Trim(strings.TrimSpace(v), "[]")
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				s = append(s, e)
			}
		}
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("synaer: reading '%s': %v", varName, err)
		}
		return []float64{f}, nil
	}
	o := make([]float64, len(s))
	for i, e := range s {
		if str, ok := e.(string); ok {
			e = strings.TrimSpace(str)
		}
		f, err := cast.ToFloat64E(e)
		if err != nil {
			return nil, fmt.Errorf("synaer: reading '%s': %v", varName, err)
		}
		o[i] = f
	}
	return o, nil
}

// ints returns the configuration variable varName as a slice of
// integers.
func ints(cfg *viper.Viper, varName string) ([]int, error) {
	o, err := toIntSliceE(cfg.Get(varName))
	if err != nil {
		return nil, fmt.Errorf("synaer: reading '%s': %v", varName, err)
	}
	return o, nil
}

func toIntSliceE(s interface{}) ([]int, error) {
	switch v := s.(type) {
	case []int:
		return v, nil
	case []interface{}:
		o := make([]int, len(v))
		for i, val := range v {
			n, err := cast.ToIntE(val)
			if err != nil {
				return nil, err
			}
			o[i] = n
		}
		return o, nil
	case string:
		var o []int
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, err
		}
		return o, nil
	}
	return cast.ToIntSliceE(s)
}

// viewAngles reads the solar zenith, view zenith and relative azimuth
// angles held in the configuration variable varName.
func viewAngles(cfg *viper.Viper, varName string) (synaer.ViewAngles, error) {
	a, err := floats(cfg, varName)
	if err != nil {
		return synaer.ViewAngles{}, err
	}
	if len(a) != 3 {
		return synaer.ViewAngles{}, fmt.Errorf("synaer: %s needs 3 angles but has %d", varName, len(a))
	}
	v := synaer.ViewAngles{SZA: a[0], VZA: a[1], RAZ: a[2]}
	if !v.Valid() {
		return v, fmt.Errorf("synaer: %s angles %v are not a valid sunlit geometry", varName, a)
	}
	return v, nil
}

// LandConfig creates a land retrieval configuration from cfg.
func LandConfig(cfg *viper.Viper) (land.Config, error) {
	c := land.DefaultConfig()
	c.AOTMin = cfg.GetFloat64("Land.AOTMin")
	c.AOTMax = cfg.GetFloat64("Land.AOTMax")
	c.AngularWeight = cfg.GetFloat64("Land.AngularWeight")
	c.SpectralTolerance = cfg.GetFloat64("Land.SpectralTolerance")
	c.AngularTolerance = cfg.GetFloat64("Land.AngularTolerance")
	c.ViewScaleMin = cfg.GetFloat64("Land.ViewScaleMin")
	c.ViewScaleMax = cfg.GetFloat64("Land.ViewScaleMax")
	c.MaxIter = cfg.GetInt("Land.MaxIter")
	c.AOTTolerance = cfg.GetFloat64("Land.AOTTolerance")
	c.OvercorrectionThreshold = cfg.GetFloat64("Land.OvercorrectionThreshold")
	c.Gamma = cfg.GetFloat64("Land.Gamma")
	c.EmitSurface = cfg.GetBool("EmitSurface")

	var err error
	if c.DualViewWavelengths, err = floats(cfg, "Land.DualViewWavelengths"); err != nil {
		return c, err
	}
	if c.LandWeights, err = floats(cfg, "Land.LandWeights"); err != nil {
		return c, err
	}
	if c.DualViewWeights, err = floats(cfg, "Land.DualViewWeights"); err != nil {
		return c, err
	}
	if len(c.LandWeights) == 0 {
		c.LandWeights = nil
	}
	if len(c.DualViewWeights) == 0 {
		c.DualViewWeights = nil
	}
	if !(c.AOTMax > c.AOTMin) {
		return c, fmt.Errorf("synaer: Land.AOTMax (%g) must be greater than Land.AOTMin (%g)", c.AOTMax, c.AOTMin)
	}
	if c.AngularWeight < 0 || c.AngularWeight > 1 {
		return c, fmt.Errorf("synaer: Land.AngularWeight must be between 0 and 1 but is %g", c.AngularWeight)
	}
	if c.MaxIter < 1 {
		return c, fmt.Errorf("synaer: Land.MaxIter must be positive but is %d", c.MaxIter)
	}
	return c, nil
}

// OceanConfig creates an ocean retrieval configuration from cfg.
func OceanConfig(cfg *viper.Viper) (ocean.Config, error) {
	c := ocean.DefaultConfig()
	c.FineAOTPoints = cfg.GetInt("Ocean.FineAOTPoints")
	c.AngstromPoints = cfg.GetInt("Ocean.AngstromPoints")
	c.ResidualFloor = cfg.GetFloat64("Ocean.ResidualFloor")
	c.GlintBand = cfg.GetInt("Ocean.GlintBand")
	c.RefractiveIndex = cfg.GetFloat64("Glint.RefractiveIndex")
	c.MinWind = cfg.GetFloat64("Glint.MinWind")
	c.MaxWind = cfg.GetFloat64("Glint.MaxWind")
	c.WindStep = cfg.GetFloat64("Glint.WindStep")
	c.EmitGlintDiagnostics = cfg.GetBool("EmitGlintDiagnostics")

	var err error
	if c.Wavelengths, err = floats(cfg, "Ocean.Wavelengths"); err != nil {
		return c, err
	}
	if c.Weights, err = floats(cfg, "Ocean.Weights"); err != nil {
		return c, err
	}
	if len(c.Weights) != len(c.Wavelengths) {
		return c, fmt.Errorf("synaer: Ocean.Weights has %d values but Ocean.Wavelengths has %d",
			len(c.Weights), len(c.Wavelengths))
	}
	if c.GlintBand < 0 || c.GlintBand >= len(c.Wavelengths) {
		return c, fmt.Errorf("synaer: Ocean.GlintBand %d is not one of the %d ocean bands",
			c.GlintBand, len(c.Wavelengths))
	}
	if c.FineAOTPoints < 3 || c.AngstromPoints < 3 {
		return c, fmt.Errorf("synaer: the ocean cost grid needs at least 3 points per axis but has %dx%d",
			c.FineAOTPoints, c.AngstromPoints)
	}
	if !(c.MaxWind > c.MinWind) || !(c.WindStep > 0) {
		return c, fmt.Errorf("synaer: invalid glint windspeed grid %g..%g step %g", c.MinWind, c.MaxWind, c.WindStep)
	}
	return c, nil
}

// inverter creates a glint windspeed inverter from cfg.
func inverter(cfg *viper.Viper) (*glint.Inverter, error) {
	min, max, step := cfg.GetFloat64("Glint.MinWind"), cfg.GetFloat64("Glint.MaxWind"), cfg.GetFloat64("Glint.WindStep")
	if !(max > min) || !(step > 0) {
		return nil, fmt.Errorf("synaer: invalid glint windspeed grid %g..%g step %g", min, max, step)
	}
	return glint.NewInverter(cfg.GetFloat64("Glint.RefractiveIndex"), min, max, step), nil
}

// gaussianTable reads the Gaussian glint table named by GlintLUT, or
// computes one if GlintLUT is not set.
func gaussianTable(cfg *viper.Viper) (*glint.GaussianTable, error) {
	if f := os.ExpandEnv(cfg.GetString("GlintLUT")); f != "" {
		g, err := glint.ReadGaussianTableFile(f)
		if err != nil {
			return nil, fmt.Errorf("synaer: reading GlintLUT: %v", err)
		}
		return g, nil
	}
	return glint.DefaultGaussianTable(cfg.GetFloat64("Glint.MaxWind"))
}

// ReadSpectra reads reference surface spectra from a TOML file of the
// form
//
//	wavelengths = [470.0, 550.0, 660.0, 860.0]
//	vegetation = [0.05, 0.09, 0.40, 0.25]
//	soil = [0.12, 0.18, 0.26, 0.33]
func ReadSpectra(path string) (synaer.Spectra, error) {
	var s synaer.Spectra
	if _, err := toml.DecodeFile(os.ExpandEnv(path), &s); err != nil {
		return s, fmt.Errorf("synaer: reading spectra file: %v", err)
	}
	if len(s.Vegetation) == 0 || len(s.Vegetation) != len(s.Soil) {
		return s, fmt.Errorf("synaer: spectra file %s has %d vegetation and %d soil values",
			path, len(s.Vegetation), len(s.Soil))
	}
	if len(s.Wavelengths) != 0 && len(s.Wavelengths) != len(s.Vegetation) {
		return s, fmt.Errorf("synaer: spectra file %s has %d wavelengths for %d channels",
			path, len(s.Wavelengths), len(s.Vegetation))
	}
	return s, nil
}
