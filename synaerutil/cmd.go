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
	"context"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/lut"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to SYNAER.
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
			name: "LUTDir",
			usage: `
              LUTDir is the path template of the aerosol model lookup table
              files. "[model]" is replaced by the model identifier.`,
			defaultVal: "${SYNAER_DATA}/lut/model_[model].nc",
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Catalogue",
			usage: `
              Catalogue is an optional TOML file listing the available
              aerosol models. If it is set, it is used instead of LUTDir.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize is the number of aerosol models kept in memory.`,
			defaultVal: 4,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "LandModel",
			usage: `
              LandModel is the identifier of the aerosol model used over land.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "OceanModels",
			usage: `
              OceanModels holds the identifiers of the aerosol models that
              are blended over the ocean.`,
			defaultVal: []int{1, 2, 3},
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "SpectraFile",
			usage: `
              SpectraFile is the TOML file holding the vegetation and soil
              reference spectra at the land-sensor wavelengths.`,
			defaultVal: "${SYNAER_DATA}/spectra.toml",
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "GlintLUT",
			usage: `
              GlintLUT is an optional NetCDF file holding the Gaussian glint
              lookup table. If it is not set, the table is computed from the
              analytic glint model.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotGlintCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "GlintCorrection",
			usage: `
              GlintCorrection specifies whether ocean observations are
              corrected for sun glint.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the msgpack stream of pixels to retrieve.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the output file.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), lutSynthCmd.Flags(), plotGlintCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It defaults
              to the OutputFile path with the extension changed to ".log".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of logged messages: debug, info,
              warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "NumWorkers",
			usage: `
              NumWorkers is the number of pixels retrieved concurrently. Zero
              means one per processor.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "EmitSurface",
			usage: `
              EmitSurface adds the inverted surface reflectance to land results.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "EmitGlintDiagnostics",
			usage: `
              EmitGlintDiagnostics adds the retrieved windspeed, its
              candidates and the glint reflectance to ocean results.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.AOTMin",
			usage: `
              Land.AOTMin is the smallest optical thickness considered over land.`,
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.AOTMax",
			usage: `
              Land.AOTMax is the largest optical thickness considered over land.`,
			defaultVal: 2.,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.AngularWeight",
			usage: `
              Land.AngularWeight is the weight of the dual-view angular fit in
              the combined land residual. The spectral fit gets the rest.`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.SpectralTolerance",
			usage: `
              Land.SpectralTolerance is the fractional tolerance of the
              spectral mixture fit.`,
			defaultVal: 5.e-3,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.AngularTolerance",
			usage: `
              Land.AngularTolerance is the fractional tolerance of the
              angular model fit.`,
			defaultVal: 5.e-4,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.ViewScaleMin",
			usage: `
              Land.ViewScaleMin is the smallest unpenalized view factor of the
              angular model.`,
			defaultVal: 0.2,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.ViewScaleMax",
			usage: `
              Land.ViewScaleMax is the largest unpenalized view factor of the
              angular model.`,
			defaultVal: 1.5,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.MaxIter",
			usage: `
              Land.MaxIter caps the iterations of every land optimization loop.`,
			defaultVal: 200,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.AOTTolerance",
			usage: `
              Land.AOTTolerance is the absolute tolerance of the land optical
              thickness.`,
			defaultVal: 1.e-3,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.OvercorrectionThreshold",
			usage: `
              Land.OvercorrectionThreshold is the smallest plausible inverted
              surface reflectance.`,
			defaultVal: 5.e-6,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.Gamma",
			usage: `
              Land.Gamma is the scattering escape fraction of the angular
              surface model.`,
			defaultVal: 0.35,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.DualViewWavelengths",
			usage: `
              Land.DualViewWavelengths holds the centre wavelength [nm] of every
              dual-view channel.`,
			defaultVal: []string{"550", "670", "870", "1600"},
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), lutSynthCmd.Flags()},
		},
		{
			name: "Land.LandWeights",
			usage: `
              Land.LandWeights holds the weight of every land-sensor channel in
              the spectral fit. Empty means equal weights.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Land.DualViewWeights",
			usage: `
              Land.DualViewWeights holds the weight of every dual-view channel
              in the angular fit. Empty means equal weights.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags()},
		},
		{
			name: "Ocean.Wavelengths",
			usage: `
              Ocean.Wavelengths holds the centre wavelength [nm] of every
              dual-view band used over the ocean.`,
			defaultVal: []string{"550", "670", "870", "1600"},
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), lutSynthCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Ocean.Weights",
			usage: `
              Ocean.Weights holds the cost weight of every ocean band.`,
			defaultVal: []string{"1", "1", "3", "1"},
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Ocean.FineAOTPoints",
			usage: `
              Ocean.FineAOTPoints is the number of optical thickness nodes of
              the ocean cost grid.`,
			defaultVal: 201,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Ocean.AngstromPoints",
			usage: `
              Ocean.AngstromPoints is the number of Angstrom coefficient nodes
              of the ocean cost grid.`,
			defaultVal: 91,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Ocean.ResidualFloor",
			usage: `
              Ocean.ResidualFloor is the smallest residual used when
              estimating ocean retrieval uncertainties.`,
			defaultVal: 1.e-4,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Ocean.GlintBand",
			usage: `
              Ocean.GlintBand is the index of the band whose glint is inverted
              for windspeed.`,
			defaultVal: 3,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Glint.RefractiveIndex",
			usage: `
              Glint.RefractiveIndex is the refractive index of sea water.`,
			defaultVal: 1.34,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), glintCmd.Flags(), plotGlintCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Glint.MinWind",
			usage: `
              Glint.MinWind is the smallest windspeed [m/s] of the glint
              inversion.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), glintCmd.Flags(), plotGlintCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Glint.MaxWind",
			usage: `
              Glint.MaxWind is the largest windspeed [m/s] of the glint
              inversion.`,
			defaultVal: 20.,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), glintCmd.Flags(), plotGlintCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Glint.WindStep",
			usage: `
              Glint.WindStep is the windspeed step [m/s] of the glint
              inversion.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{retrieveCmd.Flags(), glintCmd.Flags(), plotGlintCmd.Flags(), plotCostCmd.Flags()},
		},
		{
			name: "Glint.Nadir",
			usage: `
              Glint.Nadir holds the solar zenith, view zenith and relative
              azimuth angles [degrees] of the nadir view.`,
			defaultVal: []string{"30", "20", "10"},
			flagsets:   []*pflag.FlagSet{glintCmd.Flags(), plotGlintCmd.Flags()},
		},
		{
			name: "Glint.Forward",
			usage: `
              Glint.Forward holds the solar zenith, view zenith and relative
              azimuth angles [degrees] of the forward view.`,
			defaultVal: []string{"30.5", "55", "170"},
			flagsets:   []*pflag.FlagSet{glintCmd.Flags(), plotGlintCmd.Flags()},
		},
		{
			name: "Glint.Reflectance",
			usage: `
              Glint.Reflectance holds the observed glint reflectance of the
              nadir and forward views.`,
			defaultVal: []string{"0.05", "0"},
			flagsets:   []*pflag.FlagSet{glintCmd.Flags()},
		},
		{
			name: "Glint.Ancillary",
			usage: `
              Glint.Ancillary is the ancillary windspeed [m/s] used to choose
              between windspeed candidates.`,
			defaultVal: 7.,
			flagsets:   []*pflag.FlagSet{glintCmd.Flags()},
		},
		{
			name: "Synth.ModelID",
			usage: `
              Synth.ModelID is the identifier of the synthetic aerosol model.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{lutSynthCmd.Flags()},
		},
		{
			name: "Synth.Angstrom",
			usage: `
              Synth.Angstrom is the Angstrom coefficient of the synthetic
              aerosol model.`,
			defaultVal: 1.,
			flagsets:   []*pflag.FlagSet{lutSynthCmd.Flags()},
		},
		{
			name: "Synth.LandWavelengths",
			usage: `
              Synth.LandWavelengths holds the centre wavelength [nm] of every
              land-sensor channel of the synthetic aerosol model.`,
			defaultVal: []string{"470", "550", "660", "860"},
			flagsets:   []*pflag.FlagSet{lutSynthCmd.Flags()},
		},
		{
			name: "Plot.Pixel",
			usage: `
              Plot.Pixel is the index of the ocean pixel in InputFile whose
              cost surface is plotted.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{plotCostCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SYNAER")

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
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
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
	Root.AddCommand(retrieveCmd)
	Root.AddCommand(glintCmd)
	Root.AddCommand(lutCmd)
	lutCmd.AddCommand(lutInfoCmd)
	lutCmd.AddCommand(lutSynthCmd)
	Root.AddCommand(plotCmd)
	plotCmd.AddCommand(plotGlintCmd)
	plotCmd.AddCommand(plotCostCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("synaer: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "synaer",
	Short: "A dual-sensor aerosol optical thickness retrieval.",
	Long: `SYNAER retrieves aerosol optical thickness from the combined
observations of a land-imaging spectrometer and a dual-view radiometer, with
separate retrieval branches for land and ocean pixels.
Use the subcommands specified below to access the retrieval functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SYNAER_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of SYNAER.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("SYNAER v%s\n", synaer.Version)
	},
	DisableAutoGenTag: true,
}

// retrieveCmd retrieves aerosol properties for a stream of pixels.
var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Retrieve aerosol properties.",
	Long: `retrieve reads the msgpack pixel stream in InputFile, retrieves
aerosol optical thickness over land and ocean, and writes one result per
pixel, in input order, to the msgpack stream OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, err := checkInputFile(Cfg.GetString("InputFile"))
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		log, closer, err := NewLogger(cmd.OutOrStdout(),
			checkLogFile(Cfg.GetString("LogFile"), outputFile), Cfg.GetString("LogLevel"))
		if err != nil {
			return err
		}
		defer closer.Close()

		s, err := NewSession(Cfg, log)
		if err != nil {
			return err
		}
		return s.RetrieveFile(context.Background(), inputFile, outputFile)
	},
	DisableAutoGenTag: true,
}

// glintCmd inverts a pair of glint observations for windspeed.
var glintCmd = &cobra.Command{
	Use:   "glint",
	Short: "Retrieve windspeed from sun glint.",
	Long: `glint retrieves the near-surface windspeed from the glint reflectance
observed in the nadir and forward views of the dual-view sensor. Every
candidate windspeed is printed, followed by the one closest to the
ancillary windspeed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		nadir, err := viewAngles(Cfg, "Glint.Nadir")
		if err != nil {
			return err
		}
		forward, err := viewAngles(Cfg, "Glint.Forward")
		if err != nil {
			return err
		}
		obs, err := floats(Cfg, "Glint.Reflectance")
		if err != nil {
			return err
		}
		if len(obs) != 2 {
			return fmt.Errorf("synaer: Glint.Reflectance needs 2 values but has %d", len(obs))
		}
		inv, err := inverter(Cfg)
		if err != nil {
			return err
		}
		r := inv.InvertDualView(nadir, forward, [2]float64{obs[0], obs[1]}, Cfg.GetFloat64("Glint.Ancillary"), nil)
		for _, c := range r.Candidates {
			cmd.Printf("candidate\t%.3f m/s\treflectance %.5g\n", c.Windspeed, c.Reflectance)
		}
		source := "retrieved"
		if !r.Retrieved {
			source = "ancillary"
		}
		cmd.Printf("windspeed\t%.3f m/s\t%s\n", r.Windspeed, source)
		cmd.Printf("glint\t%.5g\t%.5g\n", r.Glint[0], r.Glint[1])
		return nil
	},
	DisableAutoGenTag: true,
}

var lutCmd = &cobra.Command{
	Use:   "lut",
	Short: "Inspect and create lookup tables.",
	Long: `lut inspects and creates aerosol model lookup table files. Use the
subcommands specified below.`,
	DisableAutoGenTag: true,
}

// lutInfoCmd prints a summary of aerosol model files.
var lutInfoCmd = &cobra.Command{
	Use:   "info file [file...]",
	Short: "Describe aerosol model files.",
	Long: `info prints the identifier, Angstrom coefficient and table axes of
each of the given aerosol model lookup table files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range expandStringSlice(args) {
			m, err := lut.ReadModelFile(f)
			if err != nil {
				return err
			}
			describeModel(cmd.OutOrStdout(), f, m)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// lutSynthCmd writes a synthetic aerosol model file.
var lutSynthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Create a synthetic aerosol model.",
	Long: `synth writes an aerosol model lookup table file computed from a
simple analytic atmosphere, for testing the retrieval without real
radiative transfer tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		landWl, err := floats(Cfg, "Synth.LandWavelengths")
		if err != nil {
			return err
		}
		dualWl, err := floats(Cfg, "Land.DualViewWavelengths")
		if err != nil {
			return err
		}
		oceanWl, err := floats(Cfg, "Ocean.Wavelengths")
		if err != nil {
			return err
		}
		m, err := SynthModel(Cfg.GetInt("Synth.ModelID"), Cfg.GetFloat64("Synth.Angstrom"), landWl, dualWl, oceanWl)
		if err != nil {
			return err
		}
		if err := lut.WriteModelFile(outputFile, m); err != nil {
			return err
		}
		cmd.Printf("wrote model %d to %s\n", m.ID, outputFile)
		return nil
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Create diagnostic plots.",
	Long: `plot creates diagnostic plots of the retrieval. Use the subcommands
specified below.`,
	DisableAutoGenTag: true,
}

// plotGlintCmd plots the glint reflectance against windspeed.
var plotGlintCmd = &cobra.Command{
	Use:   "glint",
	Short: "Plot glint reflectance against windspeed.",
	Long: `glint plots the analytic and tabulated glint reflectance of the
nadir and forward views against windspeed and saves the figure to
OutputFile. The image format follows the file extension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		nadir, err := viewAngles(Cfg, "Glint.Nadir")
		if err != nil {
			return err
		}
		forward, err := viewAngles(Cfg, "Glint.Forward")
		if err != nil {
			return err
		}
		g, err := gaussianTable(Cfg)
		if err != nil {
			return err
		}
		return PlotGlint(outputFile, nadir, forward, g, Cfg.GetFloat64("Glint.RefractiveIndex"),
			Cfg.GetFloat64("Glint.MinWind"), Cfg.GetFloat64("Glint.MaxWind"), Cfg.GetFloat64("Glint.WindStep"))
	},
	DisableAutoGenTag: true,
}

// plotCostCmd plots the ocean cost surface of one pixel.
var plotCostCmd = &cobra.Command{
	Use:   "cost",
	Short: "Plot the ocean cost surface of a pixel.",
	Long: `cost retrieves the ocean pixel with index Plot.Pixel from InputFile
and saves a heat map of its cost over optical thickness and Angstrom
coefficient to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, err := checkInputFile(Cfg.GetString("InputFile"))
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		pixels, err := ReadPixelsFile(inputFile)
		if err != nil {
			return err
		}
		i := Cfg.GetInt("Plot.Pixel")
		if i < 0 || i >= len(pixels) {
			return fmt.Errorf("synaer: Plot.Pixel %d is out of range for %d pixels", i, len(pixels))
		}
		if !pixels[i].Ocean {
			return fmt.Errorf("synaer: pixel %d is not an ocean pixel", i)
		}
		s, err := NewSession(Cfg, nil)
		if err != nil {
			return err
		}
		solver, err := s.OceanSolver(context.Background())
		if err != nil {
			return err
		}
		ws := solver.NewWorkspace()
		r := solver.Retrieve(&pixels[i], ws)
		cmd.Printf("pixel %d: %v, AOT %.4g, Angstrom %.4g\n", i, r.State, r.AOT, r.Angstrom)
		return PlotCost(outputFile, solver, ws, r)
	},
	DisableAutoGenTag: true,
}
