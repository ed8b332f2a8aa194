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
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/internal/hash"
	"github.com/spatialmodel/synaer/lut"
	"github.com/spatialmodel/synaer/science/glint"
	"github.com/spatialmodel/synaer/science/land"
	"github.com/spatialmodel/synaer/science/ocean"
)

// Catalogue lists the aerosol models available to a retrieval.
type Catalogue struct {
	Models []CatalogueEntry `toml:"model"`
}

// CatalogueEntry describes one aerosol model of a Catalogue. File is
// relative to the directory of the catalogue file.
type CatalogueEntry struct {
	ID       int     `toml:"id"`
	Angstrom float64 `toml:"angstrom"`
	File     string  `toml:"file"`
}

// ReadCatalogue reads an aerosol model catalogue from a TOML file of the
// form
//
//	[[model]]
//	id = 1
//	angstrom = 0.2
//	file = "maritime.nc"
func ReadCatalogue(path string) (*Catalogue, error) {
	var c Catalogue
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("synaer: reading catalogue: %v", err)
	}
	dir := filepath.Dir(path)
	seen := make(map[int]bool)
	for i, m := range c.Models {
		if seen[m.ID] {
			return nil, fmt.Errorf("synaer: catalogue %s lists model %d twice", path, m.ID)
		}
		seen[m.ID] = true
		f := os.ExpandEnv(m.File)
		if !filepath.IsAbs(f) {
			f = filepath.Join(dir, f)
		}
		c.Models[i].File = f
	}
	return &c, nil
}

// Loader returns a lookup table loader for the models in c. Loaded
// models must agree with the Angstrom coefficient listed in c.
func (c *Catalogue) Loader() lut.Loader {
	return func(ctx context.Context, id int) (*lut.Model, error) {
		for _, e := range c.Models {
			if e.ID != id {
				continue
			}
			m, err := lut.ReadModelFile(e.File)
			if err != nil {
				return nil, err
			}
			if m.ID != id {
				return nil, fmt.Errorf("synaer: file %s holds model %d instead of %d", e.File, m.ID, id)
			}
			if math.Abs(m.Angstrom-e.Angstrom) > 1.e-6 {
				return nil, fmt.Errorf("synaer: model %d has Angstrom coefficient %g but the catalogue lists %g",
					id, m.Angstrom, e.Angstrom)
			}
			return m, nil
		}
		return nil, fmt.Errorf("synaer: model %d is not in the catalogue", id)
	}
}

// Session holds everything needed to retrieve batches of pixels: the
// solver settings, a cache of aerosol models and the glint table.
type Session struct {
	Land  land.Config
	Ocean ocean.Config

	LandModel   int
	OceanModels []int

	// NumWorkers is the number of concurrent workers. Zero means one
	// per processor.
	NumWorkers int

	spectraFile string
	store       *lut.Store
	glint       *glint.GaussianTable
	log         logrus.FieldLogger
}

// NewSession creates a Session from cfg. If log is nil, the standard
// logger is used.
func NewSession(cfg *viper.Viper, log logrus.FieldLogger) (*Session, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Session{
		LandModel:   cfg.GetInt("LandModel"),
		NumWorkers:  cfg.GetInt("NumWorkers"),
		spectraFile: cfg.GetString("SpectraFile"),
		log:         log,
	}
	var err error
	if s.Land, err = LandConfig(cfg); err != nil {
		return nil, err
	}
	if s.Ocean, err = OceanConfig(cfg); err != nil {
		return nil, err
	}
	if s.OceanModels, err = ints(cfg, "OceanModels"); err != nil {
		return nil, err
	}
	if cfg.GetBool("GlintCorrection") {
		if s.glint, err = gaussianTable(cfg); err != nil {
			return nil, err
		}
	}

	var load lut.Loader
	if c := os.ExpandEnv(cfg.GetString("Catalogue")); c != "" {
		cat, err := ReadCatalogue(c)
		if err != nil {
			return nil, err
		}
		load = cat.Loader()
	} else {
		dir := os.ExpandEnv(cfg.GetString("LUTDir"))
		if dir == "" {
			return nil, fmt.Errorf("you need to specify either the LUTDir or the Catalogue configuration variable")
		}
		load = lut.FileLoader(dir)
	}
	s.store = lut.NewStore(load, cfg.GetInt("CacheSize"))
	return s, nil
}

// LandSolver returns a land solver for the configured land model.
func (s *Session) LandSolver(ctx context.Context) (*land.Solver, error) {
	m, err := s.store.Model(ctx, s.LandModel)
	if err != nil {
		return nil, fmt.Errorf("synaer: loading land model: %v", err)
	}
	if s.spectraFile == "" {
		return nil, fmt.Errorf("you need to specify the SpectraFile configuration variable to retrieve land pixels")
	}
	spectra, err := ReadSpectra(s.spectraFile)
	if err != nil {
		return nil, err
	}
	return land.NewSolver(s.Land, m, spectra)
}

// OceanSolver returns an ocean solver blending the configured ocean
// models.
func (s *Session) OceanSolver(ctx context.Context) (*ocean.Solver, error) {
	models, err := s.store.Models(ctx, s.OceanModels...)
	if err != nil {
		return nil, fmt.Errorf("synaer: loading ocean models: %v", err)
	}
	return ocean.NewSolver(s.Ocean, models, s.glint)
}

// Fingerprint identifies the retrieval settings of s.
func (s *Session) Fingerprint() string {
	return hash.Short(struct {
		Land        land.Config
		Ocean       ocean.Config
		LandModel   int
		OceanModels []int
		Glint       bool
	}{s.Land, s.Ocean, s.LandModel, s.OceanModels, s.glint != nil})
}

// Retrieve retrieves every pixel with the branch selected by its Ocean
// flag and returns the results in pixel order. Solvers for a branch are
// only created if at least one pixel needs them.
func (s *Session) Retrieve(ctx context.Context, pixels []synaer.Pixel) ([]synaer.Result, error) {
	var landIdx, oceanIdx []int
	for i := range pixels {
		if pixels[i].Ocean {
			oceanIdx = append(oceanIdx, i)
		} else {
			landIdx = append(landIdx, i)
		}
	}
	log := s.log.WithField("config", s.Fingerprint())
	log.WithFields(logrus.Fields{
		"land":  len(landIdx),
		"ocean": len(oceanIdx),
	}).Info("starting retrieval")

	results := make([]synaer.Result, len(pixels))
	if len(landIdx) > 0 {
		solver, err := s.LandSolver(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.run(ctx, log.WithField("branch", "land"), pixels, landIdx, solver.NewWorker, results); err != nil {
			return nil, err
		}
	}
	if len(oceanIdx) > 0 {
		solver, err := s.OceanSolver(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.run(ctx, log.WithField("branch", "ocean"), pixels, oceanIdx, solver.NewWorker, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// run retrieves the pixels with indices idx and stores their results
// in results.
func (s *Session) run(ctx context.Context, log logrus.FieldLogger, pixels []synaer.Pixel, idx []int, newWorker synaer.WorkerFactory, results []synaer.Result) error {
	start := time.Now()
	sub := make([]synaer.Pixel, len(idx))
	for i, j := range idx {
		sub[i] = pixels[j]
	}
	r, err := synaer.Calculations(ctx, sub, s.NumWorkers, newWorker)
	if err != nil {
		return fmt.Errorf("synaer: retrieving pixels: %v", err)
	}
	states := make(map[synaer.State]int)
	for i, j := range idx {
		results[j] = r[i]
		states[r[i].State]++
	}
	log.WithFields(logrus.Fields{
		"pixels":         len(idx),
		"valid":          states[synaer.Valid],
		"out-of-domain":  states[synaer.StateOutOfDomain],
		"non-convergent": states[synaer.NonConvergent],
		"elapsed":        time.Since(start).String(),
	}).Info("branch finished")
	return nil
}

// RetrieveFile retrieves the pixels in inputFile and writes the results
// to outputFile.
func (s *Session) RetrieveFile(ctx context.Context, inputFile, outputFile string) error {
	pixels, err := ReadPixelsFile(inputFile)
	if err != nil {
		return err
	}
	results, err := s.Retrieve(ctx, pixels)
	if err != nil {
		return err
	}
	if err := WriteResultsFile(outputFile, results); err != nil {
		return err
	}
	s.log.WithField("file", outputFile).Info("wrote results")
	return nil
}
