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

// Package ocean retrieves aerosol optical thickness and Angstrom exponent
// over the ocean by exhaustive search of a cost grid. Lookup-table
// reflectances of several aerosol models, corrected for sun glint, are
// refined along the optical thickness axis with cubic splines and
// blended between models along the Angstrom exponent axis; the grid
// cell with the smallest weighted squared misfit to the observed
// dual-view reflectances is the retrieval.
package ocean

import (
	"fmt"
	"sort"

	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/lut"
	"github.com/spatialmodel/synaer/science/glint"
)

// Config holds the ocean retrieval settings.
type Config struct {
	// Wavelengths holds the centre wavelength [nm] of every dual-view
	// band. Each band is used in both views, so a model needs
	// 2·len(Wavelengths) ocean tables: nadir bands first.
	Wavelengths []float64

	// Weights holds the cost weight of every band.
	Weights []float64

	// FineAOTPoints and AngstromPoints are the sizes of the cost grid.
	FineAOTPoints, AngstromPoints int

	// RefractiveIndex is the refractive index of sea water.
	RefractiveIndex float64

	// ResidualFloor is the smallest residual used when propagating
	// errors.
	ResidualFloor float64

	// GlintBand is the band whose glint is inverted for windspeed.
	GlintBand int

	// MinWind, MaxWind and WindStep define the windspeed search grid
	// [m/s].
	MinWind, MaxWind, WindStep float64

	// EmitGlintDiagnostics adds the windspeed candidates and the glint
	// reflectance of every channel to results.
	EmitGlintDiagnostics bool
}

// DefaultConfig returns the default ocean retrieval settings for a
// dual-view sensor with bands at 550, 670, 870 and 1600 nm. The near
// infrared band carries three times the weight of the others.
func DefaultConfig() Config {
	return Config{
		Wavelengths:     []float64{550, 670, 870, 1600},
		Weights:         []float64{1, 1, 3, 1},
		FineAOTPoints:   201,
		AngstromPoints:  91,
		RefractiveIndex: glint.DefaultRefractiveIndex,
		ResidualFloor:   1.e-4,
		GlintBand:       3,
		MinWind:         0.1,
		MaxWind:         20,
		WindStep:        0.1,
	}
}

// Solver retrieves aerosol properties over the ocean. A Solver is safe
// for concurrent use as long as every goroutine uses its own Workspace.
type Solver struct {
	cfg      Config
	models   []*lut.Model // sorted by Angstrom coefficient
	glint    *glint.GaussianTable
	inverter *glint.Inverter

	native   []float64 // AOT nodes of the tables
	aot      []float64 // fine AOT grid
	angstrom []float64 // Angstrom exponent grid
	lower    []int     // lower bracketing model of each Angstrom node
	blend    []float64 // weight of the upper bracketing model
}

// NewSolver returns an ocean solver for the given aerosol models, which
// must have distinct Angstrom coefficients. Glint is evaluated with g;
// if g is nil, glint is neither retrieved nor corrected.
func NewSolver(cfg Config, models []*lut.Model, g *glint.GaussianTable) (*Solver, error) {
	if len(models) < 2 {
		return nil, fmt.Errorf("ocean: at least 2 aerosol models are needed; have %d", len(models))
	}
	nb := len(cfg.Wavelengths)
	if nb == 0 || len(cfg.Weights) != nb {
		return nil, fmt.Errorf("ocean: %d bands with %d weights", nb, len(cfg.Weights))
	}
	if cfg.GlintBand < 0 || cfg.GlintBand >= nb {
		return nil, fmt.Errorf("ocean: glint band %d out of range", cfg.GlintBand)
	}
	if cfg.FineAOTPoints < 3 || cfg.AngstromPoints < 3 {
		return nil, fmt.Errorf("ocean: the cost grid needs at least 3 points along each axis")
	}
	s := &Solver{
		cfg:      cfg,
		models:   append([]*lut.Model(nil), models...),
		glint:    g,
		inverter: glint.NewInverter(cfg.RefractiveIndex, cfg.MinWind, cfg.MaxWind, cfg.WindStep),
	}
	sort.SliceStable(s.models, func(i, j int) bool { return s.models[i].Angstrom < s.models[j].Angstrom })
	for i, m := range s.models {
		if len(m.Ocean) != 2*nb {
			return nil, fmt.Errorf("ocean: model %d has %d ocean tables; want %d", m.ID, len(m.Ocean), 2*nb)
		}
		if i > 0 && !(m.Angstrom > s.models[i-1].Angstrom) {
			return nil, fmt.Errorf("ocean: models %d and %d have the same Angstrom coefficient", s.models[i-1].ID, m.ID)
		}
		for c, t := range m.Ocean {
			if t.Dims() != 5 {
				return nil, fmt.Errorf("ocean: model %d table %d needs 5 axes; has %d", m.ID, c, t.Dims())
			}
			nodes := t.Axis(4).Nodes
			if s.native == nil {
				s.native = nodes
			} else if !equal(nodes, s.native) {
				return nil, fmt.Errorf("ocean: model %d table %d has different AOT nodes", m.ID, c)
			}
		}
	}
	s.aot = linspace(s.native[0], s.native[len(s.native)-1], cfg.FineAOTPoints)
	lo, hi := s.models[0].Angstrom, s.models[len(s.models)-1].Angstrom
	s.angstrom = linspace(lo, hi, cfg.AngstromPoints)
	s.lower = make([]int, len(s.angstrom))
	s.blend = make([]float64, len(s.angstrom))
	for j, a := range s.angstrom {
		i := 0
		for i < len(s.models)-2 && s.models[i+1].Angstrom <= a {
			i++
		}
		s.lower[j] = i
		s.blend[j] = (a - s.models[i].Angstrom) / (s.models[i+1].Angstrom - s.models[i].Angstrom)
	}
	return s, nil
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	x[n-1] = hi
	return x
}

// AOTGrid returns the optical thickness axis of the cost grid.
func (s *Solver) AOTGrid() []float64 { return append([]float64(nil), s.aot...) }

// AngstromGrid returns the Angstrom exponent axis of the cost grid.
func (s *Solver) AngstromGrid() []float64 { return append([]float64(nil), s.angstrom...) }

// Channels returns the number of wavelength/view combinations.
func (s *Solver) Channels() int { return 2 * len(s.cfg.Wavelengths) }

// Workspace holds the scratch space of one worker.
type Workspace struct {
	obs    []float64   // observation by channel
	weight []float64   // cost weight by channel
	glint  []float64   // glint reflectance by channel
	native []float64   // one channel of one model on the native AOT grid
	curves [][]float64 // refined reflectance by model, fine AOT and channel
	pred   []float64   // blended reflectance by Angstrom, fine AOT and channel
	cost   []float64   // cost by Angstrom and fine AOT
	table  []float64   // windspeed table
}

// NewWorkspace allocates a Workspace for s.
func (s *Solver) NewWorkspace() *Workspace {
	nc, nf, na := s.Channels(), len(s.aot), len(s.angstrom)
	ws := &Workspace{
		obs:    make([]float64, nc),
		weight: make([]float64, nc),
		glint:  make([]float64, nc),
		native: make([]float64, len(s.native)),
		curves: make([][]float64, len(s.models)),
		pred:   make([]float64, na*nf*nc),
		cost:   make([]float64, na*nf),
		table:  make([]float64, s.inverter.Winds()),
	}
	for i := range ws.curves {
		ws.curves[i] = make([]float64, nf*nc)
	}
	nb := len(s.cfg.Wavelengths)
	for c := range ws.weight {
		ws.weight[c] = s.cfg.Weights[c%nb]
	}
	return ws
}

// Cost returns a copy of the cost grid of the last retrieval, indexed
// by Angstrom node and then by optical thickness node.
func (ws *Workspace) Cost() []float64 { return append([]float64(nil), ws.cost...) }

// NewWorker returns a function that retrieves pixels with its own
// Workspace.
func (s *Solver) NewWorker() synaer.PixelFunc {
	ws := s.NewWorkspace()
	return func(p *synaer.Pixel) synaer.Result {
		return s.Retrieve(p, ws)
	}
}
