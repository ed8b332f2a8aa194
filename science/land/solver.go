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

// Package land retrieves aerosol optical thickness over land with the
// AARDVARC algorithm. For every candidate optical thickness the measured
// top-of-atmosphere reflectances are inverted to surface reflectance,
// and two surface models are fitted to the result: a soil/vegetation
// spectral mixture for the land sensor and a direct/diffuse angular
// model for the dual-view sensor. An outer scalar search finds the
// optical thickness that best reconciles both fits.
package land

import (
	"fmt"

	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/lut"
	"github.com/spatialmodel/synaer/science/surface"
)

// Config holds the land retrieval settings.
type Config struct {
	// AOTMin and AOTMax bound the optical thickness search.
	AOTMin, AOTMax float64

	// AngularWeight is the weight α of the angular fit in the combined
	// residual α·E_angular + (1-α)·E_spectral.
	AngularWeight float64

	// SpectralTolerance and AngularTolerance are the fractional
	// tolerances of the two inner fits.
	SpectralTolerance, AngularTolerance float64

	// ViewScaleMin and ViewScaleMax bound the angular model's view
	// parameters. Values outside are penalized, not forbidden.
	ViewScaleMin, ViewScaleMax float64

	// MaxIter caps the iterations of every optimization loop.
	MaxIter int

	// AOTTolerance is the absolute tolerance of the optical thickness.
	AOTTolerance float64

	// OvercorrectionThreshold is the smallest plausible surface
	// reflectance. Candidate optical thicknesses that invert any
	// channel below it are penalized without fitting the surface.
	OvercorrectionThreshold float64

	// Penalty coefficients for overcorrection, negative mixture
	// weights and out-of-bounds view parameters.
	OvercorrectionPenalty, MixturePenalty, ViewScalePenalty float64

	// Gamma is the scattering escape fraction of the angular model.
	Gamma float64

	// DualViewWavelengths holds the centre wavelength [nm] of every
	// dual-view channel.
	DualViewWavelengths []float64

	// LandWeights and DualViewWeights weight the channels of each
	// fit; nil means equal weights.
	LandWeights, DualViewWeights []float64

	// EmitSurface adds the inverted surface reflectance to results.
	EmitSurface bool
}

// DefaultConfig returns the default land retrieval settings for a
// dual-view sensor with channels at 550, 670, 870 and 1600 nm.
func DefaultConfig() Config {
	return Config{
		AOTMin:                  0,
		AOTMax:                  2,
		AngularWeight:           0.5,
		SpectralTolerance:       5.e-3,
		AngularTolerance:        5.e-4,
		ViewScaleMin:            0.2,
		ViewScaleMax:            1.5,
		MaxIter:                 200,
		AOTTolerance:            1.e-3,
		OvercorrectionThreshold: 5.e-6,
		OvercorrectionPenalty:   1000,
		MixturePenalty:          1000,
		ViewScalePenalty:        1000,
		Gamma:                   0.35,
		DualViewWavelengths:     []float64{550, 670, 870, 1600},
	}
}

// Solver retrieves aerosol optical thickness over land for one aerosol
// model. A Solver is safe for concurrent use as long as every goroutine
// uses its own Workspace.
type Solver struct {
	cfg     Config
	model   *lut.Model
	spectra synaer.Spectra
	angular surface.Angular
}

// NewSolver returns a land solver using the tables of model and the
// surface reference spectra.
func NewSolver(cfg Config, model *lut.Model, spectra synaer.Spectra) (*Solver, error) {
	if model == nil {
		return nil, fmt.Errorf("land: missing aerosol model")
	}
	nl, nd := len(model.Land), len(model.DualView)
	if nl == 0 || nd == 0 {
		return nil, fmt.Errorf("land: model %d needs land and dual-view tables; has %d and %d", model.ID, nl, nd)
	}
	for _, t := range append(append([]*lut.Table{}, model.Land...), model.DualView...) {
		if t.Dims() != 6 {
			return nil, fmt.Errorf("land: model %d: land tables need 6 axes; got %d", model.ID, t.Dims())
		}
	}
	if len(spectra.Vegetation) != nl || len(spectra.Soil) != nl {
		return nil, fmt.Errorf("land: model %d has %d land channels but the spectra have %d vegetation and %d soil values",
			model.ID, nl, len(spectra.Vegetation), len(spectra.Soil))
	}
	if spectra.Wavelengths != nil && len(spectra.Wavelengths) != nl {
		return nil, fmt.Errorf("land: model %d has %d land channels but the spectra have %d wavelengths",
			model.ID, nl, len(spectra.Wavelengths))
	}
	if len(cfg.DualViewWavelengths) != nd {
		return nil, fmt.Errorf("land: model %d has %d dual-view channels but %d wavelengths are configured",
			model.ID, nd, len(cfg.DualViewWavelengths))
	}
	if cfg.LandWeights != nil && len(cfg.LandWeights) != nl {
		return nil, fmt.Errorf("land: %d land weights for %d channels", len(cfg.LandWeights), nl)
	}
	if cfg.DualViewWeights != nil && len(cfg.DualViewWeights) != nd {
		return nil, fmt.Errorf("land: %d dual-view weights for %d channels", len(cfg.DualViewWeights), nd)
	}
	if !(cfg.AOTMax > cfg.AOTMin) {
		return nil, fmt.Errorf("land: invalid AOT range [%g, %g]", cfg.AOTMin, cfg.AOTMax)
	}
	if cfg.AngularWeight < 0 || cfg.AngularWeight > 1 {
		return nil, fmt.Errorf("land: angular weight %g outside [0, 1]", cfg.AngularWeight)
	}
	if cfg.MaxIter < 1 {
		return nil, fmt.Errorf("land: MaxIter must be positive")
	}
	return &Solver{
		cfg:     cfg,
		model:   model,
		spectra: spectra,
		angular: surface.Angular{Gamma: cfg.Gamma},
	}, nil
}

// Model returns the aerosol model the solver uses.
func (s *Solver) Model() *lut.Model { return s.model }

// Workspace holds the scratch space of one worker.
type Workspace struct {
	land    []float64    // inverted land-sensor surface reflectance
	mix     []float64    // modelled land-sensor surface reflectance
	dual    [2][]float64 // inverted dual-view surface reflectance by view
	diffuse [2][]float64 // diffuse fraction by view and dual-view channel
	fixed   []float64    // geometry coordinates of a table query
	buf     []float64    // albedo inversion scratch
}

// NewWorkspace allocates a Workspace for s.
func (s *Solver) NewWorkspace() *Workspace {
	nd := len(s.model.DualView)
	nAlb := 0
	for _, t := range append(append([]*lut.Table{}, s.model.Land...), s.model.DualView...) {
		if n := t.Shape()[5]; n > nAlb {
			nAlb = n
		}
	}
	return &Workspace{
		land:    make([]float64, len(s.model.Land)),
		mix:     make([]float64, len(s.model.Land)),
		dual:    [2][]float64{make([]float64, nd), make([]float64, nd)},
		diffuse: [2][]float64{make([]float64, nd), make([]float64, nd)},
		fixed:   make([]float64, 4),
		buf:     make([]float64, 3*nAlb),
	}
}

// NewWorker returns a function that retrieves pixels with its own
// Workspace.
func (s *Solver) NewWorker() synaer.PixelFunc {
	ws := s.NewWorkspace()
	return func(p *synaer.Pixel) synaer.Result {
		return s.Retrieve(p, ws)
	}
}
