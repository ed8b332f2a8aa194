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

package land

import (
	"context"
	"math"
	"testing"

	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/lut"
	"github.com/spatialmodel/synaer/science/surface"
)

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

// linearTable returns a table whose reflectance is albedo·(1-AOT/2)
// regardless of geometry.
func linearTable(t *testing.T) *lut.Table {
	axes := []lut.Axis{
		{Name: "pressure", Nodes: []float64{500, 1100}, Log: true},
		{Name: "sza", Nodes: []float64{0, 80}},
		{Name: "vza", Nodes: []float64{0, 80}},
		{Name: "raz", Nodes: []float64{0, 180}},
		{Name: "aot", Nodes: []float64{0, 0.5, 1, 1.5, 2}},
		{Name: "albedo", Nodes: []float64{0, 0.5, 1}},
	}
	var values []float64
	for i := 0; i < 16; i++ {
		for _, aot := range axes[4].Nodes {
			for _, alb := range axes[5].Nodes {
				values = append(values, alb*(1-aot/2))
			}
		}
	}
	tab, err := lut.New(axes, values)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

var (
	vegetation = []float64{0.05, 0.09, 0.40, 0.25}
	soil       = []float64{0.12, 0.18, 0.26, 0.33}
)

func testSolver(t *testing.T, cfg Config) *Solver {
	tab := linearTable(t)
	m := &lut.Model{
		ID:       3,
		Angstrom: 1.8,
		Land:     []*lut.Table{tab, tab, tab, tab},
		DualView: []*lut.Table{tab, tab, tab, tab},
	}
	s, err := NewSolver(cfg, m, synaer.Spectra{
		Wavelengths: []float64{470, 550, 660, 860},
		Vegetation:  vegetation,
		Soil:        soil,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SpectralTolerance = 1.e-10
	cfg.AngularTolerance = 1.e-10
	cfg.AOTTolerance = 1.e-4
	cfg.MaxIter = 500
	cfg.EmitSurface = true
	return cfg
}

// syntheticPixel returns a pixel observing pure vegetation through
// aerosol of optical thickness aot, with a dual-view surface following
// the angular model.
func syntheticPixel(cfg Config, angstrom, aot float64) *synaer.Pixel {
	p := &synaer.Pixel{
		Geometry: synaer.Geometry{
			Land:     synaer.ViewAngles{SZA: 55, VZA: 10, RAZ: 40},
			Nadir:    synaer.ViewAngles{SZA: 55, VZA: 5, RAZ: 60},
			Forward:  synaer.ViewAngles{SZA: 55.5, VZA: 55, RAZ: 150},
			Pressure: 1013,
		},
	}
	trans := 1 - aot/2
	for _, v := range vegetation {
		p.Observation.Land = append(p.Observation.Land, v*trans)
	}
	omega := []float64{0.12, 0.2, 0.45, 0.6}
	scale := []float64{1.3, 0.6}
	model := surface.Angular{Gamma: cfg.Gamma}
	for v := 0; v < 2; v++ {
		va := p.Geometry.View(v)
		var obs []float64
		for i, wl := range cfg.DualViewWavelengths {
			d := surface.DiffuseFraction(aot, angstrom, wl, p.Geometry.Pressure, va.MuS())
			obs = append(obs, model.Reflectance(omega[i], scale[v], d)*trans)
		}
		if v == 0 {
			p.Observation.Nadir = obs
		} else {
			p.Observation.Forward = obs
		}
	}
	return p
}

func TestRetrieveInverseCrime(t *testing.T) {
	const want = 0.3
	cfg := testConfig()
	s := testSolver(t, cfg)
	p := syntheticPixel(cfg, s.Model().Angstrom, want)
	ws := s.NewWorkspace()
	// The first golden-section point of the search lies beyond the
	// optical thicknesses the tables can invert for this pixel.
	if lo, _ := s.invert(p, 0.764, ws); lo != synaer.OutOfDomain {
		t.Fatalf("AOT 0.764 should be outside the tables; lowest surface reflectance %g", lo)
	}
	r := s.Retrieve(p, ws)
	if r.State != synaer.Valid {
		t.Fatalf("retrieval failed: %+v", r)
	}
	if absDifferent(r.AOT, want, 5*cfg.AOTTolerance) {
		t.Errorf("AOT = %g, want %g", r.AOT, want)
	}
	if absDifferent(r.Mixture[0], 1, 0.1) {
		t.Errorf("vegetation weight %g, want 1", r.Mixture[0])
	}
	if absDifferent(r.Mixture[1], 0, 0.05) {
		t.Errorf("soil weight %g, want 0", r.Mixture[1])
	}
	if r.ModelID != 3 {
		t.Errorf("model id %d, want 3", r.ModelID)
	}
	if len(r.Surface) != 12 || len(r.ViewScale) != 2 {
		t.Errorf("have %d surface values and %d view scales, want 12 and 2", len(r.Surface), len(r.ViewScale))
	}
	if r.Angstrom != synaer.NoData {
		t.Errorf("land retrieval should not set the Angstrom exponent")
	}
}

func TestRetrieveOzone(t *testing.T) {
	const want = 0.3
	cfg := testConfig()
	s := testSolver(t, cfg)
	p := syntheticPixel(cfg, s.Model().Angstrom, want)
	g := &p.Geometry
	g.Ozone = 350
	for i := range p.Observation.Land {
		p.Observation.Land[i] *= surface.OzoneTransmittance(s.spectra.Wavelengths[i], g.Ozone, g.Land.MuS(), g.Land.MuV())
	}
	for v := 0; v < 2; v++ {
		va := g.View(v)
		for i, wl := range cfg.DualViewWavelengths {
			p.Observation.DualView(v)[i] *= surface.OzoneTransmittance(wl, g.Ozone, va.MuS(), va.MuV())
		}
	}
	ws := s.NewWorkspace()
	spec, ang := s.Residuals(p, want, ws)
	if spec > 1.e-10 || ang > 1.e-10 {
		t.Errorf("ozone-corrected residuals at the true AOT: spectral %g, angular %g", spec, ang)
	}
	r := s.Retrieve(p, ws)
	if r.State != synaer.Valid || absDifferent(r.AOT, want, 5*cfg.AOTTolerance) {
		t.Errorf("with ozone: %+v, want AOT %g", r, want)
	}
	g.Ozone = 0
	if spec, ang := s.Residuals(p, want, ws); spec <= 1.e-10 && ang <= 1.e-10 {
		t.Errorf("uncorrected ozone absorption should leave residuals: spectral %g, angular %g", spec, ang)
	}
}

func TestResidualsMinimalAtTruth(t *testing.T) {
	const want = 0.3
	cfg := testConfig()
	s := testSolver(t, cfg)
	p := syntheticPixel(cfg, s.Model().Angstrom, want)
	ws := s.NewWorkspace()
	spec, ang := s.Residuals(p, want, ws)
	if spec > 1.e-10 || ang > 1.e-10 {
		t.Errorf("residuals at the true AOT: spectral %g, angular %g", spec, ang)
	}
	for _, aot := range []float64{0, 0.8} {
		_, a := s.Residuals(p, aot, ws)
		if a <= ang {
			t.Errorf("angular residual at AOT %g (%g) should exceed the one at the truth (%g)", aot, a, ang)
		}
	}
}

func TestOvercorrectionPenalty(t *testing.T) {
	cfg := testConfig()
	s := testSolver(t, cfg)
	p := syntheticPixel(cfg, s.Model().Angstrom, 0.3)
	ws := s.NewWorkspace()
	// At AOT 1.95 the tables cannot reach the observed reflectance.
	spec, ang := s.Residuals(p, 1.95, ws)
	if spec != ang || spec < 2*cfg.OvercorrectionPenalty {
		t.Errorf("out of range candidate: spectral %g, angular %g", spec, ang)
	}
	if ws.land[0] != synaer.OutOfDomain {
		t.Errorf("inverted surface reflectance %g, want out-of-domain sentinel", ws.land[0])
	}
	// A small shortfall gets a small penalty.
	p.Observation.Nadir[0] = 0
	spec, _ = s.Residuals(p, 0.3, ws)
	if want := cfg.OvercorrectionPenalty * 5.e-6 * 5.e-6; absDifferent(spec, want, 1.e-15) {
		t.Errorf("zero reflectance penalty %g, want %g", spec, want)
	}
}

func TestOutOfTablePenaltyGrows(t *testing.T) {
	cfg := testConfig()
	s := testSolver(t, cfg)
	p := syntheticPixel(cfg, s.Model().Angstrom, 0.3)
	ws := s.NewWorkspace()
	valid, _ := s.Residuals(p, 0.3, ws)
	prev := 0.
	for aot := 0.7; aot <= 2; aot += 0.1 {
		spec, _ := s.Residuals(p, aot, ws)
		if spec <= prev {
			t.Errorf("AOT %.1f: penalty %g does not exceed %g at the previous AOT", aot, spec, prev)
		}
		if spec <= valid+cfg.OvercorrectionPenalty {
			t.Errorf("AOT %.1f: penalty %g is not above the in-table residual %g", aot, spec, valid)
		}
		prev = spec
	}
}

func TestRetrieveOutOfDomain(t *testing.T) {
	cfg := testConfig()
	s := testSolver(t, cfg)
	p := syntheticPixel(cfg, s.Model().Angstrom, 0.3)
	p.Geometry.Pressure = 300
	r := s.Retrieve(p, s.NewWorkspace())
	if r.State != synaer.StateOutOfDomain || r.AOT != synaer.NoData || r.Error != synaer.NoData {
		t.Errorf("pressure outside the tables: %+v", r)
	}
	p = syntheticPixel(cfg, s.Model().Angstrom, 0.3)
	p.Observation.Forward = p.Observation.Forward[:2]
	if r := s.Retrieve(p, s.NewWorkspace()); r.State != synaer.StateOutOfDomain {
		t.Errorf("missing channels: %+v", r)
	}
}

func TestWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.EmitSurface = false
	s := testSolver(t, cfg)
	var pixels []synaer.Pixel
	for _, aot := range []float64{0.1, 0.3, 0.1, 0.3, 0.1} {
		pixels = append(pixels, *syntheticPixel(cfg, s.Model().Angstrom, aot))
	}
	results, err := synaer.Calculations(context.Background(), pixels, 3, s.NewWorker)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r.AOT != results[i%2].AOT {
			t.Errorf("pixel %d: AOT %g differs from identical pixel %d: %g", i, r.AOT, i%2, results[i%2].AOT)
		}
		if r.Surface != nil {
			t.Errorf("pixel %d: surface reflectance emitted", i)
		}
	}
}

func TestNewSolverValidation(t *testing.T) {
	tab := linearTable(t)
	m := &lut.Model{Land: []*lut.Table{tab, tab, tab, tab}, DualView: []*lut.Table{tab, tab, tab, tab}}
	spectra := synaer.Spectra{Vegetation: vegetation, Soil: soil}
	for name, test := range map[string]struct {
		cfg     func(*Config)
		spectra synaer.Spectra
	}{
		"spectra": {cfg: func(*Config) {}, spectra: synaer.Spectra{Vegetation: vegetation, Soil: soil[:3]}},
		"spectra wavelengths": {cfg: func(*Config) {}, spectra: synaer.Spectra{
			Wavelengths: []float64{550},
			Vegetation:  vegetation,
			Soil:        soil,
		}},
		"wavelengths": {cfg: func(c *Config) {
			c.DualViewWavelengths = c.DualViewWavelengths[:3]
		}, spectra: spectra},
		"weights": {cfg: func(c *Config) { c.LandWeights = []float64{1} }, spectra: spectra},
		"range":   {cfg: func(c *Config) { c.AOTMax = c.AOTMin }, spectra: spectra},
		"alpha":   {cfg: func(c *Config) { c.AngularWeight = 2 }, spectra: spectra},
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.cfg(&cfg)
			if _, err := NewSolver(cfg, m, test.spectra); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := NewSolver(DefaultConfig(), m, spectra); err != nil {
		t.Errorf("valid configuration: %v", err)
	}
}
