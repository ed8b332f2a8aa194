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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/lut"
	"github.com/spatialmodel/synaer/science/surface"
)

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

var (
	testLandWl  = []float64{470, 550, 660, 860}
	testDualWl  = []float64{550, 670, 870, 1600}
	testOceanWl = []float64{550, 670, 870, 1600}

	testVegetation = []float64{0.05, 0.09, 0.40, 0.25}
	testSoil       = []float64{0.12, 0.18, 0.26, 0.33}

	testAngstroms = []float64{0.2, 1, 2}
)

// writeTestData writes synthetic models 1, 2 and 3 and a spectra file to
// a new directory and returns the directory and the models.
func writeTestData(t *testing.T) (string, []*lut.Model) {
	dir, err := ioutil.TempDir("", "synaer")
	if err != nil {
		t.Fatal(err)
	}
	var models []*lut.Model
	for i, a := range testAngstroms {
		m, err := SynthModel(i+1, a, testLandWl, testDualWl, testOceanWl)
		if err != nil {
			t.Fatal(err)
		}
		if err := lut.WriteModelFile(filepath.Join(dir, fmt.Sprintf("model_%d.nc", m.ID)), m); err != nil {
			t.Fatal(err)
		}
		models = append(models, m)
	}
	spectra := fmt.Sprintf("wavelengths = %s\nvegetation = %s\nsoil = %s\n",
		tomlArray(testLandWl), tomlArray(testVegetation), tomlArray(testSoil))
	if err := ioutil.WriteFile(filepath.Join(dir, "spectra.toml"), []byte(spectra), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, models
}

func tomlArray(v []float64) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = fmt.Sprintf("%g", x)
		if !strings.ContainsAny(s[i], ".e") {
			s[i] += ".0"
		}
	}
	return "[" + strings.Join(s, ", ") + "]"
}

// setTestConfig points the configuration at the test data in dir.
func setTestConfig(dir string) {
	Cfg.Set("LUTDir", filepath.Join(dir, "model_[model].nc"))
	Cfg.Set("Catalogue", "")
	Cfg.Set("SpectraFile", filepath.Join(dir, "spectra.toml"))
	Cfg.Set("LandModel", 2)
	Cfg.Set("OceanModels", []int{3, 1, 2})
	Cfg.Set("GlintCorrection", false)
	Cfg.Set("Ocean.FineAOTPoints", 101)
	Cfg.Set("Ocean.AngstromPoints", 46)
}

var testGeometry = synaer.Geometry{
	Land:     synaer.ViewAngles{SZA: 35, VZA: 10, RAZ: 40},
	Nadir:    synaer.ViewAngles{SZA: 35, VZA: 5, RAZ: 60},
	Forward:  synaer.ViewAngles{SZA: 35.5, VZA: 55, RAZ: 150},
	Pressure: 1005,
}

// oceanPixel returns an ocean pixel observed through model m with
// optical thickness aot.
func oceanPixel(m *lut.Model, aot float64) synaer.Pixel {
	p := synaer.Pixel{Geometry: testGeometry, Ocean: true, Wind: synaer.Wind{U: 4, V: 3}}
	nb := len(testOceanWl)
	for v := 0; v < 2; v++ {
		a := p.Geometry.View(v)
		var obs []float64
		for b := 0; b < nb; b++ {
			obs = append(obs, m.Ocean[v*nb+b].Interpolate(p.Geometry.Pressure, a.SZA, a.VZA, a.RAZ, aot))
		}
		if v == 0 {
			p.Observation.Nadir = obs
		} else {
			p.Observation.Forward = obs
		}
	}
	return p
}

// landPixel returns a vegetated land pixel observed through model m with
// optical thickness aot.
func landPixel(m *lut.Model, aot float64) synaer.Pixel {
	p := synaer.Pixel{Geometry: testGeometry}
	g := &p.Geometry
	for i, v := range testVegetation {
		p.Observation.Land = append(p.Observation.Land,
			m.Land[i].Interpolate(g.Pressure, g.Land.SZA, g.Land.VZA, g.Land.RAZ, aot, v))
	}
	omega := []float64{0.12, 0.2, 0.45, 0.6}
	scale := []float64{1.2, 0.7}
	model := surface.Angular{Gamma: 0.35}
	for v := 0; v < 2; v++ {
		a := g.View(v)
		var obs []float64
		for i, wl := range testDualWl {
			d := surface.DiffuseFraction(aot, m.Angstrom, wl, g.Pressure, a.MuS())
			alb := model.Reflectance(omega[i], scale[v], d)
			obs = append(obs, m.DualView[i].Interpolate(g.Pressure, a.SZA, a.VZA, a.RAZ, aot, alb))
		}
		if v == 0 {
			p.Observation.Nadir = obs
		} else {
			p.Observation.Forward = obs
		}
	}
	return p
}

func TestSessionRetrieve(t *testing.T) {
	dir, models := writeTestData(t)
	defer os.RemoveAll(dir)
	setTestConfig(dir)

	s, err := NewSession(Cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	pixels := []synaer.Pixel{
		oceanPixel(models[1], 0.3),
		landPixel(models[1], 0.2),
		oceanPixel(models[1], 0.8),
	}
	results, err := s.Retrieve(context.Background(), pixels)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(pixels) {
		t.Fatalf("%d results for %d pixels", len(results), len(pixels))
	}
	for i, want := range []float64{0.3, 0.8} {
		r := results[2*i]
		if r.State != synaer.Valid {
			t.Errorf("ocean pixel %d: state %v", i, r.State)
			continue
		}
		if absDifferent(r.AOT, want, 0.05) {
			t.Errorf("ocean pixel %d: AOT = %g, want %g", i, r.AOT, want)
		}
		if absDifferent(r.Angstrom, 1, 0.25) {
			t.Errorf("ocean pixel %d: Angstrom = %g, want 1", i, r.Angstrom)
		}
		if r.ModelID != 2 {
			t.Errorf("ocean pixel %d: model %d, want 2", i, r.ModelID)
		}
	}
	r := results[1]
	if r.ModelID != 2 && r.State != synaer.StateOutOfDomain {
		t.Errorf("land pixel: model %d, want 2", r.ModelID)
	}
	if r.State != synaer.StateOutOfDomain && (r.AOT < 0 || r.AOT > 2) {
		t.Errorf("land pixel: AOT %g outside the search range", r.AOT)
	}
	if r.Angstrom != synaer.NoData {
		t.Errorf("land pixel: Angstrom should not be retrieved but is %g", r.Angstrom)
	}
}

func TestSessionLandOnlyNeedsSpectra(t *testing.T) {
	dir, models := writeTestData(t)
	defer os.RemoveAll(dir)
	setTestConfig(dir)
	Cfg.Set("SpectraFile", "")
	defer Cfg.Set("SpectraFile", filepath.Join(dir, "spectra.toml"))

	s, err := NewSession(Cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Ocean pixels do not need spectra.
	if _, err := s.Retrieve(context.Background(), []synaer.Pixel{oceanPixel(models[0], 0.5)}); err != nil {
		t.Fatal(err)
	}
	_, err = s.Retrieve(context.Background(), []synaer.Pixel{landPixel(models[0], 0.5)})
	if err == nil || !strings.Contains(err.Error(), "SpectraFile") {
		t.Errorf("want a SpectraFile error, have %v", err)
	}
}

func TestSessionFingerprint(t *testing.T) {
	dir, _ := writeTestData(t)
	defer os.RemoveAll(dir)
	setTestConfig(dir)

	s1, err := NewSession(Cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewSession(Cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s1.Fingerprint() != s2.Fingerprint() {
		t.Errorf("identical sessions have fingerprints %s and %s", s1.Fingerprint(), s2.Fingerprint())
	}
	s2.Land.AngularWeight = 0.25
	if s1.Fingerprint() == s2.Fingerprint() {
		t.Error("different settings should change the fingerprint")
	}
}

func TestCatalogue(t *testing.T) {
	dir, _ := writeTestData(t)
	defer os.RemoveAll(dir)

	write := func(angstrom float64) string {
		f := filepath.Join(dir, "catalogue.toml")
		cat := fmt.Sprintf(`[[model]]
id = 1
angstrom = 0.2
file = "model_1.nc"

[[model]]
id = 2
angstrom = %g
file = "model_2.nc"
`, angstrom)
		if err := ioutil.WriteFile(f, []byte(cat), 0644); err != nil {
			t.Fatal(err)
		}
		return f
	}

	t.Run("valid", func(t *testing.T) {
		c, err := ReadCatalogue(write(1))
		if err != nil {
			t.Fatal(err)
		}
		if len(c.Models) != 2 {
			t.Fatalf("%d models", len(c.Models))
		}
		m, err := c.Loader()(context.Background(), 2)
		if err != nil {
			t.Fatal(err)
		}
		if m.ID != 2 || m.Angstrom != 1 {
			t.Errorf("loaded model %d with Angstrom %g", m.ID, m.Angstrom)
		}
		if _, err := c.Loader()(context.Background(), 3); err == nil {
			t.Error("model 3 is not in the catalogue")
		}
	})
	t.Run("mismatch", func(t *testing.T) {
		c, err := ReadCatalogue(write(1.5))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Loader()(context.Background(), 2); err == nil {
			t.Error("a mismatched Angstrom coefficient should be an error")
		}
	})
	t.Run("session", func(t *testing.T) {
		setTestConfig(dir)
		Cfg.Set("Catalogue", write(1))
		Cfg.Set("OceanModels", []int{1, 2})
		defer Cfg.Set("Catalogue", "")
		s, err := NewSession(Cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.OceanSolver(context.Background()); err != nil {
			t.Fatal(err)
		}
	})
}
