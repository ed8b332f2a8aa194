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
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/lut"
)

func TestVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("SYNAER v%s\n", synaer.Version); buf.String() != want {
		t.Errorf("have %q, want %q", buf.String(), want)
	}
}

func TestLUTSynthInfo(t *testing.T) {
	dir, err := ioutil.TempDir("", "synaer")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	f := filepath.Join(dir, "synth.nc")

	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)

	Cfg.Set("OutputFile", f)
	Cfg.Set("Synth.ModelID", 7)
	Cfg.Set("Synth.Angstrom", 1.4)
	Root.SetArgs([]string{"lut", "synth"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	m, err := lut.ReadModelFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != 7 || m.Angstrom != 1.4 {
		t.Errorf("model %d with Angstrom %g", m.ID, m.Angstrom)
	}
	if len(m.Land) != 4 || len(m.DualView) != 4 || len(m.Ocean) != 8 {
		t.Errorf("table counts %d, %d, %d", len(m.Land), len(m.DualView), len(m.Ocean))
	}

	buf.Reset()
	Root.SetArgs([]string{"lut", "info", f})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"model 7", "Angstrom coefficient 1.4", "8 ocean tables", "pressure", "(log)", "albedo"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output is missing %q:\n%s", want, out)
		}
	}
}

func TestRetrieveCommand(t *testing.T) {
	dir, models := writeTestData(t)
	defer os.RemoveAll(dir)
	setTestConfig(dir)

	pixels := []synaer.Pixel{
		landPixel(models[1], 0.4),
		oceanPixel(models[1], 0.5),
		oceanPixel(models[2], 0.6),
	}
	in := filepath.Join(dir, "pixels.msgpack")
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := WritePixels(f, pixels); err != nil {
		t.Fatal(err)
	}
	f.Close()
	out := filepath.Join(dir, "results.msgpack")

	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Cfg.Set("InputFile", in)
	Cfg.Set("OutputFile", out)
	Cfg.Set("LogFile", "")
	Cfg.Set("EmitGlintDiagnostics", true)
	Cfg.Set("GlintCorrection", true)
	defer Cfg.Set("EmitGlintDiagnostics", false)
	Root.SetArgs([]string{"retrieve"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	r, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	results, err := ReadResults(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(pixels) {
		t.Fatalf("%d results for %d pixels", len(results), len(pixels))
	}
	if results[0].Glint != nil {
		t.Error("land results have no glint diagnostics")
	}
	for i, r := range results[1:] {
		if r.Glint == nil {
			t.Errorf("ocean result %d has no glint diagnostics", i)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "results.log")); err != nil {
		t.Errorf("the log file should default to the output name: %v", err)
	}
	if !strings.Contains(buf.String(), "branch finished") {
		t.Errorf("missing log output:\n%s", buf.String())
	}
}

func TestRetrieveMissingInput(t *testing.T) {
	Cfg.Set("InputFile", "")
	Root.SetArgs([]string{"retrieve"})
	Root.SetOutput(ioutil.Discard)
	defer Root.SetOutput(nil)
	if err := Root.Execute(); err == nil || !strings.Contains(err.Error(), "InputFile") {
		t.Errorf("want an InputFile error, have %v", err)
	}
}

func TestGlintCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Cfg.Set("Glint.Nadir", []string{"30", "20", "10"})
	Cfg.Set("Glint.Forward", []string{"30.5", "55", "170"})
	Cfg.Set("Glint.Reflectance", []string{"0.08", "0"})
	Cfg.Set("Glint.Ancillary", 7.)
	Root.SetArgs([]string{"glint"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "candidate") || !strings.Contains(out, "retrieved") {
		t.Errorf("the nadir glint should give a windspeed:\n%s", out)
	}

	Cfg.Set("Glint.Reflectance", []string{"0.08"})
	defer Cfg.Set("Glint.Reflectance", []string{"0.08", "0"})
	if err := Root.Execute(); err == nil {
		t.Error("one reflectance should be an error")
	}
}

func TestConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "synaer")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	cfgFile := filepath.Join(dir, "config.toml")
	err = ioutil.WriteFile(cfgFile, []byte(`
NumWorkers = 3

[Land]
DualViewWavelengths = [550.0, 670.0, 870.0, 1600.0]
LandWeights = [1.0, 1.0, 2.0, 1.0]

[Ocean]
ResidualFloor = 2.0e-4
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	Cfg.Set("config", cfgFile)
	defer Cfg.Set("config", "")
	if err := setConfig(); err != nil {
		t.Fatal(err)
	}
	if n := Cfg.GetInt("NumWorkers"); n != 3 {
		t.Errorf("NumWorkers = %d", n)
	}
	lc, err := LandConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(lc.DualViewWavelengths) != 4 || lc.DualViewWavelengths[3] != 1600 {
		t.Errorf("dual-view wavelengths %v", lc.DualViewWavelengths)
	}
	if len(lc.LandWeights) != 4 || lc.LandWeights[2] != 2 {
		t.Errorf("land weights %v", lc.LandWeights)
	}
	oc, err := OceanConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if oc.ResidualFloor != 2.e-4 {
		t.Errorf("residual floor %g", oc.ResidualFloor)
	}
}
