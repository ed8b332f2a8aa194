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
	"fmt"
	"io"
	"math"

	"github.com/spatialmodel/synaer/lut"
	"github.com/spatialmodel/synaer/science/surface"
)

// Nodes of the synthetic lookup tables.
var (
	synthPressure = []float64{500, 800, 1100}
	synthAngles   = []float64{0, 20, 40, 60, 80}
	synthAzimuth  = []float64{0, 45, 90, 135, 180}
	synthAOT      = []float64{0, 0.1, 0.25, 0.5, 0.75, 1, 1.5, 2}
	synthAlbedo   = []float64{0, 0.05, 0.1, 0.2, 0.4, 0.7, 1}
)

// waterReflectance is the reflectance of the synthetic dark ocean.
const waterReflectance = 0.002

// synthPath returns the path reflectance of the synthetic atmosphere and
// its total optical thickness.
func synthPath(wavelength, angstrom, p, sza, vza, raz, aot float64) (path, tau float64) {
	muS := math.Cos(sza * math.Pi / 180)
	muV := math.Cos(vza * math.Pi / 180)
	tau = surface.RayleighOpticalThickness(wavelength, p) +
		surface.AerosolOpticalThickness(aot, angstrom, wavelength)
	phase := 1 + 0.5*math.Cos(raz*math.Pi/180)
	path = 0.9 * (1 - math.Exp(-tau*surface.AirMass(muS, muV))) * phase / 4
	return path, tau
}

// SynthModel returns an aerosol model whose tables are computed from a
// single-layer analytic atmosphere with the given Angstrom coefficient,
// for land-sensor channels at landWl, dual-view channels at dualWl and
// ocean bands at oceanWl [nm]. It has the layout of a real model and is
// meant for testing.
func SynthModel(id int, angstrom float64, landWl, dualWl, oceanWl []float64) (*lut.Model, error) {
	m := &lut.Model{
		ID:          id,
		Angstrom:    angstrom,
		Description: fmt.Sprintf("synthetic model with Angstrom coefficient %g", angstrom),
	}
	geometry := []lut.Axis{
		{Name: "pressure", Nodes: synthPressure, Log: true},
		{Name: "sza", Nodes: synthAngles},
		{Name: "vza", Nodes: synthAngles},
		{Name: "raz", Nodes: synthAzimuth},
		{Name: "aot", Nodes: synthAOT},
	}
	surfaceAxes := append(append([]lut.Axis(nil), geometry...), lut.Axis{Name: "albedo", Nodes: synthAlbedo})

	table := func(wl float64, axes []lut.Axis, surf func(alb, tau, t float64) float64, albedo []float64) (*lut.Table, error) {
		var values []float64
		for _, p := range synthPressure {
			for _, sza := range synthAngles {
				for _, vza := range synthAngles {
					for _, raz := range synthAzimuth {
						for _, aot := range synthAOT {
							path, tau := synthPath(wl, angstrom, p, sza, vza, raz, aot)
							t := surface.Transmittance(tau, math.Cos(sza*math.Pi/180), math.Cos(vza*math.Pi/180))
							for _, alb := range albedo {
								values = append(values, path+surf(alb, tau, t))
							}
						}
					}
				}
			}
		}
		return lut.New(axes, values)
	}
	land := func(alb, tau, t float64) float64 {
		s := 0.15 * (1 - math.Exp(-tau))
		return alb * t / (1 - s*alb)
	}
	water := func(_, _, t float64) float64 { return waterReflectance * t }

	for _, wl := range landWl {
		tab, err := table(wl, surfaceAxes, land, synthAlbedo)
		if err != nil {
			return nil, fmt.Errorf("synaer: creating synthetic land table: %v", err)
		}
		m.Land = append(m.Land, tab)
	}
	for _, wl := range dualWl {
		tab, err := table(wl, surfaceAxes, land, synthAlbedo)
		if err != nil {
			return nil, fmt.Errorf("synaer: creating synthetic dual-view table: %v", err)
		}
		m.DualView = append(m.DualView, tab)
	}
	// Nadir bands followed by forward bands; the geometry axes make the
	// tables of both views identical.
	for v := 0; v < 2; v++ {
		for _, wl := range oceanWl {
			tab, err := table(wl, geometry, water, []float64{0})
			if err != nil {
				return nil, fmt.Errorf("synaer: creating synthetic ocean table: %v", err)
			}
			m.Ocean = append(m.Ocean, tab)
		}
	}
	return m, nil
}

// describeModel writes a summary of model m, read from file f, to w.
func describeModel(w io.Writer, f string, m *lut.Model) {
	fmt.Fprintf(w, "%s\n\tmodel %d, Angstrom coefficient %g\n", f, m.ID, m.Angstrom)
	if m.Description != "" {
		fmt.Fprintf(w, "\t%s\n", m.Description)
	}
	for _, g := range []struct {
		name   string
		tables []*lut.Table
	}{{"land", m.Land}, {"dual-view", m.DualView}, {"ocean", m.Ocean}} {
		fmt.Fprintf(w, "\t%d %s tables\n", len(g.tables), g.name)
		if len(g.tables) == 0 {
			continue
		}
		t := g.tables[0]
		for i := 0; i < t.Dims(); i++ {
			a := t.Axis(i)
			scale := ""
			if a.Log {
				scale = " (log)"
			}
			fmt.Fprintf(w, "\t\t%-9s %3d nodes [%g, %g]%s\n", a.Name, len(a.Nodes), a.Nodes[0], a.Nodes[len(a.Nodes)-1], scale)
		}
	}
}
