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

// Package synaer holds the per-pixel data model shared by the SYNAER
// aerosol retrieval solvers, along with a concurrent block worker that
// runs a solver over many independent pixels.
package synaer

import "math"

// Version gives the version number.
const Version = "1.0.0"

const (
	// NoData is written to AOT and error fields of a Result when no
	// retrieval could be made.
	NoData = -1.

	// OutOfDomain is returned by table lookups whose query falls outside
	// the axis bounds of a lookup table.
	OutOfDomain = -1000.
)

// ViewAngles are the sun-view angles of one sensor view, in degrees.
// RAZ is the relative azimuth between the sun and the view direction,
// with 0 meaning the view looks into the specular (sun-glint) direction.
type ViewAngles struct {
	SZA float64 `msgpack:"sza"` // solar zenith angle
	VZA float64 `msgpack:"vza"` // view zenith angle
	RAZ float64 `msgpack:"raz"` // relative azimuth angle
}

// MuS returns the cosine of the solar zenith angle.
func (v ViewAngles) MuS() float64 { return math.Cos(v.SZA * math.Pi / 180) }

// MuV returns the cosine of the view zenith angle.
func (v ViewAngles) MuV() float64 { return math.Cos(v.VZA * math.Pi / 180) }

// AirMass returns the geometric two-way air mass 1/μs + 1/μv.
func (v ViewAngles) AirMass() float64 { return 1/v.MuS() + 1/v.MuV() }

// Valid reports whether the angles describe a sunlit, observable surface.
func (v ViewAngles) Valid() bool {
	return v.SZA >= 0 && v.SZA < 90 && v.VZA >= 0 && v.VZA < 90
}

// Geometry holds the per-pixel observation geometry of the land sensor
// (a single nadir-looking view) and the dual-view sensor (nadir and
// forward views), together with the surface state needed to select
// lookup table entries.
type Geometry struct {
	Land    ViewAngles `msgpack:"land"`
	Nadir   ViewAngles `msgpack:"nadir"`
	Forward ViewAngles `msgpack:"forward"`

	Pressure float64 `msgpack:"pressure"` // surface pressure [hPa]
	Ozone    float64 `msgpack:"ozone"`    // total column ozone [DU]
}

// View returns the angles of the dual-view sensor's view v, where 0 is
// nadir and 1 is forward.
func (g *Geometry) View(v int) ViewAngles {
	if v == 0 {
		return g.Nadir
	}
	return g.Forward
}

// Observation holds measured top-of-atmosphere reflectances for one
// pixel: one value per land-sensor channel and one value per dual-view
// channel and view.
type Observation struct {
	Land    []float64 `msgpack:"land"`
	Nadir   []float64 `msgpack:"nadir"`
	Forward []float64 `msgpack:"forward"`
}

// DualView returns the dual-view reflectances of view v, where 0 is
// nadir and 1 is forward.
func (o *Observation) DualView(v int) []float64 {
	if v == 0 {
		return o.Nadir
	}
	return o.Forward
}

// Wind is an ancillary near-surface wind vector [m/s].
type Wind struct {
	U float64 `msgpack:"u"` // zonal component
	V float64 `msgpack:"v"` // meridional component
}

// Speed returns the magnitude of the wind vector.
func (w Wind) Speed() float64 { return math.Hypot(w.U, w.V) }

// Pixel is the complete input for retrieving one pixel.
type Pixel struct {
	Geometry    Geometry    `msgpack:"geometry"`
	Observation Observation `msgpack:"observation"`
	Wind        Wind        `msgpack:"wind"`

	// Ocean selects the ocean retrieval branch; otherwise the land
	// branch is used.
	Ocean bool `msgpack:"ocean"`
}

// Spectra holds the reference surface spectra used by the land spectral
// mixture model, sampled at the land sensor's wavelengths.
type Spectra struct {
	Wavelengths []float64 `toml:"wavelengths"` // [nm]
	Vegetation  []float64 `toml:"vegetation"`
	Soil        []float64 `toml:"soil"`
}
