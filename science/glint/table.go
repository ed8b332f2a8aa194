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

package glint

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/lut"
)

// GaussianTable evaluates sun glint from precomputed Gaussian shape
// parameters indexed by the cosine of the solar zenith angle, the
// refractive index and the windspeed. The glint reflectance is
//
//	A·exp(-tan²β/S)/(μv·cos⁴β) + F
//
// where β is the tilt of the reflecting facet, A the amplitude, S the
// width and F the whitecap reflectance.
type GaussianTable struct {
	amplitude, width, foam *lut.Table
}

// Axis names of Gaussian glint tables.
const (
	AxisMuS   = "mu_s"
	AxisIndex = "refractive_index"
	AxisWind  = "windspeed"
)

// NewGaussianTable computes the shape parameters from the analytic glint
// model on the given axis nodes. The Fresnel reflectance is evaluated
// at the specular angle of incidence, so the table reproduces Reflectance
// exactly in the specular direction.
func NewGaussianTable(muS, index, wind []float64) (*GaussianTable, error) {
	axes := []lut.Axis{
		{Name: AxisMuS, Nodes: muS},
		{Name: AxisIndex, Nodes: index},
		{Name: AxisWind, Nodes: wind},
	}
	n := len(muS) * len(index) * len(wind)
	amp := make([]float64, 0, n)
	width := make([]float64, 0, n)
	foam := make([]float64, 0, n)
	for _, mu := range muS {
		if mu <= 0 || mu > 1 {
			return nil, fmt.Errorf("glint: invalid solar zenith cosine %g", mu)
		}
		for _, ri := range index {
			r := Fresnel(mu, ri)
			for _, w := range wind {
				f := FoamCoverage(w)
				s2 := SlopeVariance(w)
				amp = append(amp, (1-f)*r/(4*mu*s2))
				width = append(width, s2)
				foam = append(foam, f*FoamReflectance)
			}
		}
	}
	g := new(GaussianTable)
	var err error
	if g.amplitude, err = lut.New(axes, amp); err != nil {
		return nil, fmt.Errorf("glint: amplitude table: %v", err)
	}
	if g.width, err = lut.New(axes, width); err != nil {
		return nil, fmt.Errorf("glint: width table: %v", err)
	}
	if g.foam, err = lut.New(axes, foam); err != nil {
		return nil, fmt.Errorf("glint: foam table: %v", err)
	}
	return g, nil
}

// DefaultGaussianTable returns a table covering solar zenith cosines from
// 0.05 to 1, refractive indices 1.33 to 1.35 and windspeeds from 0 to
// maxWind [m/s] in steps of 0.25 m/s.
func DefaultGaussianTable(maxWind float64) (*GaussianTable, error) {
	var muS, wind []float64
	for i := 1; i <= 20; i++ {
		muS = append(muS, float64(i)/20)
	}
	for w := 0.; w < maxWind+0.25; w += 0.25 {
		wind = append(wind, w)
	}
	return NewGaussianTable(muS, []float64{1.33, 1.34, 1.35}, wind)
}

// Reflectance returns the glint reflectance for geometry v, refractive
// index n and windspeed w. It returns synaer.OutOfDomain if the query is
// outside the table.
func (g *GaussianTable) Reflectance(v synaer.ViewAngles, n, w float64) float64 {
	muS := v.MuS()
	a := g.amplitude.Interpolate(muS, n, w)
	s := g.width.Interpolate(muS, n, w)
	f := g.foam.Interpolate(muS, n, w)
	if a == synaer.OutOfDomain || s == synaer.OutOfDomain || f == synaer.OutOfDomain {
		return synaer.OutOfDomain
	}
	_, muV, _, tan2Beta, ok := facet(v)
	if !ok || s <= 0 {
		return f
	}
	cosBeta2 := 1 / (1 + tan2Beta)
	return a*math.Exp(-tan2Beta/s)/(muV*cosBeta2*cosBeta2) + f
}

// WriteGaussianTable writes g to rw in NetCDF format.
func WriteGaussianTable(rw cdf.ReaderWriterAt, g *GaussianTable) error {
	err := lut.WriteTables(rw, map[string]interface{}{"title": "Gaussian sun glint parameters"},
		lut.Named{Name: "amplitude", Description: "Gaussian glint amplitude", Table: g.amplitude},
		lut.Named{Name: "width", Description: "Gaussian glint width (mean square slope)", Table: g.width},
		lut.Named{Name: "foam", Description: "whitecap reflectance", Table: g.foam},
	)
	if err != nil {
		return fmt.Errorf("glint: %v", err)
	}
	return nil
}

// ReadGaussianTable reads a table written by WriteGaussianTable.
func ReadGaussianTable(r cdf.ReaderWriterAt) (*GaussianTable, error) {
	f, err := lut.Open(r)
	if err != nil {
		return nil, fmt.Errorf("glint: %v", err)
	}
	g := new(GaussianTable)
	for _, x := range []struct {
		name string
		t    **lut.Table
	}{{"amplitude", &g.amplitude}, {"width", &g.width}, {"foam", &g.foam}} {
		t, err := f.Table(x.name)
		if err != nil {
			return nil, fmt.Errorf("glint: %v", err)
		}
		if t.Dims() != 3 {
			return nil, fmt.Errorf("glint: table %s has %d dimensions; want 3", x.name, t.Dims())
		}
		*x.t = t
	}
	return g, nil
}

// ReadGaussianTableFile reads a Gaussian glint table from the NetCDF
// file at path.
func ReadGaussianTableFile(path string) (*GaussianTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("glint: %v", err)
	}
	defer f.Close()
	return ReadGaussianTable(f)
}

// WriteGaussianTableFile writes g to a new NetCDF file at path.
func WriteGaussianTableFile(path string, g *GaussianTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("glint: %v", err)
	}
	if err := WriteGaussianTable(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
