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
	"math"

	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/internal/minimize"
	"github.com/spatialmodel/synaer/science/surface"
)

// Retrieve retrieves the aerosol optical thickness of pixel p.
func (s *Solver) Retrieve(p *synaer.Pixel, ws *Workspace) synaer.Result {
	obs := &p.Observation
	nd := len(s.model.DualView)
	if len(obs.Land) != len(s.model.Land) || len(obs.Nadir) != nd || len(obs.Forward) != nd {
		return synaer.NoResult(synaer.StateOutOfDomain)
	}
	alpha := s.cfg.AngularWeight
	search := minimize.Bounded(func(aot float64) float64 {
		spectral, angular := s.Residuals(p, aot, ws)
		return alpha*angular + (1-alpha)*spectral
	}, s.cfg.AOTMin, s.cfg.AOTMax, s.cfg.AOTTolerance, s.cfg.MaxIter)

	if lo, _ := s.invert(p, search.X, ws); lo < s.cfg.OvercorrectionThreshold {
		// Every candidate was out of the tables or overcorrected.
		return synaer.NoResult(synaer.StateOutOfDomain)
	}
	spectral := s.fitSpectral(ws)
	angular := s.fitAngular(p, search.X, ws)

	r := synaer.NoResult(synaer.Valid)
	if !search.Converged || !spectral.Converged || !angular.Converged {
		r.State = synaer.NonConvergent
	}
	r.AOT = search.X
	r.Error = search.F
	r.ModelID = s.model.ID
	r.Mixture = spectral.X
	r.ViewScale = angular.X[nd:]
	if s.cfg.EmitSurface {
		r.Surface = make([]float64, 0, len(ws.land)+2*nd)
		r.Surface = append(r.Surface, ws.land...)
		r.Surface = append(r.Surface, ws.dual[0]...)
		r.Surface = append(r.Surface, ws.dual[1]...)
	}
	return r
}

// Residuals returns the best-fit residuals of the spectral and angular
// surface models at optical thickness aot. If any channel inverts to a
// surface reflectance below the overcorrection threshold, both residuals
// are a penalty growing quadratically with the shortfall and no fit is
// attempted. Channels outside the tables count as a shortfall of one
// plus their distance from the tables, so the penalty keeps pointing
// back towards invertible optical thicknesses.
func (s *Solver) Residuals(p *synaer.Pixel, aot float64, ws *Workspace) (spectral, angular float64) {
	lo, miss := s.invert(p, aot, ws)
	if lo < s.cfg.OvercorrectionThreshold {
		d := s.cfg.OvercorrectionThreshold - lo
		if miss > 0 {
			d = 1 + miss
		}
		pen := s.cfg.OvercorrectionPenalty * d * d
		return pen, pen
	}
	return s.fitSpectral(ws).F, s.fitAngular(p, aot, ws).F
}

// invert corrects the observed reflectances of p for ozone absorption,
// converts them to surface reflectance at optical thickness aot,
// storing them in ws, and returns the smallest. Failed inversions hold synaer.OutOfDomain and their summed
// distance from the tables is returned as miss.
func (s *Solver) invert(p *synaer.Pixel, aot float64, ws *Workspace) (lo, miss float64) {
	g := &p.Geometry
	lo = math.Inf(1)
	setFixed(ws.fixed, g.Pressure, g.Land)
	for i, t := range s.model.Land {
		obs := p.Observation.Land[i]
		if s.spectra.Wavelengths != nil {
			obs /= surface.OzoneTransmittance(s.spectra.Wavelengths[i], g.Ozone, g.Land.MuS(), g.Land.MuV())
		}
		ws.land[i] = t.InvertAlbedo(obs, ws.fixed, aot, ws.buf)
		if ws.land[i] == synaer.OutOfDomain {
			miss += t.AlbedoMismatch(obs, ws.fixed, aot, ws.buf)
		}
		lo = math.Min(lo, ws.land[i])
	}
	for v := 0; v < 2; v++ {
		va := g.View(v)
		setFixed(ws.fixed, g.Pressure, va)
		for i, t := range s.model.DualView {
			obs := p.Observation.DualView(v)[i]
			obs /= surface.OzoneTransmittance(s.cfg.DualViewWavelengths[i], g.Ozone, va.MuS(), va.MuV())
			ws.dual[v][i] = t.InvertAlbedo(obs, ws.fixed, aot, ws.buf)
			if ws.dual[v][i] == synaer.OutOfDomain {
				miss += t.AlbedoMismatch(obs, ws.fixed, aot, ws.buf)
			}
			lo = math.Min(lo, ws.dual[v][i])
		}
	}
	return lo, miss
}

func setFixed(dst []float64, pressure float64, v synaer.ViewAngles) {
	dst[0], dst[1], dst[2], dst[3] = pressure, v.SZA, v.VZA, v.RAZ
}

// fitSpectral fits the soil/vegetation mixture to the land-sensor
// surface reflectance in ws. The result holds the vegetation and soil
// weights.
func (s *Solver) fitSpectral(ws *Workspace) minimize.Result {
	veg, soil := s.spectra.Vegetation, s.spectra.Soil
	pen := s.cfg.MixturePenalty
	f := func(x []float64) float64 {
		surface.Mixture(ws.mix, x[0], x[1], veg, soil)
		e := surface.SpectralError(ws.land, ws.mix, s.cfg.LandWeights)
		for _, c := range x {
			if c < 0 {
				e += pen * c * c
			}
		}
		return e
	}
	return minimize.Powell(f, []float64{0.5, 0.5}, minimize.PowellSettings{
		Tolerance: s.cfg.SpectralTolerance,
		MaxIter:   s.cfg.MaxIter,
	})
}

// fitAngular fits the angular surface model to the dual-view surface
// reflectance in ws. The parameters are one spectral parameter per
// dual-view channel followed by the nadir and forward view parameters.
func (s *Solver) fitAngular(p *synaer.Pixel, aot float64, ws *Workspace) minimize.Result {
	nd := len(s.model.DualView)
	g := &p.Geometry
	for v := 0; v < 2; v++ {
		muS := g.View(v).MuS()
		for i, wl := range s.cfg.DualViewWavelengths {
			ws.diffuse[v][i] = surface.DiffuseFraction(aot, s.model.Angstrom, wl, g.Pressure, muS)
		}
	}
	lo, hi, pen := s.cfg.ViewScaleMin, s.cfg.ViewScaleMax, s.cfg.ViewScalePenalty
	weights := s.cfg.DualViewWeights
	f := func(x []float64) float64 {
		omega, views := x[:nd], x[nd:]
		var sum, wsum float64
		for v, pv := range views {
			for i, o := range omega {
				w := 1.
				if weights != nil {
					w = weights[i]
				}
				d := ws.dual[v][i] - s.angular.Reflectance(o, pv, ws.diffuse[v][i])
				sum += w * d * d
				wsum += w
			}
		}
		e := sum / wsum
		for _, pv := range views {
			if pv < lo {
				e += pen * (lo - pv) * (lo - pv)
			} else if pv > hi {
				e += pen * (pv - hi) * (pv - hi)
			}
		}
		return e
	}
	x0 := make([]float64, nd+2)
	for i := 0; i < nd; i++ {
		x0[i] = 0.5 * (ws.dual[0][i] + ws.dual[1][i])
	}
	x0[nd], x0[nd+1] = 1, 1
	return minimize.Powell(f, x0, minimize.PowellSettings{
		Tolerance: s.cfg.AngularTolerance,
		MaxIter:   s.cfg.MaxIter,
	})
}
