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

package ocean

import (
	"math"

	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/science/surface"
	"gonum.org/v1/gonum/interp"
)

// Retrieve retrieves the aerosol optical thickness and Angstrom exponent
// of pixel p. The observations are corrected for ozone absorption
// before the glint correction.
func (s *Solver) Retrieve(p *synaer.Pixel, ws *Workspace) synaer.Result {
	nb := len(s.cfg.Wavelengths)
	if len(p.Observation.Nadir) != nb || len(p.Observation.Forward) != nb {
		return synaer.NoResult(synaer.StateOutOfDomain)
	}
	g := &p.Geometry
	for v := 0; v < 2; v++ {
		va := g.View(v)
		for b, r := range p.Observation.DualView(v) {
			ws.obs[v*nb+b] = r / surface.OzoneTransmittance(s.cfg.Wavelengths[b], g.Ozone, va.MuS(), va.MuV())
		}
	}

	var diag *synaer.GlintDiagnostics
	for c := range ws.glint {
		ws.glint[c] = 0
	}
	if s.glint != nil {
		var ok bool
		if diag, ok = s.correctGlint(p, ws); !ok {
			return synaer.NoResult(synaer.StateOutOfDomain)
		}
	}
	if !s.refine(p, ws) {
		return synaer.NoResult(synaer.StateOutOfDomain)
	}
	s.blendModels(ws)
	j, k := s.search(ws)

	r := synaer.NoResult(synaer.Valid)
	if s.cfg.EmitGlintDiagnostics {
		r.Glint = diag
	}
	if j == 0 || j == len(s.angstrom)-1 || k == 0 || k == len(s.aot)-1 {
		// A minimum on the edge of the grid has no neighbours to
		// estimate its uncertainty from and may lie outside it.
		r.State = synaer.StateOutOfDomain
		return r
	}
	r.AOT = s.aot[k]
	r.Angstrom = s.angstrom[j]
	r.Error, r.AngstromError = s.uncertainty(ws, j, k)
	r.ModelID = s.nearestModel(r.Angstrom)
	return r
}

// correctGlint retrieves the windspeed from the glint band and fills
// ws.glint with the glint reflectance of every channel. ok is false if
// the geometry is outside the tables.
func (s *Solver) correctGlint(p *synaer.Pixel, ws *Workspace) (diag *synaer.GlintDiagnostics, ok bool) {
	g := &p.Geometry
	nb := len(s.cfg.Wavelengths)
	var signal [2]float64
	for v := 0; v < 2; v++ {
		va := g.View(v)
		// The darkest atmosphere in the tables.
		c := v*nb + s.cfg.GlintBand
		path := s.models[0].Ocean[c].Interpolate(g.Pressure, va.SZA, va.VZA, va.RAZ, s.native[0])
		if path == synaer.OutOfDomain {
			return nil, false
		}
		signal[v] = math.Max(ws.obs[c]-path, 0)
	}
	ancillary := math.Min(math.Max(p.Wind.Speed(), s.cfg.MinWind), s.cfg.MaxWind)
	dv := s.inverter.InvertDualView(g.Nadir, g.Forward, signal, ancillary, ws.table)
	for v := 0; v < 2; v++ {
		// The refractive index, and so the glint, is the same in all
		// bands.
		r := s.glint.Reflectance(g.View(v), s.cfg.RefractiveIndex, dv.Windspeed)
		if r == synaer.OutOfDomain {
			return nil, false
		}
		for b := 0; b < nb; b++ {
			ws.glint[v*nb+b] = r
		}
	}
	diag = &synaer.GlintDiagnostics{
		Windspeed:   dv.Windspeed,
		Reflectance: append([]float64(nil), ws.glint...),
	}
	for _, c := range dv.Candidates {
		diag.Candidates = append(diag.Candidates, c.Windspeed)
	}
	return diag, true
}

// refine evaluates every model and channel on the native optical
// thickness grid, adds the glint transmitted through the atmosphere and
// resamples the result onto the fine grid with a natural cubic spline.
func (s *Solver) refine(p *synaer.Pixel, ws *Workspace) bool {
	g := &p.Geometry
	nb, nc := len(s.cfg.Wavelengths), s.Channels()
	var spline interp.NaturalCubic
	for m, model := range s.models {
		curve := ws.curves[m]
		for c, t := range model.Ocean {
			va := g.View(c / nb)
			wl := s.cfg.Wavelengths[c%nb]
			tauR := surface.RayleighOpticalThickness(wl, g.Pressure)
			for i, aot := range s.native {
				r := t.Interpolate(g.Pressure, va.SZA, va.VZA, va.RAZ, aot)
				if r == synaer.OutOfDomain {
					return false
				}
				if ws.glint[c] != 0 {
					tau := tauR + surface.AerosolOpticalThickness(aot, model.Angstrom, wl)
					r += ws.glint[c] * surface.Transmittance(tau, va.MuS(), va.MuV())
				}
				ws.native[i] = r
			}
			if err := spline.Fit(s.native, ws.native); err != nil {
				return false
			}
			for k, aot := range s.aot {
				curve[k*nc+c] = spline.Predict(aot)
			}
		}
	}
	return true
}

// blendModels interpolates the refined model curves onto the Angstrom
// exponent grid.
func (s *Solver) blendModels(ws *Workspace) {
	n := len(s.aot) * s.Channels()
	for j := range s.angstrom {
		lo, hi := ws.curves[s.lower[j]], ws.curves[s.lower[j]+1]
		t := s.blend[j]
		pred := ws.pred[j*n : (j+1)*n]
		for i := range pred {
			pred[i] = lo[i] + t*(hi[i]-lo[i])
		}
	}
}

// search fills the cost grid and returns the indices of its minimum.
// Of equal minima the one closest to the centre of the grid is chosen,
// so that directions in which the cost is flat do not push the result
// onto the grid boundary.
func (s *Solver) search(ws *Workspace) (jBest, kBest int) {
	nc, nf, na := s.Channels(), len(s.aot), len(s.angstrom)
	best := math.Inf(1)
	bestDist := math.Inf(1)
	for j := 0; j < na; j++ {
		for k := 0; k < nf; k++ {
			pred := ws.pred[(j*nf+k)*nc : (j*nf+k+1)*nc]
			var cost float64
			for c, r := range pred {
				d := r - ws.obs[c]
				cost += ws.weight[c] * d * d
			}
			ws.cost[j*nf+k] = cost
			dist := centreDistance(j, na) + centreDistance(k, nf)
			if cost < best || (cost == best && dist < bestDist) {
				best, bestDist = cost, dist
				jBest, kBest = j, k
			}
		}
	}
	return jBest, kBest
}

func centreDistance(i, n int) float64 {
	return math.Abs(float64(i) - 0.5*float64(n-1))
}

// uncertainty propagates the residuals at grid cell (j, k) to the
// uncertainties of optical thickness and Angstrom exponent using
// central differences over the neighbouring cells. An uncertainty is
// NoData if the observations are insensitive to the quantity.
func (s *Solver) uncertainty(ws *Workspace, j, k int) (aotErr, angstromErr float64) {
	nc, nf := s.Channels(), len(s.aot)
	at := func(j, k, c int) float64 { return ws.pred[(j*nf+k)*nc+c] }
	dAOT := s.aot[k+1] - s.aot[k-1]
	dAng := s.angstrom[j+1] - s.angstrom[j-1]
	var sAOT, sAng float64
	for c := 0; c < nc; c++ {
		r := math.Max(math.Abs(at(j, k, c)-ws.obs[c]), s.cfg.ResidualFloor)
		gAOT := (at(j, k+1, c) - at(j, k-1, c)) / dAOT
		gAng := (at(j+1, k, c) - at(j-1, k, c)) / dAng
		sAOT += ws.weight[c] * gAOT * gAOT / (r * r)
		sAng += ws.weight[c] * gAng * gAng / (r * r)
	}
	aotErr, angstromErr = synaer.NoData, synaer.NoData
	if sAOT > 0 {
		aotErr = 1 / math.Sqrt(sAOT)
	}
	if sAng > 0 {
		angstromErr = 1 / math.Sqrt(sAng)
	}
	return aotErr, angstromErr
}

// nearestModel returns the identifier of the model whose Angstrom
// coefficient is closest to a.
func (s *Solver) nearestModel(a float64) int {
	best := 0
	for i, m := range s.models {
		if math.Abs(m.Angstrom-a) < math.Abs(s.models[best].Angstrom-a) {
			best = i
		}
	}
	return s.models[best].ID
}
