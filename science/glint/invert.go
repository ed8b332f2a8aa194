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
	"math"

	"github.com/spatialmodel/synaer"
)

// Candidate is a windspeed that reproduces an observed glint
// reflectance.
type Candidate struct {
	Windspeed   float64 // [m/s]
	Reflectance float64 // modelled glint reflectance at Windspeed
}

// Inverter inverts glint reflectance for windspeed by searching a table
// of the analytic reflectance over a windspeed grid.
type Inverter struct {
	n     float64
	winds []float64
}

// NewInverter returns an Inverter for refractive index n that tabulates
// windspeeds from min to max [m/s] in steps of step.
func NewInverter(n, min, max, step float64) *Inverter {
	if step <= 0 {
		step = 0.1
	}
	if max < min {
		min, max = max, min
	}
	k := int(math.Floor((max-min)/step+1.e-9)) + 1
	if k < 2 {
		k = 2
	}
	winds := make([]float64, k)
	for i := range winds {
		winds[i] = min + float64(i)*step
	}
	return &Inverter{n: n, winds: winds}
}

// Winds returns the number of windspeed nodes.
func (inv *Inverter) Winds() int { return len(inv.winds) }

// Table fills dst with the glint reflectance at every windspeed node for
// the geometry v and returns it. dst is allocated if it is too short.
func (inv *Inverter) Table(dst []float64, v synaer.ViewAngles) []float64 {
	if len(dst) < len(inv.winds) {
		dst = make([]float64, len(inv.winds))
	}
	dst = dst[:len(inv.winds)]
	for i, w := range inv.winds {
		dst[i] = Reflectance(v, inv.n, w)
	}
	return dst
}

// Invert returns the windspeeds at which the glint reflectance at
// geometry v matches obs. The reflectance-windspeed table is split at its
// interior maximum, if it has one, into two monotone branches that are
// solved independently, so up to two candidates are returned, in order
// of increasing windspeed. A branch yields a candidate only if the table
// node closest to obs is within the largest difference between that node
// and its neighbours. buf is scratch space for the table.
func (inv *Inverter) Invert(v synaer.ViewAngles, obs float64, buf []float64) []Candidate {
	rho := inv.Table(buf, v)
	peak := 0
	for i, r := range rho {
		if r > rho[peak] {
			peak = i
		}
	}
	var cands []Candidate
	if peak == 0 || peak == len(rho)-1 {
		if c, ok := inv.branch(rho, 0, len(rho)-1, obs); ok {
			cands = append(cands, c)
		}
		return cands
	}
	if c, ok := inv.branch(rho, 0, peak, obs); ok {
		cands = append(cands, c)
	}
	if c, ok := inv.branch(rho, peak, len(rho)-1, obs); ok {
		if len(cands) == 0 || c.Windspeed != cands[0].Windspeed {
			cands = append(cands, c)
		}
	}
	return cands
}

// branch solves the monotone section rho[lo:hi+1] of the table.
func (inv *Inverter) branch(rho []float64, lo, hi int, obs float64) (Candidate, bool) {
	best := lo
	for i := lo + 1; i <= hi; i++ {
		if math.Abs(rho[i]-obs) < math.Abs(rho[best]-obs) {
			best = i
		}
	}
	tol := 0.
	if best > lo {
		tol = math.Max(tol, math.Abs(rho[best]-rho[best-1]))
	}
	if best < hi {
		tol = math.Max(tol, math.Abs(rho[best+1]-rho[best]))
	}
	if math.Abs(rho[best]-obs) > tol {
		return Candidate{}, false
	}
	// Refine within whichever neighbouring interval brackets obs.
	for _, j := range []int{best - 1, best} {
		if j < lo || j+1 > hi {
			continue
		}
		r0, r1 := rho[j], rho[j+1]
		if r0 == r1 || (obs-r0)*(obs-r1) > 0 {
			continue
		}
		f := (obs - r0) / (r1 - r0)
		return Candidate{
			Windspeed:   inv.winds[j] + f*(inv.winds[j+1]-inv.winds[j]),
			Reflectance: obs,
		}, true
	}
	return Candidate{Windspeed: inv.winds[best], Reflectance: rho[best]}, true
}

// Resolve returns the candidate whose windspeed is closest to the
// ancillary windspeed. ok is false if there are no candidates.
func Resolve(cands []Candidate, ancillary float64) (best Candidate, ok bool) {
	for i, c := range cands {
		if i == 0 || math.Abs(c.Windspeed-ancillary) < math.Abs(best.Windspeed-ancillary) {
			best = c
		}
	}
	return best, len(cands) > 0
}

// DualView is the windspeed retrieved from the glint observed in the
// nadir and forward views of a dual-view sensor.
type DualView struct {
	// Windspeed is the selected windspeed [m/s].
	Windspeed float64

	// Candidates holds every accepted candidate from both views.
	Candidates []Candidate

	// Glint holds the modelled glint reflectance of the nadir and
	// forward views at Windspeed.
	Glint [2]float64

	// Retrieved is false if no view produced a candidate and the
	// ancillary windspeed was used instead.
	Retrieved bool
}

// InvertDualView retrieves windspeed from the glint reflectances obs
// observed at the nadir and forward geometries. Candidates from both
// views are pooled and the one closest to the ancillary windspeed is
// selected. If neither view yields a candidate, the ancillary windspeed
// is used.
func (inv *Inverter) InvertDualView(nadir, forward synaer.ViewAngles, obs [2]float64, ancillary float64, buf []float64) DualView {
	var r DualView
	for i, v := range []synaer.ViewAngles{nadir, forward} {
		r.Candidates = append(r.Candidates, inv.Invert(v, obs[i], buf)...)
	}
	best, ok := Resolve(r.Candidates, ancillary)
	r.Retrieved = ok
	r.Windspeed = ancillary
	if ok {
		r.Windspeed = best.Windspeed
	}
	r.Glint[0] = Reflectance(nadir, inv.n, r.Windspeed)
	r.Glint[1] = Reflectance(forward, inv.n, r.Windspeed)
	return r
}
