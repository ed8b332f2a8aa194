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

// Package lut holds precomputed radiative-transfer lookup tables and
// interpolates them.
package lut

import (
	"fmt"
	"math"
	"sort"

	"github.com/spatialmodel/synaer"
	"gonum.org/v1/gonum/floats"
)

// MaxDims is the largest number of axes a Table may have.
const MaxDims = 6

// Axis is a strictly increasing partition of one table dimension.
// If Log is true, the axis is stored and queried in log space; this is
// used for pressure.
type Axis struct {
	Name  string
	Nodes []float64
	Log   bool
}

// Table is an immutable n-dimensional array of samples addressed by
// monotone axes. It is safe for concurrent use.
type Table struct {
	axes    []Axis
	coords  [][]float64 // axis nodes, log-transformed where requested
	strides []int
	values  []float64 // row major: the last axis varies fastest
}

// New creates a new table from the given axes and values. The inputs are
// copied.
func New(axes []Axis, values []float64) (*Table, error) {
	if len(axes) == 0 || len(axes) > MaxDims {
		return nil, fmt.Errorf("lut: tables need between 1 and %d axes; got %d", MaxDims, len(axes))
	}
	t := &Table{
		axes:    make([]Axis, len(axes)),
		coords:  make([][]float64, len(axes)),
		strides: make([]int, len(axes)),
	}
	n := 1
	for i := len(axes) - 1; i >= 0; i-- {
		a := axes[i]
		if len(a.Nodes) < 2 {
			return nil, fmt.Errorf("lut: axis %d (%s) needs at least 2 nodes", i, a.Name)
		}
		nodes := append([]float64(nil), a.Nodes...)
		c := make([]float64, len(nodes))
		for j, x := range nodes {
			if a.Log {
				if x <= 0 {
					return nil, fmt.Errorf("lut: log axis %s has non-positive node %g", a.Name, x)
				}
				c[j] = math.Log(x)
			} else {
				c[j] = x
			}
			if j > 0 && !(c[j] > c[j-1]) {
				return nil, fmt.Errorf("lut: axis %s is not strictly increasing at node %d", a.Name, j)
			}
		}
		t.axes[i] = Axis{Name: a.Name, Nodes: nodes, Log: a.Log}
		t.coords[i] = c
		t.strides[i] = n
		n *= len(nodes)
	}
	if len(values) != n {
		return nil, fmt.Errorf("lut: table with axis lengths %v needs %d values; got %d", t.Shape(), n, len(values))
	}
	t.values = append([]float64(nil), values...)
	return t, nil
}

// Dims returns the number of axes.
func (t *Table) Dims() int { return len(t.axes) }

// Axis returns a copy of axis i.
func (t *Table) Axis(i int) Axis {
	a := t.axes[i]
	a.Nodes = append([]float64(nil), a.Nodes...)
	return a
}

// Shape returns the number of nodes along each axis.
func (t *Table) Shape() []int {
	s := make([]int, len(t.axes))
	for i, a := range t.axes {
		s[i] = len(a.Nodes)
	}
	return s
}

// Values returns a copy of the table samples in row-major order.
func (t *Table) Values() []float64 { return append([]float64(nil), t.values...) }

// At returns the stored sample at the given node indices.
func (t *Table) At(idx ...int) float64 {
	o := 0
	for i, j := range idx {
		o += j * t.strides[i]
	}
	return t.values[o]
}

// bracket returns the lower node index and the normalized position of x
// within the interval starting there. ok is false if x is outside the
// axis bounds.
func bracket(c []float64, x float64) (i int, frac float64, ok bool) {
	last := len(c) - 1
	if !(x >= c[0] && x <= c[last]) {
		return 0, 0, false
	}
	i = sort.SearchFloat64s(c, x) - 1
	if i < 0 {
		i = 0
	}
	if i >= last {
		i = last - 1
	}
	return i, (x - c[i]) / (c[i+1] - c[i]), true
}

// coord transforms a query coordinate into the storage space of axis i.
func (t *Table) coord(i int, x float64) float64 {
	if t.axes[i].Log {
		if x <= 0 {
			return math.NaN()
		}
		return math.Log(x)
	}
	return x
}

// Interpolate returns the multilinear interpolation of the table at the
// query point x, which must have one coordinate per axis. Points
// outside the bounds of any axis return synaer.OutOfDomain; the table is
// never extrapolated.
func (t *Table) Interpolate(x ...float64) float64 {
	n := len(t.axes)
	if len(x) != n {
		return synaer.OutOfDomain
	}
	var (
		lo   [MaxDims]int
		frac [MaxDims]float64
	)
	for i := 0; i < n; i++ {
		var ok bool
		lo[i], frac[i], ok = bracket(t.coords[i], t.coord(i, x[i]))
		if !ok {
			return synaer.OutOfDomain
		}
	}
	var v float64
	for corner := 0; corner < 1<<uint(n); corner++ {
		w := 1.
		o := 0
		for i := 0; i < n; i++ {
			if corner&(1<<uint(i)) != 0 {
				w *= frac[i]
				o += (lo[i] + 1) * t.strides[i]
			} else {
				w *= 1 - frac[i]
				o += lo[i] * t.strides[i]
			}
		}
		if w != 0 {
			v += w * t.values[o]
		}
	}
	return v
}

// InvertAlbedo returns the surface albedo whose predicted top-of-atmosphere
// reflectance matches obs. The table's last two axes must be aerosol
// optical thickness and surface albedo; fixed holds the coordinates of the
// remaining axes. The table is evaluated along the albedo axis at the two
// AOT nodes bracketing aot, the two curves are blended linearly and the
// resulting reflectance-albedo curve is inverted linearly.
//
// synaer.OutOfDomain is returned if aot is outside the AOT axis, if fixed
// is outside the table, or if obs is outside the range of the curve.
// buf is scratch space with room for at least three times the number of
// albedo nodes; it is allocated if too small.
func (t *Table) InvertAlbedo(obs float64, fixed []float64, aot float64, buf []float64) float64 {
	albedo, curve, ok := t.albedoCurve(fixed, aot, buf)
	if !ok {
		return synaer.OutOfDomain
	}
	return invertCurve(albedo, curve, obs)
}

// AlbedoMismatch returns how far obs lies outside the reflectances the
// table can produce at aot, zero if InvertAlbedo would succeed. An aot
// outside the AOT axis is clamped to it and the clamped distance is
// added. If fixed is outside the table the mismatch is 1.
func (t *Table) AlbedoMismatch(obs float64, fixed []float64, aot float64, buf []float64) float64 {
	n := len(t.axes)
	if n < 2 {
		return 1
	}
	nodes := t.axes[n-2].Nodes
	clamped := math.Max(nodes[0], math.Min(nodes[len(nodes)-1], aot))
	_, curve, ok := t.albedoCurve(fixed, clamped, buf)
	if !ok {
		return 1
	}
	lo, hi := floats.Min(curve), floats.Max(curve)
	m := math.Abs(aot - clamped)
	if obs < lo {
		m += lo - obs
	} else if obs > hi {
		m += obs - hi
	}
	return m
}

// albedoCurve returns the albedo nodes and the reflectance-albedo curve
// at aot, blended between the two bracketing AOT nodes.
func (t *Table) albedoCurve(fixed []float64, aot float64, buf []float64) (albedo, curve []float64, ok bool) {
	n := len(t.axes)
	if n < 2 || len(fixed) != n-2 {
		return nil, nil, false
	}
	iAOT, iAlb := n-2, n-1
	j, ft, ok := bracket(t.coords[iAOT], t.coord(iAOT, aot))
	if !ok {
		return nil, nil, false
	}
	albedo = t.axes[iAlb].Nodes
	nAlb := len(albedo)
	if len(buf) < 3*nAlb {
		buf = make([]float64, 3*nAlb)
	}
	lower, upper := buf[:nAlb], buf[nAlb:2*nAlb]
	curve = buf[2*nAlb : 3*nAlb]

	var q [MaxDims]float64
	copy(q[:], fixed)
	for k, a := range albedo {
		q[iAlb] = a
		q[iAOT] = t.axes[iAOT].Nodes[j]
		lower[k] = t.Interpolate(q[:n]...)
		q[iAOT] = t.axes[iAOT].Nodes[j+1]
		upper[k] = t.Interpolate(q[:n]...)
		if lower[k] == synaer.OutOfDomain || upper[k] == synaer.OutOfDomain {
			return nil, nil, false
		}
		curve[k] = (1-ft)*lower[k] + ft*upper[k]
	}
	return albedo, curve, true
}

// invertCurve linearly inverts the monotone curve y(x) at y = obs.
func invertCurve(x, y []float64, obs float64) float64 {
	for k := 0; k < len(y)-1; k++ {
		y0, y1 := y[k], y[k+1]
		if (obs >= y0 && obs <= y1) || (obs <= y0 && obs >= y1) {
			if y1 == y0 {
				return x[k]
			}
			return x[k] + (obs-y0)/(y1-y0)*(x[k+1]-x[k])
		}
	}
	return synaer.OutOfDomain
}
