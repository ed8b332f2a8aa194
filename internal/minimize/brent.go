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

// Package minimize provides derivative-free minimizers: Brent's method
// for scalar functions and Powell's direction-set method for functions of
// several variables. All loops are bounded by an iteration cap; hitting
// the cap returns the best point found with Converged set to false.
package minimize

import "math"

const (
	cgold = 0.3819660112501051 // golden section ratio, (3-√5)/2
	gold  = 1.618033988749895  // golden ratio, bracket magnification
	glim  = 100.               // largest parabolic bracket step magnification
	tiny  = 1.e-20
	zeps  = 1.e-10
)

var sqrtEps = math.Sqrt(2.220446049250313e-16)

// ScalarResult holds the result of a scalar minimization.
type ScalarResult struct {
	X, F       float64
	Iterations int
	Converged  bool
}

// Bounded minimizes f on [lo, hi] with Brent's combination of golden
// section search and parabolic interpolation, returning once the
// minimum is located to within tol. f is never evaluated outside
// (lo, hi).
func Bounded(f func(float64) float64, lo, hi, tol float64, maxIter int) ScalarResult {
	if hi < lo {
		lo, hi = hi, lo
	}
	x := lo + cgold*(hi-lo)
	return brent(f, lo, hi, x, f(x), sqrtEps, tol/3, maxIter)
}

// brent minimizes f inside the interval [a, b], starting from the interior
// point x with value fx. The convergence tolerance at x is
// relTol*|x| + absTol.
func brent(f func(float64) float64, a, b, x, fx, relTol, absTol float64, maxIter int) ScalarResult {
	w, v := x, x
	fw, fv := fx, fx
	var d, e float64
	for iter := 0; iter < maxIter; iter++ {
		xm := 0.5 * (a + b)
		tol1 := relTol*math.Abs(x) + absTol
		tol2 := 2 * tol1
		if math.Abs(x-xm) <= tol2-0.5*(b-a) {
			return ScalarResult{X: x, F: fx, Iterations: iter, Converged: true}
		}
		parabolic := false
		if math.Abs(e) > tol1 {
			// Fit a parabola through x, v and w.
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			etemp := e
			e = d
			if math.Abs(p) < math.Abs(0.5*q*etemp) && p > q*(a-x) && p < q*(b-x) {
				parabolic = true
				d = p / q
				if u := x + d; u-a < tol2 || b-u < tol2 {
					d = math.Copysign(tol1, xm-x)
				}
			}
		}
		if !parabolic {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = cgold * e
		}
		u := x + d
		if math.Abs(d) < tol1 {
			u = x + math.Copysign(tol1, d)
		}
		fu := f(u)
		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
			continue
		}
		if u < x {
			a = u
		} else {
			b = u
		}
		if fu <= fw || w == x {
			v, w = w, u
			fv, fw = fw, fu
		} else if fu <= fv || v == x || v == w {
			v, fv = u, fu
		}
	}
	return ScalarResult{X: x, F: fx, Iterations: maxIter, Converged: false}
}

// bracket searches downhill from the points a and b for a triplet
// a, b, c with f(b) below both f(a) and f(c). ok is false if no such
// triplet was found within maxIter steps, in which case b holds the
// lowest point visited.
func bracket(f func(float64) float64, a, b float64, maxIter int) (ax, bx, cx, fa, fb, fc float64, ok bool) {
	ax, bx = a, b
	fa, fb = f(ax), f(bx)
	if fb > fa {
		ax, bx = bx, ax
		fa, fb = fb, fa
	}
	cx = bx + gold*(bx-ax)
	fc = f(cx)
	for iter := 0; fb > fc; iter++ {
		if iter >= maxIter {
			return bx, cx, cx + gold*(cx-bx), fb, fc, fc, false
		}
		r := (bx - ax) * (fb - fc)
		q := (bx - cx) * (fb - fa)
		denom := 2 * math.Copysign(math.Max(math.Abs(q-r), tiny), q-r)
		u := bx - ((bx-cx)*q-(bx-ax)*r)/denom
		ulim := bx + glim*(cx-bx)
		var fu float64
		switch {
		case (bx-u)*(u-cx) > 0: // u is between b and c
			fu = f(u)
			if fu < fc {
				return bx, u, cx, fb, fu, fc, true
			} else if fu > fb {
				return ax, bx, u, fa, fb, fu, true
			}
			u = cx + gold*(cx-bx)
			fu = f(u)
		case (cx-u)*(u-ulim) > 0: // u is between c and the limit
			fu = f(u)
			if fu < fc {
				bx, cx, u = cx, u, u+gold*(u-cx)
				fb, fc, fu = fc, fu, f(u)
			}
		case (u-ulim)*(ulim-cx) >= 0: // limit u to its maximum value
			u = ulim
			fu = f(u)
		default:
			u = cx + gold*(cx-bx)
			fu = f(u)
		}
		ax, bx, cx = bx, cx, u
		fa, fb, fc = fb, fc, fu
	}
	return ax, bx, cx, fa, fb, fc, true
}

// lineMinimize minimizes f along the line from x in direction dir. On
// return x holds the minimum and dir the displacement actually taken.
// xt is scratch space of the same length as x.
func lineMinimize(f func([]float64) float64, x, dir, xt []float64, tol float64, maxIter int) float64 {
	g := func(t float64) float64 {
		for i := range x {
			xt[i] = x[i] + t*dir[i]
		}
		return f(xt)
	}
	ax, bx, cx, _, fb, _, ok := bracket(g, 0, 1, maxIter)
	t, fmin := bx, fb
	if ok {
		lo, hi := ax, cx
		if lo > hi {
			lo, hi = hi, lo
		}
		r := brent(g, lo, hi, bx, fb, tol, zeps, maxIter)
		t, fmin = r.X, r.F
	}
	for i := range x {
		dir[i] *= t
		x[i] += dir[i]
	}
	return fmin
}
