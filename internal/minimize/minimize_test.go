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

package minimize

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestPowellQuadraticAnyBasis(t *testing.T) {
	min := []float64{1.5, -2, 0.25}
	a := mat.NewSymDense(3, []float64{
		4, 1, 0.5,
		1, 3, -0.4,
		0.5, -0.4, 2,
	})
	f := func(x []float64) float64 {
		d := mat.NewVecDense(3, []float64{x[0] - min[0], x[1] - min[1], x[2] - min[2]})
		return mat.Inner(d, a, d)
	}
	c, s := math.Cos(0.7), math.Sin(0.7)
	bases := map[string]mat.Matrix{
		"unit": nil,
		"rotated": mat.NewDense(3, 3, []float64{
			c, -s, 0,
			s, c, 0,
			0, 0, 1,
		}),
		"skewed": mat.NewDense(3, 3, []float64{
			1, 1, 0,
			0, 1, 1,
			0.2, 0, 1,
		}),
		"scaled": mat.NewDense(3, 3, []float64{
			-10, 0, 0,
			0, 0.01, 0,
			0, 0, 3,
		}),
	}
	for name, b := range bases {
		t.Run(name, func(t *testing.T) {
			r := Powell(f, []float64{-3, 4, 10}, PowellSettings{
				Tolerance:  1.e-12,
				MaxIter:    200,
				Directions: b,
			})
			if !r.Converged {
				t.Errorf("did not converge in %d iterations", r.Iterations)
			}
			for i := range min {
				if math.Abs(r.X[i]-min[i]) > 1.e-4 {
					t.Errorf("x[%d] = %g, want %g", i, r.X[i], min[i])
				}
			}
			if r.F > 1.e-8 {
				t.Errorf("f = %g, want ~0", r.F)
			}
		})
	}
}

func TestPowellRosenbrock(t *testing.T) {
	f := func(x []float64) float64 {
		return 100*sq(x[1]-x[0]*x[0]) + sq(1-x[0])
	}
	r := Powell(f, []float64{-1.2, 1}, PowellSettings{Tolerance: 1.e-14, MaxIter: 2000})
	if math.Abs(r.X[0]-1) > 1.e-3 || math.Abs(r.X[1]-1) > 1.e-3 {
		t.Errorf("minimum at %v, want (1, 1)", r.X)
	}
}

func TestPowellDoesNotModifyStart(t *testing.T) {
	x0 := []float64{3, 3}
	Powell(func(x []float64) float64 { return sq(x[0]) + sq(x[1]) }, x0, PowellSettings{Tolerance: 1.e-6})
	if x0[0] != 3 || x0[1] != 3 {
		t.Errorf("start point modified: %v", x0)
	}
}

func TestPowellIterationCap(t *testing.T) {
	calls := 0
	f := func(x []float64) float64 {
		calls++
		return 100*sq(x[1]-x[0]*x[0]) + sq(1-x[0])
	}
	r := Powell(f, []float64{-1.2, 1}, PowellSettings{Tolerance: 0, MaxIter: 3})
	if r.Converged {
		t.Error("should not converge in 3 iterations with zero tolerance")
	}
	if r.Iterations != 3 {
		t.Errorf("have %d iterations, want 3", r.Iterations)
	}
	if r.F > f([]float64{-1.2, 1}) {
		t.Errorf("best value %g is worse than the start", r.F)
	}
}

func TestBoundedMatchesBruteForce(t *testing.T) {
	const tol = 1.e-4
	funcs := map[string]func(float64) float64{
		"quadratic":  func(x float64) float64 { return sq(x - 1.234) },
		"asymmetric": func(x float64) float64 { return math.Exp(x) - 3*x },
		"flat":       func(x float64) float64 { return math.Pow(x-0.4, 4) + 0.2 },
		"boundary":   func(x float64) float64 { return 2*x + 1 },
		"upper":      func(x float64) float64 { return -math.Log(x + 1) },
	}
	for name, f := range funcs {
		t.Run(name, func(t *testing.T) {
			const n = 200000
			bestX, bestF := 0., math.Inf(1)
			for i := 0; i <= n; i++ {
				x := 2 * float64(i) / n
				if fx := f(x); fx < bestF {
					bestX, bestF = x, fx
				}
			}
			r := Bounded(f, 0, 2, tol, 100)
			if !r.Converged {
				t.Errorf("did not converge")
			}
			xtol := tol
			if name == "flat" {
				xtol = 0.02 // f is nearly constant near its minimum
			}
			if math.Abs(r.X-bestX) > xtol {
				t.Errorf("x = %g, brute force %g", r.X, bestX)
			}
			if r.F-bestF > 1.e-3 {
				t.Errorf("f = %g, brute force %g", r.F, bestF)
			}
		})
	}
}

func TestBoundedStaysInside(t *testing.T) {
	f := func(x float64) float64 {
		if x <= 0 || x >= 1 {
			t.Fatalf("evaluated outside bounds at %g", x)
		}
		return -x
	}
	r := Bounded(f, 0, 1, 1.e-6, 100)
	if 1-r.X > 1.e-5 {
		t.Errorf("x = %g, want close to 1", r.X)
	}
	r = Bounded(f, 0, 1, 1.e-6, 2)
	if r.Converged || r.Iterations != 2 {
		t.Errorf("iteration cap: converged=%v iterations=%d", r.Converged, r.Iterations)
	}
}
