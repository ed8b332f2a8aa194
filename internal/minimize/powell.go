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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PowellSettings configure Powell's method.
type PowellSettings struct {
	// Tolerance is the fractional decrease of the objective in one
	// iteration below which the search stops.
	Tolerance float64

	// MaxIter is the maximum number of iterations.
	MaxIter int

	// LineTolerance is the fractional tolerance of the line searches.
	// The default is 2e-4.
	LineTolerance float64

	// Directions holds the initial search directions as columns. If
	// nil, the unit basis is used. It is not modified.
	Directions mat.Matrix
}

// Result holds the result of a multivariate minimization.
type Result struct {
	X          []float64
	F          float64
	Iterations int
	Converged  bool
}

// Powell minimizes f starting from x0 with Powell's direction-set method:
// each iteration minimizes along every direction in turn, then replaces
// the direction of largest decrease by the net displacement of the
// iteration when that is expected to help. The direction set is reset
// to the unit basis every len(x0)+1 iterations to keep it from becoming
// linearly dependent. x0 is not modified.
func Powell(f func(x []float64) float64, x0 []float64, s PowellSettings) Result {
	n := len(x0)
	lineTol := s.LineTolerance
	if lineTol <= 0 {
		lineTol = 2.e-4
	}
	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 200
	}
	dirs := mat.NewDense(n, n, nil)
	if s.Directions != nil {
		dirs.Copy(s.Directions)
	} else {
		resetBasis(dirs)
	}
	x := append([]float64(nil), x0...)
	pt := append([]float64(nil), x0...)
	ptt := make([]float64, n)
	xit := make([]float64, n)
	xt := make([]float64, n)

	fret := f(x)
	for iter := 1; ; iter++ {
		fp := fret
		ibig := 0
		del := 0.
		for i := 0; i < n; i++ {
			mat.Col(xit, i, dirs)
			fptt := fret
			fret = lineMinimize(f, x, xit, xt, lineTol, maxIter)
			if fptt-fret > del {
				del = fptt - fret
				ibig = i
			}
		}
		if 2*(fp-fret) <= s.Tolerance*(math.Abs(fp)+math.Abs(fret))+tiny {
			return Result{X: x, F: fret, Iterations: iter, Converged: true}
		}
		if iter >= maxIter {
			return Result{X: x, F: fret, Iterations: iter, Converged: false}
		}
		if iter%(n+1) == 0 {
			resetBasis(dirs)
			copy(pt, x)
			continue
		}
		// Extrapolate along the average direction of this iteration.
		floats.SubTo(xit, x, pt)
		floats.AddTo(ptt, x, xit)
		copy(pt, x)
		fptt := f(ptt)
		if fptt < fp {
			t := 2*(fp-2*fret+fptt)*sq(fp-fret-del) - del*sq(fp-fptt)
			if t < 0 {
				fret = lineMinimize(f, x, xit, xt, lineTol, maxIter)
				last := make([]float64, n)
				mat.Col(last, n-1, dirs)
				dirs.SetCol(ibig, last)
				dirs.SetCol(n-1, xit)
			}
		}
	}
}

func resetBasis(d *mat.Dense) {
	r, _ := d.Dims()
	d.Zero()
	for i := 0; i < r; i++ {
		d.Set(i, i, 1)
	}
}

func sq(x float64) float64 { return x * x }
