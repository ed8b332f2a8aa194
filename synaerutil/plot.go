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
	"math"

	"github.com/spatialmodel/synaer"
	"github.com/spatialmodel/synaer/science/glint"
	"github.com/spatialmodel/synaer/science/ocean"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotGlint saves to file a plot of the glint reflectance of the nadir
// and forward views against windspeed, computed with the analytic model
// and, if g is not nil, with the Gaussian glint table.
func PlotGlint(file string, nadir, forward synaer.ViewAngles, g *glint.GaussianTable, n, minWind, maxWind, step float64) error {
	p := plot.New()
	p.Title.Text = "Glint reflectance"
	p.X.Label.Text = "Windspeed (m/s)"
	p.Y.Label.Text = "Reflectance"

	var lines []interface{}
	for _, v := range []struct {
		name string
		a    synaer.ViewAngles
	}{{"nadir", nadir}, {"forward", forward}} {
		analytic, table := make(plotter.XYs, 0), make(plotter.XYs, 0)
		for w := minWind; w <= maxWind+1.e-9; w += step {
			analytic = append(analytic, plotter.XY{X: w, Y: glint.Reflectance(v.a, n, w)})
			if g != nil {
				if r := g.Reflectance(v.a, n, w); r != synaer.OutOfDomain {
					table = append(table, plotter.XY{X: w, Y: r})
				}
			}
		}
		lines = append(lines, v.name, analytic)
		if len(table) > 0 {
			lines = append(lines, v.name+" (table)", table)
		}
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return fmt.Errorf("synaer: plotting glint: %v", err)
	}
	p.Y.Min = 0
	if err := p.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return fmt.Errorf("synaer: saving glint plot: %v", err)
	}
	return nil
}

// costGrid is the ocean cost surface of one pixel in log10 units.
type costGrid struct {
	aot, angstrom, cost []float64
}

func (g costGrid) Dims() (c, r int)   { return len(g.aot), len(g.angstrom) }
func (g costGrid) X(c int) float64    { return g.aot[c] }
func (g costGrid) Y(r int) float64    { return g.angstrom[r] }
func (g costGrid) Z(c, r int) float64 { return g.cost[r*len(g.aot)+c] }

// PlotCost saves to file a heat map of the ocean cost surface left in ws
// by the retrieval r, with the retrieved cell marked.
func PlotCost(file string, s *ocean.Solver, ws *ocean.Workspace, r synaer.Result) error {
	if r.AOT == synaer.NoData {
		return fmt.Errorf("synaer: the pixel was rejected before the cost surface was calculated")
	}
	cost := ws.Cost()
	for i, c := range cost {
		cost[i] = math.Log10(c + 1.e-12)
	}
	grid := costGrid{aot: s.AOTGrid(), angstrom: s.AngstromGrid(), cost: cost}

	p := plot.New()
	p.Title.Text = "Ocean retrieval cost (log10)"
	p.X.Label.Text = "AOT (550 nm)"
	p.Y.Label.Text = "Angstrom coefficient"
	cm := moreland.ExtendedBlackBody()
	p.Add(plotter.NewHeatMap(grid, cm.Palette(255)))

	best, err := plotter.NewScatter(plotter.XYs{{X: r.AOT, Y: r.Angstrom}})
	if err != nil {
		return fmt.Errorf("synaer: plotting cost: %v", err)
	}
	best.GlyphStyle.Shape = plotutil.Shape(1)
	best.GlyphStyle.Radius = vg.Points(4)
	best.GlyphStyle.Color = plotutil.Color(2)
	p.Add(best)
	p.Legend.Add("retrieved", best)

	if err := p.Save(6*vg.Inch, 5*vg.Inch, file); err != nil {
		return fmt.Errorf("synaer: saving cost plot: %v", err)
	}
	return nil
}
