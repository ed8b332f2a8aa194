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

package lut

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"
)

// Model holds the lookup tables of one discrete aerosol model.
type Model struct {
	ID          int
	Angstrom    float64 // Angstrom coefficient of the model
	Description string

	// Land holds one table per land-sensor channel and DualView one
	// table per dual-view channel (queried with the geometry of either
	// view). Their axes are pressure, solar zenith, view zenith,
	// relative azimuth, AOT and surface albedo; values are TOA
	// reflectance.
	Land, DualView []*Table

	// Ocean holds one table per ocean wavelength/view combination.
	// Their axes are pressure, solar zenith, view zenith, relative
	// azimuth and AOT; values are the TOA reflectance of the atmosphere
	// above a dark ocean.
	Ocean []*Table
}

// Table groups as stored in NetCDF variable names.
var tableGroups = []string{"land", "dualview", "ocean"}

func (m *Model) group(name string) *[]*Table {
	switch name {
	case "land":
		return &m.Land
	case "dualview":
		return &m.DualView
	case "ocean":
		return &m.Ocean
	}
	panic(fmt.Errorf("lut: invalid table group %s", name))
}

// WriteModel writes m to rw in NetCDF format, with table variables named
// land_<i>, dualview_<i> and ocean_<i>.
func WriteModel(rw cdf.ReaderWriterAt, m *Model) error {
	attrs := map[string]interface{}{
		"model_id": []int32{int32(m.ID)},
		"angstrom": []float64{m.Angstrom},
	}
	if m.Description != "" {
		attrs["description"] = m.Description
	}
	var tables []Named
	for _, g := range tableGroups {
		for i, t := range *m.group(g) {
			tables = append(tables, Named{
				Name:        fmt.Sprintf("%s_%d", g, i),
				Description: fmt.Sprintf("%s channel %d TOA reflectance", g, i),
				Table:       t,
			})
		}
	}
	if err := WriteTables(rw, attrs, tables...); err != nil {
		return fmt.Errorf("lut: writing model %d: %v", m.ID, err)
	}
	return nil
}

// ReadModel reads a model written by WriteModel.
func ReadModel(r cdf.ReaderWriterAt) (*Model, error) {
	f, err := Open(r)
	if err != nil {
		return nil, err
	}
	m := new(Model)
	if id, ok := f.Attribute("model_id").([]int32); ok && len(id) > 0 {
		m.ID = int(id[0])
	}
	if a, ok := f.Attribute("angstrom").([]float64); ok && len(a) > 0 {
		m.Angstrom = a[0]
	}
	if d, ok := f.Attribute("description").(string); ok {
		m.Description = d
	}

	type indexed struct {
		i int
		v string
	}
	groups := make(map[string][]indexed)
	for _, v := range f.Variables() {
		for _, g := range tableGroups {
			if !strings.HasPrefix(v, g+"_") {
				continue
			}
			i, err := strconv.Atoi(strings.TrimPrefix(v, g+"_"))
			if err != nil {
				return nil, fmt.Errorf("lut: invalid table variable name %s", v)
			}
			groups[g] = append(groups[g], indexed{i: i, v: v})
		}
	}
	for _, g := range tableGroups {
		vars := groups[g]
		sort.Slice(vars, func(i, j int) bool { return vars[i].i < vars[j].i })
		for j, iv := range vars {
			if iv.i != j {
				return nil, fmt.Errorf("lut: model %d is missing table %s_%d", m.ID, g, j)
			}
			t, err := f.Table(iv.v)
			if err != nil {
				return nil, err
			}
			grp := m.group(g)
			*grp = append(*grp, t)
		}
	}
	return m, nil
}

// ReadModelFile reads a model from the NetCDF file at path.
func ReadModelFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lut: %v", err)
	}
	defer f.Close()
	return ReadModel(f)
}

// WriteModelFile writes m to a new NetCDF file at path.
func WriteModelFile(path string, m *Model) error {
	return createFile(path, func(rw cdf.ReaderWriterAt) error { return WriteModel(rw, m) })
}
