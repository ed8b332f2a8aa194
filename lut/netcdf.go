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

	"github.com/ctessum/cdf"
)

// Named is a table with the NetCDF variable name it is stored under.
type Named struct {
	Name        string
	Description string
	Table       *Table
}

// WriteTables writes tables to rw in NetCDF format, together with the
// global attributes attrs, whose values must be strings or slices of
// numbers. Every axis becomes a dimension with a coordinate variable of
// the same name, so tables sharing an axis name must share the axis
// nodes. Log axes carry the attribute scale = "log".
func WriteTables(rw cdf.ReaderWriterAt, attrs map[string]interface{}, tables ...Named) error {
	axes := make(map[string]Axis)
	var axisNames []string
	for _, nt := range tables {
		for _, a := range nt.Table.axes {
			old, ok := axes[a.Name]
			if !ok {
				axes[a.Name] = a
				axisNames = append(axisNames, a.Name)
				continue
			}
			if !sameAxis(old, a) {
				return fmt.Errorf("lut: axis %s of table %s differs from an earlier table", a.Name, nt.Name)
			}
		}
	}
	lengths := make([]int, len(axisNames))
	for i, name := range axisNames {
		lengths[i] = len(axes[name].Nodes)
	}
	h := cdf.NewHeader(axisNames, lengths)
	for a, val := range attrs {
		h.AddAttribute("", a, val)
	}
	for _, name := range axisNames {
		h.AddVariable(name, []string{name}, []float64{0})
		if axes[name].Log {
			h.AddAttribute(name, "scale", "log")
		}
	}
	for _, nt := range tables {
		if _, ok := axes[nt.Name]; ok {
			return fmt.Errorf("lut: table name %s is also an axis name", nt.Name)
		}
		dims := make([]string, len(nt.Table.axes))
		for j, a := range nt.Table.axes {
			dims[j] = a.Name
		}
		h.AddVariable(nt.Name, dims, []float64{0})
		if nt.Description != "" {
			h.AddAttribute(nt.Name, "description", nt.Description)
		}
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("lut: %v", err)
	}
	f, err := cdf.Create(rw, h)
	if err != nil {
		return fmt.Errorf("lut: creating file: %v", err)
	}
	for _, name := range axisNames {
		nodes := axes[name].Nodes
		w := f.Writer(name, []int{0}, []int{len(nodes)})
		if _, err := w.Write(nodes); err != nil {
			return fmt.Errorf("lut: writing axis %s: %v", name, err)
		}
	}
	for _, nt := range tables {
		w := f.Writer(nt.Name, make([]int, nt.Table.Dims()), nt.Table.Shape())
		if _, err := w.Write(nt.Table.values); err != nil {
			return fmt.Errorf("lut: writing table %s: %v", nt.Name, err)
		}
	}
	return nil
}

func sameAxis(a, b Axis) bool {
	if a.Log != b.Log || len(a.Nodes) != len(b.Nodes) {
		return false
	}
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			return false
		}
	}
	return true
}

// File is an open NetCDF file holding lookup tables.
type File struct {
	f    *cdf.File
	axes map[string]Axis
}

// Open opens a NetCDF file of lookup tables for reading.
func Open(r cdf.ReaderWriterAt) (*File, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("lut: opening file: %v", err)
	}
	return &File{f: f, axes: make(map[string]Axis)}, nil
}

// Variables returns the names of all variables in the file, including
// coordinate variables.
func (f *File) Variables() []string { return f.f.Header.Variables() }

// Attribute returns global attribute a, or nil if it does not exist.
func (f *File) Attribute(a string) interface{} { return f.f.Header.GetAttribute("", a) }

// Table reads the table stored in variable v along with its axes.
func (f *File) Table(v string) (*Table, error) {
	dims := f.f.Header.Dimensions(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("lut: no table named %s", v)
	}
	ta := make([]Axis, len(dims))
	for i, d := range dims {
		a, ok := f.axes[d]
		if !ok {
			nodes, err := f.floats(d)
			if err != nil {
				return nil, fmt.Errorf("lut: reading axis %s: %v", d, err)
			}
			scale, _ := f.f.Header.GetAttribute(d, "scale").(string)
			a = Axis{Name: d, Nodes: nodes, Log: scale == "log"}
			f.axes[d] = a
		}
		ta[i] = a
	}
	values, err := f.floats(v)
	if err != nil {
		return nil, fmt.Errorf("lut: reading table %s: %v", v, err)
	}
	t, err := New(ta, values)
	if err != nil {
		return nil, fmt.Errorf("lut: table %s: %v", v, err)
	}
	return t, nil
}

// floats reads a whole float or double variable.
func (f *File) floats(v string) ([]float64, error) {
	r := f.f.Reader(v, nil, nil)
	if r == nil {
		return nil, fmt.Errorf("no variable named %s", v)
	}
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, x := range b {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("variable %s has unsupported type %T", v, buf)
	}
}

// createFile creates path and writes to it with write.
func createFile(path string, write func(cdf.ReaderWriterAt) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("lut: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
