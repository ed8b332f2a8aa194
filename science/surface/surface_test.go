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

package surface

import (
	"math"
	"testing"
)

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

func TestRayleighOpticalThickness(t *testing.T) {
	for _, test := range []struct {
		wavelength, pressure, want float64
	}{
		{wavelength: 550, pressure: StandardPressure, want: 0.0973},
		{wavelength: 865, pressure: StandardPressure, want: 0.0155},
		{wavelength: 550, pressure: StandardPressure / 2, want: 0.0487},
	} {
		have := RayleighOpticalThickness(test.wavelength, test.pressure)
		if absDifferent(have, test.want, 5.e-4) {
			t.Errorf("τ_R(%g nm, %g hPa) = %g, want %g", test.wavelength, test.pressure, have, test.want)
		}
	}
}

func TestAerosolOpticalThickness(t *testing.T) {
	if have := AerosolOpticalThickness(0.3, 1.5, ReferenceWavelength); have != 0.3 {
		t.Errorf("reference wavelength: have %g, want 0.3", have)
	}
	if have := AerosolOpticalThickness(0.3, 1, 1100); absDifferent(have, 0.15, 1.e-12) {
		t.Errorf("have %g, want 0.15", have)
	}
}

func TestDiffuseFraction(t *testing.T) {
	prev := -1.
	for _, aot := range []float64{0, 0.1, 0.5, 1, 2} {
		d := DiffuseFraction(aot, 1.3, 670, 1000, 0.8)
		if d < 0 || d > 1 {
			t.Errorf("aot %g: diffuse fraction %g outside [0, 1]", aot, d)
		}
		if d <= prev {
			t.Errorf("aot %g: diffuse fraction %g not increasing", aot, d)
		}
		prev = d
	}
	if d := DiffuseFraction(0.2, 1.3, 670, 1000, 0); math.IsNaN(d) || math.IsInf(d, 0) {
		t.Errorf("grazing sun: %g", d)
	}
	if DiffuseFraction(0.2, 1.3, 443, 1000, 0.8) <= DiffuseFraction(0.2, 1.3, 865, 1000, 0.8) {
		t.Error("diffuse fraction should decrease with wavelength")
	}
}

func TestAirMass(t *testing.T) {
	if have := AirMass(1, 0.5); absDifferent(have, 3, 1.e-12) {
		t.Errorf("have %g, want 3", have)
	}
	if have := AirMass(0, 0); math.IsInf(have, 0) {
		t.Error("air mass at the horizon should be limited")
	}
	if have := Transmittance(0, 0.3, 0.4); have != 1 {
		t.Errorf("clear transmittance %g", have)
	}
}

func TestSpectralError(t *testing.T) {
	veg := []float64{0.04, 0.08, 0.45, 0.30}
	soil := []float64{0.10, 0.15, 0.25, 0.35}
	rho := make([]float64, 4)
	mix := make([]float64, 4)
	Mixture(rho, 0.7, 0.2, veg, soil)
	Mixture(mix, 0.7, 0.2, veg, soil)
	if e := SpectralError(rho, mix, nil); absDifferent(e, 0, 1.e-15) {
		t.Errorf("exact mixture error %g", e)
	}
	Mixture(mix, 0.8, 0.2, veg, soil)
	e1 := SpectralError(rho, mix, nil)
	e2 := SpectralError(rho, mix, []float64{2, 2, 2, 2})
	if absDifferent(e1, e2, 1.e-15) {
		t.Errorf("uniform weights should not change the error: %g vs %g", e1, e2)
	}
	e3 := SpectralError(rho, mix, []float64{1, 1, 3, 1})
	if e3 <= e1 {
		t.Errorf("weighting the most sensitive channel should increase the error: %g <= %g", e3, e1)
	}
}

func TestOzoneTransmittance(t *testing.T) {
	if have := OzoneTransmittance(550, 0, 0.5, 0.9); have != 1 {
		t.Errorf("no ozone: transmittance %g", have)
	}
	if have := OzoneTransmittance(1600, 300, 0.5, 0.9); have != 1 {
		t.Errorf("outside the Chappuis band: transmittance %g", have)
	}
	// 300 DU at 550 nm with air mass 2: exp(-0.092·0.3·2).
	if have, want := OzoneTransmittance(550, 300, 1, 1), math.Exp(-0.0552); absDifferent(have, want, 1.e-12) {
		t.Errorf("transmittance %g, want %g", have, want)
	}
	if OzoneTransmittance(600, 300, 1, 1) >= OzoneTransmittance(870, 300, 1, 1) {
		t.Error("absorption should peak in the Chappuis band")
	}
	if OzoneTransmittance(550, 300, 0.3, 1) >= OzoneTransmittance(550, 300, 1, 1) {
		t.Error("a longer path should absorb more")
	}
}

func TestAngular(t *testing.T) {
	a := Angular{Gamma: 0.35}
	// Without diffuse light the view parameter scales the direct part.
	r1 := a.Reflectance(0.2, 1, 0)
	r2 := a.Reflectance(0.2, 2, 0)
	direct := r2 - r1
	if absDifferent(direct, 0.2, 1.e-12) {
		t.Errorf("direct component %g, want 0.2", direct)
	}
	// In purely diffuse light the view parameter has no effect.
	if absDifferent(a.Reflectance(0.2, 0.5, 1), a.Reflectance(0.2, 1.5, 1), 1.e-15) {
		t.Error("view parameter should not matter in diffuse light")
	}
	for _, omega := range []float64{0, 0.1, 0.5, 1, 2} {
		if r := a.Reflectance(omega, 1, 0.3); math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			t.Errorf("ω=%g: reflectance %g", omega, r)
		}
	}
}
