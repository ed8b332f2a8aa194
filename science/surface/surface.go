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

// Package surface provides the closed-form atmosphere and land-surface
// reflectance models used by the land aerosol retrieval: Rayleigh and
// aerosol optical thickness, the diffuse fraction of surface irradiance,
// the linear soil/vegetation spectral mixture, and the angular
// direct/diffuse surface model.
package surface

import (
	"math"

	"gonum.org/v1/gonum/interp"
)

const (
	// StandardPressure is the sea-level reference pressure [hPa].
	StandardPressure = 1013.25

	// ReferenceWavelength is the wavelength at which aerosol optical
	// thickness is reported [nm].
	ReferenceWavelength = 550.

	// forwardFraction is the fraction of aerosol-scattered light that
	// stays in the direct solar beam; Rayleigh scattering keeps half.
	forwardFraction = 0.25

	// minMu limits cosines of zenith angles near the horizon.
	minMu = 0.01
)

// RayleighOpticalThickness returns the Rayleigh optical thickness at the
// given wavelength [nm] and surface pressure [hPa] (Hansen and Travis,
// 1974).
func RayleighOpticalThickness(wavelength, pressure float64) float64 {
	l := wavelength / 1000 // μm
	l2 := l * l
	l4 := l2 * l2
	return 0.008569 / l4 * (1 + 0.0113/l2 + 0.00013/l4) * pressure / StandardPressure
}

// AerosolOpticalThickness scales the optical thickness aot at 550 nm to
// the given wavelength [nm] with the Angstrom exponent angstrom.
func AerosolOpticalThickness(aot, angstrom, wavelength float64) float64 {
	return aot * math.Pow(wavelength/ReferenceWavelength, -angstrom)
}

// DiffuseFraction returns the fraction of the irradiance at the surface
// that is diffuse, for aerosol optical thickness aot at 550 nm with
// Angstrom exponent angstrom, at the given wavelength [nm], surface
// pressure [hPa] and cosine of the solar zenith angle.
func DiffuseFraction(aot, angstrom, wavelength, pressure, muS float64) float64 {
	tauR := RayleighOpticalThickness(wavelength, pressure)
	tauA := AerosolOpticalThickness(aot, angstrom, wavelength)
	if tauA < 0 {
		tauA = 0
	}
	return 1 - math.Exp(-(0.5*tauR+(1-forwardFraction)*tauA)/math.Max(muS, minMu))
}

// AirMass returns the two-way geometric air mass for the given cosines
// of the solar and view zenith angles. Grazing angles are limited to
// keep the result finite.
func AirMass(muS, muV float64) float64 {
	return 1/math.Max(muS, minMu) + 1/math.Max(muV, minMu)
}

// Transmittance returns the two-way direct-beam transmittance through
// an atmosphere with total optical thickness tau.
func Transmittance(tau, muS, muV float64) float64 {
	return math.Exp(-tau * AirMass(muS, muV))
}

// Mixture calculates the linear mixture p0·vegetation + p1·soil into
// dst, which must be as long as the spectra.
func Mixture(dst []float64, p0, p1 float64, vegetation, soil []float64) {
	for i := range dst {
		dst[i] = p0*vegetation[i] + p1*soil[i]
	}
}

// SpectralError returns the weighted mean squared difference between
// the surface reflectance rho and the modelled reflectance mix.
// A nil weights slice weights all channels equally.
func SpectralError(rho, mix, weights []float64) float64 {
	var sum, wsum float64
	for i, r := range rho {
		w := 1.
		if weights != nil {
			w = weights[i]
		}
		d := r - mix[i]
		sum += w * d * d
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

// Chappuis band ozone absorption coefficients [(atm cm)⁻¹] by
// wavelength [nm].
var (
	ozoneWavelengths = []float64{400, 450, 500, 550, 600, 650, 700, 750, 800, 900, 1000}
	ozoneAbsorption  = []float64{0, 0.003, 0.035, 0.092, 0.125, 0.063, 0.023, 0.010, 0.006, 0.002, 0}
	ozoneCurve       interp.PiecewiseLinear
)

func init() {
	if err := ozoneCurve.Fit(ozoneWavelengths, ozoneAbsorption); err != nil {
		panic(err)
	}
}

// OzoneTransmittance returns the two-way transmittance at the given
// wavelength [nm] through a total ozone column [DU]. Absorption outside
// the Chappuis band is neglected.
func OzoneTransmittance(wavelength, ozone, muS, muV float64) float64 {
	if ozone <= 0 {
		return 1
	}
	return math.Exp(-ozoneCurve.Predict(wavelength) * ozone / 1000 * AirMass(muS, muV))
}

// Angular is the North et al. (1999) model of directional surface
// reflectance as a mixture of directly and diffusely illuminated
// components. The spectral part of the reflectance is carried by one
// parameter ω per channel and the angular part by one parameter P per
// view.
type Angular struct {
	// Gamma is the fraction of radiation scattered between the
	// ground and the canopy that escapes; 0.35 is typical.
	Gamma float64
}

// Reflectance returns the modelled surface reflectance for channel
// parameter omega, view parameter p and diffuse fraction d.
func (a Angular) Reflectance(omega, p, d float64) float64 {
	g := (1 - a.Gamma) * omega
	if g >= 1 {
		g = 1 - 1.e-6
	}
	return (1-d)*p*omega + a.Gamma*omega/(1-g)*(d+g*(1-d))
}
