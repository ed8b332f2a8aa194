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

// Package glint models sun glint: specular reflection of sunlight off a
// wind-roughened sea surface. It provides the Cox and Munk (1954)
// bidirectional reflectance with a whitecap correction, its inversion
// for windspeed at the geometry of a dual-view sensor, and a
// precomputed Gaussian-shape lookup table for fast evaluation.
package glint

import (
	"math"

	"github.com/spatialmodel/synaer"
)

const (
	// DefaultRefractiveIndex is the refractive index of sea water in the
	// visible and near infrared.
	DefaultRefractiveIndex = 1.34

	// FoamReflectance is the effective reflectance of whitecaps.
	FoamReflectance = 0.22

	// foamCoefficient is the whitecap coverage per (m/s)³.
	foamCoefficient = 2.95e-6

	// slope variance σ² = slopeVar0 + slopeVar1·W.
	slopeVar0 = 0.003
	slopeVar1 = 0.00512

	minMu = 0.01
)

// SlopeVariance returns the mean square slope of the sea surface at
// windspeed w [m/s]. Negative windspeeds are treated as calm.
func SlopeVariance(w float64) float64 {
	if !(w > 0) {
		w = 0
	}
	return slopeVar0 + slopeVar1*w
}

// FoamCoverage returns the fraction of the sea surface covered by
// whitecaps at windspeed w [m/s].
func FoamCoverage(w float64) float64 {
	if !(w > 0) {
		return 0
	}
	return math.Min(1, foamCoefficient*w*w*w)
}

// Fresnel returns the reflectance of unpolarized light incident at an
// angle with cosine cosI on water with refractive index n.
func Fresnel(cosI, n float64) float64 {
	cosI = math.Min(math.Max(cosI, 0), 1)
	sinT := math.Sqrt(1-cosI*cosI) / n
	if sinT >= 1 {
		return 1
	}
	cosT := math.Sqrt(1 - sinT*sinT)
	rs := (cosI - n*cosT) / (cosI + n*cosT)
	rp := (n*cosI - cosT) / (n*cosI + cosT)
	return 0.5 * (rs*rs + rp*rp)
}

// facet returns the cosine of the angle of incidence on the reflecting
// facet and the squared tangent of its tilt for the given geometry.
// ok is false if the sun or the sensor is below the horizon.
func facet(v synaer.ViewAngles) (muS, muV, cosOmega, tan2Beta float64, ok bool) {
	muS, muV = v.MuS(), v.MuV()
	if muS <= 0 || muV <= 0 {
		return 0, 0, 0, 0, false
	}
	muS, muV = math.Max(muS, minMu), math.Max(muV, minMu)
	sinS := math.Sqrt(1 - muS*muS)
	sinV := math.Sqrt(1 - muV*muV)
	// With a relative azimuth of 0 the sensor looks into the specular
	// direction.
	cos2Omega := muS*muV - sinS*sinV*math.Cos(v.RAZ*math.Pi/180)
	cos2Omega = math.Min(math.Max(cos2Omega, -1), 1)
	cosOmega = math.Sqrt(0.5 * (1 + cos2Omega))
	if cosOmega < 1.e-6 {
		return 0, 0, 0, 0, false
	}
	cosBeta := math.Min((muS+muV)/(2*cosOmega), 1)
	cos2Beta := cosBeta * cosBeta
	return muS, muV, cosOmega, (1 - cos2Beta) / cos2Beta, true
}

// Reflectance returns the sun glint reflectance of the sea surface,
// including whitecaps, for the sun-view geometry v, refractive index n
// and windspeed w [m/s]. The result is the bidirectional reflectance
// factor, π·radiance/(μs·irradiance). It is finite and non-negative for
// all inputs, including calm water.
func Reflectance(v synaer.ViewAngles, n, w float64) float64 {
	f := FoamCoverage(w)
	foam := f * FoamReflectance
	muS, muV, cosOmega, tan2Beta, ok := facet(v)
	if !ok {
		return foam
	}
	s2 := SlopeVariance(w)
	cosBeta2 := 1 / (1 + tan2Beta)
	pdf := math.Exp(-tan2Beta/s2) / (math.Pi * s2)
	specular := math.Pi * Fresnel(cosOmega, n) * pdf / (4 * muS * muV * cosBeta2 * cosBeta2)
	return (1-f)*specular + foam
}
