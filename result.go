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

package synaer

// State describes whether the fields of a Result hold a usable retrieval.
type State int

const (
	// Valid means the retrieval succeeded and all fields are consistent.
	Valid State = iota
	// StateOutOfDomain means the pixel could not be matched to the
	// lookup tables.
	StateOutOfDomain
	// NonConvergent means an optimizer hit its iteration cap; the
	// fields hold the best estimate found.
	NonConvergent
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case StateOutOfDomain:
		return "out-of-domain"
	case NonConvergent:
		return "non-convergent"
	default:
		return "unknown"
	}
}

// Result holds the retrieval for one pixel. Fields that are not
// retrieved by a given branch hold NoData.
type Result struct {
	State State `msgpack:"state"`

	AOT   float64 `msgpack:"aot"`   // aerosol optical thickness at 550 nm
	Error float64 `msgpack:"error"` // residual (land) or AOT uncertainty (ocean)

	Angstrom      float64 `msgpack:"angstrom"`
	AngstromError float64 `msgpack:"angstrom_error"`
	ModelID       int     `msgpack:"model_id"`

	// Surface holds the inverted surface reflectance at the retrieved
	// AOT: land-sensor channels followed by dual-view nadir and forward
	// channels. It is only filled when requested.
	Surface []float64 `msgpack:"surface,omitempty"`

	// Mixture holds the vegetation and soil weights and ViewScale the
	// angular-model view factors at the retrieved AOT (land only).
	Mixture   []float64 `msgpack:"mixture,omitempty"`
	ViewScale []float64 `msgpack:"view_scale,omitempty"`

	Glint *GlintDiagnostics `msgpack:"glint,omitempty"`
}

// GlintDiagnostics holds intermediate glint quantities of an ocean
// retrieval.
type GlintDiagnostics struct {
	Windspeed float64 `msgpack:"windspeed"`

	// Candidates holds all accepted windspeed candidates, including the
	// one that was rejected by ambiguity resolution.
	Candidates []float64 `msgpack:"candidates"`

	// Reflectance holds the glint reflectance added to each
	// wavelength/view combination.
	Reflectance []float64 `msgpack:"reflectance"`
}

// NoResult returns a Result in state s with all numeric fields set to
// NoData.
func NoResult(s State) Result {
	return Result{
		State:         s,
		AOT:           NoData,
		Error:         NoData,
		Angstrom:      NoData,
		AngstromError: NoData,
		ModelID:       -1,
	}
}
