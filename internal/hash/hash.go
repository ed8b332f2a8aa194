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

// Package hash fingerprints configuration values so that retrieval
// outputs can be traced back to the settings that produced them.
package hash

import (
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// printer dumps values deterministically: map keys are sorted and
// pointers are followed rather than printed.
var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Fingerprint returns a 128-bit hex hash of the contents of object.
// Values with equal contents have equal fingerprints, including values
// holding NaNs or maps.
func Fingerprint(object interface{}) string {
	h := fnv.New128a()
	printer.Fprintf(h, "%#v", object)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Short returns the first 8 characters of Fingerprint(object).
func Short(object interface{}) string {
	return Fingerprint(object)[:8]
}
