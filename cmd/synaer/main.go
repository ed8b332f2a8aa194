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

// Command synaer is a command-line interface for the SYNAER aerosol
// retrieval.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/synaer/synaerutil"
)

func main() {
	if err := synaerutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
