/*
Copyright © 2024 the ACI authors.
This file is part of ACI.

ACI is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ACI is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ACI.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command aci is a command-line interface for the Actuaries Climate Index.
package main

import (
	"fmt"
	"os"

	"github.com/climatemodel/aci/aciutil"
)

func main() {
	if err := aciutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
