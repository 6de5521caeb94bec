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

package aci

import "fmt"

// ConfigurationError indicates that required input data or settings were
// missing or inconsistent at construction time. Numeric degeneracies in the
// data (zero variance, all-dry periods, fully masked cells) are never
// configuration errors; they propagate through the calculations as NaN.
type ConfigurationError struct {
	Msg string
}

func (e ConfigurationError) Error() string {
	return "aci: configuration: " + e.Msg
}

// EmptyPeriodError indicates that slicing a series to a period yielded no
// records.
type EmptyPeriodError struct {
	Period Period
}

func (e EmptyPeriodError) Error() string {
	return fmt.Sprintf("aci: no records within period %v", e.Period)
}
