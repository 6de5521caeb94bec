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

import (
	"fmt"
	"time"
)

// periodDateFormat specifies the format to use when inputting period
// boundary dates.
const periodDateFormat = "2006-01-02"

// Period is a closed date interval. Reference periods define the
// climatological baseline; study periods bound the reported anomalies.
type Period struct {
	Start, End time.Time
}

// NewPeriod parses a period from two dates in YYYY-MM-DD format.
func NewPeriod(start, end string) (Period, error) {
	s, err := time.Parse(periodDateFormat, start)
	if err != nil {
		return Period{}, fmt.Errorf("aci: period start time: %v", err)
	}
	e, err := time.Parse(periodDateFormat, end)
	if err != nil {
		return Period{}, fmt.Errorf("aci: period end time: %v", err)
	}
	p := Period{Start: s, End: e}
	if e.Before(s) {
		return p, fmt.Errorf("aci: period end time %v is before start time %v", e, s)
	}
	return p, nil
}

// Contains reports whether t falls within the period. Both endpoints are
// included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Overlaps reports whether p and q share any instant.
func (p Period) Overlaps(q Period) bool {
	return !p.End.Before(q.Start) && !q.End.Before(p.Start)
}

func (p Period) String() string {
	return fmt.Sprintf("[%s, %s]",
		p.Start.Format(periodDateFormat), p.End.Format(periodDateFormat))
}
