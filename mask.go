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
	"math"

	"github.com/ctessum/sparse"
)

// DefaultMaskThreshold is the fractional coverage below which a grid
// cell is excluded from all hazard calculations.
const DefaultMaskThreshold = 0.8

// Mask is a field of fractional land or country coverage in [0, 1] on
// the same spatial grid as the input variables.
type Mask struct {
	Coverage *sparse.DenseArray // shape [ny, nx]
}

// NewMask creates a Mask from a coverage field.
func NewMask(coverage *sparse.DenseArray) (*Mask, error) {
	if coverage == nil || len(coverage.Shape) != 2 {
		return nil, ConfigurationError{Msg: "mask coverage must have shape [latitude, longitude]"}
	}
	return &Mask{Coverage: coverage}, nil
}

// Apply replaces the value of every cell whose coverage is below
// threshold with NaN at every time step. Cells at or above the threshold
// pass through unchanged. The input series is not mutated.
func (m *Mask) Apply(s *Series, threshold float64) (*Series, error) {
	if m == nil || m.Coverage == nil || s == nil || s.Data == nil {
		return nil, ConfigurationError{Msg: "data not loaded; ensure both the variable and the mask are loaded"}
	}
	ny, nx := s.Ny(), s.Nx()
	if m.Coverage.Shape[0] != ny || m.Coverage.Shape[1] != nx {
		return nil, fmt.Errorf("aci: mask shape %v does not match grid shape [%d %d]",
			m.Coverage.Shape, ny, nx)
	}
	out := s.Copy()
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if m.Coverage.Get(j, i) >= threshold {
				continue
			}
			for k := range out.Time {
				out.Data.Set(math.NaN(), k, j, i)
			}
		}
	}
	return out, nil
}
