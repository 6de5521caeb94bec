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
	"os"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// LoadGrid reads a gridded variable with dimensions
// [time, latitude, longitude] from a NetCDF file. The time coordinate
// must carry a CF-style "<unit> since <epoch>" units attribute.
func LoadGrid(filename, varName string) (*Series, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, ConfigurationError{Msg: fmt.Sprintf("opening %s: %v", filename, err)}
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("aci: reading netcdf header of %s: %v", filename, err)
	}
	dims := ff.Header.Lengths(varName)
	if len(dims) != 3 {
		return nil, fmt.Errorf("aci: variable %s in %s must have dimensions [time, latitude, longitude]; got %v",
			varName, filename, dims)
	}
	data, err := readVariable(ff, varName)
	if err != nil {
		return nil, fmt.Errorf("aci: reading %s from %s: %v", varName, filename, err)
	}
	times, err := readTimeCoord(ff, dims[0])
	if err != nil {
		return nil, fmt.Errorf("aci: reading time coordinate of %s: %v", filename, err)
	}
	arr := sparse.ZerosDense(dims...)
	copy(arr.Elements, data)
	return NewSeries(times, arr)
}

// LoadMask reads a fractional coverage mask from a NetCDF file. The
// variable is named "country" with dimensions [lat, lon]; the spatial
// dimensions take the names latitude and longitude from here on.
func LoadMask(filename string) (*Mask, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, ConfigurationError{Msg: fmt.Sprintf("opening mask %s: %v", filename, err)}
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("aci: reading netcdf header of %s: %v", filename, err)
	}
	dims := ff.Header.Lengths("country")
	if len(dims) != 2 {
		return nil, fmt.Errorf("aci: mask variable country in %s must have dimensions [lat, lon]; got %v",
			filename, dims)
	}
	data, err := readVariable(ff, "country")
	if err != nil {
		return nil, fmt.Errorf("aci: reading country from %s: %v", filename, err)
	}
	arr := sparse.ZerosDense(dims...)
	copy(arr.Elements, data)
	return NewMask(arr)
}

// readVariable reads a whole variable as float64.
func readVariable(ff *cdf.File, varName string) ([]float64, error) {
	dims := ff.Header.Lengths(varName)
	if len(dims) == 0 {
		return nil, fmt.Errorf("variable %s not in file", varName)
	}
	r := ff.Reader(varName, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("variable %s has unsupported storage type %T", varName, buf)
	}
}

// readTimeCoord decodes the "time" coordinate variable into timestamps.
func readTimeCoord(ff *cdf.File, n int) ([]time.Time, error) {
	offsets, err := readVariable(ff, "time")
	if err != nil {
		return nil, err
	}
	if len(offsets) != n {
		return nil, fmt.Errorf("time coordinate has %d records but variable has %d", len(offsets), n)
	}
	units, ok := ff.Header.GetAttribute("time", "units").(string)
	if !ok {
		return nil, fmt.Errorf("time coordinate has no units attribute")
	}
	step, epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, n)
	for i, off := range offsets {
		times[i] = epoch.Add(time.Duration(off * float64(step)))
	}
	return times, nil
}

// parseTimeUnits interprets a CF time units attribute such as
// "hours since 1900-01-01 00:00:00.0".
func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	fields := strings.Fields(units)
	if len(fields) < 3 || fields[1] != "since" {
		return 0, time.Time{}, fmt.Errorf("cannot interpret time units %q", units)
	}
	var step time.Duration
	switch fields[0] {
	case "seconds":
		step = time.Second
	case "minutes":
		step = time.Minute
	case "hours":
		step = time.Hour
	case "days":
		step = 24 * time.Hour
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q", fields[0])
	}
	date := fields[2]
	clock := "00:00:00"
	if len(fields) > 3 {
		clock = strings.SplitN(fields[3], ".", 2)[0]
	}
	epoch, err := time.Parse("2006-1-2 15:04:05", date+" "+clock)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("cannot parse time epoch in %q: %v", units, err)
	}
	return step, epoch, nil
}

// SaveSeries writes a Series to a NetCDF file with dimensions
// [time, latitude, longitude], suitable for reloading with LoadGrid.
// Values are stored as float32.
func SaveSeries(w *os.File, varName string, s *Series) error {
	nt, ny, nx := len(s.Time), s.Ny(), s.Nx()
	h := cdf.NewHeader(
		[]string{"time", "latitude", "longitude"},
		[]int{nt, ny, nx})
	h.AddAttribute("", "comment", "ACI derived series")
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "hours since "+s.Time[0].Format("2006-01-02 15:04:05"))
	h.AddVariable(varName, []string{"time", "latitude", "longitude"}, []float32{0})
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	offsets := make([]float64, nt)
	for i, t := range s.Time {
		offsets[i] = t.Sub(s.Time[0]).Hours()
	}
	if err := writeNCFDouble(f, "time", offsets); err != nil {
		return fmt.Errorf("aci: writing time coordinate: %v", err)
	}
	if err := writeNCFFloat(f, varName, s.Data); err != nil {
		return fmt.Errorf("aci: writing variable %s to netcdf file: %v", varName, err)
	}
	return cdf.UpdateNumRecs(w)
}

// SaveMask writes a coverage mask to a NetCDF file with dimensions
// [lat, lon], suitable for reloading with LoadMask.
func SaveMask(w *os.File, m *Mask) error {
	ny, nx := m.Coverage.Shape[0], m.Coverage.Shape[1]
	h := cdf.NewHeader([]string{"lat", "lon"}, []int{ny, nx})
	h.AddVariable("country", []string{"lat", "lon"}, []float32{0})
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	if err := writeNCFFloat(f, "country", m.Coverage); err != nil {
		return fmt.Errorf("aci: writing mask to netcdf file: %v", err)
	}
	return cdf.UpdateNumRecs(w)
}

func writeNCFFloat(f *cdf.File, varName string, data *sparse.DenseArray) error {
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(varName)
	start := make([]int, len(end))
	w := f.Writer(varName, start, end)
	_, err := w.Write(data32)
	return err
}

func writeNCFDouble(f *cdf.File, varName string, data []float64) error {
	end := f.Header.Lengths(varName)
	start := make([]int, len(end))
	w := f.Writer(varName, start, end)
	_, err := w.Write(data)
	return err
}
