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

// Package aci computes the Actuaries Climate Index: a composite
// climate-risk index combining five standardized hazard signals derived
// from gridded and tide-gauge geophysical time series.
//
// The five hazards are temperature extremes (T90/T10 percentile
// exceedance over day and night half-days), maximum rolling five-day
// precipitation, consecutive-dry-day drought duration, wind-power
// threshold exceedance, and mean sea level. Each is reduced to a monthly
// series, z-scored against the per-calendar-month statistics of a
// reference period, area-averaged, and merged into
//
//	ACI = (T90 − T10 + precipitation + drought + sealevel + wind) / 6.
//
// Gridded inputs are NetCDF arrays over [time, latitude, longitude];
// missing data is NaN throughout and propagates through every
// calculation rather than raising errors.
package aci
