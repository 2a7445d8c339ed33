// Package domain models NOAA surface climate observations and the per-region
// summaries derived from them.
//
// # Data Source
//
// Observations come from tab-delimited (TDV) extracts of NOAA surface data,
// one observation per line, typically one file per state:
//
//	CA	1428300000000	9prcjqk3yc80	93.0	0.0	100.0	0.0	95644.0	277.58716
//
// # Field Layout
//
// Exactly nine fields, separated by a horizontal tab and terminated by a newline:
//
//	region code      short identifier, e.g. "CA" (case preserved)
//	timestamp        milliseconds since the Unix epoch; truncated to seconds
//	geohash          observation location; carried but not aggregated
//	humidity         relative humidity, 0-100 %
//	snow             1 = snow cover present, 0 = none
//	cloud cover      0-100 %
//	lightning        1 = lightning strike observed, 0 = none
//	pressure         surface pressure in Pa; carried but not aggregated
//	temperature      surface temperature in Kelvin
//
// Flag columns are read as numbers truncated toward zero, so "1", "1.0" and
// "0.0" are all valid. Temperatures are converted to Fahrenheit at parse time
// (F = K * 1.8 - 459.67); everything downstream of [ParseLine] works in
// Fahrenheit.
//
// A line that does not split into exactly nine fields, has an empty region
// code, or carries a non-numeric or non-finite value in a numeric column is
// rejected with [ErrMalformedRecord].
package domain
