// Package domain models the launch feasibility report and the scoring rules
// behind it.
//
// # Inputs
//
// Every analysis is computed from three values supplied per request:
//
//	Coordinates   WGS-84 lat/lng of the selected launch site.
//	CountryRecord national metadata from the country lookup, or nil when the
//	              lookup failed or returned nothing. nil is a valid input.
//	RocketType    "model" (hobby-class) or "industrial" (orbital-class), with an
//	              optional ModelSubType "hobby" or "project" for model rockets.
//
// # Categories
//
// A report always carries the same six categories, each scored independently
// to one of three levels (high, medium, low). Levels are never combined or
// averaged across categories.
//
//	resources     industrial: high when a country record exists and the country
//	              is a UN member, otherwise low. model: always high.
//	              |lat| < 30 appends an equatorial launch note.
//	government    industrial: medium for independent UN members, otherwise low.
//	              model: always high.
//	geography     medium baseline, high when coastal, then population density
//	              (people per km²) overrides: < 50 high, > 200 medium. Rules are
//	              applied in that order and the last one that fires wins.
//	              |lat| < 5 and |lat| > 60 add orbit notes without changing level.
//	geopolitics   high for independent UN members, otherwise medium. Never low.
//	timing        always medium. Launch windows depend only on the hemisphere
//	              (lat > 0 is northern); |lat| < 23.5 adds a monsoon caution.
//	practicality  industrial: medium with a fixed program narrative, plus an
//	              international launch provider note for UN members.
//	              model: high with ranges keyed by ModelSubType.
//
// UN membership and independence are coarse proxies for institutional and
// regulatory maturity. They are not a legal determination.
//
// # Seasons
//
// [CurrentSeason] reports the meteorological season at a latitude using the
// package clock, so tests can pin it with [SetClock].
package domain
