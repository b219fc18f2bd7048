package domain

import "math"

const (
	// Latitude bands (degrees, absolute value).
	equatorialLaunchLat = 30.0
	equatorialOrbitLat  = 5.0
	polarOrbitLat       = 60.0
	tropicsLat          = 23.5

	// Population density thresholds in people per km².
	lowDensity  = 50.0
	highDensity = 200.0
)

// BuildReport scores all six categories for one launch site. country may be nil.
func BuildReport(coords Coordinates, country *CountryRecord, rocket RocketType, sub ModelSubType) AnalysisReport {
	return AnalysisReport{
		Resources:    ScoreResources(coords, country, rocket),
		Government:   ScoreGovernment(country, rocket),
		Geography:    ScoreGeography(coords, country),
		Geopolitics:  ScoreGeopolitics(country),
		Timing:       ScoreTiming(coords),
		Practicality: ScorePracticality(rocket, sub, country),
	}
}

// ScoreResources rates access to parts, suppliers and launch infrastructure.
func ScoreResources(coords Coordinates, country *CountryRecord, rocket RocketType) CategoryResult {
	var level Level
	var details []string

	if rocket == RocketIndustrial {
		if country != nil && country.UNMember {
			level = LevelHigh
			details = append(details,
				"Country has established aerospace infrastructure",
				"Industrial suppliers and contractors available",
			)
		} else {
			level = LevelLow
			details = append(details,
				"Limited aerospace industry presence",
				"May require importing specialized components",
			)
		}
	} else {
		level = LevelHigh
		details = append(details,
			"Basic hobby rocket materials widely available online",
			"Standard motors and parts can be shipped internationally",
		)
	}

	if math.Abs(coords.Lat) < equatorialLaunchLat {
		details = append(details, "Equatorial location advantageous for orbital launches")
	}

	description := "Limited local resources"
	if level == LevelHigh {
		description = "Good resource accessibility"
	}
	return CategoryResult{Level: level, Description: description, Details: details}
}

// ScoreGovernment rates the regulatory path to a legal launch.
func ScoreGovernment(country *CountryRecord, rocket RocketType) CategoryResult {
	var level Level
	var details []string

	if rocket == RocketIndustrial {
		if sovereignMember(country) {
			level = LevelMedium
			details = []string{
				"Regulatory framework exists for space activities",
				"Launch licenses available through national space agency",
				"Environmental impact assessment required",
				"Airspace coordination with aviation authorities needed",
			}
		} else {
			level = LevelLow
			details = []string{
				"Complex regulatory environment",
				"May require international permits",
			}
		}
	} else {
		level = LevelHigh
		details = []string{
			"Model rocket launches typically permitted with basic safety compliance",
			"Check local aviation authority for altitude restrictions",
			"Notify nearby airports if launching near controlled airspace",
		}
	}

	description := "Permits required"
	if level == LevelHigh {
		description = "Permissive regulations"
	}
	return CategoryResult{Level: level, Description: description, Details: details}
}

// ScoreGeography rates downrange safety from coastline and population density.
//
// The rules run in a fixed order and each one that fires overwrites the level:
// coastal sets high, then density < 50 sets high or density > 200 sets medium.
// A dense coastal country therefore ends at medium.
func ScoreGeography(coords Coordinates, country *CountryRecord) CategoryResult {
	level := LevelMedium
	var details []string

	if country != nil && !country.Landlocked {
		details = append(details, "Coastal location provides downrange safety zones")
		level = LevelHigh
	} else {
		details = append(details, "Landlocked location requires careful trajectory planning")
	}

	density := populationDensity(country)
	if density < lowDensity {
		details = append(details, "Low population density reduces safety concerns")
		level = LevelHigh
	} else if density > highDensity {
		details = append(details, "High population density requires careful site selection")
		level = LevelMedium
	}

	lat := math.Abs(coords.Lat)
	if lat < equatorialOrbitLat {
		details = append(details, "Near-equatorial location optimal for orbital launches")
	} else if lat > polarOrbitLat {
		details = append(details, "High latitude suitable for polar orbits")
	}

	description := "Geographic constraints exist"
	if level == LevelHigh {
		description = "Favorable geography"
	}
	return CategoryResult{Level: level, Description: description, Details: details}
}

// ScoreGeopolitics rates baseline international legitimacy. Missing data is a
// soft risk, so the result is never low.
func ScoreGeopolitics(country *CountryRecord) CategoryResult {
	if sovereignMember(country) {
		return CategoryResult{
			Level:       LevelHigh,
			Description: "Stable political environment",
			Details: []string{
				"Stable governance structure",
				"Member of international space treaties",
				"Technology transfer agreements possible",
			},
		}
	}
	return CategoryResult{
		Level:       LevelMedium,
		Description: "Some geopolitical considerations",
		Details: []string{
			"May face international cooperation challenges",
			"Technology export controls may apply",
		},
	}
}

// ScoreTiming lists seasonal launch windows. It depends on latitude only.
func ScoreTiming(coords Coordinates) CategoryResult {
	var details []string
	if coords.Lat > 0 {
		details = []string{
			"Best launch windows: April-May and September-October",
			"Avoid winter months due to harsh weather",
			"Summer offers good visibility but may have storms",
		}
	} else {
		details = []string{
			"Best launch windows: October-November and March-April",
			"Avoid June-August winter storms",
			"Spring and autumn offer optimal conditions",
		}
	}

	if math.Abs(coords.Lat) < tropicsLat {
		details = append(details, "Monitor monsoon and cyclone seasons")
	}

	return CategoryResult{
		Level:       LevelMedium,
		Description: "Seasonal planning recommended",
		Details:     details,
	}
}

// ScorePracticality estimates timeline, budget and team size. sub is ignored
// for industrial launches.
func ScorePracticality(rocket RocketType, sub ModelSubType, country *CountryRecord) CategoryResult {
	if rocket == RocketIndustrial {
		details := []string{
			"Estimated timeline: 18-36 months for first launch",
			"Budget: $5M-$50M depending on payload requirements",
			"Team: 30-50 engineers and technicians required",
			"Regulatory approval: 6-12 months",
		}
		if country != nil && country.UNMember {
			details = append(details, "Access to international launch service providers")
		}
		return CategoryResult{
			Level:       LevelMedium,
			Description: "Feasible with proper planning",
			Details:     details,
		}
	}

	timeline, budget, team := "2-4 weeks", "500-2,000", "Team of 2-5 people recommended"
	if sub == ModelHobby {
		timeline, budget, team = "1-2 weeks", "100-500", "Can be done solo"
	}
	return CategoryResult{
		Level:       LevelHigh,
		Description: "Highly practical",
		Details: []string{
			"Timeline: " + timeline + " to first launch",
			"Budget: $" + budget,
			team,
			"Minimal regulatory requirements for low-power rockets",
		},
	}
}

func sovereignMember(country *CountryRecord) bool {
	return country != nil && country.UNMember && country.Independent
}

// populationDensity returns people per km², or 0 when the area is unknown.
func populationDensity(country *CountryRecord) float64 {
	if country == nil || country.Area <= 0 {
		return 0
	}
	return float64(country.Population) / country.Area
}
