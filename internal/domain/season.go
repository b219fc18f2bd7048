package domain

import (
	"time"
)

// Season is a meteorological season.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// SeasonAt returns the meteorological season at lat on date t. Latitudes at or
// below the equator use the southern calendar, matching ScoreTiming.
func SeasonAt(lat float64, t time.Time) Season {
	var s Season
	switch t.Month() {
	case time.March, time.April, time.May:
		s = SeasonSpring
	case time.June, time.July, time.August:
		s = SeasonSummer
	case time.September, time.October, time.November:
		s = SeasonAutumn
	default:
		s = SeasonWinter
	}
	if lat > 0 {
		return s
	}
	switch s {
	case SeasonSpring:
		return SeasonAutumn
	case SeasonSummer:
		return SeasonWinter
	case SeasonAutumn:
		return SeasonSpring
	default:
		return SeasonSummer
	}
}

// CurrentSeason returns the season at lat according to the package clock.
func CurrentSeason(lat float64) (Season, time.Time) {
	now := clock.Now().UTC()
	return SeasonAt(lat, now), now
}
