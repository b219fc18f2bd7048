package main

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFixture(t *testing.T, rocket domain.RocketType, country *domain.CountryRecord) fixture {
	t.Helper()
	coords := domain.Coordinates{Lat: 28.3968, Lng: -80.6057}
	report := domain.BuildReport(coords, country, rocket, "")
	raw, err := json.Marshal(report)
	require.NoError(t, err)
	return fixture{
		Site:    "Cape Canaveral",
		Request: domain.AnalysisRequest{Coordinates: &coords, RocketType: rocket},
		Country: country,
		Report:  raw,
	}
}

func TestRunPhases_GeneratedFixturesPass(t *testing.T) {
	us := &domain.CountryRecord{Name: "United States", Code: "US", UNMember: true, Independent: true, Population: 331_000_000, Area: 9_833_520}
	fixtures := []fixture{
		makeFixture(t, domain.RocketModel, us),
		makeFixture(t, domain.RocketIndustrial, us),
		makeFixture(t, domain.RocketIndustrial, nil),
	}

	for _, p := range runPhases(fixtures) {
		assert.True(t, p.passed(), "%s: %v", p.name, p.errors)
	}
}

func TestRunPhases_DetectsViolations(t *testing.T) {
	f := makeFixture(t, domain.RocketModel, nil)
	f.Report = json.RawMessage(`{
		"resources":{"level":"low","description":"x","details":["a"]},
		"government":{"level":"high","description":"x","details":["a"]},
		"geography":{"level":"medium","description":"x","details":["a"]},
		"geopolitics":{"level":"low","description":"x","details":["a"]},
		"timing":{"level":"high","description":"","details":[]},
		"practicality":{"level":"high","description":"x","details":["a"]}
	}`)

	phases := runPhases([]fixture{f})
	require.Len(t, phases, 4)
	assert.True(t, phases[0].passed(), "schema has all six keys")
	assert.False(t, phases[1].passed(), "empty description and details")
	assert.False(t, phases[2].passed(), "low geopolitics, high timing, low model resources")
	assert.False(t, phases[3].passed(), "report differs from re-scoring")
}

func TestValidateSchema_MissingKey(t *testing.T) {
	f := makeFixture(t, domain.RocketModel, nil)
	f.Report = json.RawMessage(`{"resources":{"level":"high","description":"x","details":["a"]}}`)

	p := validateSchema([]fixture{f}, make([]domain.AnalysisReport, 1))
	assert.False(t, p.passed())
	assert.Contains(t, p.errors[0], "has 1 keys, want 6")
}
