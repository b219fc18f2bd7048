// Command genmock generates analysis report fixtures for a fixed set of
// reference launch sites. It uses the actual domain package so the fixtures
// match what POST /analyze-location returns for the same country data.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/reference_sites.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
)

// site is a reference launch location and the country record REST Countries
// returned for it when the fixtures were last refreshed. A nil country stands
// for a point with no country (open ocean).
type site struct {
	name    string
	coords  domain.Coordinates
	country *domain.CountryRecord
}

// fixture is one generated request/response pair.
type fixture struct {
	Site    string                 `json:"site"`
	Request domain.AnalysisRequest `json:"request"`
	Country *domain.CountryRecord  `json:"country"`
	Report  domain.AnalysisReport  `json:"report"`
}

var sites = []site{
	{
		name:   "Cape Canaveral, Florida",
		coords: domain.Coordinates{Lat: 28.3968, Lng: -80.6057},
		country: &domain.CountryRecord{
			Name: "United States", Code: "US", UNMember: true, Independent: true,
			Population: 329_484_123, Area: 9_372_610,
		},
	},
	{
		name:   "Baikonur Cosmodrome",
		coords: domain.Coordinates{Lat: 45.9646, Lng: 63.3052},
		country: &domain.CountryRecord{
			Name: "Kazakhstan", Code: "KZ", UNMember: true, Independent: true, Landlocked: true,
			Population: 18_754_440, Area: 2_724_900,
		},
	},
	{
		name:   "Guiana Space Centre, Kourou",
		coords: domain.Coordinates{Lat: 5.239, Lng: -52.7683},
		country: &domain.CountryRecord{
			Name: "French Guiana", Code: "GF", UNMember: false, Independent: false,
			Population: 254_541, Area: 83_534,
		},
	},
	{
		name:   "Plesetsk Cosmodrome",
		coords: domain.Coordinates{Lat: 62.9257, Lng: 40.5777},
		country: &domain.CountryRecord{
			Name: "Russia", Code: "RU", UNMember: true, Independent: true,
			Population: 144_104_080, Area: 17_098_242,
		},
	},
	{
		name:   "Rocket Lab Launch Complex 1, Mahia",
		coords: domain.Coordinates{Lat: -39.2615, Lng: 177.8649},
		country: &domain.CountryRecord{
			Name: "New Zealand", Code: "NZ", UNMember: true, Independent: true,
			Population: 5_084_300, Area: 270_467,
		},
	},
	{
		name:   "Tanegashima Space Center",
		coords: domain.Coordinates{Lat: 30.4, Lng: 130.97},
		country: &domain.CountryRecord{
			Name: "Japan", Code: "JP", UNMember: true, Independent: true,
			Population: 125_836_021, Area: 377_930,
		},
	},
	{
		name:   "Swiss model rocket field, Emmen",
		coords: domain.Coordinates{Lat: 47.0928, Lng: 8.3052},
		country: &domain.CountryRecord{
			Name: "Switzerland", Code: "CH", UNMember: true, Independent: true, Landlocked: true,
			Population: 8_654_622, Area: 41_284,
		},
	},
	{
		name:   "Open Pacific",
		coords: domain.Coordinates{Lat: 0, Lng: -140},
	},
}

var variants = []struct {
	rocket domain.RocketType
	sub    domain.ModelSubType
}{
	{rocket: domain.RocketModel, sub: domain.ModelHobby},
	{rocket: domain.RocketModel, sub: domain.ModelProject},
	{rocket: domain.RocketIndustrial},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the report fixture JSON")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	fixtures := make([]fixture, 0, len(sites)*len(variants))
	for _, s := range sites {
		for _, v := range variants {
			coords := s.coords
			req := domain.AnalysisRequest{
				Location:     s.name,
				Coordinates:  &coords,
				RocketType:   v.rocket,
				ModelSubType: v.sub,
			}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			fixtures = append(fixtures, fixture{
				Site:    s.name,
				Request: req,
				Country: s.country,
				Report:  domain.BuildReport(coords, s.country, v.rocket, v.sub),
			})
		}
		log.Printf("%s: %d variants", s.name, len(variants))
	}

	if err := writeJSON(*out, fixtures); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d fixtures: %s", len(fixtures), *out)

	printStats(fixtures)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// collectStats counts levels per category across all fixtures.
func collectStats(fixtures []fixture) map[domain.Category]map[domain.Level]int {
	stats := make(map[domain.Category]map[domain.Level]int, len(domain.Categories))
	for _, c := range domain.Categories {
		stats[c] = map[domain.Level]int{}
	}
	for i := range fixtures {
		for c, l := range fixtures[i].Report.Levels() {
			stats[c][l]++
		}
	}
	return stats
}

func printStats(fixtures []fixture) {
	stats := collectStats(fixtures)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(fixtures))
	for _, c := range domain.Categories {
		fmt.Printf("%-13s high=%d, medium=%d, low=%d\n", c+":",
			stats[c][domain.LevelHigh], stats[c][domain.LevelMedium], stats[c][domain.LevelLow])
	}
	printDensities()
}

func printDensities() {
	type density struct {
		name  string
		value float64
	}
	ds := make([]density, 0, len(sites))
	for _, s := range sites {
		if s.country == nil || s.country.Area <= 0 {
			continue
		}
		ds = append(ds, density{s.country.Name, float64(s.country.Population) / s.country.Area})
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].value > ds[j].value })
	fmt.Print("Population density (per km²): ")
	for i, d := range ds {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%s=%.1f", d.name, d.value)
	}
	fmt.Println()
}
