// Command validate checks an analysis report fixture file against the report
// invariants: every report has exactly the six category keys, levels are
// valid, descriptions and details are present, the fixed per-category rules
// hold, and re-scoring the stored request reproduces the stored report.
//
// Usage:
//
//	go run ./cmd/validate -fixtures data/mock/reference_sites.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// fixture mirrors the records written by cmd/genmock. Report is kept raw so
// the key set can be checked before decoding.
type fixture struct {
	Site    string                 `json:"site"`
	Request domain.AnalysisRequest `json:"request"`
	Country *domain.CountryRecord  `json:"country"`
	Report  json.RawMessage        `json:"report"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("fixtures", "", "path to the report fixture JSON written by genmock")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*path); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Launch Feasibility Fixture Validation ===")
	fmt.Println()

	fixtures, err := loadFixtures(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fixtures: %v\n", err)
		return 1
	}

	phases := runPhases(fixtures)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Fixtures: %d\n", len(fixtures))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadFixtures(path string) ([]fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixtures []fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no fixtures in %s", path)
	}
	return fixtures, nil
}

func runPhases(fixtures []fixture) []*phase {
	reports := make([]domain.AnalysisReport, len(fixtures))
	schema := validateSchema(fixtures, reports)
	return []*phase{
		schema,
		validateResults(fixtures, reports),
		validateRules(fixtures, reports),
		validateDeterminism(fixtures, reports),
	}
}

// ── Phases ──

// validateSchema checks the top-level key set and decodes each report into
// reports for the later phases.
func validateSchema(fixtures []fixture, reports []domain.AnalysisReport) *phase {
	p := &phase{name: "Phase 1: Report schema"}
	for i, f := range fixtures {
		if err := f.Request.Validate(); err != nil {
			p.errorf("%s: stored request invalid: %v", label(f), err)
		}

		var keys map[string]json.RawMessage
		if err := json.Unmarshal(f.Report, &keys); err != nil {
			p.errorf("%s: report is not an object: %v", label(f), err)
			continue
		}
		if len(keys) != len(domain.Categories) {
			p.errorf("%s: report has %d keys, want %d", label(f), len(keys), len(domain.Categories))
		}
		for _, c := range domain.Categories {
			if _, ok := keys[string(c)]; !ok {
				p.errorf("%s: missing category %q", label(f), c)
			}
		}

		if err := json.Unmarshal(f.Report, &reports[i]); err != nil {
			p.errorf("%s: decode report: %v", label(f), err)
		}
	}
	return p
}

func validateResults(fixtures []fixture, reports []domain.AnalysisReport) *phase {
	p := &phase{name: "Phase 2: Category results"}
	for i, f := range fixtures {
		for _, c := range domain.Categories {
			res, _ := reports[i].Result(c)
			if !res.Level.Valid() {
				p.errorf("%s: %s level %q not one of high/medium/low", label(f), c, res.Level)
			}
			if res.Description == "" {
				p.errorf("%s: %s has empty description", label(f), c)
			}
			if len(res.Details) == 0 {
				p.errorf("%s: %s has no details", label(f), c)
			}
			for j, d := range res.Details {
				if d == "" {
					p.errorf("%s: %s details[%d] is empty", label(f), c, j)
				}
			}
		}
	}
	return p
}

func validateRules(fixtures []fixture, reports []domain.AnalysisReport) *phase {
	p := &phase{name: "Phase 3: Fixed category rules"}
	for i, f := range fixtures {
		r := reports[i]

		if r.Geopolitics.Level == domain.LevelLow {
			p.errorf("%s: geopolitics is low", label(f))
		}
		if r.Timing.Level != domain.LevelMedium {
			p.errorf("%s: timing is %s, want medium", label(f), r.Timing.Level)
		}

		switch f.Request.RocketType {
		case domain.RocketModel:
			for _, c := range []domain.Category{domain.CategoryResources, domain.CategoryGovernment, domain.CategoryPracticality} {
				if res, _ := r.Result(c); res.Level != domain.LevelHigh {
					p.errorf("%s: model rocket %s is %s, want high", label(f), c, res.Level)
				}
			}
		case domain.RocketIndustrial:
			if r.Practicality.Level != domain.LevelMedium {
				p.errorf("%s: industrial practicality is %s, want medium", label(f), r.Practicality.Level)
			}
			if r.Government.Level == domain.LevelHigh {
				p.errorf("%s: industrial government is high", label(f))
			}
		}
	}
	return p
}

func validateDeterminism(fixtures []fixture, reports []domain.AnalysisReport) *phase {
	p := &phase{name: "Phase 4: Re-scoring matches stored report"}
	for i, f := range fixtures {
		if f.Request.Coordinates == nil {
			p.errorf("%s: request has no coordinates", label(f))
			continue
		}
		want := domain.BuildReport(*f.Request.Coordinates, f.Country, f.Request.RocketType, f.Request.ModelSubType)
		if diff := cmp.Diff(want, reports[i]); diff != "" {
			p.errorf("%s: stored report differs (-want +got):\n%s", label(f), diff)
		}
	}
	return p
}

func label(f fixture) string {
	l := f.Site + " [" + string(f.Request.RocketType)
	if f.Request.ModelSubType != "" {
		l += "/" + string(f.Request.ModelSubType)
	}
	return l + "]"
}
