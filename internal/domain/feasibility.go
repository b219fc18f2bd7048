package domain

// Level is the coarse feasibility classification of a single category.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	default:
		return false
	}
}

// RocketType selects the class of launch being assessed.
type RocketType string

const (
	RocketModel      RocketType = "model"
	RocketIndustrial RocketType = "industrial"
)

// ModelSubType refines a model rocket analysis. The zero value is allowed and
// scores like ModelProject.
type ModelSubType string

const (
	ModelHobby   ModelSubType = "hobby"
	ModelProject ModelSubType = "project"
)

// Category names one of the six report sections.
type Category string

const (
	CategoryResources    Category = "resources"
	CategoryGovernment   Category = "government"
	CategoryGeography    Category = "geography"
	CategoryGeopolitics  Category = "geopolitics"
	CategoryTiming       Category = "timing"
	CategoryPracticality Category = "practicality"
)

// Categories lists every report category in presentation order.
var Categories = []Category{
	CategoryResources,
	CategoryGovernment,
	CategoryGeography,
	CategoryGeopolitics,
	CategoryTiming,
	CategoryPracticality,
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CountryRecord is the national metadata snapshot used by the scoring rules.
// A nil *CountryRecord means the lookup produced nothing usable.
type CountryRecord struct {
	Name        string  `json:"name,omitempty"`
	Code        string  `json:"code,omitempty"` // ISO 3166-1 alpha-2
	UNMember    bool    `json:"unMember"`
	Independent bool    `json:"independent"`
	Landlocked  bool    `json:"landlocked"`
	Population  int64   `json:"population"`
	Area        float64 `json:"area"` // km²
}

// CategoryResult is the scored outcome of one category. Details are ordered
// with the primary rationale first and are never empty.
type CategoryResult struct {
	Level       Level    `json:"level"`
	Description string   `json:"description"`
	Details     []string `json:"details"`
}

// AnalysisReport holds one result per category. Its JSON form has exactly the
// six category keys.
type AnalysisReport struct {
	Resources    CategoryResult `json:"resources"`
	Government   CategoryResult `json:"government"`
	Geography    CategoryResult `json:"geography"`
	Geopolitics  CategoryResult `json:"geopolitics"`
	Timing       CategoryResult `json:"timing"`
	Practicality CategoryResult `json:"practicality"`
}

// Result returns the result stored under c. ok is false for unknown categories.
func (r AnalysisReport) Result(c Category) (CategoryResult, bool) {
	switch c {
	case CategoryResources:
		return r.Resources, true
	case CategoryGovernment:
		return r.Government, true
	case CategoryGeography:
		return r.Geography, true
	case CategoryGeopolitics:
		return r.Geopolitics, true
	case CategoryTiming:
		return r.Timing, true
	case CategoryPracticality:
		return r.Practicality, true
	default:
		return CategoryResult{}, false
	}
}

// Levels returns the level of every category keyed by category name.
func (r AnalysisReport) Levels() map[Category]Level {
	levels := make(map[Category]Level, len(Categories))
	for _, c := range Categories {
		res, _ := r.Result(c)
		levels[c] = res.Level
	}
	return levels
}
