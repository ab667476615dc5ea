package models

import "time"

// Locality is a single place parsed from the localities dataset.
// Immutable for the duration of a pipeline run.
type Locality struct {
	Slug       string
	Name       string
	RegionCode string
	RegionName string
	County     string
	Population int
	Latitude   float64
	Longitude  float64
}

// RegionRate is the residential electricity price for one region,
// in dollars per kWh.
type RegionRate struct {
	RegionCode string
	RegionName string
	Rate       float64
}

// IncentiveProgram is a rebate or credit for charger installation.
// Exactly one of Amount/Percentage is set, or both are nil ("varies").
// Region is empty iff IsNational is true.
type IncentiveProgram struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Amount         *float64 `json:"amount"`
	Percentage     *float64 `json:"percentage"`
	Type           string   `json:"type"`
	Provider       string   `json:"provider"`
	Eligibility    string   `json:"eligibility"`
	ApplicationURL *string  `json:"applicationUrl"`
	IsNational     bool     `json:"isNational"`
	Region         string   `json:"region"`
}

// CostProfile is the deterministic installation-cost estimate for a locality.
type CostProfile struct {
	Slug           string
	BaseCost       float64
	Multiplier     float64
	AvgInstallCost int
}

// ROIProfile compares home charging cost against the fuel baseline for
// one electricity rate. All monetary fields are rounded to two decimals.
type ROIProfile struct {
	Slug             string
	ElectricityRate  float64
	ChargeCost       float64
	FuelBaselineCost float64
	SavingsPerCharge float64
	MonthlySavings   float64
	AnnualSavings    float64
}

// FAQItem is one question/answer pair of generated content.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Content provenance values.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// GeneratedContent is the narrative + FAQ produced for a locality, either
// by the generation service or by the deterministic fallback.
type GeneratedContent struct {
	Slug   string
	Intro  string
	FAQ    []FAQItem
	Source string
}

// LocalityRecord is the persisted join of everything the pipeline derives
// for one locality, keyed by slug.
type LocalityRecord struct {
	ID               string
	Slug             string
	Name             string
	RegionCode       string
	RegionName       string
	County           string
	Population       int
	Latitude         float64
	Longitude        float64
	ElectricityRate  float64
	AvgInstallCost   int
	Incentives       []IncentiveProgram
	ROI              ROIProfile
	Intro            string
	FAQ              []FAQItem
	ContentSource    string
	ContentGenerated bool
	Published        bool
	MetaTitle        string
	MetaDescription  string
	UpdatedAt        time.Time
}

// LocalityFigures is one locality's computed cost/ROI line, used by the
// insight report and the compute CLI stage.
type LocalityFigures struct {
	Slug           string
	Name           string
	RegionCode     string
	InstallCost    int
	AnnualSavings  float64
	IncentiveCount int
}

// InsightReport holds the computed analytics over a pipeline run's figures.
type InsightReport struct {
	TotalLocalities    int
	AvgInstallCost     float64
	MinInstallCost     int
	MaxInstallCost     int
	BestSavings        *LocalityFigures
	TopSavings         []*LocalityFigures
	LocalitiesByRegion map[string]int
}

// RunSummary is the final per-category accounting of an orchestrator run.
// Succeeded counts items whose content came back from the generation
// service; FellBack counts items persisted with template content.
type RunSummary struct {
	Succeeded     int
	FellBack      int
	FailedPersist int
	Skipped       int
	Total         int
}
