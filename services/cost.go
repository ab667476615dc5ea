package services

import (
	"math"

	"evcharge-pipeline/models"
)

// BaseInstallCost is the national baseline for a Level 2 charger install:
// roughly $800 of equipment plus $1,000 of standard electrician labor.
const BaseInstallCost = 1800.0

// regionCostMultipliers adjusts the baseline for regional labor and
// permitting costs. Regions not listed use 1.0.
var regionCostMultipliers = map[string]float64{
	"CA": 1.3, "NY": 1.25, "MA": 1.2, "CT": 1.2, "NJ": 1.2,
	"HI": 1.4, "AK": 1.3, "WA": 1.15, "CO": 1.1, "OR": 1.1,
	"TX": 0.95, "FL": 0.95, "GA": 0.9, "NC": 0.9, "TN": 0.85,
}

// CostModel computes deterministic installation-cost estimates.
type CostModel struct{}

// NewCostModel creates a CostModel.
func NewCostModel() *CostModel {
	return &CostModel{}
}

// RegionMultiplier returns the cost multiplier for a region code,
// defaulting to 1.0 for unknown regions.
func (m *CostModel) RegionMultiplier(regionCode string) float64 {
	if mult, ok := regionCostMultipliers[regionCode]; ok {
		return mult
	}
	return 1.0
}

// ComputeInstallCost returns the estimated average installation cost for a
// locality, rounded half-up to the nearest whole dollar. Pure: no I/O, no
// hidden state, identical input always yields identical output.
func (m *CostModel) ComputeInstallCost(loc *models.Locality) models.CostProfile {
	mult := m.RegionMultiplier(loc.RegionCode)
	return models.CostProfile{
		Slug:           loc.Slug,
		BaseCost:       BaseInstallCost,
		Multiplier:     mult,
		AvgInstallCost: int(math.Round(BaseInstallCost * mult)),
	}
}
