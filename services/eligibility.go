package services

import (
	"sort"

	"evcharge-pipeline/models"
)

// EligibilityResolver computes which incentive programs apply to a locality.
type EligibilityResolver struct{}

// NewEligibilityResolver creates an EligibilityResolver.
func NewEligibilityResolver() *EligibilityResolver {
	return &EligibilityResolver{}
}

// Resolve returns the programs that legally apply to loc: every national
// program plus the programs owned by the locality's region. The result is
// stably ordered (national first, then by name) so downstream totals are
// reproducible. An empty program list yields an empty result, never an error.
func (r *EligibilityResolver) Resolve(loc *models.Locality, programs []models.IncentiveProgram) []models.IncentiveProgram {
	applicable := make([]models.IncentiveProgram, 0, len(programs))
	for _, p := range programs {
		if p.IsNational || p.Region == loc.RegionCode {
			applicable = append(applicable, p)
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		if applicable[i].IsNational != applicable[j].IsNational {
			return applicable[i].IsNational
		}
		return applicable[i].Name < applicable[j].Name
	})

	return applicable
}

// TotalRebates sums the fixed-amount rebates of a resolved program set.
// Percentage-based and "varies" programs contribute nothing to the total.
func TotalRebates(programs []models.IncentiveProgram) float64 {
	var total float64
	for _, p := range programs {
		if p.Amount != nil {
			total += *p.Amount
		}
	}
	return total
}
