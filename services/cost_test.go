package services

import (
	"testing"

	"evcharge-pipeline/models"
)

func TestComputeInstallCost(t *testing.T) {
	m := NewCostModel()

	tests := []struct {
		region string
		want   int
	}{
		{"CA", 2340}, // 1800 × 1.3
		{"NY", 2250}, // 1800 × 1.25
		{"TX", 1710}, // 1800 × 0.95
		{"TN", 1530}, // 1800 × 0.85
		{"IL", 1800}, // unknown region → 1.0
		{"", 1800},
	}

	for _, tt := range tests {
		loc := &models.Locality{Slug: "x", RegionCode: tt.region}
		got := m.ComputeInstallCost(loc)
		if got.AvgInstallCost != tt.want {
			t.Errorf("ComputeInstallCost(%q) = %d; want %d", tt.region, got.AvgInstallCost, tt.want)
		}
	}
}

func TestComputeInstallCostIdempotent(t *testing.T) {
	m := NewCostModel()
	loc := &models.Locality{Slug: "los-angeles-ca", RegionCode: "CA"}

	first := m.ComputeInstallCost(loc)
	second := m.ComputeInstallCost(loc)
	if first != second {
		t.Errorf("ComputeInstallCost not idempotent: %+v vs %+v", first, second)
	}
}

func TestRegionMultiplierDefault(t *testing.T) {
	m := NewCostModel()
	if got := m.RegionMultiplier("ZZ"); got != 1.0 {
		t.Errorf("RegionMultiplier(ZZ) = %.2f; want 1.0", got)
	}
}
