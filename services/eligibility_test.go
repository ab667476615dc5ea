package services

import (
	"testing"

	"evcharge-pipeline/models"
)

func amount(v float64) *float64 { return &v }

func samplePrograms() []models.IncentiveProgram {
	return []models.IncentiveProgram{
		{Name: "Federal EV Charger Tax Credit", Amount: amount(1000), IsNational: true},
		{Name: "NY Charge Ready", Amount: amount(500), Region: "NY"},
		{Name: "California EVSE Rebate", Amount: amount(2000), Region: "CA"},
	}
}

func TestResolveIncludesNationalAndOwnRegion(t *testing.T) {
	r := NewEligibilityResolver()
	loc := &models.Locality{Slug: "los-angeles-ca", RegionCode: "CA"}

	resolved := r.Resolve(loc, samplePrograms())
	if len(resolved) != 2 {
		t.Fatalf("resolved: got %d programs, want 2", len(resolved))
	}
	if !resolved[0].IsNational {
		t.Errorf("first program should be national, got %q", resolved[0].Name)
	}
	if resolved[1].Region != "CA" {
		t.Errorf("second program region: got %q, want CA", resolved[1].Region)
	}
	for _, p := range resolved {
		if p.Region == "NY" {
			t.Errorf("NY-scoped program leaked into CA resolution")
		}
	}
}

func TestResolveRegionWithoutProgramsGetsNational(t *testing.T) {
	r := NewEligibilityResolver()
	loc := &models.Locality{Slug: "houston-tx", RegionCode: "TX"}

	resolved := r.Resolve(loc, samplePrograms())
	if len(resolved) != 1 {
		t.Fatalf("resolved: got %d programs, want 1", len(resolved))
	}
	if !resolved[0].IsNational {
		t.Errorf("expected only the national program, got %q", resolved[0].Name)
	}
}

func TestResolveEmptyProgramsIsEmptyNotError(t *testing.T) {
	r := NewEligibilityResolver()
	loc := &models.Locality{Slug: "chicago-il", RegionCode: "IL"}

	resolved := r.Resolve(loc, nil)
	if len(resolved) != 0 {
		t.Errorf("resolved: got %d programs, want 0", len(resolved))
	}
}

func TestResolveStableOrdering(t *testing.T) {
	r := NewEligibilityResolver()
	loc := &models.Locality{Slug: "san-diego-ca", RegionCode: "CA"}
	programs := []models.IncentiveProgram{
		{Name: "Z Program", Region: "CA"},
		{Name: "A Program", Region: "CA"},
		{Name: "National B", IsNational: true},
		{Name: "National A", IsNational: true},
	}

	first := r.Resolve(loc, programs)
	second := r.Resolve(loc, programs)

	wantOrder := []string{"National A", "National B", "A Program", "Z Program"}
	for i, want := range wantOrder {
		if first[i].Name != want {
			t.Errorf("position %d: got %q, want %q", i, first[i].Name, want)
		}
		if second[i].Name != first[i].Name {
			t.Errorf("resolution not deterministic at position %d", i)
		}
	}
}

func TestTotalRebatesSkipsPercentageAndVaries(t *testing.T) {
	pct := 30.0
	programs := []models.IncentiveProgram{
		{Name: "Fixed", Amount: amount(1000), IsNational: true},
		{Name: "Percent", Percentage: &pct, IsNational: true},
		{Name: "Varies", IsNational: true},
	}

	if got := TotalRebates(programs); got != 1000 {
		t.Errorf("TotalRebates: got %.2f, want 1000", got)
	}
}
