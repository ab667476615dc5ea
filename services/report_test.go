package services

import (
	"testing"

	"evcharge-pipeline/models"
	"evcharge-pipeline/utils"
)

func sampleFigures() []*models.LocalityFigures {
	return []*models.LocalityFigures{
		{Slug: "new-york-ny", Name: "New York", RegionCode: "NY", InstallCost: 2250, AnnualSavings: 5616.00},
		{Slug: "los-angeles-ca", Name: "Los Angeles", RegionCode: "CA", InstallCost: 2340, AnnualSavings: 4968.00},
		{Slug: "chicago-il", Name: "Chicago", RegionCode: "IL", InstallCost: 1800, AnnualSavings: 6156.00},
		{Slug: "houston-tx", Name: "Houston", RegionCode: "TX", InstallCost: 1710, AnnualSavings: 6372.00},
		{Slug: "san-diego-ca", Name: "San Diego", RegionCode: "CA", InstallCost: 2340, AnnualSavings: 4536.00},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleFigures())
	if r.TotalLocalities != 5 {
		t.Errorf("TotalLocalities: got %d, want 5", r.TotalLocalities)
	}
	if r.LocalitiesByRegion["CA"] != 2 {
		t.Errorf("LocalitiesByRegion[CA]: got %d, want 2", r.LocalitiesByRegion["CA"])
	}
}

func TestInsightCosts(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleFigures())
	if r.MinInstallCost != 1710 {
		t.Errorf("MinInstallCost: got %d, want 1710", r.MinInstallCost)
	}
	if r.MaxInstallCost != 2340 {
		t.Errorf("MaxInstallCost: got %d, want 2340", r.MaxInstallCost)
	}
	wantAvg := 2088.00 // (2250+2340+1800+1710+2340)/5
	if r.AvgInstallCost != wantAvg {
		t.Errorf("AvgInstallCost: got %.2f, want %.2f", r.AvgInstallCost, wantAvg)
	}
}

func TestInsightBestSavings(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleFigures())
	if r.BestSavings == nil {
		t.Fatal("BestSavings should not be nil")
	}
	if r.BestSavings.Slug != "houston-tx" {
		t.Errorf("BestSavings: got %q, want %q", r.BestSavings.Slug, "houston-tx")
	}
}

func TestInsightTopSavingsOrdering(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleFigures())
	if len(r.TopSavings) != 5 {
		t.Fatalf("TopSavings: got %d entries, want 5", len(r.TopSavings))
	}
	for i := 1; i < len(r.TopSavings); i++ {
		if r.TopSavings[i].AnnualSavings > r.TopSavings[i-1].AnnualSavings {
			t.Errorf("TopSavings not sorted descending at position %d", i)
		}
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(nil)
	if r.TotalLocalities != 0 || r.BestSavings != nil {
		t.Errorf("empty input should yield an empty report, got %+v", r)
	}
}
