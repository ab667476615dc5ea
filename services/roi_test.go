package services

import (
	"errors"
	"testing"
)

func TestComputeROIExampleScenario(t *testing.T) {
	c := NewROICalculator()

	roi, err := c.Compute("los-angeles-ca", 0.24)
	if err != nil {
		t.Fatalf("Compute(0.24) returned error: %v", err)
	}

	if roi.ChargeCost != 18.00 {
		t.Errorf("ChargeCost: got %.2f, want 18.00", roi.ChargeCost)
	}
	if roi.FuelBaselineCost != 52.50 {
		t.Errorf("FuelBaselineCost: got %.2f, want 52.50", roi.FuelBaselineCost)
	}
	if roi.SavingsPerCharge != 34.50 {
		t.Errorf("SavingsPerCharge: got %.2f, want 34.50", roi.SavingsPerCharge)
	}
	if roi.MonthlySavings != 414.00 {
		t.Errorf("MonthlySavings: got %.2f, want 414.00", roi.MonthlySavings)
	}
	if roi.AnnualSavings != 4968.00 {
		t.Errorf("AnnualSavings: got %.2f, want 4968.00", roi.AnnualSavings)
	}
}

func TestComputeROIAnnualIsMonthlyTimesTwelve(t *testing.T) {
	c := NewROICalculator()

	for _, rate := range []float64{0.10, 0.11, 0.13, 0.18, 0.24, 0.28, 0.3276} {
		roi, err := c.Compute("x", rate)
		if err != nil {
			t.Fatalf("Compute(%.4f) returned error: %v", rate, err)
		}
		if want := round2(roi.MonthlySavings * 12); roi.AnnualSavings != want {
			t.Errorf("rate %.4f: AnnualSavings %.2f != MonthlySavings×12 %.2f",
				rate, roi.AnnualSavings, want)
		}
	}
}

func TestComputeROIRejectsNonPositiveRate(t *testing.T) {
	c := NewROICalculator()

	for _, rate := range []float64{0, -0.12} {
		_, err := c.Compute("x", rate)
		if !errors.Is(err, ErrInvalidRate) {
			t.Errorf("Compute(%.2f): got %v, want ErrInvalidRate", rate, err)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.006, 1.01},
		{34.5, 34.5},
		{0.125, 0.13},
		{-1.006, -1.01},
		{0, 0},
	}

	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
