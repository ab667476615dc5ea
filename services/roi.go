package services

import (
	"errors"
	"fmt"

	"evcharge-pipeline/models"
)

// Reference-vehicle constants for the charging-vs-fuel comparison. Named so
// the baseline is auditable and swappable rather than buried in arithmetic.
const (
	// BatteryCapacityKWh is the usable capacity of the reference EV battery.
	BatteryCapacityKWh = 75.0
	// FuelTankGallons is the fuel volume of the equivalent combustion trip.
	FuelTankGallons = 15.0
	// FuelPricePerGallon is the reference national fuel price.
	FuelPricePerGallon = 3.50
	// ChargesPerMonth is the assumed full-charge frequency.
	ChargesPerMonth = 12
)

// ErrInvalidRate signals an electricity rate that is zero or negative.
// That is a caller error, never silently clamped.
var ErrInvalidRate = errors.New("electricity rate must be positive")

// ROICalculator derives charging-vs-fuel savings from an electricity rate.
type ROICalculator struct{}

// NewROICalculator creates an ROICalculator.
func NewROICalculator() *ROICalculator {
	return &ROICalculator{}
}

// Compute returns the savings profile for one locality's electricity rate.
// Intermediate arithmetic is unrounded; only the outputs are rounded to two
// decimals, so rounding error never compounds.
func (c *ROICalculator) Compute(slug string, rate float64) (models.ROIProfile, error) {
	if rate <= 0 {
		return models.ROIProfile{}, fmt.Errorf("%w: got %.4f for %s", ErrInvalidRate, rate, slug)
	}

	chargeCost := rate * BatteryCapacityKWh
	fuelBaseline := FuelTankGallons * FuelPricePerGallon
	savingsPerCharge := fuelBaseline - chargeCost
	monthly := round2(savingsPerCharge * ChargesPerMonth)

	return models.ROIProfile{
		Slug:             slug,
		ElectricityRate:  rate,
		ChargeCost:       round2(chargeCost),
		FuelBaselineCost: round2(fuelBaseline),
		SavingsPerCharge: round2(savingsPerCharge),
		MonthlySavings:   monthly,
		AnnualSavings:    round2(monthly * 12),
	}, nil
}

func round2(f float64) float64 {
	if f < 0 {
		return -float64(int(-f*100+0.5)) / 100
	}
	return float64(int(f*100+0.5)) / 100
}
