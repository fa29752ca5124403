package greenops

// EPA Formula Constants (2024 Edition)
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
//
// Each constant is the kg CO2e emitted by one unit of the activity:
//
//	equivalency = kg_CO2e / factor
const (
	// EPAMilesDrivenFactor is kg CO2e per mile for an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per full smartphone charge.
	EPASmartphoneChargeFactor = 0.00822
)

// Unit conversion constants for normalizing footprint values to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

// Footprint tier boundaries. A value equal to a boundary falls in the lower band.
const (
	// LowTierMaxKg is the largest footprint still classified as TierLow.
	LowTierMaxKg = 3.0

	// MediumTierMaxKg is the largest footprint still classified as TierMedium.
	MediumTierMaxKg = 10.0
)

const (
	// SavingsReductionFactor is the share of the footprint assumed avoidable by
	// switching to the suggested alternatives. Illustrative, not measured.
	SavingsReductionFactor = 0.3

	// MinEquivalencyThresholdKg is the minimum footprint for showing equivalencies.
	// Below it the equivalencies become meaninglessly small.
	MinEquivalencyThresholdKg = 1.0

	// BarScalePercentPerKg scales a footprint into the width of the report's
	// footprint bar.
	BarScalePercentPerKg = 5.0

	// MaxBarPercent caps the footprint bar width.
	MaxBarPercent = 100.0
)

// Display thresholds for abbreviated large numbers.
const (
	LargeNumberThreshold = 1_000_000
	BillionThreshold     = 1_000_000_000
)
