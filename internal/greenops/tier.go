package greenops

import "math"

// Tier is the qualitative band of a carbon footprint.
type Tier string

// Footprint tiers.
const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// ClassifyTier bands a footprint in kg CO2e. Boundaries are inclusive on the
// lower band: 3.0 is low, 10.0 is medium.
func ClassifyTier(kg float64) Tier {
	switch {
	case kg > MediumTierMaxKg:
		return TierHigh
	case kg > LowTierMaxKg:
		return TierMedium
	default:
		return TierLow
	}
}

// Label returns the report heading for the tier, e.g. "Medium Impact".
func (t Tier) Label() string {
	switch t {
	case TierLow:
		return "Low Impact"
	case TierMedium:
		return "Medium Impact"
	case TierHigh:
		return "High Impact"
	default:
		return "Unknown Impact"
	}
}

// Color returns the hex colour used when rendering the tier.
func (t Tier) Color() string {
	switch t {
	case TierLow:
		return "#2ecc71"
	case TierMedium:
		return "#f39c12"
	default:
		return "#e74c3c"
	}
}

// BarPercent returns the width of the footprint bar for kg, capped at MaxBarPercent.
func BarPercent(kg float64) float64 {
	if !IsFinite(kg) || kg <= 0 {
		return 0
	}
	return math.Min(kg*BarScalePercentPerKg, MaxBarPercent)
}

// SavingsPotential returns the avoidable share of totalKg at full precision.
func SavingsPotential(totalKg float64) float64 {
	return totalKg * SavingsReductionFactor
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	const base = 10
	m := math.Pow(base, float64(places))
	return math.Round(v*m) / m
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
