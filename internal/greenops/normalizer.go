package greenops

import (
	"math"
	"strings"
)

// getUnitFactor returns the conversion factor to kilograms for unit and whether
// the unit is recognized. Matching is case-insensitive; an empty unit means kg.
func getUnitFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gco2e":
		return GramsToKg, true
	case "", "kg", "kgco2e":
		return KgToKg, true
	case "t", "tco2e":
		return TonsToKg, true
	case "lb", "lbco2e":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a footprint in unit to kilograms.
//
// Recognized units: g, kg, t, lb and their CO2e variants. It returns
// ErrCalculationOverflow for NaN or Inf input, ErrNegativeValue for negative
// values and ErrInvalidUnit for anything else it cannot convert.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if !IsFinite(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := getUnitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// IsRecognizedUnit reports whether unit is a supported footprint unit.
func IsRecognizedUnit(unit string) bool {
	_, ok := getUnitFactor(unit)
	return ok
}
