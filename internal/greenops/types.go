// Package greenops holds the carbon-footprint arithmetic shared by the report
// and dashboard: footprint tiers, savings potential, unit normalization,
// real-world equivalencies and display formatting.
package greenops

import "fmt"

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2e to miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to smartphone full charges.
	EquivalencySmartphonesCharged
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// EquivalencyResult represents a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput contains all equivalencies for one footprint value.
type EquivalencyOutput struct {
	// InputKg is the footprint the equivalencies were derived from.
	InputKg float64 `json:"input_kg"`

	// Results holds the equivalencies in display order.
	Results []EquivalencyResult `json:"results,omitempty"`

	// DisplayText is the prose form, e.g.
	// "Equivalent to driving ~286 miles or charging ~6,691 smartphones".
	DisplayText string `json:"display_text,omitempty"`

	// IsEmpty is true when the footprint was below the display threshold.
	IsEmpty bool `json:"is_empty"`
}
