package greenops

import (
	"fmt"
	"math"
)

// Equivalencies expresses kg CO2e as miles driven and smartphones charged.
//
// Footprints below MinEquivalencyThresholdKg, negative or non-finite values
// yield an empty output. Nothing here returns an error: a report without
// equivalencies is still a complete report.
func Equivalencies(kg float64) EquivalencyOutput {
	if !IsFinite(kg) || kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	if math.IsInf(miles, 0) || math.IsInf(phones, 0) {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}
	}

	milesFormatted := formatEquivalencyValue(miles)
	phonesFormatted := formatEquivalencyValue(phones)

	return EquivalencyOutput{
		InputKg: kg,
		Results: []EquivalencyResult{
			{
				Type:           EquivalencyMilesDriven,
				Value:          miles,
				FormattedValue: milesFormatted,
				Label:          "miles driven",
			},
			{
				Type:           EquivalencySmartphonesCharged,
				Value:          phones,
				FormattedValue: phonesFormatted,
				Label:          "smartphones charged",
			},
		},
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			milesFormatted, phonesFormatted),
	}
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
