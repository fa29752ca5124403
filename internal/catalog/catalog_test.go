package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 4, c.Len())

	entries := c.Entries()
	names := []string{entries[0].Name, entries[1].Name, entries[2].Name, entries[3].Name}
	assert.Equal(t, []string{"Plastic Water Bottle", "Smartphone", "Cotton T-Shirt", "Paper Coffee Cup"}, names)

	assert.InDelta(t, 0.082, entries[0].CarbonFootprintKg, 1e-12)
	assert.InDelta(t, 55.0, entries[1].CarbonFootprintKg, 1e-12)
	assert.Equal(t, CategoryElectronics, entries[1].Category)
	assert.Len(t, entries[3].Alternatives, 4)
	assert.NoError(t, c.Validate())
}

func TestCatalog_EntriesAreCopies(t *testing.T) {
	c := Default()
	entries := c.Entries()
	entries[0].Name = "mutated"
	entries[0].Keywords[0] = "mutated"
	entries[0].Alternatives[0].Name = "mutated"

	fresh := c.Entries()
	assert.Equal(t, "Plastic Water Bottle", fresh[0].Name)
	assert.Equal(t, "bottle", fresh[0].Keywords[0])
	assert.Equal(t, "Reusable Stainless Steel Bottle", fresh[0].Alternatives[0].Name)
}

func TestNew_NormalizesKeywordsAndCategory(t *testing.T) {
	c := New([]Entry{{Keywords: []string{"  Laptop "}, Name: "Laptop", Category: "electronics"}})
	e := c.Entries()[0]
	assert.Equal(t, []string{"laptop"}, e.Keywords)
	assert.Equal(t, CategoryElectronics, e.Category)
	assert.NotNil(t, e.Alternatives)
}

func TestCatalog_Each(t *testing.T) {
	var seen []string
	Default().Each(func(e Entry) bool {
		seen = append(seen, e.Name)
		return len(seen) < 2
	})
	assert.Equal(t, []string{"Plastic Water Bottle", "Smartphone"}, seen)
}

func TestCatalog_ValidateRejectsBadEntries(t *testing.T) {
	c := New([]Entry{
		{Keywords: []string{"x"}, Name: "", CarbonFootprintKg: 1},
		{Keywords: nil, Name: "No keywords"},
		{Keywords: []string{"y"}, Name: "Negative", CarbonFootprintKg: -2},
	})
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "entry 0")
	assert.Contains(t, err.Error(), "entry 1")
	assert.Contains(t, err.Error(), "entry 2")
}

func TestFallback(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{label: "xyz-unknown-thing", want: "xyz-unknown-thing"},
		{label: "tabby cat, tabby", want: "tabby cat"},
		{label: "  padded , rest", want: "padded"},
		{label: "", want: ""},
		{label: ", leading comma", want: ", leading comma"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			e := Fallback(tt.label)
			assert.Equal(t, tt.want, e.Name)
			assert.InDelta(t, FallbackFootprintKg, e.CarbonFootprintKg, 1e-12)
			assert.True(t, e.Fallback)
			assert.Empty(t, e.Alternatives)
			assert.NotNil(t, e.Alternatives)
			assert.Equal(t, CategoryOther, e.Category)
			assert.Equal(t, "Detailed manufacturing data not available for this item.", e.ManufacturingImpact)
			assert.Equal(t, "Detailed transportation data not available for this item.", e.TransportationImpact)
			assert.Equal(t, "Detailed usage data not available for this item.", e.UsageImpact)
			assert.Equal(t, "Detailed disposal data not available for this item.", e.DisposalImpact)
		})
	}
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryPaper, ParseCategory("paper"))
	assert.Equal(t, CategoryPlastics, ParseCategory(" PLASTICS "))
	assert.Equal(t, CategoryOther, ParseCategory("glassware"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}

func TestEntry_AlternativeNames(t *testing.T) {
	e := Default().Entries()[1]
	assert.Equal(t, []string{
		"Refurbished Phone", "Phone with Modular Design", "Longer Usage Period", "E-Waste Recycling",
	}, e.AlternativeNames())
	assert.Empty(t, Fallback("thing").AlternativeNames())
}
