// Package catalog holds the curated impact records that classifier labels are
// mapped onto. A Catalog is read-only once built: entries are returned by
// value and new categories are added through a catalog file, never by
// changing resolution code.
package catalog

import (
	"fmt"
	"strings"
)

// Category tags a catalog entry for the dashboard breakdown.
type Category string

// Known categories, in dashboard display order.
const (
	CategoryPlastics    Category = "Plastics"
	CategoryElectronics Category = "Electronics"
	CategoryTextiles    Category = "Textiles"
	CategoryPaper       Category = "Paper"
	CategoryOther       Category = "Other"
)

// Categories returns the known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryPlastics,
		CategoryElectronics,
		CategoryTextiles,
		CategoryPaper,
		CategoryOther,
	}
}

// ParseCategory maps a case-insensitive category name to a Category.
// Unknown or empty names map to CategoryOther.
func ParseCategory(s string) Category {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c
		}
	}
	return CategoryOther
}

// FallbackFootprintKg is the footprint assigned to labels no entry matches.
const FallbackFootprintKg = 1.0

// Alternative is a lower-impact substitute suggested alongside an entry.
type Alternative struct {
	Name    string `yaml:"name"     json:"name"     validate:"required"`
	IconRef string `yaml:"icon_ref" json:"icon_ref"`
}

// Entry describes one product category's environmental impact.
type Entry struct {
	// Keywords are lower-case substrings matched against classifier labels,
	// tried in order.
	Keywords []string `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`

	Name              string   `yaml:"name"                json:"name"                validate:"required"`
	Category          Category `yaml:"category"            json:"category"`
	CarbonFootprintKg float64  `yaml:"carbon_footprint_kg" json:"carbon_footprint_kg" validate:"gte=0"`

	ManufacturingImpact  string `yaml:"manufacturing_impact"  json:"manufacturing_impact"`
	TransportationImpact string `yaml:"transportation_impact" json:"transportation_impact"`
	UsageImpact          string `yaml:"usage_impact"          json:"usage_impact"`
	DisposalImpact       string `yaml:"disposal_impact"       json:"disposal_impact"`

	Alternatives []Alternative `yaml:"alternatives" json:"alternatives" validate:"dive"`

	// Fallback is set on entries built by Fallback.
	Fallback bool `yaml:"-" json:"fallback"`
}

// Clone returns a deep copy of e so callers never share slices with the catalog.
func (e Entry) Clone() Entry {
	c := e
	c.Keywords = append([]string(nil), e.Keywords...)
	if e.Alternatives != nil {
		c.Alternatives = append([]Alternative{}, e.Alternatives...)
	}
	return c
}

// AlternativeNames returns the alternative names in catalog order.
func (e Entry) AlternativeNames() []string {
	names := make([]string, 0, len(e.Alternatives))
	for _, a := range e.Alternatives {
		names = append(names, a.Name)
	}
	return names
}

// Catalog is an ordered, immutable sequence of entries. Order is significant:
// the first entry with a matching keyword wins.
type Catalog struct {
	entries []Entry
}

// New builds a catalog from entries, lower-casing keywords and defaulting
// missing categories to CategoryOther. The input slice is not retained.
func New(entries []Entry) *Catalog {
	c := &Catalog{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		e = e.Clone()
		for i, k := range e.Keywords {
			e.Keywords[i] = strings.ToLower(strings.TrimSpace(k))
		}
		e.Category = ParseCategory(string(e.Category))
		if e.Alternatives == nil {
			e.Alternatives = []Alternative{}
		}
		c.entries = append(c.entries, e)
	}
	return c
}

// Entries returns a copy of the catalog in resolution order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Each calls fn for every entry in order until fn returns false. Entries are
// passed by value; fn cannot alter the catalog.
func (c *Catalog) Each(fn func(Entry) bool) {
	for _, e := range c.entries {
		if !fn(e) {
			return
		}
	}
}

// Append returns a new catalog with extra entries placed after c's entries.
func (c *Catalog) Append(extra []Entry) *Catalog {
	all := make([]Entry, 0, len(c.entries)+len(extra))
	all = append(all, c.entries...)
	all = append(all, extra...)
	return New(all)
}

// Fallback returns the generic entry used when no keyword matches label.
// The name is the text before the first comma, trimmed, or the whole label
// when there is no comma or nothing precedes it.
func Fallback(label string) Entry {
	name := label
	if head, _, found := strings.Cut(label, ","); found {
		if trimmed := strings.TrimSpace(head); trimmed != "" {
			name = trimmed
		}
	} else {
		name = strings.TrimSpace(label)
	}

	return Entry{
		Keywords:             []string{},
		Name:                 name,
		Category:             CategoryOther,
		CarbonFootprintKg:    FallbackFootprintKg,
		ManufacturingImpact:  unavailable("manufacturing"),
		TransportationImpact: unavailable("transportation"),
		UsageImpact:          unavailable("usage"),
		DisposalImpact:       unavailable("disposal"),
		Alternatives:         []Alternative{},
		Fallback:             true,
	}
}

func unavailable(stage string) string {
	return fmt.Sprintf("Detailed %s data not available for this item.", stage)
}
