// Package dashboard derives summary statistics from the scan history. Every
// value is recomputed from the records passed in; nothing is stored.
package dashboard

import (
	"strings"

	"github.com/rshade/ecolens/internal/catalog"
	"github.com/rshade/ecolens/internal/greenops"
	"github.com/rshade/ecolens/internal/history"
)

// BreakdownMode selects how the category breakdown is produced.
type BreakdownMode string

const (
	// BreakdownHistory aggregates footprint share per category over the history.
	BreakdownHistory BreakdownMode = "history"

	// BreakdownIllustrative reports the fixed sample distribution regardless
	// of history content.
	BreakdownIllustrative BreakdownMode = "illustrative"
)

// ParseBreakdownMode returns the mode named by s and whether it is known.
// An empty string selects BreakdownHistory.
func ParseBreakdownMode(s string) (BreakdownMode, bool) {
	switch BreakdownMode(strings.ToLower(strings.TrimSpace(s))) {
	case BreakdownHistory, "":
		return BreakdownHistory, true
	case BreakdownIllustrative:
		return BreakdownIllustrative, true
	default:
		return "", false
	}
}

// CategoryShare is one row of the category breakdown.
type CategoryShare struct {
	Category catalog.Category `json:"category"`
	Percent  float64          `json:"percent"`
	CarbonKg float64          `json:"carbon_kg"`
	Scans    int              `json:"scans"`
	Color    string           `json:"color"`
}

// Summary is the dashboard view of a history.
type Summary struct {
	TotalScans         int             `json:"total_scans"`
	TotalCarbonKg      float64         `json:"total_carbon_kg"`
	SavingsPotentialKg float64         `json:"savings_potential_kg"`
	BreakdownMode      BreakdownMode   `json:"breakdown_mode"`
	Breakdown          []CategoryShare `json:"category_breakdown"`
}

// SavingsDisplay is SavingsPotentialKg rounded to one decimal place.
func (s Summary) SavingsDisplay() float64 {
	return greenops.RoundTo(s.SavingsPotentialKg, 1)
}

// TotalDisplay is TotalCarbonKg rounded to one decimal place.
func (s Summary) TotalDisplay() float64 {
	return greenops.RoundTo(s.TotalCarbonKg, 1)
}

// Summarize computes the dashboard for records. It is a pure function of its
// input. NaN, infinite and negative footprints count as zero.
func Summarize(records []history.ScanRecord, mode BreakdownMode) Summary {
	var total float64
	for _, r := range records {
		total += footprint(r)
	}

	s := Summary{
		TotalScans:         len(records),
		TotalCarbonKg:      total,
		SavingsPotentialKg: greenops.SavingsPotential(total),
		BreakdownMode:      mode,
	}

	if mode == BreakdownIllustrative {
		s.Breakdown = IllustrativeBreakdown()
	} else {
		s.BreakdownMode = BreakdownHistory
		s.Breakdown = historyBreakdown(records, total)
	}
	return s
}

// historyBreakdown shares total footprint across categories. When every
// footprint is zero the share falls back to scan counts so that scanned
// categories still show up.
func historyBreakdown(records []history.ScanRecord, total float64) []CategoryShare {
	idx := make(map[catalog.Category]int)
	shares := make([]CategoryShare, 0, len(catalog.Categories()))
	for i, c := range catalog.Categories() {
		idx[c] = i
		shares = append(shares, CategoryShare{Category: c, Color: CategoryColor(c)})
	}

	for _, r := range records {
		i := idx[catalog.ParseCategory(string(r.Category))]
		shares[i].Scans++
		shares[i].CarbonKg += footprint(r)
	}

	const hundred = 100.0
	for i := range shares {
		switch {
		case total > 0:
			shares[i].Percent = shares[i].CarbonKg / total * hundred
		case len(records) > 0:
			shares[i].Percent = float64(shares[i].Scans) / float64(len(records)) * hundred
		}
	}
	return shares
}

// IllustrativeBreakdown returns the fixed sample distribution.
func IllustrativeBreakdown() []CategoryShare {
	fixed := []struct {
		c catalog.Category
		p float64
	}{
		{catalog.CategoryPlastics, 35},
		{catalog.CategoryElectronics, 25},
		{catalog.CategoryTextiles, 20},
		{catalog.CategoryPaper, 15},
		{catalog.CategoryOther, 5},
	}
	out := make([]CategoryShare, 0, len(fixed))
	for _, f := range fixed {
		out = append(out, CategoryShare{Category: f.c, Percent: f.p, Color: CategoryColor(f.c)})
	}
	return out
}

// CategoryColor returns the display colour for c.
func CategoryColor(c catalog.Category) string {
	switch c {
	case catalog.CategoryPlastics:
		return "#e74c3c"
	case catalog.CategoryElectronics:
		return "#3498db"
	case catalog.CategoryTextiles:
		return "#9b59b6"
	case catalog.CategoryPaper:
		return "#f1c40f"
	default:
		return "#95a5a6"
	}
}

func footprint(r history.ScanRecord) float64 {
	v := r.CarbonFootprintKg
	if !greenops.IsFinite(v) || v < 0 {
		return 0
	}
	return v
}
