package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/ecolens/internal/catalog"
	"github.com/rshade/ecolens/internal/dashboard"
	"github.com/rshade/ecolens/internal/greenops"
	"github.com/rshade/ecolens/internal/history"
	"github.com/rshade/ecolens/internal/report"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// Rendering constants.
const (
	tabPadding      = 2
	barWidth        = 30
	percentScale    = 100
	maxLabelDisplay = 48
)

// isWriterTerminal reports whether w is a terminal that can show colour.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

func checkOutputFormat(output string) error {
	switch output {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// styler applies lipgloss styles, or nothing for plain output.
type styler struct {
	enabled bool
}

func (s styler) bold(text string) string {
	if !s.enabled {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}

func (s styler) color(text, hex string) string {
	if !s.enabled {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex)).Render(text)
}

// bar renders a percentage as a fixed-width bar.
func (s styler) bar(percent float64, hex string) string {
	filled := int(math.Round(math.Max(0, math.Min(percent, percentScale)) / percentScale * barWidth))
	full := strings.Repeat("█", filled)
	empty := strings.Repeat("░", barWidth-filled)
	if s.enabled {
		full = lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(full)
	}
	return full + empty
}

// renderReport writes the impact report for one scan.
func renderReport(w io.Writer, rep report.DisplayReport, st styler) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", st.bold(rep.ObjectName), st.color(rep.Tier.Label(), rep.Tier.Color()))
	fmt.Fprintf(&b, "Carbon footprint: %s\n", greenops.FormatKg(rep.CarbonFootprintKg))
	fmt.Fprintf(&b, "%s %.0f%%\n", st.bar(rep.BarPercent, rep.Tier.Color()), rep.BarPercent)

	label := rep.Label
	if len(label) > maxLabelDisplay {
		label = label[:maxLabelDisplay-3] + "..."
	}
	fmt.Fprintf(&b, "Classified as: %s (%s)\n", label, rep.Category)
	if rep.Fallback {
		b.WriteString("No catalog entry matched; showing a generic estimate.\n")
	}

	if len(rep.Predictions) > 1 {
		b.WriteString("\nTop predictions:\n")
		for i, p := range rep.Predictions {
			fmt.Fprintf(&b, "  %d. %s (%.0f%%)\n", i+1, p.Label, p.Confidence*percentScale)
		}
	}

	b.WriteString("\n" + st.bold("Lifecycle impact") + "\n")
	tw := tabwriter.NewWriter(&b, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "  Manufacturing:\t%s\n", rep.ManufacturingImpact)
	fmt.Fprintf(tw, "  Transportation:\t%s\n", rep.TransportationImpact)
	fmt.Fprintf(tw, "  Usage:\t%s\n", rep.UsageImpact)
	fmt.Fprintf(tw, "  Disposal:\t%s\n", rep.DisposalImpact)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rep.Alternatives) > 0 {
		b.WriteString("\n" + st.bold("Eco-friendly alternatives") + "\n")
		for _, alt := range rep.Alternatives {
			fmt.Fprintf(&b, "  - %s\n", alt.Name)
		}
	}

	if !rep.Equivalencies.IsEmpty {
		fmt.Fprintf(&b, "\n%s\n", rep.Equivalencies.DisplayText)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderSummary writes the dashboard.
func renderSummary(w io.Writer, s dashboard.Summary, st styler) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Total scans:\t%d\n", s.TotalScans)
	fmt.Fprintf(tw, "Total carbon:\t%s\n", greenops.FormatTotalKg(s.TotalDisplay()))
	fmt.Fprintf(tw, "Savings potential:\t%s\n", greenops.FormatTotalKg(s.SavingsDisplay()))
	if err := tw.Flush(); err != nil {
		return err
	}

	title := "Category breakdown"
	if s.BreakdownMode == dashboard.BreakdownIllustrative {
		title += " (illustrative)"
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", st.bold(title)); err != nil {
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSHARE\tCARBON\tSCANS\t")
	for _, share := range s.Breakdown {
		fmt.Fprintf(tw, "%s\t%5.1f%%\t%s\t%d\t%s\n",
			share.Category,
			share.Percent,
			greenops.FormatTotalKg(share.CarbonKg),
			share.Scans,
			st.bar(share.Percent, share.Color),
		)
	}
	return tw.Flush()
}

// renderHistory writes the history newest first.
func renderHistory(w io.Writer, records []history.ScanRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No scans recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "DATE\tOBJECT\tCARBON\tCATEGORY\tID")
	fmt.Fprintln(tw, "----\t------\t------\t--------\t--")
	for _, r := range records {
		category := r.Category
		if category == "" {
			category = catalog.CategoryOther
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Date, r.ObjectName, greenops.FormatKg(r.CarbonFootprintKg), category, r.ID)
	}
	return tw.Flush()
}

// renderCatalog writes the catalog entries in resolution order.
func renderCatalog(w io.Writer, entries []catalog.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tCATEGORY\tCARBON\tTIER\tKEYWORDS")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, e.Name, e.Category, greenops.FormatKg(e.CarbonFootprintKg),
			greenops.ClassifyTier(e.CarbonFootprintKg), strings.Join(e.Keywords, ", "))
	}
	return tw.Flush()
}
