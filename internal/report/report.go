// Package report assembles the display report for a resolved scan and
// records the matching snapshot in the scan history.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/rshade/ecolens/internal/catalog"
	"github.com/rshade/ecolens/internal/classifier"
	"github.com/rshade/ecolens/internal/greenops"
	"github.com/rshade/ecolens/internal/history"
)

// Recorder receives the snapshot of every assembled scan.
type Recorder interface {
	Record(rec history.ScanRecord) error
}

// DisplayReport is everything shown for one scan.
type DisplayReport struct {
	RecordID          string           `json:"id"`
	ObjectName        string           `json:"name"`
	Label             string           `json:"label"`
	Category          catalog.Category `json:"category"`
	CarbonFootprintKg float64          `json:"carbon_footprint_kg"`
	Tier              greenops.Tier    `json:"tier"`
	BarPercent        float64          `json:"bar_percent"`

	ManufacturingImpact  string `json:"manufacturing_impact"`
	TransportationImpact string `json:"transportation_impact"`
	UsageImpact          string `json:"usage_impact"`
	DisposalImpact       string `json:"disposal_impact"`

	Alternatives  []catalog.Alternative      `json:"alternatives"`
	Predictions   []classifier.Prediction    `json:"predictions,omitempty"`
	Equivalencies greenops.EquivalencyOutput `json:"equivalencies"`
	ImageRef      string                     `json:"-"`
	ScannedAt     time.Time                  `json:"scanned_at"`

	// Fallback is true when no catalog entry matched the label.
	Fallback bool `json:"fallback"`
}

// Scan is the input of one assembly.
type Scan struct {
	Label       string
	ImageRef    string
	Predictions []classifier.Prediction
}

// Assembler builds reports and records them.
type Assembler struct {
	recorder Recorder
	now      func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// NewAssembler returns an Assembler recording into recorder. A nil recorder
// records nothing.
func NewAssembler(recorder Recorder, opts ...Option) *Assembler {
	a := &Assembler{recorder: recorder, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the report and history record for label resolved to
// entry, and records the snapshot. The report and record are always valid;
// the error is only the history's persistence warning.
func (a *Assembler) Assemble(label, imageRef string, entry catalog.Entry) (DisplayReport, history.ScanRecord, error) {
	return a.AssembleScan(Scan{Label: label, ImageRef: imageRef}, entry)
}

// AssembleScan is Assemble with the classifier ranking attached to the report.
func (a *Assembler) AssembleScan(scan Scan, entry catalog.Entry) (DisplayReport, history.ScanRecord, error) {
	now := a.now()
	kg := entry.CarbonFootprintKg

	rec := history.ScanRecord{
		ID:                history.NewID(now),
		ObjectName:        entry.Name,
		CarbonFootprintKg: kg,
		ImageData:         scan.ImageRef,
		Date:              now.Format(history.DateLayout),
		Category:          entry.Category,
		CreatedAt:         now.UTC(),
	}

	alternatives := make([]catalog.Alternative, len(entry.Alternatives))
	copy(alternatives, entry.Alternatives)

	rep := DisplayReport{
		RecordID:             rec.ID,
		ObjectName:           entry.Name,
		Label:                scan.Label,
		Category:             entry.Category,
		CarbonFootprintKg:    kg,
		Tier:                 greenops.ClassifyTier(kg),
		BarPercent:           greenops.BarPercent(kg),
		ManufacturingImpact:  entry.ManufacturingImpact,
		TransportationImpact: entry.TransportationImpact,
		UsageImpact:          entry.UsageImpact,
		DisposalImpact:       entry.DisposalImpact,
		Alternatives:         alternatives,
		Predictions:          scan.Predictions,
		Equivalencies:        greenops.Equivalencies(kg),
		ImageRef:             scan.ImageRef,
		ScannedAt:            now,
		Fallback:             entry.Fallback,
	}

	if a.recorder == nil {
		return rep, rec, nil
	}
	return rep, rec, a.recorder.Record(rec)
}

// Narration returns the plain-text script read aloud for r: the object, its
// footprint, the manufacturing narrative and the alternatives.
func Narration(r DisplayReport) string {
	var b strings.Builder
	b.WriteString("The ")
	b.WriteString(r.ObjectName)
	b.WriteString(" has an estimated carbon footprint of ")
	b.WriteString(strconv.FormatFloat(r.CarbonFootprintKg, 'f', -1, 64))
	b.WriteString(" kilograms of CO2.")
	if r.ManufacturingImpact != "" {
		b.WriteString(" ")
		b.WriteString(r.ManufacturingImpact)
	}
	if len(r.Alternatives) > 0 {
		names := make([]string, 0, len(r.Alternatives))
		for _, alt := range r.Alternatives {
			names = append(names, alt.Name)
		}
		b.WriteString(" Eco-friendly alternatives include ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(".")
	}
	return b.String()
}
