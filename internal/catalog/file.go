package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ecolens/internal/greenops"
)

// SupportedFileVersions is the semver constraint a catalog file must satisfy.
const SupportedFileVersions = ">= 1.0.0, < 2.0.0"

// Catalog file errors.
var (
	ErrInvalidCatalog     = errors.New("invalid catalog file")
	ErrUnsupportedVersion = errors.New("unsupported catalog file version")
)

// File is the YAML form of a user catalog.
//
//	version: "1.0.0"
//	replace: false
//	entries:
//	  - name: Aluminium Can
//	    category: Other
//	    keywords: [soda can, can]
//	    carbon_footprint: 170
//	    unit: g
type File struct {
	Version string      `yaml:"version" validate:"required"`
	Replace bool        `yaml:"replace"`
	Entries []fileEntry `yaml:"entries" validate:"dive"`
}

type fileEntry struct {
	Keywords             []string      `yaml:"keywords"              validate:"required,min=1,dive,required"`
	Name                 string        `yaml:"name"                  validate:"required"`
	Category             string        `yaml:"category"`
	CarbonFootprint      float64       `yaml:"carbon_footprint"      validate:"gte=0"`
	Unit                 string        `yaml:"unit"`
	ManufacturingImpact  string        `yaml:"manufacturing_impact"`
	TransportationImpact string        `yaml:"transportation_impact"`
	UsageImpact          string        `yaml:"usage_impact"`
	DisposalImpact       string        `yaml:"disposal_impact"`
	Alternatives         []Alternative `yaml:"alternatives"          validate:"dive"`
}

//nolint:gochecknoglobals // validator caches struct metadata; one instance per process.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseFile decodes and validates a catalog document.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}

	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	for i, e := range f.Entries {
		if !greenops.IsRecognizedUnit(e.Unit) {
			return nil, fmt.Errorf("%w: entry %d (%s): %w", ErrInvalidCatalog, i, e.Name, greenops.ErrInvalidUnit)
		}
	}

	return &f, nil
}

// LoadFile reads and validates the catalog file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ToEntries converts the file's entries, normalizing footprints to kilograms.
func (f *File) ToEntries() ([]Entry, error) {
	entries := make([]Entry, 0, len(f.Entries))
	for _, fe := range f.Entries {
		kg, err := greenops.NormalizeToKg(fe.CarbonFootprint, fe.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s: %w", ErrInvalidCatalog, fe.Name, err)
		}
		entries = append(entries, Entry{
			Keywords:             fe.Keywords,
			Name:                 fe.Name,
			Category:             ParseCategory(fe.Category),
			CarbonFootprintKg:    kg,
			ManufacturingImpact:  fe.ManufacturingImpact,
			TransportationImpact: fe.TransportationImpact,
			UsageImpact:          fe.UsageImpact,
			DisposalImpact:       fe.DisposalImpact,
			Alternatives:         fe.Alternatives,
		})
	}
	return entries, nil
}

// Load returns the built-in catalog extended (or replaced, when the file sets
// replace: true) by the catalog file at path. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	return LoadWithReplace(path, false)
}

// LoadWithReplace is Load where replace forces the file's entries to replace
// the built-in ones.
func LoadWithReplace(path string, replace bool) (*Catalog, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := f.ToEntries()
	if err != nil {
		return nil, err
	}
	if f.Replace || replace {
		return New(entries), nil
	}
	return base.Append(entries), nil
}

func checkVersion(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidCatalog)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, raw, err)
	}
	constraint, err := semver.NewConstraint(SupportedFileVersions)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, SupportedFileVersions)
	}
	return nil
}

// Validate checks every entry against the catalog rules: a name, at least one
// non-empty keyword and a non-negative footprint.
func (c *Catalog) Validate() error {
	var errs []error
	for i, e := range c.entries {
		if err := validate.Struct(e); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i, e.Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}
