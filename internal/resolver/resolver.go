// Package resolver maps free-text classifier labels onto catalog entries.
//
// Matching is case-insensitive keyword containment over the catalog in its
// defined order: the first entry with a keyword found inside the label wins,
// and keywords within an entry are tried in order. Labels that match nothing
// resolve to catalog.Fallback, so Resolve is total over every string.
//
// The default MatchSubstring mode does not tokenize: "cup" also matches
// "cupboard". Classifier output is noisy ("coffee mug, cup"), and loose
// matching finds a category more often than not; the cost is occasional false
// positives. MatchWholeWord trades that recall for precision by requiring the
// keyword to line up with word boundaries in the label.
package resolver

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/rshade/ecolens/internal/catalog"
)

// MatchMode selects how keywords are compared against labels.
type MatchMode string

// Supported match modes.
const (
	MatchSubstring MatchMode = "substring"
	MatchWholeWord MatchMode = "word"
)

// ParseMatchMode returns the mode named by s and whether it is known.
func ParseMatchMode(s string) (MatchMode, bool) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case MatchSubstring, "":
		return MatchSubstring, true
	case MatchWholeWord:
		return MatchWholeWord, true
	default:
		return "", false
	}
}

// Resolution is the outcome of resolving one label.
type Resolution struct {
	Entry catalog.Entry `json:"entry"`
	// Matched is false when Entry is the fallback.
	Matched bool `json:"matched"`
	// Keyword is the catalog keyword that matched, empty for the fallback.
	Keyword string `json:"keyword,omitempty"`
}

// Resolver resolves labels against a fixed catalog. It holds no mutable state
// and is safe for concurrent use.
type Resolver struct {
	catalog *catalog.Catalog
	mode    MatchMode
	logger  zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMatchMode sets the keyword comparison mode.
func WithMatchMode(m MatchMode) Option {
	return func(r *Resolver) { r.mode = m }
}

// WithLogger sets the logger used for debug-level resolution traces.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New returns a resolver over c. A nil catalog means catalog.Default().
func New(c *catalog.Catalog, opts ...Option) *Resolver {
	if c == nil {
		c = catalog.Default()
	}
	r := &Resolver{catalog: c, mode: MatchSubstring, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the active match mode.
func (r *Resolver) Mode() MatchMode {
	return r.mode
}

// Resolve returns the catalog entry for label, or the fallback entry.
func (r *Resolver) Resolve(label string) catalog.Entry {
	return r.ResolveDetailed(label).Entry
}

// ResolveDetailed is Resolve plus which keyword, if any, matched.
func (r *Resolver) ResolveDetailed(label string) Resolution {
	lower := strings.ToLower(label)
	var tokens string
	if r.mode == MatchWholeWord {
		tokens = " " + tokenize(lower) + " "
	}

	var res Resolution
	r.catalog.Each(func(e catalog.Entry) bool {
		for _, k := range e.Keywords {
			if k == "" {
				continue
			}
			if r.matches(lower, tokens, k) {
				res = Resolution{Entry: e.Clone(), Matched: true, Keyword: k}
				return false
			}
		}
		return true
	})

	if !res.Matched {
		res = Resolution{Entry: catalog.Fallback(label)}
	}

	r.logger.Debug().
		Str("component", "resolver").
		Str("label", label).
		Str("entry", res.Entry.Name).
		Str("keyword", res.Keyword).
		Bool("matched", res.Matched).
		Msg("label resolved")

	return res
}

func (r *Resolver) matches(lower, tokens, keyword string) bool {
	if r.mode == MatchWholeWord {
		kt := tokenize(keyword)
		if kt == "" {
			return false
		}
		return strings.Contains(tokens, " "+kt+" ")
	}
	return strings.Contains(lower, keyword)
}

// tokenize splits s on anything that is not a letter, digit or hyphen and
// rejoins the words with single spaces. Padding the result with spaces lets a
// whole-word lookup be a plain substring search for " word ".
func tokenize(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	return strings.Join(words, " ")
}
