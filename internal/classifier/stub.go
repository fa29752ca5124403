package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
)

// StubName is the name reported by Stub.
const StubName = "stub"

// StubLabel maps a file-name hint to the label the stub returns for it.
type StubLabel struct {
	Hint  string
	Label string
}

// defaultStubLabels are ImageNet-style labels covering the built-in catalog
// plus a few that fall through to the generic entry.
func defaultStubLabels() []StubLabel {
	return []StubLabel{
		{Hint: "bottle", Label: "water bottle"},
		{Hint: "phone", Label: "cellular telephone, cellular phone, cellphone, cell, mobile phone"},
		{Hint: "shirt", Label: "jersey, T-shirt, tee shirt"},
		{Hint: "cup", Label: "cup"},
		{Hint: "laptop", Label: "laptop, laptop computer"},
		{Hint: "banana", Label: "banana"},
	}
}

// Stub is a deterministic, offline classifier for CI and demos. A label
// whose hint appears in the image file name wins; otherwise the label is
// chosen from a sha256 of the image bytes, so the same image always yields
// the same ranking.
type Stub struct {
	labels []StubLabel
	topK   int
}

// StubOption configures a Stub.
type StubOption func(*Stub)

// WithStubLabels replaces the hint table.
func WithStubLabels(labels []StubLabel) StubOption {
	return func(s *Stub) {
		if len(labels) > 0 {
			s.labels = append([]StubLabel(nil), labels...)
		}
	}
}

// WithStubTopK sets how many predictions are returned.
func WithStubTopK(k int) StubOption {
	return func(s *Stub) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewStub returns a Stub with the default label table.
func NewStub(opts ...StubOption) *Stub {
	const defaultTopK = 3
	s := &Stub{labels: defaultStubLabels(), topK: defaultTopK}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Classifier.
func (s *Stub) Name() string { return StubName }

// Classify implements Classifier.
func (s *Stub) Classify(ctx context.Context, img Image) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrClassification, ErrEmptyImage)
	}

	first := s.hinted(img.Name)
	if first < 0 {
		sum := sha256.Sum256(img.Data)
		first = int(binary.BigEndian.Uint64(sum[:8]) % uint64(len(s.labels)))
	}

	n := min(s.topK, len(s.labels))
	preds := make([]Prediction, 0, n)
	confidence := 0.9
	for i := 0; i < n; i++ {
		l := s.labels[(first+i)%len(s.labels)]
		preds = append(preds, Prediction{Label: l.Label, Confidence: confidence})
		confidence /= 2
	}
	return preds, nil
}

func (s *Stub) hinted(name string) int {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	if base == "" || base == "." {
		return -1
	}
	for i, l := range s.labels {
		if l.Hint != "" && strings.Contains(base, strings.ToLower(l.Hint)) {
			return i
		}
	}
	return -1
}
