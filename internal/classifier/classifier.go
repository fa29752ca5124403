// Package classifier turns images into ranked object labels. The scan
// pipeline only ever consumes the top label; the full ranking is kept for
// display.
//
// Implementations must be safe for concurrent use: batch scans classify
// several images at once.
package classifier

import (
	"context"
	"errors"
)

// UnknownLabel is the label used when a classifier returns no predictions.
const UnknownLabel = "unknown"

// Errors returned by classifiers. Every classification failure wraps
// ErrClassification.
var (
	ErrClassification = errors.New("classification failed")
	ErrNotReady       = errors.New("classifier not loaded")
	ErrEmptyImage     = errors.New("image is empty")
)

// Prediction is one ranked label with its confidence in [0, 1].
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier ranks candidate labels for an image, most likely first. An
// empty result is valid.
type Classifier interface {
	Classify(ctx context.Context, img Image) ([]Prediction, error)
	Name() string
}

// Loader is implemented by classifiers that need an explicit readiness step
// before the first Classify call.
type Loader interface {
	Load(ctx context.Context) error
	Ready() bool
}

// TopLabel returns the label of the first prediction, or UnknownLabel when
// there is none.
func TopLabel(preds []Prediction) string {
	if len(preds) == 0 {
		return UnknownLabel
	}
	return preds[0].Label
}

// Top returns at most n predictions. n <= 0 returns all of them.
func Top(preds []Prediction, n int) []Prediction {
	if n <= 0 || len(preds) <= n {
		return preds
	}
	return preds[:n]
}
