package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rshade/ecolens/internal/cache"
)

// Cached serves repeat classifications of identical image bytes from a
// prediction cache. Cache failures are logged and never fail a scan.
type Cached struct {
	inner  Classifier
	store  *cache.FileStore
	logger zerolog.Logger
}

// NewCached wraps inner with store.
func NewCached(inner Classifier, store *cache.FileStore, logger zerolog.Logger) *Cached {
	return &Cached{
		inner:  inner,
		store:  store,
		logger: logger.With().Str("component", "classifier_cache").Logger(),
	}
}

// Name reports the wrapped classifier's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Load forwards to the wrapped classifier when it needs loading.
func (c *Cached) Load(ctx context.Context) error {
	if l, ok := c.inner.(Loader); ok {
		return l.Load(ctx)
	}
	return nil
}

// Ready reports whether the wrapped classifier is ready.
func (c *Cached) Ready() bool {
	if l, ok := c.inner.(Loader); ok {
		return l.Ready()
	}
	return true
}

// Classify returns cached predictions for img when present, otherwise
// classifies and stores the result.
func (c *Cached) Classify(ctx context.Context, img Image) ([]Prediction, error) {
	if len(img.Data) == 0 {
		return c.inner.Classify(ctx, img)
	}
	key := CacheKey(c.inner.Name(), img.Data)

	entry, err := c.store.Get(key)
	switch {
	case err == nil:
		var preds []Prediction
		if decodeErr := json.Unmarshal(entry.Data, &preds); decodeErr == nil {
			c.logger.Debug().Str("image", img.Name).Msg("prediction cache hit")
			return preds, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, cache.ErrNotFound), errors.Is(err, cache.ErrExpired):
	default:
		c.logger.Warn().Err(err).Msg("reading prediction cache")
	}

	preds, err := c.inner.Classify(ctx, img)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(preds)
	if err == nil {
		err = c.store.Set(key, data)
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("writing prediction cache")
	}
	return preds, nil
}

// CacheKey identifies a classification of data by the named classifier.
func CacheKey(name string, data []byte) string {
	sum := sha256.Sum256(data)
	return name + "-" + hex.EncodeToString(sum[:])
}
