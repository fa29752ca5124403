package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rshade/ecolens/internal/cache"
	"github.com/rshade/ecolens/internal/catalog"
	"github.com/rshade/ecolens/internal/classifier"
	"github.com/rshade/ecolens/internal/config"
	"github.com/rshade/ecolens/internal/dashboard"
	"github.com/rshade/ecolens/internal/history"
	"github.com/rshade/ecolens/internal/kvstore"
	"github.com/rshade/ecolens/internal/logging"
	"github.com/rshade/ecolens/internal/resolver"
	"github.com/rshade/ecolens/internal/session"
)

// openSession builds a session from the configuration. The returned func
// closes the storage backend.
func openSession(ctx context.Context, a *app) (*session.Session, func(), error) {
	cat, err := catalog.LoadWithReplace(a.cfg.Catalog.File, a.cfg.Catalog.Replace)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	hist, closeStore, err := openHistory(a)
	if err != nil {
		return nil, nil, err
	}

	clf, err := buildClassifier(a)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	mode, _ := resolver.ParseMatchMode(a.cfg.Matching.Mode)
	breakdown, _ := dashboard.ParseBreakdownMode(a.cfg.Dashboard.Breakdown)
	logger := *logging.FromContext(ctx)

	s := session.New(session.Options{
		Catalog:     cat,
		MatchMode:   mode,
		Classifier:  clf,
		History:     hist,
		Breakdown:   breakdown,
		Logger:      &logger,
		Concurrency: a.cfg.Classifier.Concurrency,
	})
	return s, closeStore, nil
}

// openHistory opens the configured backend and loads the history from it.
func openHistory(a *app) (*history.Store, func(), error) {
	kv, closeStore, err := openKV(a, a.cfg.Storage.Backend)
	if err != nil {
		return nil, nil, err
	}
	hist := history.Open(kv,
		history.WithKey(a.cfg.Storage.Key),
		history.WithLogger(a.base),
	)
	return hist, closeStore, nil
}

// openKV opens backend in the configured storage directory. The returned
// func closes it.
func openKV(a *app, backend string) (kvstore.Store, func(), error) {
	if err := a.cfg.EnsureStorageDir(); err != nil {
		return nil, nil, err
	}
	kv, err := kvstore.Open(backend, a.cfg.Storage.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", backend, err)
	}

	closeStore := func() {
		if c, ok := kv.(io.Closer); ok {
			if closeErr := c.Close(); closeErr != nil {
				a.logger.Warn().Err(closeErr).Str("backend", backend).Msg("closing storage")
			}
		}
	}
	return kv, closeStore, nil
}

// buildClassifier returns the configured classifier, behind the prediction
// cache when one is configured.
func buildClassifier(a *app) (classifier.Classifier, error) {
	c := a.cfg.Classifier

	var clf classifier.Classifier
	switch c.Type {
	case config.ClassifierHTTP:
		h, err := classifier.NewHTTP(classifier.HTTPConfig{
			Endpoint:        c.Endpoint,
			HealthURL:       c.HealthURL,
			Timeout:         c.Timeout,
			Retries:         c.Retries,
			PredictionsPath: c.LabelsPath,
			TopK:            c.TopK,
		}, a.base)
		if err != nil {
			return nil, err
		}
		clf = h
	default:
		clf = classifier.NewStub(classifier.WithStubTopK(c.TopK))
	}

	if c.CacheTTL <= 0 || a.cfg.CacheDir() == "" {
		return clf, nil
	}
	store, err := cache.NewFileStore(a.cfg.CacheDir(), c.CacheTTL)
	if err != nil {
		a.logger.Warn().Err(err).Msg("prediction cache disabled")
		return clf, nil
	}
	return classifier.NewCached(clf, store, a.base), nil
}
