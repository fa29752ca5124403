// Package session holds the state of one EcoLens run: the resolver, the scan
// history, the classifier and the last result. Everything a scan touches is
// injected through Options so that tests and the CLI build sessions the
// same way.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/ecolens/internal/catalog"
	"github.com/rshade/ecolens/internal/classifier"
	"github.com/rshade/ecolens/internal/dashboard"
	"github.com/rshade/ecolens/internal/history"
	"github.com/rshade/ecolens/internal/report"
	"github.com/rshade/ecolens/internal/resolver"
)

// ErrAnalysisFailed is returned when an image could not be classified. The
// history is untouched and the session stays usable.
var ErrAnalysisFailed = errors.New("analysis failed")

// DefaultConcurrency bounds parallel classification in ScanBatch.
const DefaultConcurrency = 4

// Options configures a Session. Zero values select the built-in catalog,
// an in-memory history and substring matching.
type Options struct {
	Catalog     *catalog.Catalog
	MatchMode   resolver.MatchMode
	Classifier  classifier.Classifier
	History     *history.Store
	Breakdown   dashboard.BreakdownMode
	Logger      *zerolog.Logger
	Clock       func() time.Time
	Concurrency int
}

// Result is the outcome of one scan.
type Result struct {
	Report  report.DisplayReport `json:"report"`
	Summary dashboard.Summary    `json:"dashboard"`

	// Warning is set when the history could not be persisted. The scan is
	// still complete and recorded in memory.
	Warning error `json:"-"`
}

// BatchResult is one element of a ScanBatch, in input order.
type BatchResult struct {
	Image  string
	Result Result
	Err    error
}

// Session is the application state. Safe for concurrent use.
type Session struct {
	resolver    *resolver.Resolver
	classifier  classifier.Classifier
	history     *history.Store
	assembler   *report.Assembler
	breakdown   dashboard.BreakdownMode
	concurrency int
	logger      zerolog.Logger

	mu   sync.Mutex
	last *report.DisplayReport
}

// New builds a session from opts.
func New(opts Options) *Session {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("component", "session").Logger()

	h := opts.History
	if h == nil {
		h = history.Open(nil)
	}
	mode := opts.MatchMode
	if mode == "" {
		mode = resolver.MatchSubstring
	}
	breakdown := opts.Breakdown
	if breakdown == "" {
		breakdown = dashboard.BreakdownHistory
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var asmOpts []report.Option
	if opts.Clock != nil {
		asmOpts = append(asmOpts, report.WithClock(opts.Clock))
	}

	return &Session{
		resolver:    resolver.New(opts.Catalog, resolver.WithMatchMode(mode), resolver.WithLogger(logger)),
		classifier:  opts.Classifier,
		history:     h,
		assembler:   report.NewAssembler(h, asmOpts...),
		breakdown:   breakdown,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Load runs the classifier's readiness step when it has one.
func (s *Session) Load(ctx context.Context) error {
	loader, ok := s.classifier.(classifier.Loader)
	if !ok || loader.Ready() {
		return nil
	}
	if err := loader.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	return nil
}

// Resolver returns the session's label resolver.
func (s *Session) Resolver() *resolver.Resolver {
	return s.resolver
}

// Scan classifies img and records the result. A classification failure
// returns ErrAnalysisFailed and leaves history and LastResult unchanged.
func (s *Session) Scan(ctx context.Context, img classifier.Image) (Result, error) {
	preds, err := s.classify(ctx, img)
	if err != nil {
		return Result{}, err
	}
	return s.record(classifier.TopLabel(preds), img.DataURL(), preds), nil
}

// ScanLabel records a scan for a label supplied by the caller instead of
// the classifier. It never fails.
func (s *Session) ScanLabel(label, imageRef string) Result {
	return s.record(label, imageRef, nil)
}

// ScanBatch classifies images concurrently, then records them one at a
// time in input order so the history order matches the input. Failed
// images are reported per element; the returned error joins them.
func (s *Session) ScanBatch(ctx context.Context, images []classifier.Image) ([]BatchResult, error) {
	preds := make([][]classifier.Prediction, len(images))
	errs := make([]error, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			preds[i], errs[i] = s.classify(gctx, img)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]BatchResult, len(images))
	var failed []error
	for i, img := range images {
		results[i].Image = img.Name
		if errs[i] != nil {
			results[i].Err = errs[i]
			failed = append(failed, fmt.Errorf("%s: %w", img.Name, errs[i]))
			continue
		}
		results[i].Result = s.record(classifier.TopLabel(preds[i]), img.DataURL(), preds[i])
	}
	return results, errors.Join(failed...)
}

// LastResult returns the most recent report, if any.
func (s *Session) LastResult() (report.DisplayReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return report.DisplayReport{}, false
	}
	return *s.last, true
}

// Narration returns the narration script for the last result.
func (s *Session) Narration() (string, bool) {
	r, ok := s.LastResult()
	if !ok {
		return "", false
	}
	return report.Narration(r), true
}

// ScanAgain clears the last result.
func (s *Session) ScanAgain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
}

// ResetHistory clears the history and the last result. A persistence
// failure is returned as a warning; the history is empty in memory anyway.
func (s *Session) ResetHistory() error {
	s.ScanAgain()
	return s.history.Clear()
}

// History returns the scan history, newest first.
func (s *Session) History() []history.ScanRecord {
	return s.history.LoadAll()
}

// Dashboard summarizes the current history.
func (s *Session) Dashboard() dashboard.Summary {
	return dashboard.Summarize(s.history.LoadAll(), s.breakdown)
}

func (s *Session) classify(ctx context.Context, img classifier.Image) ([]classifier.Prediction, error) {
	if s.classifier == nil {
		return nil, fmt.Errorf("%w: no classifier configured", ErrAnalysisFailed)
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	preds, err := s.classifier.Classify(ctx, img)
	if err != nil {
		s.logger.Warn().Err(err).Str("image", img.Name).Msg("classification failed")
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	return preds, nil
}

func (s *Session) record(label, imageRef string, preds []classifier.Prediction) Result {
	entry := s.resolver.Resolve(label)
	rep, _, warn := s.assembler.AssembleScan(report.Scan{
		Label:       label,
		ImageRef:    imageRef,
		Predictions: preds,
	}, entry)

	s.mu.Lock()
	s.last = &rep
	s.mu.Unlock()

	s.logger.Debug().
		Str("label", label).
		Str("object", rep.ObjectName).
		Float64("carbon_kg", rep.CarbonFootprintKg).
		Str("tier", string(rep.Tier)).
		Msg("scan recorded")

	return Result{Report: rep, Summary: s.Dashboard(), Warning: warn}
}
