package classifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// HTTPName is the name reported by HTTP.
const HTTPName = "http"

// Defaults for HTTPConfig.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultRetries         = 3
	DefaultPredictionsPath = "predictions"
	DefaultTopK            = 3
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// HTTPConfig configures the remote classifier.
type HTTPConfig struct {
	// Endpoint receives the image as a POST body.
	Endpoint string

	// HealthURL is probed by Load. Empty means Endpoint.
	HealthURL string

	Timeout time.Duration
	Retries int

	// RetryWait is the minimum backoff between attempts. Zero keeps the
	// retryablehttp default.
	RetryWait time.Duration

	// PredictionsPath is the gjson path of the ranked prediction array in
	// the response. Elements are either strings or objects carrying
	// "label" (or "className") and "confidence" (or "probability", "score").
	PredictionsPath string

	TopK int
}

// HTTP classifies images with a remote inference service.
type HTTP struct {
	cfg    HTTPConfig
	client *retryablehttp.Client
	logger zerolog.Logger
	ready  atomic.Bool
}

// NewHTTP builds an HTTP classifier. It performs no I/O; call Load before
// the first Classify.
func NewHTTP(cfg HTTPConfig, logger zerolog.Logger) (*HTTP, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("classifier endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.PredictionsPath == "" {
		cfg.PredictionsPath = DefaultPredictionsPath
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.HealthURL == "" {
		cfg.HealthURL = cfg.Endpoint
	}

	logger = logger.With().Str("component", "classifier").Logger()

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Retries
	client.HTTPClient.Timeout = cfg.Timeout
	client.Logger = leveledLogger{logger: logger}
	if cfg.RetryWait > 0 {
		const backoffSpread = 4
		client.RetryWaitMin = cfg.RetryWait
		client.RetryWaitMax = cfg.RetryWait * backoffSpread
	}

	return &HTTP{cfg: cfg, client: client, logger: logger}, nil
}

// Name implements Classifier.
func (h *HTTP) Name() string { return HTTPName }

// Ready reports whether Load has succeeded.
func (h *HTTP) Ready() bool { return h.ready.Load() }

// Load probes the service. Any 2xx answer marks the classifier ready.
func (h *HTTP) Load(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, h.cfg.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("building readiness probe: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: probing %s: %w", ErrNotReady, h.cfg.HealthURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: probe returned %s", ErrNotReady, resp.Status)
	}

	h.ready.Store(true)
	h.logger.Debug().Str("url", h.cfg.HealthURL).Msg("classifier ready")
	return nil
}

// Classify implements Classifier.
func (h *HTTP) Classify(ctx context.Context, img Image) ([]Prediction, error) {
	if !h.Ready() {
		return nil, fmt.Errorf("%w: %w", ErrClassification, ErrNotReady)
	}
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrClassification, ErrEmptyImage)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, h.cfg.Endpoint, img.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrClassification, err)
	}
	req.Header.Set("Content-Type", img.MediaType)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrClassification, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: service returned %s", ErrClassification, resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrClassification)
	}

	preds := parsePredictions(gjson.GetBytes(body, h.cfg.PredictionsPath))
	h.logger.Debug().
		Str("image", img.Name).
		Int("predictions", len(preds)).
		Str("top_label", TopLabel(preds)).
		Msg("image classified")
	return Top(preds, h.cfg.TopK), nil
}

func parsePredictions(result gjson.Result) []Prediction {
	if !result.IsArray() {
		return []Prediction{}
	}
	items := result.Array()
	preds := make([]Prediction, 0, len(items))
	for _, item := range items {
		if item.Type == gjson.String {
			preds = append(preds, Prediction{Label: item.String()})
			continue
		}
		label := firstOf(item, "label", "className", "class")
		if label.String() == "" {
			continue
		}
		preds = append(preds, Prediction{
			Label:      label.String(),
			Confidence: firstOf(item, "confidence", "probability", "score").Float(),
		})
	}
	return preds
}

func firstOf(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.logger.Error().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.logger.Warn().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.logger.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.logger.Trace().Fields(kv).Msg(msg) }
