package classifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTP(t *testing.T, url string, mutate func(*HTTPConfig)) *HTTP {
	t.Helper()
	cfg := HTTPConfig{Endpoint: url, Retries: 1, RetryWait: time.Millisecond, Timeout: 2 * time.Second}
	if mutate != nil {
		mutate(&cfg)
	}
	h, err := NewHTTP(cfg, zerolog.Nop())
	require.NoError(t, err)
	return h
}

func TestNewHTTP_RequiresEndpoint(t *testing.T) {
	_, err := NewHTTP(HTTPConfig{}, zerolog.Nop())
	require.Error(t, err)
}

func TestHTTP_ClassifyBeforeLoad(t *testing.T) {
	h := newTestHTTP(t, "http://127.0.0.1:1", nil)
	assert.False(t, h.Ready())

	_, err := h.Classify(context.Background(), NewImage("cup.png", pngHeader))
	require.ErrorIs(t, err, ErrClassification)
	require.ErrorIs(t, err, ErrNotReady)
}

func TestHTTP_LoadAndClassify(t *testing.T) {
	var gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"predictions":[
			{"label":"water bottle","confidence":0.81},
			{"className":"pop bottle, soda bottle","probability":0.12},
			{"label":"beer bottle","score":0.04},
			{"label":"vase","confidence":0.01}
		]}`)
	}))
	defer srv.Close()

	h := newTestHTTP(t, srv.URL, nil)
	require.NoError(t, h.Load(context.Background()))
	assert.True(t, h.Ready())
	assert.Equal(t, HTTPName, h.Name())

	preds, err := h.Classify(context.Background(), NewImage("b.png", pngHeader))
	require.NoError(t, err)
	require.Len(t, preds, DefaultTopK)
	assert.Equal(t, Prediction{Label: "water bottle", Confidence: 0.81}, preds[0])
	assert.Equal(t, "pop bottle, soda bottle", preds[1].Label)
	assert.InDelta(t, 0.04, preds[2].Confidence, 1e-12)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, pngHeader, gotBody)
}

func TestHTTP_CustomPathAndStringLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"result":{"labels":["cup","coffee mug"]}}`)
	}))
	defer srv.Close()

	h := newTestHTTP(t, srv.URL, func(c *HTTPConfig) {
		c.PredictionsPath = "result.labels"
		c.TopK = 5
	})
	require.NoError(t, h.Load(context.Background()))

	preds, err := h.Classify(context.Background(), NewImage("c.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, []Prediction{{Label: "cup"}, {Label: "coffee mug"}}, preds)
}

func TestHTTP_EmptyPredictions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"predictions":[]}`)
	}))
	defer srv.Close()

	h := newTestHTTP(t, srv.URL, nil)
	require.NoError(t, h.Load(context.Background()))

	preds, err := h.Classify(context.Background(), NewImage("c.png", pngHeader))
	require.NoError(t, err)
	assert.Empty(t, preds)
	assert.Equal(t, UnknownLabel, TopLabel(preds))
}

func TestHTTP_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		retries int32
	}{
		{name: "client error", status: http.StatusBadRequest, body: `{"error":"bad image"}`, retries: 1},
		{name: "server error retried", status: http.StatusServiceUnavailable, body: ``, retries: 2},
		{name: "invalid json", status: http.StatusOK, body: `not json`, retries: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var posts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet {
					return
				}
				posts.Add(1)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			h := newTestHTTP(t, srv.URL, nil)
			require.NoError(t, h.Load(context.Background()))

			_, err := h.Classify(context.Background(), NewImage("c.png", pngHeader))
			require.ErrorIs(t, err, ErrClassification)
			assert.Equal(t, tt.retries, posts.Load())
		})
	}
}

func TestHTTP_LoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := newTestHTTP(t, srv.URL, nil)
	err := h.Load(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
	assert.False(t, h.Ready())
}
