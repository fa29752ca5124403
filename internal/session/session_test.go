package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecolens/internal/classifier"
	"github.com/rshade/ecolens/internal/dashboard"
	"github.com/rshade/ecolens/internal/history"
	"github.com/rshade/ecolens/internal/kvstore"
)

// labelClassifier returns the image name as its only label, or fails for
// names starting with "bad".
type labelClassifier struct {
	calls atomic.Int32
}

func (c *labelClassifier) Name() string { return "label" }

func (c *labelClassifier) Classify(_ context.Context, img classifier.Image) ([]classifier.Prediction, error) {
	c.calls.Add(1)
	if strings.HasPrefix(img.Name, "bad") {
		return nil, fmt.Errorf("%w: model unavailable", classifier.ErrClassification)
	}
	if img.Name == "empty" {
		return nil, nil
	}
	return []classifier.Prediction{{Label: img.Name, Confidence: 0.9}}, nil
}

type loadingClassifier struct {
	labelClassifier
	loadErr error
	loads   atomic.Int32
	ready   atomic.Bool
}

func (c *loadingClassifier) Load(context.Context) error {
	c.loads.Add(1)
	if c.loadErr != nil {
		return c.loadErr
	}
	c.ready.Store(true)
	return nil
}

func (c *loadingClassifier) Ready() bool { return c.ready.Load() }

func img(name string) classifier.Image {
	return classifier.NewImage(name, []byte("fake image "+name))
}

func newSession(t *testing.T, c classifier.Classifier) (*Session, *kvstore.Memory) {
	t.Helper()
	kv := kvstore.NewMemory()
	return New(Options{Classifier: c, History: history.Open(kv)}), kv
}

func TestScan_RecordsAndSummarizes(t *testing.T) {
	s, _ := newSession(t, &labelClassifier{})

	res, err := s.Scan(context.Background(), img("cellular telephone"))
	require.NoError(t, err)
	require.NoError(t, res.Warning)

	assert.Equal(t, "Smartphone", res.Report.ObjectName)
	assert.Equal(t, "cellular telephone", res.Report.Label)
	assert.Equal(t, 1, res.Summary.TotalScans)
	assert.InDelta(t, 55.0, res.Summary.TotalCarbonKg, 1e-12)
	assert.True(t, strings.HasPrefix(s.History()[0].ImageData, "data:"))

	last, ok := s.LastResult()
	require.True(t, ok)
	assert.Equal(t, res.Report, last)
}

func TestScan_EmptyPredictionsUseUnknown(t *testing.T) {
	s, _ := newSession(t, &labelClassifier{})

	res, err := s.Scan(context.Background(), img("empty"))
	require.NoError(t, err)
	assert.Equal(t, classifier.UnknownLabel, res.Report.Label)
	assert.Equal(t, "unknown", res.Report.ObjectName)
	assert.True(t, res.Report.Fallback)
}

func TestScan_ClassifierFailureLeavesStateAlone(t *testing.T) {
	s, kv := newSession(t, &labelClassifier{})
	_, err := s.Scan(context.Background(), img("water bottle"))
	require.NoError(t, err)
	before := s.History()
	writes := kv.SetCalls()
	lastBefore, _ := s.LastResult()

	_, err = s.Scan(context.Background(), img("bad photo"))
	require.ErrorIs(t, err, ErrAnalysisFailed)
	require.ErrorIs(t, err, classifier.ErrClassification)

	assert.Equal(t, before, s.History())
	assert.Equal(t, writes, kv.SetCalls())
	lastAfter, ok := s.LastResult()
	require.True(t, ok)
	assert.Equal(t, lastBefore, lastAfter)

	_, err = s.Scan(context.Background(), img("cotton shirt"))
	require.NoError(t, err, "session stays usable after a failure")
	assert.Len(t, s.History(), 2)
}

func TestScan_NoClassifier(t *testing.T) {
	s := New(Options{})
	_, err := s.Scan(context.Background(), img("cup"))
	require.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Empty(t, s.History())
}

func TestScan_LoadsClassifierOnce(t *testing.T) {
	c := &loadingClassifier{}
	s, _ := newSession(t, c)

	for k := 0; k < 3; k++ {
		_, err := s.Scan(context.Background(), img("cup"))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), c.loads.Load())
}

func TestScan_LoadFailure(t *testing.T) {
	c := &loadingClassifier{loadErr: classifier.ErrNotReady}
	s, _ := newSession(t, c)

	_, err := s.Scan(context.Background(), img("cup"))
	require.ErrorIs(t, err, ErrAnalysisFailed)
	require.ErrorIs(t, err, classifier.ErrNotReady)
	assert.Zero(t, c.calls.Load())
	assert.Empty(t, s.History())
}

func TestScanLabel_Fallback(t *testing.T) {
	s := New(Options{})
	res := s.ScanLabel("Granny Smith, apple", "")
	assert.Equal(t, "Granny Smith", res.Report.ObjectName)
	assert.InDelta(t, 1.0, res.Report.CarbonFootprintKg, 1e-12)
	assert.Len(t, s.History(), 1)
}

func TestScan_PersistWarning(t *testing.T) {
	s, kv := newSession(t, &labelClassifier{})
	kv.FailWrites(errors.New("disk full"))

	res, err := s.Scan(context.Background(), img("water bottle"))
	require.NoError(t, err)
	require.ErrorIs(t, res.Warning, history.ErrPersist)
	assert.Len(t, s.History(), 1)
	assert.Equal(t, 1, res.Summary.TotalScans)
}

func TestScan_HistoryCapacity(t *testing.T) {
	s := New(Options{})
	for i := 0; i < 12; i++ {
		s.ScanLabel(fmt.Sprintf("item %d", i), "")
	}
	h := s.History()
	require.Len(t, h, history.Capacity)
	assert.Equal(t, "item 11", h[0].ObjectName)
	assert.Equal(t, "item 2", h[9].ObjectName)
}

func TestScanBatch_RecordsInInputOrder(t *testing.T) {
	c := &labelClassifier{}
	s := New(Options{Classifier: c, Concurrency: 2})

	images := []classifier.Image{img("water bottle"), img("bad one"), img("cellular telephone"), img("cup")}
	results, err := s.ScanBatch(context.Background(), images)
	require.ErrorIs(t, err, ErrAnalysisFailed)
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrAnalysisFailed)
	assert.Equal(t, "Smartphone", results[2].Result.Report.ObjectName)
	assert.Equal(t, "bad one", results[1].Image)

	names := []string{}
	for _, r := range s.History() {
		names = append(names, r.ObjectName)
	}
	assert.Equal(t, []string{"Paper Coffee Cup", "Smartphone", "Plastic Water Bottle"}, names)
	assert.Equal(t, int32(4), c.calls.Load())

	last, ok := s.LastResult()
	require.True(t, ok)
	assert.Equal(t, "Paper Coffee Cup", last.ObjectName)
}

func TestScanAgainAndReset(t *testing.T) {
	s := New(Options{})
	s.ScanLabel("water bottle", "")

	text, ok := s.Narration()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "The Plastic Water Bottle has an estimated carbon footprint of 0.082"))

	s.ScanAgain()
	_, ok = s.LastResult()
	assert.False(t, ok)
	_, ok = s.Narration()
	assert.False(t, ok)
	assert.Len(t, s.History(), 1, "scan again keeps history")

	s.ScanLabel("cup", "")
	require.NoError(t, s.ResetHistory())
	assert.Empty(t, s.History())
	_, ok = s.LastResult()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Dashboard().TotalScans)
}

func TestDashboard_BreakdownMode(t *testing.T) {
	s := New(Options{Breakdown: dashboard.BreakdownIllustrative})
	s.ScanLabel("water bottle", "")
	d := s.Dashboard()
	assert.Equal(t, dashboard.BreakdownIllustrative, d.BreakdownMode)
	assert.InDelta(t, 35.0, d.Breakdown[0].Percent, 1e-12)
}

func TestScan_UsesClock(t *testing.T) {
	at := time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)
	s := New(Options{Clock: func() time.Time { return at }})
	s.ScanLabel("cup", "")
	assert.Equal(t, "12/31/2025", s.History()[0].Date)
}
