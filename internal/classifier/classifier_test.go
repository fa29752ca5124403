package classifier

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestTopLabel(t *testing.T) {
	assert.Equal(t, UnknownLabel, TopLabel(nil))
	assert.Equal(t, UnknownLabel, TopLabel([]Prediction{}))
	assert.Equal(t, "cup", TopLabel([]Prediction{{Label: "cup", Confidence: 0.7}, {Label: "mug"}}))
}

func TestTop(t *testing.T) {
	preds := []Prediction{{Label: "a"}, {Label: "b"}, {Label: "c"}}
	assert.Len(t, Top(preds, 2), 2)
	assert.Len(t, Top(preds, 0), 3)
	assert.Len(t, Top(preds, 10), 3)
}

func TestNewImage_SniffsMediaType(t *testing.T) {
	img := NewImage("x.png", pngHeader)
	assert.Equal(t, "image/png", img.MediaType)
	assert.True(t, strings.HasPrefix(img.DataURL(), "data:image/png;base64,"))
	assert.Empty(t, Image{}.DataURL())
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bottle.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "bottle.png", img.Name)
	assert.Equal(t, pngHeader, img.Data)

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadImage(empty)
	require.ErrorIs(t, err, ErrEmptyImage)

	_, err = LoadImage(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}

func TestStub_FileNameHint(t *testing.T) {
	s := NewStub()
	preds, err := s.Classify(context.Background(), NewImage("my_PHONE_2.jpg", pngHeader))
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Contains(t, preds[0].Label, "cellular telephone")
	assert.Greater(t, preds[0].Confidence, preds[1].Confidence)
	assert.Greater(t, preds[1].Confidence, preds[2].Confidence)
}

func TestStub_DeterministicByContent(t *testing.T) {
	s := NewStub(WithStubTopK(1))
	img := NewImage("IMG_0001.jpg", []byte("some image bytes"))

	first, err := s.Classify(context.Background(), img)
	require.NoError(t, err)
	second, err := s.Classify(context.Background(), img)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, first, second)
}

func TestStub_CustomLabels(t *testing.T) {
	s := NewStub(WithStubLabels([]StubLabel{{Hint: "tee", Label: "jersey, T-shirt"}}), WithStubTopK(5))
	preds, err := s.Classify(context.Background(), NewImage("anything.jpg", pngHeader))
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "jersey, T-shirt", preds[0].Label)
	assert.Equal(t, StubName, s.Name())
}

func TestStub_Errors(t *testing.T) {
	s := NewStub()

	_, err := s.Classify(context.Background(), Image{Name: "cup.jpg"})
	require.ErrorIs(t, err, ErrClassification)
	require.ErrorIs(t, err, ErrEmptyImage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Classify(ctx, NewImage("cup.jpg", pngHeader))
	require.ErrorIs(t, err, ErrClassification)
	require.ErrorIs(t, err, context.Canceled)
}
