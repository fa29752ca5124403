package classifier

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Image is a captured or uploaded picture.
type Image struct {
	// Name is the source file name, when known. The stub classifier reads
	// hints from it.
	Name      string
	Data      []byte
	MediaType string
}

// NewImage wraps data, sniffing the media type from its content.
func NewImage(name string, data []byte) Image {
	return Image{
		Name:      name,
		Data:      data,
		MediaType: http.DetectContentType(data),
	}
}

// LoadImage reads the image at path.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("reading image: %w", err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	return NewImage(filepath.Base(path), data), nil
}

// DataURL encodes the image as a data: URL. It is the opaque image
// reference stored on scan records.
func (img Image) DataURL() string {
	if len(img.Data) == 0 {
		return ""
	}
	mediaType := img.MediaType
	if mediaType == "" {
		mediaType = http.DetectContentType(img.Data)
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
