package history

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/ecolens/internal/catalog"
)

// DateLayout is the human-readable date stored on each record (en-US short date).
const DateLayout = "1/2/2006"

// ScanRecord is a snapshot of one completed scan. Values are copied from the
// catalog entry at creation time, so later catalog edits never change history.
type ScanRecord struct {
	ID                string           `json:"id"`
	ObjectName        string           `json:"name"`
	CarbonFootprintKg float64          `json:"carbon"`
	ImageData         string           `json:"image"`
	Date              string           `json:"date"`
	Category          catalog.Category `json:"category,omitempty"`
	CreatedAt         time.Time        `json:"createdAt,omitzero"`
}

// scanRecordWire accepts the loose shapes found in persisted histories:
// numeric ids, string or null footprints.
type scanRecordWire struct {
	ID                json.RawMessage  `json:"id"`
	ObjectName        string           `json:"name"`
	CarbonFootprintKg json.RawMessage  `json:"carbon"`
	ImageData         string           `json:"image"`
	Date              string           `json:"date"`
	Category          catalog.Category `json:"category"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// UnmarshalJSON decodes a record, coercing a missing or non-numeric footprint
// to zero and a numeric id to its decimal string.
func (r *ScanRecord) UnmarshalJSON(data []byte) error {
	var w scanRecordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = ScanRecord{
		ID:                looseString(w.ID),
		ObjectName:        w.ObjectName,
		CarbonFootprintKg: looseFloat(w.CarbonFootprintKg),
		ImageData:         w.ImageData,
		Date:              w.Date,
		Category:          w.Category,
		CreatedAt:         w.CreatedAt,
	}
	return nil
}

func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func looseFloat(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, parseErr := strconv.ParseFloat(s, 64); parseErr == nil {
			return parsed
		}
	}
	return 0
}

//nolint:gochecknoglobals // ulid monotonic entropy must be shared to keep ids ordered.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a ULID for a record created at t. IDs generated in sequence
// sort in creation order, including several within one millisecond.
func NewID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
