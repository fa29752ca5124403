// Package migration moves scan history between storage backends and imports
// history exported from the browser build of EcoLens.
//
// Both operations copy rather than move: the source is never modified.
package migration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/rshade/ecolens/internal/history"
	"github.com/rshade/ecolens/internal/kvstore"
)

// Migration errors.
var (
	ErrDestinationNotEmpty = errors.New("destination already holds scan history")
	ErrNoHistory           = errors.New("no scan history found")
	ErrMalformed           = errors.New("malformed history export")
)

// maxExportBytes bounds how much of an export is read.
const maxExportBytes = 16 << 20

// Result describes a completed copy.
type Result struct {
	// Records is the number of records written.
	Records int `json:"records"`
	// Dropped counts the oldest records beyond history.Capacity.
	Dropped int `json:"dropped"`
}

// CopyHistory copies the history stored under key in src to dst. A
// destination that already holds records is only replaced when force is set.
func CopyHistory(src, dst kvstore.Store, key string, force bool) (Result, error) {
	raw, ok, err := src.Get(key)
	if err != nil {
		return Result{}, fmt.Errorf("reading source history: %w", err)
	}
	if !ok {
		return Result{}, ErrNoHistory
	}
	return write(dst, key, []byte(raw), force)
}

// ImportExport reads an exported history from r and writes it to dst under
// key. The export may be the stored array itself, that array as a JSON
// string, or an object mapping key to either.
func ImportExport(r io.Reader, dst kvstore.Store, key string, force bool) (Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxExportBytes))
	if err != nil {
		return Result{}, fmt.Errorf("reading export: %w", err)
	}
	return write(dst, key, data, force)
}

func write(dst kvstore.Store, key string, data []byte, force bool) (Result, error) {
	records, err := decode(data, key)
	if err != nil {
		return Result{}, err
	}

	if !force {
		existing, ok, getErr := dst.Get(key)
		if getErr != nil {
			return Result{}, fmt.Errorf("reading destination history: %w", getErr)
		}
		if ok {
			if prior, decodeErr := decode([]byte(existing), key); decodeErr == nil && len(prior) > 0 {
				return Result{}, fmt.Errorf("%w (%d records); use force to replace", ErrDestinationNotEmpty, len(prior))
			}
		}
	}

	res := Result{Records: len(records)}
	if len(records) > history.Capacity {
		res.Dropped = len(records) - history.Capacity
		records = records[:history.Capacity]
		res.Records = history.Capacity
	}

	encoded, err := json.Marshal(records)
	if err != nil {
		return Result{}, fmt.Errorf("encoding history: %w", err)
	}
	if err = dst.Set(key, string(encoded)); err != nil {
		return Result{}, fmt.Errorf("writing destination history: %w", err)
	}
	return res, nil
}

// decode unwraps the accepted export shapes down to the record array.
func decode(data []byte, key string) ([]history.ScanRecord, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrNoHistory
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	v := gjson.ParseBytes(data)
	for k := 0; k < 2; k++ {
		switch {
		case v.Type == gjson.String:
			v = gjson.Parse(v.Str)
		case v.IsObject():
			field := v.Get(key)
			if !field.Exists() {
				return nil, fmt.Errorf("%w: no %q entry", ErrMalformed, key)
			}
			v = field
		}
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: expected a list of scans", ErrMalformed)
	}

	var records []history.ScanRecord
	if err := json.Unmarshal([]byte(v.Raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return records, nil
}
