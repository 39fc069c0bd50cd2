// Package models defines client-side data models used by the maya CLI.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedField marks a profile field line that is not in name=value form.
var ErrMalformedField = errors.New("profile field must be name=value")

// Record is the single persisted user/session object. It has no fixed
// schema: whatever the backend returns or the caller stores lives under
// one record.
type Record map[string]any

// DecodeRecord deserializes a stored record. Nil or empty input means
// nothing is stored and yields a nil record without error; malformed JSON
// is reported to the caller rather than swallowed.
func DecodeRecord(data []byte) (Record, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

// Encode serializes the record for storage.
func (r Record) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Merge returns a copy of the record with overlay's keys written over it.
// Keys present only in the receiver are retained; keys in overlay win.
// The receiver is left untouched; a nil receiver acts as an empty record.
func (r Record) Merge(overlay Record) Record {
	merged := make(Record, len(r)+len(overlay))
	for k, v := range r {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// AccessToken returns the record's "access_token" field, or "" when the
// field is absent or not a string.
func (r Record) AccessToken() string {
	t, _ := r["access_token"].(string)
	return t
}

// RecordFromPairs builds a record from "name=value" lines (as collected by
// the CLI profile prompt). The value may itself contain '='; only the first
// one separates name from value.
func RecordFromPairs(pairs []string) (Record, error) {
	r := make(Record, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedField, p)
		}
		r[name] = value
	}
	return r, nil
}
