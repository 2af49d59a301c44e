/*
Package metadata implements the optional per-code metadata mapping.

On disk this is a JSON object keyed by Pixel-Code where every value is
arbitrary auxiliary data, plus an optional "rows" object that maps a row
label to the authoritative ordered list of codes in that row.
*/
package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bodgit/pixelcode/code"
)

const (
	// Filename is the conventional filename of the mapping
	Filename = "pixels.json"

	rowsKey = "rows"
)

// DB is the metadata database object. It implements the json.Marshaler and
// json.Unmarshaler interfaces.
type DB struct {
	entries map[string]json.RawMessage
	rows    code.Rows
}

// New returns an empty metadata database
func New() *DB {
	return &DB{
		entries: make(map[string]json.RawMessage),
		rows:    make(code.Rows),
	}
}

// Length returns the number of codes with metadata in the database
func (db *DB) Length() int {
	if db == nil {
		return 0
	}
	return len(db.entries)
}

// Set stores the provided JSON value for the given code
func (db *DB) Set(c string, value json.RawMessage) error {
	if !json.Valid(value) {
		return errors.New("metadata: invalid JSON value")
	}
	db.entries[c] = append(json.RawMessage(nil), value...)
	return nil
}

// SetRow stores the authoritative list of codes for a row label
func (db *DB) SetRow(label string, codes []string) {
	db.rows[label] = append([]string(nil), codes...)
}

// Metadata returns the value stored for c, falling back to its upper case
// form
func (db *DB) Metadata(c string) (json.RawMessage, bool) {
	if db == nil {
		return nil, false
	}
	if v, ok := db.entries[c]; ok {
		return v, true
	}
	v, ok := db.entries[strings.ToUpper(c)]
	return v, ok
}

// Row returns the authoritative codes for a row label
func (db *DB) Row(label string) ([]string, bool) {
	if db == nil {
		return nil, false
	}
	codes, ok := db.rows[label]
	return codes, ok
}

// Rows returns every row
func (db *DB) Rows() code.Rows {
	if db == nil {
		return nil
	}
	return db.rows
}

// Keys returns every code that has metadata
func (db *DB) Keys() []string {
	if db == nil {
		return nil
	}
	keys := make([]string, 0, len(db.entries))
	for k := range db.entries {
		keys = append(keys, k)
	}
	return keys
}

// MarshalJSON encodes the database back into its on-disk form
func (db *DB) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(db.entries)+1)
	for k, v := range db.entries {
		m[k] = v
	}
	if len(db.rows) > 0 {
		m[rowsKey] = db.rows
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the database from its on-disk form
func (db *DB) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	db.entries = make(map[string]json.RawMessage, len(m))
	db.rows = make(code.Rows)

	for k, v := range m {
		if k != rowsKey {
			db.entries[k] = v
			continue
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(v, &db.rows); err != nil {
			return err
		}
	}

	return nil
}
