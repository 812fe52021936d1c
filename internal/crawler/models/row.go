package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Row is one source record: string keys mapped to nullable string values.
// Keys and their presence vary between feeds and between rows.
type Row struct {
	fields map[string]*string
}

// NewRow wraps fields. A nil value means the source sent null.
func NewRow(fields map[string]*string) Row {
	return Row{fields: fields}
}

// RowFromStrings builds a row where every given key is present.
func RowFromStrings(fields map[string]string) Row {
	m := make(map[string]*string, len(fields))
	for k, v := range fields {
		m[k] = &v
	}
	return Row{fields: m}
}

// Get returns the value of key. Missing keys and null values both report
// false.
func (r Row) Get(key string) (string, bool) {
	v, ok := r.fields[key]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// String returns the value of key, or "" when it is absent.
func (r Row) String(key string) string {
	v, _ := r.Get(key)
	return v
}

// Required returns the trimmed value of key or ErrMissingField when it is
// absent or blank.
func (r Row) Required(key string) (string, error) {
	v, ok := r.Get(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", fmt.Errorf("%q: %w", key, ErrMissingField)
	}
	return v, nil
}

// Keys returns the row's keys in sorted order.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// UnmarshalJSON reads a JSON object. Strings are kept as is, numbers and
// booleans keep their literal text, nested values keep their JSON text and
// null becomes absent.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("row: expected a JSON object")
	}
	r.fields = make(map[string]*string, len(raw))
	for key, msg := range raw {
		r.fields[key] = rawText(msg)
	}
	return nil
}

func rawText(msg json.RawMessage) *string {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var s string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return &s
		}
	}
	s = string(trimmed)
	return &s
}

// DecodeRows reads a feed body: a JSON array of row objects. Any other
// top-level value, null included, is ErrNotArray.
func DecodeRows(r io.Reader) ([]Row, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode feed rows: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("decode feed rows: %w", ErrNotArray)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	rows := []Row{}
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode feed rows: %w", err)
	}
	return rows, nil
}
