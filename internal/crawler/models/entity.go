package models

import (
	"encoding/json"
	"fmt"
	"slices"

	pstrings "nsdc/pkg/platform/strings"
)

// Entity is a typed node of the emitted graph. Every property holds an
// ordered set of strings: adding a value that is already present, or an empty
// value, changes nothing.
type Entity struct {
	ID     string
	Schema Schema
	values map[Property][]string
}

// NewEntity returns an empty entity of the given schema.
func NewEntity(schema Schema) *Entity {
	return &Entity{Schema: schema, values: make(map[Property][]string)}
}

// Add appends values to prop, trimming whitespace and skipping empty strings
// and duplicates.
func (e *Entity) Add(prop Property, values ...string) {
	if e.values == nil {
		e.values = make(map[Property][]string)
	}
	merged := pstrings.AppendUnique(e.values[prop], values...)
	if len(merged) == 0 {
		return
	}
	e.values[prop] = merged
}

// Get returns a copy of the values of prop.
func (e *Entity) Get(prop Property) []string {
	return slices.Clone(e.values[prop])
}

// First returns the first value of prop, or "".
func (e *Entity) First(prop Property) string {
	if vals := e.values[prop]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Has reports whether prop contains value.
func (e *Entity) Has(prop Property, value string) bool {
	return slices.Contains(e.values[prop], value)
}

// Properties returns the properties that hold at least one value: first the
// schema's own properties in declaration order, then any others sorted by name.
func (e *Entity) Properties() []Property {
	out := make([]Property, 0, len(e.values))
	for _, prop := range schemaProperties[e.Schema] {
		if len(e.values[prop]) > 0 {
			out = append(out, prop)
		}
	}
	var extra []Property
	for prop, vals := range e.values {
		if len(vals) > 0 && !e.Schema.HasProperty(prop) {
			extra = append(extra, prop)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// Merge adds every value of other into e. Both must describe the same entity.
func (e *Entity) Merge(other *Entity) error {
	if other == nil {
		return nil
	}
	if e.ID != other.ID || e.Schema != other.Schema {
		return fmt.Errorf("merge %s/%s into %s/%s: %w", other.Schema, other.ID, e.Schema, e.ID, ErrInvalidState)
	}
	for _, prop := range other.Properties() {
		e.Add(prop, other.values[prop]...)
	}
	return nil
}

// Clone returns a deep copy of e.
func (e *Entity) Clone() *Entity {
	c := NewEntity(e.Schema)
	c.ID = e.ID
	for prop, vals := range e.values {
		c.values[prop] = slices.Clone(vals)
	}
	return c
}

// Validate checks the invariants a store relies on: a known schema, an ID and
// only properties of that schema.
func (e *Entity) Validate() error {
	if !e.Schema.IsValid() {
		return fmt.Errorf("schema %q: %w", e.Schema, ErrInvalidSchema)
	}
	if e.ID == "" {
		return fmt.Errorf("%s: %w", e.Schema, ErrNoID)
	}
	for _, prop := range e.Properties() {
		if !e.Schema.HasProperty(prop) {
			return fmt.Errorf("%s %s: %q: %w", e.Schema, e.ID, prop, ErrInvalidProperty)
		}
	}
	return nil
}

func (e *Entity) String() string {
	return fmt.Sprintf("<%s %s>", e.Schema, e.ID)
}

type entityJSON struct {
	ID         string                `json:"id"`
	Schema     Schema                `json:"schema"`
	Properties map[Property][]string `json:"properties"`
}

func (e *Entity) MarshalJSON() ([]byte, error) {
	props := make(map[Property][]string, len(e.values))
	for _, prop := range e.Properties() {
		props[prop] = e.values[prop]
	}
	return json.Marshal(entityJSON{ID: e.ID, Schema: e.Schema, Properties: props})
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw entityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = *NewEntity(raw.Schema)
	e.ID = raw.ID
	for prop, vals := range raw.Properties {
		e.Add(prop, vals...)
	}
	return nil
}
