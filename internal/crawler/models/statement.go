package models

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// BaseProperty is the pseudo-property every entity gets one statement for,
// so entities without other values are still counted.
const BaseProperty = "id"

// Statement is one property value of an entity as persisted by the store.
type Statement struct {
	ID          string
	Dataset     string
	EntityID    string
	CanonicalID string
	Schema      Schema
	Prop        string
	Value       string
	Target      bool
	FirstSeen   time.Time
	LastSeen    time.Time
}

// StatementKey is the stable identity of a (dataset, entity, prop, value)
// tuple.
func StatementKey(dataset, entityID, prop, value string) string {
	h := sha1.New()
	for _, part := range []string{dataset, entityID, prop, value} {
		h.Write([]byte(part))
		h.Write([]byte{'.'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Statements decomposes e into statements stamped with the run time.
func Statements(e *Entity, dataset string, target bool, seen time.Time) []Statement {
	base := Statement{
		Dataset:     dataset,
		EntityID:    e.ID,
		CanonicalID: e.ID,
		Schema:      e.Schema,
		Target:      target,
		FirstSeen:   seen,
		LastSeen:    seen,
	}
	out := make([]Statement, 0, 8)
	add := func(prop, value string) {
		stmt := base
		stmt.Prop = prop
		stmt.Value = value
		stmt.ID = StatementKey(dataset, e.ID, prop, value)
		out = append(out, stmt)
	}
	add(BaseProperty, e.ID)
	for _, prop := range e.Properties() {
		for _, value := range e.values[prop] {
			add(string(prop), value)
		}
	}
	return out
}
