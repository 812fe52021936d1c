// Package store holds the sinks emitted entities end up in: an in-memory
// store, a PostgreSQL statement store, a Kafka publisher, and a fan-out
// across several of them.
package store

import (
	"fmt"

	"nsdc/internal/crawler/models"
	"nsdc/pkg/platform/sentinel"
)

const (
	// BatchSize is the number of statements written per INSERT.
	BatchSize = 5000

	// FlushThreshold is the number of pending statements that triggers a
	// flush in the middle of a run.
	FlushThreshold = BatchSize * 10
)

// ErrNotFound is returned when an entity or resource does not exist.
var ErrNotFound = sentinel.ErrNotFound

func checkEmittable(entity *models.Entity) error {
	if entity == nil {
		return fmt.Errorf("emit: %w", models.ErrNoID)
	}
	if entity.ID == "" {
		return fmt.Errorf("emit %s: entity has no ID: %w", entity.Schema, models.ErrNoID)
	}
	return nil
}
