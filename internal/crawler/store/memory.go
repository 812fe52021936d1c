package store

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"nsdc/internal/crawler/models"
)

type memoryEntry struct {
	entity   *models.Entity
	target   bool
	lastSeen time.Time
}

// MemoryStore keeps entities in process. Non-unique re-emissions merge into
// the stored entity; unique ones replace it.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	order   []string
	runTime time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Emit(_ context.Context, entity *models.Entity, opts models.EmitOptions) error {
	if err := checkEmittable(entity); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := s.runTime
	if seen.IsZero() {
		seen = s.now()
	}
	entry, ok := s.entries[entity.ID]
	if !ok {
		s.entries[entity.ID] = &memoryEntry{entity: entity.Clone(), target: opts.Target, lastSeen: seen}
		s.order = append(s.order, entity.ID)
		return nil
	}
	if opts.Unique {
		entry.entity = entity.Clone()
		entry.target = opts.Target
	} else {
		if err := entry.entity.Merge(entity); err != nil {
			return fmt.Errorf("emit %s: %w", entity.ID, err)
		}
		entry.target = entry.target || opts.Target
	}
	entry.lastSeen = seen
	return nil
}

// Flush is a no-op; emitted entities are visible immediately.
func (s *MemoryStore) Flush(context.Context) error {
	return nil
}

func (s *MemoryStore) BeginRun(_ context.Context, runTime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runTime = runTime
	return nil
}

// CleanupRun forgets entities the current run did not emit.
func (s *MemoryStore) CleanupRun(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runTime.IsZero() {
		return nil
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if s.entries[id].lastSeen.Before(s.runTime) {
			delete(s.entries, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return nil
}

func (s *MemoryStore) CountEntities(context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	targets := 0
	for _, entry := range s.entries {
		if entry.target {
			targets++
		}
	}
	return len(s.entries), targets, nil
}

// Get returns a copy of the stored entity.
func (s *MemoryStore) Get(id string) (*models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", id, ErrNotFound)
	}
	return entry.entity.Clone(), nil
}

// IsTarget reports whether the entity was ever emitted as a target.
func (s *MemoryStore) IsTarget(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	return ok && entry.target
}

// Entities yields copies of the stored entities in first-emission order.
func (s *MemoryStore) Entities() iter.Seq[*models.Entity] {
	return func(yield func(*models.Entity) bool) {
		s.mu.RLock()
		snapshot := make([]*models.Entity, 0, len(s.order))
		for _, id := range s.order {
			snapshot = append(snapshot, s.entries[id].entity.Clone())
		}
		s.mu.RUnlock()
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}
