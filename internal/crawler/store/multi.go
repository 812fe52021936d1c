package store

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/ports"
)

// Multi fans every call out to several stores. The first store is the
// primary: it answers CountEntities.
type Multi struct {
	stores []ports.EntityStore
}

func NewMulti(primary ports.EntityStore, others ...ports.EntityStore) *Multi {
	return &Multi{stores: append([]ports.EntityStore{primary}, others...)}
}

// Emit writes to all stores concurrently and returns once every store has
// accepted the entity, so the order of emissions is kept per store. Stores
// get the caller's ctx: asynchronous sinks may hold on to it after Emit
// returns.
func (m *Multi) Emit(ctx context.Context, entity *models.Entity, opts models.EmitOptions) error {
	var g errgroup.Group
	for _, s := range m.stores {
		g.Go(func() error {
			return s.Emit(ctx, entity, opts)
		})
	}
	return g.Wait()
}

func (m *Multi) Flush(ctx context.Context) error {
	var g errgroup.Group
	for _, s := range m.stores {
		g.Go(func() error {
			return s.Flush(ctx)
		})
	}
	return g.Wait()
}

func (m *Multi) BeginRun(ctx context.Context, runTime time.Time) error {
	for _, s := range m.stores {
		if rs, ok := s.(ports.RunScoped); ok {
			if err := rs.BeginRun(ctx, runTime); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Multi) CleanupRun(ctx context.Context) error {
	for _, s := range m.stores {
		if rs, ok := s.(ports.RunScoped); ok {
			if err := rs.CleanupRun(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// CountEntities asks the primary store. A primary that cannot count reports
// zero.
func (m *Multi) CountEntities(ctx context.Context) (int, int, error) {
	if counter, ok := m.stores[0].(ports.EntityCounter); ok {
		return counter.CountEntities(ctx)
	}
	return 0, 0, nil
}
