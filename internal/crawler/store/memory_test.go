package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsdc/internal/crawler/models"
)

func person(id string, names ...string) *models.Entity {
	e := models.NewEntity(models.SchemaPerson)
	e.ID = id
	e.Add(models.PropName, names...)
	return e
}

func TestMemoryStore_Emit(t *testing.T) {
	ctx := context.Background()

	t.Run("re-emission merges values", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Emit(ctx, person("p1", "A"), models.EmitOptions{}))
		require.NoError(t, s.Emit(ctx, person("p1", "B"), models.EmitOptions{Target: true}))

		got, err := s.Get("p1")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, got.Get(models.PropName))
		assert.True(t, s.IsTarget("p1"))
	})

	t.Run("unique re-emission replaces", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Emit(ctx, person("o1", "Old"), models.EmitOptions{Target: true, Unique: true}))
		require.NoError(t, s.Emit(ctx, person("o1", "New"), models.EmitOptions{Target: true, Unique: true}))

		got, err := s.Get("o1")
		require.NoError(t, err)
		assert.Equal(t, []string{"New"}, got.Get(models.PropName))
	})

	t.Run("stored entity is isolated from the caller", func(t *testing.T) {
		s := NewMemoryStore()
		e := person("p2", "A")
		require.NoError(t, s.Emit(ctx, e, models.EmitOptions{}))
		e.Add(models.PropName, "mutated")

		got, err := s.Get("p2")
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, got.Get(models.PropName))
	})

	t.Run("entity without ID is rejected", func(t *testing.T) {
		s := NewMemoryStore()
		err := s.Emit(ctx, models.NewEntity(models.SchemaPerson), models.EmitOptions{})
		assert.ErrorIs(t, err, models.ErrNoID)
		assert.ErrorIs(t, s.Emit(ctx, nil, models.EmitOptions{}), models.ErrNoID)
	})

	t.Run("schema mismatch on merge is an error", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Emit(ctx, person("x", "A"), models.EmitOptions{}))
		org := models.NewEntity(models.SchemaOrganization)
		org.ID = "x"
		assert.ErrorIs(t, s.Emit(ctx, org, models.EmitOptions{}), models.ErrInvalidState)
	})
}

func TestMemoryStore_CountAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Emit(ctx, person("addr"), models.EmitOptions{}))
	require.NoError(t, s.Emit(ctx, person("p1", "A"), models.EmitOptions{Target: true}))
	require.NoError(t, s.Emit(ctx, person("p2", "B"), models.EmitOptions{Target: true}))

	entities, targets, err := s.CountEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, entities)
	assert.Equal(t, 2, targets)

	var ids []string
	for e := range s.Entities() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"addr", "p1", "p2"}, ids)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CleanupRun(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.BeginRun(ctx, first))
	require.NoError(t, s.Emit(ctx, person("delisted", "A"), models.EmitOptions{Target: true}))
	require.NoError(t, s.Emit(ctx, person("kept", "B"), models.EmitOptions{Target: true}))
	require.NoError(t, s.CleanupRun(ctx))

	require.NoError(t, s.BeginRun(ctx, first.Add(24*time.Hour)))
	require.NoError(t, s.Emit(ctx, person("kept", "B"), models.EmitOptions{Target: true}))
	require.NoError(t, s.CleanupRun(ctx))

	var ids []string
	for e := range s.Entities() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"kept"}, ids)
}
