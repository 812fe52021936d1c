//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/store"
	"nsdc/pkg/testutil/containers"
)

const dataset = "ua_nsdc_sanctions"

type PostgresStoreSuite struct {
	suite.Suite
	pg *containers.PostgresContainer
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(store.Migrate(context.Background(), s.pg.DB))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "statement", "resource"))
}

func organization(id string, names ...string) *models.Entity {
	e := models.NewEntity(models.SchemaOrganization)
	e.ID = id
	e.Add(models.PropName, names...)
	return e
}

func (s *PostgresStoreSuite) TestNothingIsWrittenBeforeFlush() {
	ctx := context.Background()
	st := store.NewPostgresStore(s.pg.DB, dataset)

	s.Require().NoError(st.Emit(ctx, organization("o1", "A"), models.EmitOptions{Target: true}))
	s.Equal(2, st.Pending())

	entities, _, err := st.CountEntities(ctx)
	s.Require().NoError(err)
	s.Zero(entities)

	s.Require().NoError(st.Flush(ctx))
	s.Zero(st.Pending())
	entities, targets, err := st.CountEntities(ctx)
	s.Require().NoError(err)
	s.Equal(1, entities)
	s.Equal(1, targets)
}

func (s *PostgresStoreSuite) TestUniqueEmissionReplaces() {
	ctx := context.Background()
	st := store.NewPostgresStore(s.pg.DB, dataset)

	s.Require().NoError(st.Emit(ctx, organization("o1", "Old"), models.EmitOptions{Target: true, Unique: true}))
	s.Require().NoError(st.Flush(ctx))
	s.Require().NoError(st.Emit(ctx, organization("o1", "New"), models.EmitOptions{Target: true, Unique: true}))
	s.Require().NoError(st.Flush(ctx))

	got, target, err := st.Entity(ctx, "o1")
	s.Require().NoError(err)
	s.True(target)
	s.Equal([]string{"New"}, got.Get(models.PropName))
}

func (s *PostgresStoreSuite) TestNonUniqueEmissionAccumulates() {
	ctx := context.Background()
	st := store.NewPostgresStore(s.pg.DB, dataset)

	s.Require().NoError(st.Emit(ctx, organization("o1", "A"), models.EmitOptions{}))
	s.Require().NoError(st.Flush(ctx))
	s.Require().NoError(st.Emit(ctx, organization("o1", "B"), models.EmitOptions{}))
	s.Require().NoError(st.Flush(ctx))

	got, target, err := st.Entity(ctx, "o1")
	s.Require().NoError(err)
	s.False(target)
	s.ElementsMatch([]string{"A", "B"}, got.Get(models.PropName))
}

func (s *PostgresStoreSuite) TestThresholdFlushesInBatches() {
	ctx := context.Background()
	st := store.NewPostgresStore(s.pg.DB, dataset, store.WithBatching(2, 6))

	for _, id := range []string{"o1", "o2", "o3"} {
		s.Require().NoError(st.Emit(ctx, organization(id, "Name "+id), models.EmitOptions{Target: true}))
	}
	s.Zero(st.Pending(), "six statements reach the threshold")

	entities, targets, err := st.CountEntities(ctx)
	s.Require().NoError(err)
	s.Equal(3, entities)
	s.Equal(3, targets)
}

func (s *PostgresStoreSuite) TestCleanupRunDropsStaleEntities() {
	ctx := context.Background()
	st := store.NewPostgresStore(s.pg.DB, dataset)
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(st.BeginRun(ctx, first))
	s.Require().NoError(st.Emit(ctx, organization("delisted", "A"), models.EmitOptions{Target: true}))
	s.Require().NoError(st.Emit(ctx, organization("kept", "B"), models.EmitOptions{Target: true}))
	s.Require().NoError(st.Flush(ctx))
	s.Require().NoError(st.CleanupRun(ctx))

	s.Require().NoError(st.BeginRun(ctx, first.Add(24*time.Hour)))
	s.Require().NoError(st.Emit(ctx, organization("kept", "B"), models.EmitOptions{Target: true}))
	s.Require().NoError(st.Flush(ctx))
	s.Require().NoError(st.CleanupRun(ctx))

	entities, _, err := st.CountEntities(ctx)
	s.Require().NoError(err)
	s.Equal(1, entities)
	_, _, err = st.Entity(ctx, "delisted")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *PostgresStoreSuite) TestResources() {
	ctx := context.Background()
	r := store.NewPostgresResources(s.pg.DB)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, checksum := range []string{"first", "second"} {
		s.Require().NoError(r.SaveResource(ctx, &models.Resource{
			ID:        uuid.New(),
			Dataset:   dataset,
			Name:      "physical.json",
			Checksum:  checksum,
			MimeType:  models.MimeJSON,
			Size:      42,
			Title:     models.SourceTitle,
			CreatedAt: created,
		}))
	}

	got, err := r.Resources(ctx, dataset)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("second", got[0].Checksum)
	s.Equal(int64(42), got[0].Size)
	s.True(created.Equal(got[0].CreatedAt))

	s.Require().NoError(r.ClearResources(ctx, dataset))
	got, err = r.Resources(ctx, dataset)
	s.Require().NoError(err)
	s.Empty(got)
}
