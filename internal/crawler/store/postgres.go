package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/lib/pq"

	"nsdc/internal/crawler/models"
	"nsdc/pkg/platform/tx"
)

// PostgresStore decomposes entities into statements and writes them in
// batches. Statements are buffered until Flush or until FlushThreshold of
// them are pending.
type PostgresStore struct {
	db             *sql.DB
	dataset        string
	batchSize      int
	flushThreshold int
	logger         *slog.Logger
	clock          func() time.Time

	mu       sync.Mutex
	runTime  time.Time
	pending  map[string]models.Statement
	order    []string
	byEntity map[string][]string
	replace  map[string]struct{}
}

type PostgresOption func(*PostgresStore)

func WithPostgresLogger(logger *slog.Logger) PostgresOption {
	return func(s *PostgresStore) {
		s.logger = logger
	}
}

// WithBatching overrides BatchSize and FlushThreshold.
func WithBatching(batchSize, flushThreshold int) PostgresOption {
	return func(s *PostgresStore) {
		if batchSize > 0 {
			s.batchSize = batchSize
		}
		if flushThreshold > 0 {
			s.flushThreshold = flushThreshold
		}
	}
}

func WithPostgresClock(clock func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgresStore constructs a statement store for one dataset.
func NewPostgresStore(db *sql.DB, dataset string, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{
		db:             db,
		dataset:        dataset,
		batchSize:      BatchSize,
		flushThreshold: FlushThreshold,
		logger:         slog.Default(),
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *PostgresStore) reset() {
	s.pending = make(map[string]models.Statement)
	s.order = nil
	s.byEntity = make(map[string][]string)
	s.replace = make(map[string]struct{})
}

// Emit buffers the statements of entity. A unique emission discards what was
// buffered or stored for the entity before.
func (s *PostgresStore) Emit(ctx context.Context, entity *models.Entity, opts models.EmitOptions) error {
	if err := checkEmittable(entity); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.Unique {
		for _, id := range s.byEntity[entity.ID] {
			delete(s.pending, id)
		}
		delete(s.byEntity, entity.ID)
		s.replace[entity.ID] = struct{}{}
	}

	seen := s.runTime
	if seen.IsZero() {
		seen = s.clock().UTC()
	}
	for _, stmt := range models.Statements(entity, s.dataset, opts.Target, seen) {
		if _, ok := s.pending[stmt.ID]; !ok {
			s.order = append(s.order, stmt.ID)
			s.byEntity[entity.ID] = append(s.byEntity[entity.ID], stmt.ID)
		}
		s.pending[stmt.ID] = stmt
	}

	if len(s.pending) >= s.flushThreshold {
		return s.flushLocked(ctx)
	}
	return nil
}

func (s *PostgresStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

// Pending reports the number of buffered statements.
func (s *PostgresStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *PostgresStore) flushLocked(ctx context.Context) error {
	if len(s.pending) == 0 && len(s.replace) == 0 {
		return nil
	}
	stmts := make([]models.Statement, 0, len(s.pending))
	for _, id := range s.order {
		if stmt, ok := s.pending[id]; ok {
			stmts = append(stmts, stmt)
		}
	}
	replaced := slices.Sorted(maps.Keys(s.replace))

	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		if err := s.deleteEntities(ctx, replaced); err != nil {
			return err
		}
		for start := 0; start < len(stmts); start += s.batchSize {
			end := min(start+s.batchSize, len(stmts))
			if err := s.insertStatements(ctx, stmts[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("flush statements: %w", err)
	}
	s.logger.DebugContext(ctx, "Flushed statements",
		slog.String("dataset", s.dataset),
		slog.Int("statements", len(stmts)),
		slog.Int("replaced", len(replaced)),
	)
	s.reset()
	return nil
}

func (s *PostgresStore) deleteEntities(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx,
		`DELETE FROM statement WHERE dataset = $1 AND entity_id = ANY($2)`,
		s.dataset, pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("delete replaced entities: %w", err)
	}
	return nil
}

// insertStatements writes one batch using unnest for a single round trip.
func (s *PostgresStore) insertStatements(ctx context.Context, batch []models.Statement) error {
	n := len(batch)
	ids := make([]string, n)
	entityIDs := make([]string, n)
	canonicalIDs := make([]string, n)
	schemas := make([]string, n)
	props := make([]string, n)
	values := make([]string, n)
	targets := make([]bool, n)
	seen := make([]string, n)
	for i, stmt := range batch {
		ids[i] = stmt.ID
		entityIDs[i] = stmt.EntityID
		canonicalIDs[i] = stmt.CanonicalID
		schemas[i] = string(stmt.Schema)
		props[i] = stmt.Prop
		values[i] = stmt.Value
		targets[i] = stmt.Target
		seen[i] = stmt.LastSeen.UTC().Format(time.RFC3339Nano)
	}

	query := `
		INSERT INTO statement (id, dataset, entity_id, canonical_id, schema, prop, value, target, first_seen, last_seen)
		SELECT s.id, $1, s.entity_id, s.canonical_id, s.schema, s.prop, s.value, s.target, s.seen, s.seen
		FROM unnest($2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[], $8::boolean[], $9::timestamptz[])
			AS s(id, entity_id, canonical_id, schema, prop, value, target, seen)
		ON CONFLICT (id) DO UPDATE SET
			canonical_id = EXCLUDED.canonical_id,
			schema = EXCLUDED.schema,
			target = EXCLUDED.target,
			last_seen = EXCLUDED.last_seen
	`
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, query,
		s.dataset,
		pq.Array(ids), pq.Array(entityIDs), pq.Array(canonicalIDs), pq.Array(schemas),
		pq.Array(props), pq.Array(values), pq.Array(targets), pq.Array(seen),
	)
	if err != nil {
		return fmt.Errorf("insert statements: %w", err)
	}
	return nil
}

// BeginRun stamps every statement emitted from now on with runTime.
func (s *PostgresStore) BeginRun(_ context.Context, runTime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runTime = runTime.UTC().Truncate(time.Microsecond)
	return nil
}

// CleanupRun deletes statements of the dataset last seen before the current
// run. Call it only after a successful Flush.
func (s *PostgresStore) CleanupRun(ctx context.Context) error {
	s.mu.Lock()
	runTime := s.runTime
	s.mu.Unlock()
	if runTime.IsZero() {
		return nil
	}
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx,
		`DELETE FROM statement WHERE dataset = $1 AND last_seen < $2`,
		s.dataset, runTime,
	)
	if err != nil {
		return fmt.Errorf("cleanup dataset: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.InfoContext(ctx, "Removed stale statements",
			slog.String("dataset", s.dataset),
			slog.Int64("statements", n),
		)
	}
	return nil
}

// CountEntities counts distinct entities and target entities of the dataset.
func (s *PostgresStore) CountEntities(ctx context.Context) (int, int, error) {
	var entities, targets int
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT entity_id),
		       COUNT(DISTINCT entity_id) FILTER (WHERE target)
		FROM statement
		WHERE dataset = $1
	`, s.dataset).Scan(&entities, &targets)
	if err != nil {
		return 0, 0, fmt.Errorf("count entities: %w", err)
	}
	return entities, targets, nil
}

// Entity rebuilds a stored entity from its statements.
func (s *PostgresStore) Entity(ctx context.Context, id string) (*models.Entity, bool, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT schema, prop, value, target
		FROM statement
		WHERE dataset = $1 AND entity_id = $2
		ORDER BY first_seen, id
	`, s.dataset, id)
	if err != nil {
		return nil, false, fmt.Errorf("load entity: %w", err)
	}
	defer rows.Close()

	var (
		entity *models.Entity
		target bool
	)
	for rows.Next() {
		var schema, prop, value string
		var isTarget bool
		if err := rows.Scan(&schema, &prop, &value, &isTarget); err != nil {
			return nil, false, fmt.Errorf("scan statement: %w", err)
		}
		if entity == nil {
			entity = models.NewEntity(models.Schema(schema))
			entity.ID = id
		}
		target = target || isTarget
		if prop != models.BaseProperty {
			entity.Add(models.Property(prop), value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("load entity: %w", err)
	}
	if entity == nil {
		return nil, false, fmt.Errorf("entity %s: %w", id, ErrNotFound)
	}
	return entity, target, nil
}
