package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"

	"nsdc/internal/crawler/models"
	"nsdc/pkg/platform/tx"
)

// MemoryResources is an in-process resource registry.
type MemoryResources struct {
	mu        sync.RWMutex
	resources map[string][]*models.Resource
}

func NewMemoryResources() *MemoryResources {
	return &MemoryResources{resources: make(map[string][]*models.Resource)}
}

// SaveResource records res, replacing a resource of the same name.
func (r *MemoryResources) SaveResource(_ context.Context, res *models.Resource) error {
	if res == nil {
		return fmt.Errorf("resource is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := slices.DeleteFunc(r.resources[res.Dataset], func(existing *models.Resource) bool {
		return existing.Name == res.Name
	})
	copied := *res
	r.resources[res.Dataset] = append(list, &copied)
	return nil
}

func (r *MemoryResources) ClearResources(_ context.Context, dataset string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resources, dataset)
	return nil
}

// Resources lists the dataset's resources ordered by name.
func (r *MemoryResources) Resources(_ context.Context, dataset string) ([]*models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Resource, 0, len(r.resources[dataset]))
	for _, res := range r.resources[dataset] {
		copied := *res
		out = append(out, &copied)
	}
	slices.SortFunc(out, func(a, b *models.Resource) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// PostgresResources persists resource records in PostgreSQL.
type PostgresResources struct {
	db *sql.DB
}

func NewPostgresResources(db *sql.DB) *PostgresResources {
	return &PostgresResources{db: db}
}

func (r *PostgresResources) SaveResource(ctx context.Context, res *models.Resource) error {
	if res == nil {
		return fmt.Errorf("resource is required")
	}
	query := `
		INSERT INTO resource (id, dataset, name, checksum, mime_type, size, title, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (dataset, name) DO UPDATE SET
			id = EXCLUDED.id,
			checksum = EXCLUDED.checksum,
			mime_type = EXCLUDED.mime_type,
			size = EXCLUDED.size,
			title = EXCLUDED.title,
			created_at = EXCLUDED.created_at
	`
	_, err := tx.Exec(ctx, r.db).ExecContext(ctx, query,
		res.ID, res.Dataset, res.Name, res.Checksum, res.MimeType, res.Size, res.Title, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("save resource: %w", err)
	}
	return nil
}

func (r *PostgresResources) ClearResources(ctx context.Context, dataset string) error {
	if _, err := tx.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM resource WHERE dataset = $1`, dataset); err != nil {
		return fmt.Errorf("clear resources: %w", err)
	}
	return nil
}

func (r *PostgresResources) Resources(ctx context.Context, dataset string) ([]*models.Resource, error) {
	rows, err := tx.Exec(ctx, r.db).QueryContext(ctx, `
		SELECT id, dataset, name, checksum, mime_type, size, title, created_at
		FROM resource
		WHERE dataset = $1
		ORDER BY name
	`, dataset)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var out []*models.Resource
	for rows.Next() {
		res := &models.Resource{}
		if err := rows.Scan(&res.ID, &res.Dataset, &res.Name, &res.Checksum, &res.MimeType, &res.Size, &res.Title, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return out, nil
}
