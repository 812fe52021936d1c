// Package export registers fetched source files as resources published
// alongside the dataset.
package export

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"nsdc/internal/crawler/models"
)

// Registry persists resource records of a dataset.
type Registry interface {
	SaveResource(ctx context.Context, res *models.Resource) error
	ClearResources(ctx context.Context, dataset string) error
}

// Exporter implements ports.ResourceExporter.
type Exporter struct {
	root     string
	dataset  string
	registry Registry
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Exporter)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// New creates an Exporter for files under root, the dataset's data directory.
// Resource names are recorded relative to root.
func New(root, dataset string, registry Registry, opts ...Option) *Exporter {
	e := &Exporter{
		root:     root,
		dataset:  dataset,
		registry: registry,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportResource checksums the file at path and records it. An empty
// mimeType is guessed from the file extension.
func (e *Exporter) ExportResource(ctx context.Context, path, mimeType, title string) (*models.Resource, error) {
	checksum, size, err := digest(path)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		e.logger.WarnContext(ctx, "Resource is empty", slog.String("path", path))
	}
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(path))
	}
	name, err := filepath.Rel(e.root, path)
	if err != nil {
		return nil, fmt.Errorf("resource %s is outside %s: %w", path, e.root, err)
	}

	res := &models.Resource{
		ID:        uuid.New(),
		Dataset:   e.dataset,
		Name:      filepath.ToSlash(name),
		Checksum:  checksum,
		MimeType:  mimeType,
		Size:      size,
		Title:     title,
		CreatedAt: e.now().UTC(),
	}
	if err := e.registry.SaveResource(ctx, res); err != nil {
		return nil, fmt.Errorf("save resource %s: %w", res.Name, err)
	}
	return res, nil
}

// ClearResources drops every resource recorded for the dataset.
func (e *Exporter) ClearResources(ctx context.Context) error {
	if err := e.registry.ClearResources(ctx, e.dataset); err != nil {
		return fmt.Errorf("clear resources: %w", err)
	}
	return nil
}

// digest returns the hex SHA-1 and byte size of the file at path.
func digest(path string) (string, int64, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open resource: %w", err)
	}
	defer fh.Close()

	h := sha1.New()
	size, err := io.Copy(h, fh)
	if err != nil {
		return "", 0, fmt.Errorf("read resource: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
