// Package ports defines the collaborators the crawler core consumes.
// Interfaces are placed here when consumed by both the normalizer and the
// crawl service, or implemented by more than one adapter.
package ports

import (
	"context"
	"time"

	"nsdc/internal/crawler/models"
)

// Fetcher downloads a source document into the dataset's data directory.
type Fetcher interface {
	// FetchResource stores the body of url under name and returns its path.
	FetchResource(ctx context.Context, name, url string) (string, error)
}

// ResourceExporter registers a fetched file as published by the dataset.
type ResourceExporter interface {
	ExportResource(ctx context.Context, path, mimeType, title string) (*models.Resource, error)

	// ClearResources forgets the resources registered by earlier runs.
	ClearResources(ctx context.Context) error
}

// Slugger derives identifiers from source fields.
type Slugger interface {
	// MakeSlug builds a readable ID from parts; all parts are required.
	MakeSlug(parts ...string) (string, error)

	// MakeID hashes parts into an opaque ID.
	MakeID(parts ...string) (string, error)
}

// CountryLookup resolves free text to an ISO 3166-1 alpha-2 code. A miss is
// reported through ok, never as an error.
type CountryLookup interface {
	Lookup(text string) (code string, ok bool)
}

// EntityStore receives emitted entities. It is append-only from the
// crawler's point of view.
type EntityStore interface {
	Emit(ctx context.Context, entity *models.Entity, opts models.EmitOptions) error

	// Flush persists anything the store buffered.
	Flush(ctx context.Context) error
}

// EntityCounter is implemented by stores that can report what a dataset
// holds after a run.
type EntityCounter interface {
	CountEntities(ctx context.Context) (entities int, targets int, err error)
}

// RunScoped is implemented by stores that keep a dataset across runs. Values
// emitted after BeginRun are stamped with runTime; CleanupRun drops whatever
// the finished run did not emit again.
type RunScoped interface {
	BeginRun(ctx context.Context, runTime time.Time) error
	CleanupRun(ctx context.Context) error
}
