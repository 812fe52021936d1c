package models

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a source file the crawl fetched and published alongside its
// entities.
type Resource struct {
	ID        uuid.UUID
	Dataset   string
	Name      string
	Checksum  string
	MimeType  string
	Size      int64
	Title     string
	CreatedAt time.Time
}
