package models

import (
	"errors"
	"fmt"

	"nsdc/pkg/platform/sentinel"
)

var (
	// ErrMissingField marks a row without one of the fields its entity ID is
	// built from.
	ErrMissingField = errors.New("missing required field")

	// ErrNotArray is returned for a feed body that is not a JSON array.
	ErrNotArray = errors.New("feed body is not a JSON array")

	// ErrNoID is returned when an entity reaches a store without an ID.
	ErrNoID = errors.New("entity has no ID")

	ErrInvalidSchema   = errors.New("invalid schema")
	ErrInvalidProperty = errors.New("invalid property for schema")
	ErrInvalidState    = sentinel.ErrInvalidState
)

// InputError reports a source row that cannot be turned into an entity. It
// aborts the crawl: a feed whose rows lack their identifiers is malformed.
type InputError struct {
	Feed  string
	Row   int
	Field string
	Err   error
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s feed row %d: field %q: %v", e.Feed, e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("%s feed row %d: %v", e.Feed, e.Row, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err carries an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
