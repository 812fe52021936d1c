package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and fetchers return
// these (optionally wrapped) so the crawl service can decide what is fatal.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: key or record does not exist (cache miss, unknown resource)
// - ErrExpired: cached entry is older than its allowed age
// - ErrInvalidState: record in the wrong state for the requested operation
// - ErrUnavailable: backing service temporarily unavailable
//
// For malformed source rows, use models.InputError.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
