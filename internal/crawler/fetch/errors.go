package fetch

import (
	"errors"
	"fmt"
)

// Category is the normalized failure taxonomy for downloads.
type Category string

const (
	// CategoryTimeout indicates the source took too long to respond
	CategoryTimeout Category = "timeout"

	// CategoryOutage indicates the source is unreachable or failing (5xx)
	CategoryOutage Category = "outage"

	// CategoryRateLimited indicates too many requests (429)
	CategoryRateLimited Category = "rate_limited"

	// CategoryNotFound indicates the document does not exist (404)
	CategoryNotFound Category = "not_found"

	// CategoryForbidden indicates credential or permission issues
	CategoryForbidden Category = "forbidden"

	// CategoryBadResponse indicates any other unexpected status
	CategoryBadResponse Category = "bad_response"

	// CategoryInternal indicates a local failure, such as writing the file
	CategoryInternal Category = "internal"
)

// Error wraps download failures with a normalized category.
type Error struct {
	Category   Category
	URL        string
	Message    string
	Underlying error
	Retryable  bool // Whether this error is worth retrying
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("fetch %s [%s]: %s: %v", e.URL, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("fetch %s [%s]: %s", e.URL, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a categorized fetch error. Timeouts, outages and rate
// limiting are retryable.
func NewError(category Category, url, message string, underlying error) *Error {
	retryable := category == CategoryTimeout ||
		category == CategoryOutage ||
		category == CategoryRateLimited

	return &Error{
		Category:   category,
		URL:        url,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// CategoryOf extracts the error category from an error
func CategoryOf(err error) Category {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return CategoryInternal
}
