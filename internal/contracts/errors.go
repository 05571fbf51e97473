package contracts

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup has nothing to return
var ErrNotFound = errors.New("not found")

// Error categories reported to callers
const (
	CategoryFormat         = "format_error"
	CategoryValidation     = "validation_error"
	CategoryStorage        = "storage_error"
	CategoryUpstreamFetch  = "upstream_fetch_error"
	CategoryUpstreamSchema = "upstream_schema_error"
	CategoryNotFound       = "not_found"
	CategoryInternal       = "internal_error"
)

// FormatError reports a date that is not a valid DD/MM/YYYY calendar date
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date %q: %s (expected DD/MM/YYYY)", e.Input, e.Reason)
}

// ValidationError reports a record that cannot be stored.
// Index is the position in the batch, or -1 for a standalone record.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := e.Field
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Index >= 0 {
		msg = fmt.Sprintf("record %d: %s", e.Index, msg)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError reports a persistence failure.
// Applied counts rows of the same batch committed before the failure.
type StorageError struct {
	Op      string
	Applied int
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UpstreamFetchError reports a transport failure or a non-2xx answer from a provider
type UpstreamFetchError struct {
	Source     string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned HTTP %d for %s", e.Source, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s unreachable at %s: %v", e.Source, e.URL, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// UpstreamSchemaError reports a provider payload that does not match its contract
type UpstreamSchemaError struct {
	Source string
	Reason string
	Err    error
}

func (e *UpstreamSchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s payload invalid: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s payload invalid: %s", e.Source, e.Reason)
}

func (e *UpstreamSchemaError) Unwrap() error {
	return e.Err
}

// Category classifies err into one of the Category constants.
// Upstream errors win over the errors they wrap.
func Category(err error) string {
	var (
		fetchErr  *UpstreamFetchError
		schemaErr *UpstreamSchemaError
		formatErr *FormatError
		validErr  *ValidationError
		storeErr  *StorageError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &fetchErr):
		return CategoryUpstreamFetch
	case errors.As(err, &schemaErr):
		return CategoryUpstreamSchema
	case errors.Is(err, ErrNotFound):
		return CategoryNotFound
	case errors.As(err, &formatErr):
		return CategoryFormat
	case errors.As(err, &validErr):
		return CategoryValidation
	case errors.As(err, &storeErr):
		return CategoryStorage
	default:
		return CategoryInternal
	}
}
