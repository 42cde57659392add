package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownContentType indicates a content type with no registered extractor.
	ErrUnknownContentType = errors.New("unknown content type")

	// ErrBackendUnavailable indicates the primary ranking backend cannot serve
	// a query. Searches degrade to keyword scoring when this is returned.
	ErrBackendUnavailable = errors.New("search backend unavailable")

	// ErrCacheMiss indicates a key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrSourceUnavailable indicates a content source could not enumerate records.
	// The indexer treats this as zero records for the affected type.
	ErrSourceUnavailable = errors.New("content source unavailable")

	// ErrExtraction indicates a single source record could not be normalised.
	ErrExtraction = errors.New("extraction failed")

	// ErrIndexInProgress indicates an index run for the same content type is active.
	ErrIndexInProgress = errors.New("index in progress")

	// ErrBusClosed indicates the event bus has been closed.
	ErrBusClosed = errors.New("event bus closed")
)
