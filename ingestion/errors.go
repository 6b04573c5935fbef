package ingestion

import "errors"

var (
	// ErrSourceRequired is returned when a source is not provided.
	ErrSourceRequired = errors.New("source required")

	// ErrNoMessages is returned when no candidate messages file exists.
	ErrNoMessages = errors.New("no messages file found")

	// ErrNoSourceAvailable is returned when every source in a chain failed.
	ErrNoSourceAvailable = errors.New("no message source available")

	// ErrUnexpectedStatus is returned for a non-200 response from the messages API.
	ErrUnexpectedStatus = errors.New("unexpected status from messages API")

	// ErrUnrecognizedPayload is returned when a payload holds no record array.
	ErrUnrecognizedPayload = errors.New("unrecognized messages payload")

	// ErrInvalidMaxAttempts is returned when a retry policy allows no attempts.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrInvalidPoolSize is returned for a worker pool smaller than one.
	ErrInvalidPoolSize = errors.New("pool size must be at least 1")
)
