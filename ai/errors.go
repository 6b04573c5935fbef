package ai

import "errors"

var (
	// ErrInvalidMode is returned for an unknown answer mode.
	ErrInvalidMode = errors.New("invalid answer mode")

	// ErrUnavailable is returned when the generator is required but not configured.
	ErrUnavailable = errors.New("external answer service is unavailable")

	// ErrEmptyResponse is returned when the model produced no answer.
	ErrEmptyResponse = errors.New("empty response from model")
)
