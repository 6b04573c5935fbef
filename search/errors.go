package search

import "errors"

var (
	// ErrInvalidLimit is returned when a ranker is configured with a non-positive limit.
	ErrInvalidLimit = errors.New("result limit must be greater than 0")
)
