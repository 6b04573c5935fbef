package answer

import "errors"

var (
	// ErrRankerRequired is returned when a nil ranker is supplied.
	ErrRankerRequired = errors.New("ranker is required")

	// ErrExtractorRequired is returned when a nil extractor is supplied.
	ErrExtractorRequired = errors.New("extractor is required")
)
