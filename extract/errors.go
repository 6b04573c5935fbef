package extract

import "errors"

var (
	// ErrInvalidScanLimit is returned when the per-document scan budget is not positive.
	ErrInvalidScanLimit = errors.New("scan limit must be greater than 0")

	// ErrStrategyRequired is returned when a strategy has no function or name.
	ErrStrategyRequired = errors.New("strategy requires a name and a function")
)
