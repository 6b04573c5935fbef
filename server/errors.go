package server

import "errors"

var (
	// ErrEngineRequired is returned when a server is created without an engine.
	ErrEngineRequired = errors.New("engine required")

	// ErrInvalidMaxConns is returned for a connection limit below one.
	ErrInvalidMaxConns = errors.New("max connections must be at least 1")
)
