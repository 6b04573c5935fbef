package config

import "errors"

var (
	// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrInvalidValue is returned when an environment variable cannot be parsed.
	ErrInvalidValue = errors.New("config: invalid value")
)
