package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrInvalidMaxWorkers    = errors.New("invalid max workers: must be non-negative")
	ErrInvalidMaxComponents = errors.New("invalid max components per flow: must be non-negative")
)
