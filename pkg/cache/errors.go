package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrClosed is returned when an operation runs against a closed cache.
	ErrClosed = errors.New("cache closed")
)
