package cache

import "errors"

var (
	// ErrBackend wraps failures reported by a cache backend.
	ErrBackend = errors.New("cache backend error")

	// ErrUnknownBackend is returned for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)
