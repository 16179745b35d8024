// Package migrations provides embedded SQL migration files.
package migrations

import (
	_ "embed"
)

// CacheSQL creates the cache_entries table used by the SQLite cache backend.
//
//go:embed sql/001_cache.sql
var CacheSQL string
