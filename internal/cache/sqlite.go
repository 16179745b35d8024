package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/costar/internal/migrations"
)

// SQLiteStore is a Store persisted in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore wraps an open database. The schema must already exist.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// OpenSQLite opens (creating if needed) a SQLite database at path and applies the cache schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(migrations.CacheSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return NewSQLiteStore(db), nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: sqlite get: %v", ErrBackend, err)
	}

	if s.now().UnixNano() >= expiresAt {
		return nil, false, nil
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl).UnixNano()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, nonNil(value), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("%w: sqlite set: %v", ErrBackend, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("%w: sqlite delete: %v", ErrBackend, err)
	}
	return nil
}

func (s *SQLiteStore) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	found := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		args = append(args, k)
	}
	args = append(args, s.now().UnixNano())

	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM cache_entries WHERE key IN ("+placeholders+") AND expires_at > ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite get multi: %v", ErrBackend, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: sqlite scan: %v", ErrBackend, err)
		}
		found[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: sqlite rows: %v", ErrBackend, err)
	}
	return found, nil
}

func (s *SQLiteStore) SetMulti(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: sqlite begin: %v", ErrBackend, err)
	}
	defer func() { _ = tx.Rollback() }()

	expiresAt := s.now().Add(ttl).UnixNano()
	for key, value := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cache_entries (key, value, expires_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
			key, nonNil(value), expiresAt,
		)
		if err != nil {
			return fmt.Errorf("%w: sqlite set multi: %v", ErrBackend, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: sqlite commit: %v", ErrBackend, err)
	}
	return nil
}

// Sweep removes up to limit expired entries.
func (s *SQLiteStore) Sweep(ctx context.Context, limit int) (int, error) {
	now := s.now().UnixNano()

	var result sql.Result
	var err error
	if limit > 0 {
		result, err = s.db.ExecContext(ctx,
			`DELETE FROM cache_entries WHERE key IN (
				SELECT key FROM cache_entries WHERE expires_at <= ? LIMIT ?
			)`, now, limit,
		)
	} else {
		result, err = s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE expires_at <= ?", now)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: sqlite sweep: %v", ErrBackend, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: sqlite sweep: %v", ErrBackend, err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: sqlite ping: %v", ErrBackend, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nonNil keeps empty values distinguishable from NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
