package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// BackendConfig selects and configures a Store.
type BackendConfig struct {
	Backend    string
	SQLitePath string
	Redis      RedisOptions
}

// Open creates the configured Store. An empty backend selects memory.
func Open(cfg BackendConfig) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case BackendRedis:
		return NewRedisStore(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// RunSweeper purges expired entries every interval, up to limit per pass,
// until ctx is canceled.
func RunSweeper(ctx context.Context, s Sweeper, interval time.Duration, limit int, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("cache sweeper started", "interval", interval.String(), "limit", limit)

	for {
		select {
		case <-ctx.Done():
			log.Info("cache sweeper stopped")
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx, limit)
			if err != nil {
				log.Warn("cache sweep failed", "error", err)
				continue
			}
			if n > 0 {
				log.Debug("cache sweep", "removed", n)
			}
		}
	}
}
