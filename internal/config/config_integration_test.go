package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "costar", "config.toml")
	if err := WriteDefault(cfgPath, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Set required env vars (t.Setenv auto-restores on cleanup)
	t.Setenv("TMDB_API_KEY", "test-tmdb-key")
	t.Setenv("COSTAR_CACHE_BACKEND", "")
	t.Setenv("REDIS_ADDR", "")

	// 3. Load with validation
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution and defaults
	if cfg.TMDB.APIKey != "test-tmdb-key" {
		t.Errorf("expected api key substituted, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected default backend memory, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("expected default redis addr, got %q", cfg.Cache.Redis.Addr)
	}
	if cfg.Cache.TTL.Fallback != 24*time.Hour {
		t.Errorf("expected fallback ttl 24h, got %s", cfg.Cache.TTL.Fallback)
	}
	if cfg.Server.Port != 4567 {
		t.Errorf("expected port 4567, got %d", cfg.Server.Port)
	}
}
