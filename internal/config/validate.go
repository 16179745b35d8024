package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validBackends = map[string]bool{
	"memory": true, "sqlite": true, "redis": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[strings.ToLower(c.Server.LogLevel)] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// TMDB
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		errs = append(errs, "tmdb.api_key: required")
	}
	if u, err := url.Parse(c.TMDB.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("tmdb.base_url: must be an http(s) URL, got %q", c.TMDB.BaseURL))
	}
	if c.TMDB.ConnectTimeout < 0 || c.TMDB.ReadTimeout < 0 || c.TMDB.WriteTimeout < 0 {
		errs = append(errs, "tmdb: timeouts must not be negative")
	}

	r := c.TMDB.Retry
	if r.MaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("tmdb.retry.max_attempts: must be at least 1, got %d", r.MaxAttempts))
	}
	if r.Multiplier < 1 {
		errs = append(errs, fmt.Sprintf("tmdb.retry.multiplier: must be at least 1, got %g", r.Multiplier))
	}
	if r.BaseDelay > r.MaxDelay {
		errs = append(errs, fmt.Sprintf("tmdb.retry.base_delay: %s exceeds max_delay %s", r.BaseDelay, r.MaxDelay))
	}

	if c.TMDB.Breaker.FailureThreshold < 1 {
		errs = append(errs, fmt.Sprintf("tmdb.breaker.failure_threshold: must be at least 1, got %d", c.TMDB.Breaker.FailureThreshold))
	}
	if c.TMDB.Breaker.RecoveryTimeout < 0 {
		errs = append(errs, "tmdb.breaker.recovery_timeout: must not be negative")
	}

	// Cache
	if !validBackends[c.Cache.Backend] {
		errs = append(errs, fmt.Sprintf("cache.backend: must be one of memory, sqlite, redis; got %q", c.Cache.Backend))
	}
	if c.Cache.Backend == "sqlite" && c.Cache.SQLite.Path == "" {
		errs = append(errs, "cache.sqlite.path: required when backend is sqlite")
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		errs = append(errs, "cache.redis.addr: required when backend is redis")
	}
	if c.Cache.SweepInterval < 0 {
		errs = append(errs, "cache.sweep_interval: must not be negative")
	}

	return errs
}
