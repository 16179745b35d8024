package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vmunix/costar/internal/breaker"
	"github.com/vmunix/costar/internal/cache"
	"github.com/vmunix/costar/internal/comparison"
	"github.com/vmunix/costar/internal/config"
	"github.com/vmunix/costar/internal/metadata"
	"github.com/vmunix/costar/internal/tmdb"
)

// app is the wired service graph shared by every command.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	store      cache.Store
	cache      *cache.Manager
	client     *tmdb.Client
	catalog    *metadata.TMDBService
	comparison *comparison.Service
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}

// loadConfig loads path, or the discovered config file when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

// newApp builds the cache, TMDB client and services from cfg.
func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	store, err := cache.Open(cache.BackendConfig{
		Backend:    cfg.Cache.Backend,
		SQLitePath: cfg.Cache.SQLite.Path,
		Redis: cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	ttl := cfg.Cache.TTL
	policies := cache.TTLOverrides{
		Profile:    ttl.Profile,
		MovieList:  ttl.MovieList,
		Search:     ttl.Search,
		Comparison: ttl.Comparison,
		Name:       ttl.Name,
		Health:     ttl.Health,
		Fallback:   ttl.Fallback,
	}.Apply(cache.DefaultPolicies())

	cm := cache.NewManager(store,
		cache.WithKeys(cache.NewKeyBuilder("costar", cfg.Cache.Version)),
		cache.WithPolicies(policies),
		cache.WithLogger(log),
	)

	t := cfg.TMDB
	brk := breaker.New("tmdb",
		breaker.WithFailureThreshold(t.Breaker.FailureThreshold),
		breaker.WithRecoveryTimeout(t.Breaker.RecoveryTimeout),
		breaker.WithLogger(log),
	)
	client := tmdb.NewClient(t.APIKey,
		tmdb.WithBaseURL(t.BaseURL),
		tmdb.WithTimeouts(tmdb.Timeouts{Connect: t.ConnectTimeout, Read: t.ReadTimeout, Write: t.WriteTimeout}),
		tmdb.WithRetry(tmdb.RetryPolicy{
			MaxAttempts: t.Retry.MaxAttempts,
			BaseDelay:   t.Retry.BaseDelay,
			MaxDelay:    t.Retry.MaxDelay,
			Multiplier:  t.Retry.Multiplier,
		}),
		tmdb.WithBreaker(brk),
		tmdb.WithFallbackCache(cm),
		tmdb.WithLogger(log),
	)

	catalog := metadata.NewTMDBService(client, cm, log)
	return &app{
		cfg:        cfg,
		log:        log,
		store:      store,
		cache:      cm,
		client:     client,
		catalog:    catalog,
		comparison: comparison.New(catalog, cm, log),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// setup loads config and builds the app. CLI commands log to stderr so JSON
// output on stdout stays clean.
func setup(stderr io.Writer) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Server.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	return newApp(cfg, newLogger(stderr, level))
}
