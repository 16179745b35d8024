// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	TMDB   TMDBConfig   `toml:"tmdb"`
	Cache  CacheConfig  `toml:"cache"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type TMDBConfig struct {
	APIKey         string        `toml:"api_key"`
	BaseURL        string        `toml:"base_url"`
	ImageBaseURL   string        `toml:"image_base_url"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	Retry          RetryConfig   `toml:"retry"`
	Breaker        BreakerConfig `toml:"breaker"`
}

type RetryConfig struct {
	MaxAttempts int           `toml:"max_attempts"`
	BaseDelay   time.Duration `toml:"base_delay"`
	MaxDelay    time.Duration `toml:"max_delay"`
	Multiplier  float64       `toml:"multiplier"`
}

type BreakerConfig struct {
	FailureThreshold int           `toml:"failure_threshold"`
	RecoveryTimeout  time.Duration `toml:"recovery_timeout"`
}

type CacheConfig struct {
	Backend       string        `toml:"backend"` // memory, sqlite or redis
	Version       string        `toml:"version"`
	SweepInterval time.Duration `toml:"sweep_interval"`
	SweepLimit    int           `toml:"sweep_limit"`
	SQLite        SQLiteConfig  `toml:"sqlite"`
	Redis         RedisConfig   `toml:"redis"`
	TTL           TTLConfig     `toml:"ttl"`
}

type SQLiteConfig struct {
	Path string `toml:"path"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// TTLConfig overrides the cache TTL per kind of data. Zero keeps the default.
type TTLConfig struct {
	Profile    time.Duration `toml:"profile"`
	MovieList  time.Duration `toml:"movie_list"`
	Search     time.Duration `toml:"search"`
	Comparison time.Duration `toml:"comparison"`
	Name       time.Duration `toml:"name"`
	Health     time.Duration `toml:"health"`
	Fallback   time.Duration `toml:"fallback"`
}

// Load reads, parses and validates the configuration file.
// Unresolved environment variables and validation failures are returned as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation and the missing variable check.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 4567
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	t := &c.TMDB
	if t.BaseURL == "" {
		t.BaseURL = "https://api.themoviedb.org/3"
	}
	if t.ImageBaseURL == "" {
		t.ImageBaseURL = "https://image.tmdb.org/t/p/"
	}
	if t.ConnectTimeout == 0 {
		t.ConnectTimeout = 5 * time.Second
	}
	if t.ReadTimeout == 0 {
		t.ReadTimeout = 10 * time.Second
	}
	if t.WriteTimeout == 0 {
		t.WriteTimeout = 5 * time.Second
	}
	if t.Retry.MaxAttempts == 0 {
		t.Retry.MaxAttempts = 3
	}
	if t.Retry.BaseDelay == 0 {
		t.Retry.BaseDelay = 500 * time.Millisecond
	}
	if t.Retry.MaxDelay == 0 {
		t.Retry.MaxDelay = 10 * time.Second
	}
	if t.Retry.Multiplier == 0 {
		t.Retry.Multiplier = 2
	}
	if t.Breaker.FailureThreshold == 0 {
		t.Breaker.FailureThreshold = 5
	}
	if t.Breaker.RecoveryTimeout == 0 {
		t.Breaker.RecoveryTimeout = 60 * time.Second
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.Version == "" {
		c.Cache.Version = "v1"
	}
	if c.Cache.SweepInterval == 0 {
		c.Cache.SweepInterval = 5 * time.Minute
	}
	if c.Cache.SweepLimit == 0 {
		c.Cache.SweepLimit = 1000
	}
	if c.Cache.SQLite.Path == "" {
		c.Cache.SQLite.Path = "./data/costar-cache.db"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
}

// substituteEnvVars expands ${VAR}, ${VAR:-default} and ${VAR:?message}.
// An empty value counts as unset for the :- and :? forms. Unresolved
// references are left unchanged and reported, with the message for :?.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([-?])([^}]*))?\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, op, arg := groups[1], groups[2], groups[3]

		value, ok := os.LookupEnv(name)
		if ok && (value != "" || op == "") {
			return value
		}
		if op == "-" {
			return arg
		}

		report := name
		if op == "?" && arg != "" {
			report = name + ": " + arg
		}
		if !seen[report] {
			seen[report] = true
			missing = append(missing, report)
		}
		return match
	})
	return out, missing
}
