package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfigPath names the environment variable that overrides config discovery.
const EnvConfigPath = "COSTAR_CONFIG"

// ErrNotFound means no config file exists at any searched location.
var ErrNotFound = errors.New("config not found")

// DefaultPath is where `costar config init` writes when no path is given:
// $XDG_CONFIG_HOME/costar/config.toml, falling back to ~/.config.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "costar", "config.toml")
}

// SearchPaths lists the locations Discover checks after COSTAR_CONFIG, in order.
func SearchPaths() []string {
	return []string{
		"config.toml",
		DefaultPath(),
		"/etc/costar/config.toml",
	}
}

// Discover returns the config file to load. COSTAR_CONFIG wins and must exist;
// otherwise the first existing entry of SearchPaths is used.
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		info, err := os.Stat(envPath)
		if err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfigPath, envPath, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s=%s: is a directory", EnvConfigPath, envPath)
		}
		return envPath, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (checked %s); run 'costar config init' to create one",
		ErrNotFound, strings.Join(paths, ", "))
}
