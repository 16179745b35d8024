package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/costar/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configTestCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if err := config.WriteDefault(path, force); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%w, use --force to overwrite", err)
		}
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nSet TMDB_API_KEY or edit tmdb.api_key before running costar.\n", path)
	return nil
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Report(out)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Server:   %s:%d (log: %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.LogLevel)
	fmt.Fprintf(w, "  TMDB:     %s (timeouts %s/%s/%s)\n", cfg.TMDB.BaseURL,
		cfg.TMDB.ConnectTimeout, cfg.TMDB.ReadTimeout, cfg.TMDB.WriteTimeout)
	fmt.Fprintf(w, "  Retry:    %d attempts, %s base, x%g, max %s\n", cfg.TMDB.Retry.MaxAttempts,
		cfg.TMDB.Retry.BaseDelay, cfg.TMDB.Retry.Multiplier, cfg.TMDB.Retry.MaxDelay)
	fmt.Fprintf(w, "  Breaker:  %d failures, %s recovery\n", cfg.TMDB.Breaker.FailureThreshold, cfg.TMDB.Breaker.RecoveryTimeout)

	backend := cfg.Cache.Backend
	switch backend {
	case "sqlite":
		backend += " (" + cfg.Cache.SQLite.Path + ")"
	case "redis":
		backend += " (" + cfg.Cache.Redis.Addr + ")"
	}
	fmt.Fprintf(w, "  Cache:    %s, version %s\n", backend, cfg.Cache.Version)
}
