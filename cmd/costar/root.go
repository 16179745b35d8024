package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "costar",
	Short: "Compare two actors' filmographies",
	Long: `costar - compare two actors' filmographies on a shared timeline

Looks up actors on TMDB, merges their movie credits by year and
highlights the movies they appeared in together.

Run 'costar serve' to start the HTTP API.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override server.log_level")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("costar {{.Version}}\n")
}
