package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/costar/internal/metadata"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check TMDB and cache health",
	Args:  cobra.NoArgs,
	RunE:  runHealthCmd,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealthCmd(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	report := a.catalog.Health(cmd.Context())
	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printHealth(cmd.OutOrStdout(), report)
	}

	if report.Status == metadata.StatusDown {
		return fmt.Errorf("unhealthy: %s", report.Status)
	}
	return nil
}
