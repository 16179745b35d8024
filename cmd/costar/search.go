package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search TMDB for actors",
	Long: `Search TMDB for actors by name.

Examples:
  costar search "Tom Hanks"
  costar search --json meg ryan`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := a.catalog.SearchActors(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), res)
	}
	printSearch(cmd.OutOrStdout(), res)
	return nil
}
