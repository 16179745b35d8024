package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moviesCmd = &cobra.Command{
	Use:   "movies <actor>",
	Short: "List an actor's movies, most recent first",
	Long: `List an actor's dated movie credits, most recent first.

Examples:
  costar movies 31
  costar movies "Tom Hanks"`,
	Args: cobra.ExactArgs(1),
	RunE: runMoviesCmd,
}

func init() {
	rootCmd.AddCommand(moviesCmd)
}

func runMoviesCmd(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	id, name, err := resolveActorArg(ctx, a.catalog, args[0])
	if err != nil {
		return err
	}

	f, err := a.catalog.ActorMovies(ctx, id)
	if err != nil {
		return fmt.Errorf("movies failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), f)
	}
	if name == "" {
		name = a.catalog.ActorName(ctx, id)
	}
	printMovies(cmd.OutOrStdout(), name, f)
	return nil
}
