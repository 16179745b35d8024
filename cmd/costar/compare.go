package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/costar/internal/metadata"
)

var compareCmd = &cobra.Command{
	Use:   "compare <actor1> <actor2>",
	Short: "Compare two actors' filmographies",
	Long: `Compare two actors' filmographies on a year-by-year timeline.

Actors may be given as TMDB IDs or names. Names are resolved to the
closest search match.

Examples:
  costar compare 31 5344
  costar compare "Tom Hanks" "Meg Ryan"
  costar compare --json 31 "Meg Ryan"`,
	Args: cobra.ExactArgs(2),
	RunE: runCompareCmd,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

// actorResolver turns a name into the best matching actor.
type actorResolver interface {
	ResolveActor(ctx context.Context, name string) (metadata.Match, error)
}

// resolveActorArg accepts a numeric TMDB ID or a name. The name is only
// returned when it came from a resolved match.
func resolveActorArg(ctx context.Context, r actorResolver, arg string) (int64, string, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, "", nil
	}
	m, err := r.ResolveActor(ctx, arg)
	if err != nil {
		return 0, "", err
	}
	return m.Actor.ID, m.Actor.Name, nil
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	id1, name1, err := resolveActorArg(ctx, a.catalog, args[0])
	if err != nil {
		return fmt.Errorf("actor1: %w", err)
	}
	id2, name2, err := resolveActorArg(ctx, a.catalog, args[1])
	if err != nil {
		return fmt.Errorf("actor2: %w", err)
	}

	cmp, err := a.comparison.Compare(ctx, id1, id2, name1, name2)
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), cmp)
	}
	printComparison(cmd.OutOrStdout(), cmp)
	return nil
}
