package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmunix/costar/internal/domain"
	"github.com/vmunix/costar/internal/metadata"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func role(e domain.TimelineEntry) string {
	if e.Movie.Character == "" {
		return e.ActorName
	}
	return e.ActorName + " as " + e.Movie.Character
}

func printComparison(w io.Writer, c domain.Comparison) {
	fmt.Fprintf(w, "%s (%d movies) vs %s (%d movies)\n",
		c.Actor1.Name, len(c.Actor1Movies), c.Actor2.Name, len(c.Actor2Movies))
	fmt.Fprintf(w, "Shared movies: %d\n", len(c.Timeline.SharedMovies))
	if c.Degraded {
		fmt.Fprintln(w, "Warning: some data was unavailable; results may be incomplete")
	}

	for _, year := range c.Timeline.Years {
		fmt.Fprintf(w, "\n%d\n", year)
		for _, item := range c.Timeline.ProcessedMovies[year] {
			entries := item.Entries()
			if len(entries) == 0 {
				continue
			}
			m := entries[0].Movie

			if item.Type == domain.ItemShared {
				roles := make([]string, 0, len(entries))
				for _, e := range entries {
					roles = append(roles, role(e))
				}
				fmt.Fprintf(w, "  * %-40s %s  %s\n", truncate(m.Title, 40), m.DateString(), strings.Join(roles, " / "))
				continue
			}

			marker := "<"
			if entries[0].Side == domain.SideRight {
				marker = ">"
			}
			fmt.Fprintf(w, "  %s %-40s %s  %s\n", marker, truncate(m.Title, 40), m.DateString(), role(entries[0]))
		}
	}
}

func printSearch(w io.Writer, r domain.SearchResults) {
	if len(r.Actors) == 0 {
		fmt.Fprintln(w, "No actors found")
		return
	}
	fmt.Fprintf(w, "Found %d actors for %q:\n\n", len(r.Actors), r.Query)
	fmt.Fprintf(w, "  %-9s │ %-30s │ %s\n", "ID", "NAME", "KNOWN FOR")
	fmt.Fprintln(w, "────────────┼────────────────────────────────┼──────────────────────────")
	for _, a := range r.Actors {
		fmt.Fprintf(w, "  %-9d │ %-30s │ %s\n", a.ID, truncate(a.Name, 30), truncate(strings.Join(a.KnownFor, ", "), 40))
	}
	if r.Degraded {
		fmt.Fprintln(w, "\nWarning: TMDB unavailable, results may be incomplete")
	}
}

func printMovies(w io.Writer, name string, f domain.Filmography) {
	fmt.Fprintf(w, "%s: %d movies\n\n", name, len(f.Movies))
	for _, m := range f.Movies {
		line := fmt.Sprintf("  %s  %s", m.DateString(), m.Title)
		if m.Character != "" {
			line += " (" + m.Character + ")"
		}
		fmt.Fprintln(w, line)
	}
	if f.Degraded {
		fmt.Fprintln(w, "\nWarning: TMDB unavailable, list may be incomplete")
	}
}

func printHealth(w io.Writer, h metadata.HealthReport) {
	fmt.Fprintf(w, "Status:   %s\n", h.Status)
	fmt.Fprintf(w, "TMDB:     configured=%t healthy=%t\n", h.Configured, h.TMDB)

	b := h.Breaker
	fmt.Fprintf(w, "Breaker:  %s (%d/%d failures)", b.State, b.FailureCount, b.FailureThreshold)
	if b.NextAttempt != nil {
		fmt.Fprintf(w, ", next attempt %s", b.NextAttempt.Format("15:04:05"))
	}
	fmt.Fprintln(w)

	if h.Cache.OK {
		fmt.Fprintln(w, "Cache:    ok")
	} else {
		fmt.Fprintf(w, "Cache:    error: %s\n", h.Cache.Error)
	}
}
