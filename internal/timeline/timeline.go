// Package timeline merges two filmographies into a year-grouped timeline
// with shared movies grouped together.
package timeline

import (
	"cmp"
	"slices"

	"github.com/vmunix/costar/internal/domain"
)

// missingDate sorts credits without a release date before all dated ones.
const missingDate = "0000-00-00"

// Build merges the two actors' credits into a timeline.
//
// A movie is shared when its ID appears in both lists. Years run most recent
// first; within a year entries run by release date ascending, and both actors'
// credits of a shared movie form one group at the position of its first entry.
// Credits without a year are not placed on the timeline.
func Build(actor1Movies, actor2Movies []domain.MovieCredit, actor1Name, actor2Name string) domain.Timeline {
	shared := SharedMovies(actor1Movies, actor2Movies)
	sharedIDs := make(map[int64]bool, len(shared))
	for _, m := range shared {
		sharedIDs[m.ID] = true
	}

	byYear := make(map[int][]domain.TimelineEntry)
	add := func(movies []domain.MovieCredit, side domain.Side, name string) {
		for _, m := range movies {
			if m.Year == 0 {
				continue
			}
			byYear[m.Year] = append(byYear[m.Year], domain.TimelineEntry{
				Movie:     m,
				Side:      side,
				ActorName: name,
				IsShared:  sharedIDs[m.ID],
			})
		}
	}
	add(actor1Movies, domain.SideLeft, actor1Name)
	add(actor2Movies, domain.SideRight, actor2Name)

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	slices.Sort(years)
	slices.Reverse(years)

	processed := make(map[int][]domain.TimelineItem, len(years))
	for _, y := range years {
		entries := byYear[y]
		// Stable, so left entries stay ahead of right ones on equal dates.
		slices.SortStableFunc(entries, func(a, b domain.TimelineEntry) int {
			return cmp.Compare(sortKey(a.Movie), sortKey(b.Movie))
		})
		processed[y] = group(entries)
	}

	return domain.Timeline{
		Years:           years,
		SharedMovies:    shared,
		ProcessedMovies: processed,
	}
}

// SharedMovies returns actor2's credits whose movie also appears in actor1's list.
func SharedMovies(actor1Movies, actor2Movies []domain.MovieCredit) []domain.MovieCredit {
	ids := make(map[int64]bool, len(actor1Movies))
	for _, m := range actor1Movies {
		ids[m.ID] = true
	}

	shared := []domain.MovieCredit{}
	for _, m := range actor2Movies {
		if ids[m.ID] {
			shared = append(shared, m)
		}
	}
	return shared
}

// group turns one year's sorted entries into items. The first entry of a
// shared movie pulls every entry with that ID into a single group.
func group(entries []domain.TimelineEntry) []domain.TimelineItem {
	items := make([]domain.TimelineItem, 0, len(entries))
	emitted := make(map[int64]bool)

	for i := range entries {
		e := entries[i]
		if !e.IsShared {
			items = append(items, domain.TimelineItem{Type: domain.ItemSingle, Movie: &e})
			continue
		}
		if emitted[e.Movie.ID] {
			continue
		}
		emitted[e.Movie.ID] = true

		var left, right []domain.TimelineEntry
		for _, other := range entries {
			if other.Movie.ID != e.Movie.ID {
				continue
			}
			if other.Side == domain.SideLeft {
				left = append(left, other)
			} else {
				right = append(right, other)
			}
		}
		items = append(items, domain.TimelineItem{Type: domain.ItemShared, Movies: append(left, right...)})
	}
	return items
}

func sortKey(m domain.MovieCredit) string {
	if s := m.DateString(); s != "" {
		return s
	}
	return missingDate
}
