package tmdb

import (
	"slices"
	"strings"
	"time"

	"github.com/vmunix/costar/internal/domain"
)

// ParseReleaseDate parses a YYYY-MM-DD date. Unparseable or empty input yields nil.
func ParseReleaseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &t
}

// NormalizeActor maps a person-detail response to an Actor.
func NormalizeActor(p Person) domain.Actor {
	return domain.Actor{
		ID:                 p.ID,
		Name:               p.Name,
		Biography:          p.Biography,
		ProfileImagePath:   deref(p.ProfilePath),
		Birthday:           deref(p.Birthday),
		PlaceOfBirth:       deref(p.PlaceOfBirth),
		KnownForDepartment: p.KnownForDepartment,
	}
}

// NormalizeMovie maps a cast credit to a MovieCredit. An unparseable release
// date leaves ReleaseDate nil and Year zero.
func NormalizeMovie(c CastCredit) domain.MovieCredit {
	m := domain.MovieCredit{
		ID:          c.ID,
		Title:       c.Title,
		Character:   c.Character,
		ReleaseDate: ParseReleaseDate(c.ReleaseDate),
		PosterPath:  deref(c.PosterPath),
	}
	if m.ReleaseDate != nil {
		m.Year = m.ReleaseDate.Year()
	}
	return m
}

// ProcessMovieCredits drops credits without a release date and orders the rest
// most recent first.
func ProcessMovieCredits(cast []CastCredit) []domain.MovieCredit {
	movies := make([]domain.MovieCredit, 0, len(cast))
	for _, c := range cast {
		m := NormalizeMovie(c)
		if !m.HasDate() {
			continue
		}
		movies = append(movies, m)
	}

	// Ascending then reversed, so equal dates end up in reverse input order.
	slices.SortStableFunc(movies, func(a, b domain.MovieCredit) int {
		return a.ReleaseDate.Compare(*b.ReleaseDate)
	})
	slices.Reverse(movies)
	return movies
}

// ProcessActorSearchResults maps search hits to summaries. A nil response or
// missing results yields an empty, non-nil slice.
func ProcessActorSearchResults(resp *PersonSearchResponse) []domain.ActorSummary {
	if resp == nil || len(resp.Results) == 0 {
		return []domain.ActorSummary{}
	}

	out := make([]domain.ActorSummary, 0, len(resp.Results))
	for _, r := range resp.Results {
		s := domain.ActorSummary{
			ID:                 r.ID,
			Name:               r.Name,
			ProfileImagePath:   deref(r.ProfilePath),
			KnownForDepartment: r.KnownForDepartment,
			Popularity:         r.Popularity,
		}
		for _, k := range r.KnownFor {
			title := k.Title
			if title == "" {
				title = k.Name
			}
			if title != "" {
				s.KnownFor = append(s.KnownFor, title)
			}
		}
		out = append(out, s)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
