// Package domain holds the typed records shared by the metadata, timeline and comparison layers.
package domain

import "time"

// UnknownActorName is used when an actor's name can't be resolved upstream.
const UnknownActorName = "Unknown Actor"

// Actor is a normalized person profile.
type Actor struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Biography          string `json:"biography,omitempty"`
	ProfileImagePath   string `json:"profile_image_path,omitempty"`
	Birthday           string `json:"birthday,omitempty"`
	PlaceOfBirth       string `json:"place_of_birth,omitempty"`
	KnownForDepartment string `json:"known_for_department,omitempty"`

	// Degraded marks a placeholder built while the upstream API was unavailable.
	Degraded bool `json:"degraded,omitempty"`
}

// IsDegraded reports whether the profile is a placeholder.
func (a Actor) IsDegraded() bool { return a.Degraded }

// ActorSummary is a single person search hit.
type ActorSummary struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	ProfileImagePath   string   `json:"profile_image_path,omitempty"`
	KnownForDepartment string   `json:"known_for_department,omitempty"`
	Popularity         float64  `json:"popularity"`
	KnownFor           []string `json:"known_for,omitempty"`
}

// SearchResults is the outcome of a person search.
type SearchResults struct {
	Query    string         `json:"query"`
	Actors   []ActorSummary `json:"actors"`
	Degraded bool           `json:"degraded,omitempty"`
}

// IsDegraded reports whether the results were synthesized during an outage.
func (r SearchResults) IsDegraded() bool { return r.Degraded }

// MovieCredit is one actor's credit on one movie. Two actors on the same movie
// produce two credits with the same ID.
type MovieCredit struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Character   string     `json:"character,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Year        int        `json:"year"`
	PosterPath  string     `json:"poster_path,omitempty"`
}

// HasDate reports whether the credit has a parsed release date.
func (m MovieCredit) HasDate() bool { return m.ReleaseDate != nil }

// DateString returns the release date as YYYY-MM-DD, or "" if absent.
func (m MovieCredit) DateString() string {
	if m.ReleaseDate == nil {
		return ""
	}
	return m.ReleaseDate.Format(time.DateOnly)
}

// Filmography is an actor's processed movie credit list, most recent first.
type Filmography struct {
	ActorID  int64         `json:"actor_id"`
	Movies   []MovieCredit `json:"movies"`
	Degraded bool          `json:"degraded,omitempty"`
}

// IsDegraded reports whether the list was synthesized during an outage.
func (f Filmography) IsDegraded() bool { return f.Degraded }

// ImageURL joins an image base URL, size and a relative path.
// Size can be: w92, w154, w185, w342, w500, w780, original
func ImageURL(base, size, path string) string {
	if path == "" {
		return ""
	}
	return base + size + path
}
