package domain

import "time"

// Side identifies which actor a timeline entry belongs to.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ItemType distinguishes single-actor items from shared-movie groups.
type ItemType string

const (
	ItemSingle ItemType = "single"
	ItemShared ItemType = "shared"
)

// TimelineEntry is one actor's credit placed on the timeline.
type TimelineEntry struct {
	Movie     MovieCredit `json:"movie"`
	Side      Side        `json:"side"`
	ActorName string      `json:"actor_name"`
	IsShared  bool        `json:"is_shared"`
}

// TimelineItem is either a single entry or a shared group holding both actors'
// entries for the same movie (left first).
type TimelineItem struct {
	Type   ItemType        `json:"type"`
	Movie  *TimelineEntry  `json:"movie,omitempty"`
	Movies []TimelineEntry `json:"movies,omitempty"`
}

// MovieID returns the movie the item is about.
func (i TimelineItem) MovieID() int64 {
	if i.Type == ItemShared && len(i.Movies) > 0 {
		return i.Movies[0].Movie.ID
	}
	if i.Movie != nil {
		return i.Movie.Movie.ID
	}
	return 0
}

// Entries returns every entry carried by the item.
func (i TimelineItem) Entries() []TimelineEntry {
	if i.Type == ItemShared {
		return i.Movies
	}
	if i.Movie != nil {
		return []TimelineEntry{*i.Movie}
	}
	return nil
}

// Timeline is the year-grouped view of two filmographies.
type Timeline struct {
	Years           []int                  `json:"years"`
	SharedMovies    []MovieCredit          `json:"shared_movies"`
	ProcessedMovies map[int][]TimelineItem `json:"processed_movies"`
}

// ComparisonActor is one side's identity in a comparison.
type ComparisonActor struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ProfileImagePath string `json:"profile_image_path,omitempty"`
}

// Comparison is the full result of comparing two actors.
type Comparison struct {
	RequestID    string          `json:"request_id"`
	Actor1       ComparisonActor `json:"actor1"`
	Actor2       ComparisonActor `json:"actor2"`
	Actor1Movies []MovieCredit   `json:"actor1_movies"`
	Actor2Movies []MovieCredit   `json:"actor2_movies"`
	Timeline     Timeline        `json:"timeline"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Degraded     bool            `json:"degraded,omitempty"`
}

// IsDegraded reports whether any part of the comparison came from fallback data.
func (c Comparison) IsDegraded() bool { return c.Degraded }
