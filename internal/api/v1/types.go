package v1

import (
	"time"

	"github.com/vmunix/costar/internal/domain"
	"github.com/vmunix/costar/internal/metadata"
)

// Response types

type healthResponse struct {
	Version string `json:"version"`
	metadata.HealthReport
}

type actorSummaryResponse struct {
	domain.ActorSummary
	ProfileURL string `json:"profile_url,omitempty"`
}

type searchResponse struct {
	Query    string                 `json:"query"`
	Results  []actorSummaryResponse `json:"results"`
	Degraded bool                   `json:"degraded,omitempty"`
}

type resolveResponse struct {
	Actor      actorSummaryResponse `json:"actor"`
	Score      float64              `json:"score"`
	Confidence string               `json:"confidence"`
}

type actorResponse struct {
	domain.Actor
	ProfileURL string `json:"profile_url,omitempty"`
}

type movieResponse struct {
	domain.MovieCredit
	PosterURL string `json:"poster_url,omitempty"`
}

type moviesResponse struct {
	ActorID  int64           `json:"actor_id"`
	Movies   []movieResponse `json:"movies"`
	Degraded bool            `json:"degraded,omitempty"`
}

type comparisonSide struct {
	domain.ComparisonActor
	ProfileURL string `json:"profile_url,omitempty"`
	MovieCount int    `json:"movie_count"`
}

// yearResponse keeps years in display order, which a JSON object can't.
type yearResponse struct {
	Year  int                   `json:"year"`
	Items []domain.TimelineItem `json:"items"`
}

type comparisonResponse struct {
	RequestID    string               `json:"request_id"`
	Actor1       comparisonSide       `json:"actor1"`
	Actor2       comparisonSide       `json:"actor2"`
	SharedMovies []domain.MovieCredit `json:"shared_movies"`
	Years        []yearResponse       `json:"years"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Degraded     bool                 `json:"degraded,omitempty"`
}
