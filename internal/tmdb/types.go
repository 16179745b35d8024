// Package tmdb provides a resilient client for The Movie Database API.
package tmdb

// Person is the person-detail response.
type Person struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	ProfilePath        *string `json:"profile_path"` // "/abc123.jpg"
	Birthday           *string `json:"birthday"`     // "1956-07-09"
	PlaceOfBirth       *string `json:"place_of_birth"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

// PersonSearchResponse is the person-search response.
type PersonSearchResponse struct {
	Page         int                  `json:"page"`
	Results      []PersonSearchResult `json:"results"`
	TotalPages   int                  `json:"total_pages"`
	TotalResults int                  `json:"total_results"`
}

// PersonSearchResult is one person-search hit.
type PersonSearchResult struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	ProfilePath        *string    `json:"profile_path"`
	KnownForDepartment string     `json:"known_for_department"`
	Popularity         float64    `json:"popularity"`
	KnownFor           []KnownFor `json:"known_for"`
}

// KnownFor is a title a search hit is known for. Movies carry Title, TV shows Name.
type KnownFor struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`
	Title     string `json:"title"`
	Name      string `json:"name"`
}

// MovieCreditsResponse is a person's movie-credits response.
type MovieCreditsResponse struct {
	ID   int64        `json:"id"`
	Cast []CastCredit `json:"cast"`
}

// CastCredit is one acting credit.
type CastCredit struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Character   string  `json:"character"`
	ReleaseDate string  `json:"release_date"` // "2024-03-01", may be empty
	PosterPath  *string `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
}
