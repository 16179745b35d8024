// Package v1 implements the JSON API over the comparison and actor lookup services.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vmunix/costar/internal/comparison"
	"github.com/vmunix/costar/internal/domain"
	"github.com/vmunix/costar/internal/metadata"
	"github.com/vmunix/costar/internal/tmdb"
)

// Comparer builds actor comparisons. *comparison.Service implements it.
type Comparer interface {
	Compare(ctx context.Context, actor1ID, actor2ID int64, actor1Name, actor2Name string) (domain.Comparison, error)
}

// Catalog looks up actors. *metadata.TMDBService implements it.
type Catalog interface {
	SearchActors(ctx context.Context, query string) (domain.SearchResults, error)
	ActorProfile(ctx context.Context, id int64) (domain.Actor, error)
	ActorMovies(ctx context.Context, id int64) (domain.Filmography, error)
	ResolveActor(ctx context.Context, name string) (metadata.Match, error)
	Health(ctx context.Context) metadata.HealthReport
}

// Config holds API server configuration.
type Config struct {
	ImageBaseURL string
	Version      string
}

// Server is the v1 API server.
type Server struct {
	comparer Comparer
	catalog  Catalog
	cfg      Config
	log      *slog.Logger
}

// New creates a new v1 API server.
func New(comparer Comparer, catalog Catalog, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Server{
		comparer: comparer,
		catalog:  catalog,
		cfg:      cfg,
		log:      log.With("component", "api"),
	}
}

// Handler returns the router with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.health)
		r.Get("/compare", s.compare)
		r.Route("/actors", func(r chi.Router) {
			r.Get("/search", s.searchActors)
			r.Get("/resolve", s.resolveActor)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getActor)
				r.Get("/movies", s.getActorMovies)
			})
		})
	})
	return r
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps service errors to HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, comparison.ErrInvalidActorID):
		writeError(w, http.StatusBadRequest, "INVALID_ACTOR_ID", err.Error())
	case errors.Is(err, tmdb.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Actor not found")
	case errors.Is(err, metadata.ErrNoMatch):
		writeError(w, http.StatusNotFound, "NO_MATCH", err.Error())
	case errors.Is(err, tmdb.ErrConfiguration):
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "TMDB API key not configured")
	case errors.Is(err, tmdb.ErrUnauthorized):
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAUTHORIZED", "TMDB rejected the API key")
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// The client disconnected; there is no one to respond to.
		s.log.Debug("request canceled by client", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		return
	default:
		s.log.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

// pathID extracts a positive integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// queryID extracts an optional integer from the query string. Missing yields 0.
func queryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	report := s.catalog.Health(r.Context())

	code := http.StatusOK
	if report.Status == metadata.StatusDown {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthResponse{Version: s.cfg.Version, HealthReport: report})
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	id1, err := queryID(r, "actor1_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ACTOR_ID", err.Error())
		return
	}
	id2, err := queryID(r, "actor2_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ACTOR_ID", err.Error())
		return
	}
	q := r.URL.Query()

	cmp, err := s.comparer.Compare(r.Context(), id1, id2, q.Get("actor1_name"), q.Get("actor2_name"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.comparisonResponse(cmp))
}

func (s *Server) searchActors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		query = r.URL.Query().Get("query")
	}

	res, err := s.catalog.SearchActors(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := searchResponse{Query: res.Query, Degraded: res.Degraded, Results: make([]actorSummaryResponse, 0, len(res.Actors))}
	for _, a := range res.Actors {
		resp.Results = append(resp.Results, actorSummaryResponse{
			ActorSummary: a,
			ProfileURL:   domain.ImageURL(s.cfg.ImageBaseURL, "w185", a.ProfileImagePath),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) resolveActor(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "MISSING_NAME", "name is required")
		return
	}

	m, err := s.catalog.ResolveActor(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Actor: actorSummaryResponse{
			ActorSummary: m.Actor,
			ProfileURL:   domain.ImageURL(s.cfg.ImageBaseURL, "w185", m.Actor.ProfileImagePath),
		},
		Score:      m.Score,
		Confidence: m.Confidence.String(),
	})
}

func (s *Server) getActor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ACTOR_ID", err.Error())
		return
	}

	actor, err := s.catalog.ActorProfile(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, actorResponse{
		Actor:      actor,
		ProfileURL: domain.ImageURL(s.cfg.ImageBaseURL, "w342", actor.ProfileImagePath),
	})
}

func (s *Server) getActorMovies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ACTOR_ID", err.Error())
		return
	}

	f, err := s.catalog.ActorMovies(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := moviesResponse{ActorID: f.ActorID, Degraded: f.Degraded, Movies: make([]movieResponse, 0, len(f.Movies))}
	for _, m := range f.Movies {
		resp.Movies = append(resp.Movies, s.movieResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) movieResponse(m domain.MovieCredit) movieResponse {
	return movieResponse{
		MovieCredit: m,
		PosterURL:   domain.ImageURL(s.cfg.ImageBaseURL, "w185", m.PosterPath),
	}
}

func (s *Server) comparisonResponse(c domain.Comparison) comparisonResponse {
	side := func(a domain.ComparisonActor, movies []domain.MovieCredit) comparisonSide {
		return comparisonSide{
			ComparisonActor: a,
			ProfileURL:      domain.ImageURL(s.cfg.ImageBaseURL, "w185", a.ProfileImagePath),
			MovieCount:      len(movies),
		}
	}

	years := make([]yearResponse, 0, len(c.Timeline.Years))
	for _, y := range c.Timeline.Years {
		years = append(years, yearResponse{Year: y, Items: c.Timeline.ProcessedMovies[y]})
	}

	return comparisonResponse{
		RequestID:    c.RequestID,
		Actor1:       side(c.Actor1, c.Actor1Movies),
		Actor2:       side(c.Actor2, c.Actor2Movies),
		SharedMovies: c.Timeline.SharedMovies,
		Years:        years,
		GeneratedAt:  c.GeneratedAt,
		Degraded:     c.Degraded,
	}
}
