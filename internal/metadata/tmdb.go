// Package metadata provides cached access to TMDB person data.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/costar/internal/breaker"
	"github.com/vmunix/costar/internal/cache"
	"github.com/vmunix/costar/internal/domain"
	"github.com/vmunix/costar/internal/tmdb"
)

// ErrNoMatch means a name search found no sufficiently similar actor.
var ErrNoMatch = errors.New("no matching actor")

// maxProfileFetches bounds concurrent person lookups in ActorProfiles.
const maxProfileFetches = 4

// Source is the upstream person API. *tmdb.Client implements it.
type Source interface {
	SearchPeople(ctx context.Context, query string, page int) (domain.SearchResults, error)
	Person(ctx context.Context, id int64) (domain.Actor, error)
	MovieCredits(ctx context.Context, id int64) (domain.Filmography, error)
	Healthy() bool
	Configured() bool
	BreakerStatus() breaker.Status
}

// nameRecord is the cached form of a name lookup.
type nameRecord struct {
	Name     string `json:"name"`
	Degraded bool   `json:"degraded,omitempty"`
}

func (n nameRecord) IsDegraded() bool { return n.Degraded }

// TMDBService provides cached access to TMDB metadata.
type TMDBService struct {
	source Source
	cache  *cache.Manager
	log    *slog.Logger
}

// NewTMDBService creates a new TMDB service.
func NewTMDBService(source Source, cm *cache.Manager, log *slog.Logger) *TMDBService {
	if cm == nil {
		cm = cache.NewManager(nil)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &TMDBService{
		source: source,
		cache:  cm,
		log:    log.With("component", "metadata"),
	}
}

// SearchActors searches for actors by name (cached).
func (s *TMDBService) SearchActors(ctx context.Context, query string) (domain.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResults{Actors: []domain.ActorSummary{}}, nil
	}

	key := s.cache.Keys().Search(query)
	res, err := cache.Fetch(ctx, s.cache, key, s.cache.Policies().Search, func(ctx context.Context) (domain.SearchResults, error) {
		return s.source.SearchPeople(ctx, query, 1)
	})
	if err != nil {
		return domain.SearchResults{}, fmt.Errorf("search actors: %w", err)
	}
	return res, nil
}

// ActorProfile fetches an actor profile by TMDB ID (cached).
func (s *TMDBService) ActorProfile(ctx context.Context, id int64) (domain.Actor, error) {
	key := s.cache.Keys().Profile(id)
	actor, err := cache.Fetch(ctx, s.cache, key, s.cache.Policies().Profile, func(ctx context.Context) (domain.Actor, error) {
		return s.source.Person(ctx, id)
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("actor profile %d: %w", id, err)
	}
	return actor, nil
}

// ActorProfiles fetches several profiles with one bulk cache read. Only the
// misses reach the API. An unknown ID yields a degraded placeholder.
func (s *TMDBService) ActorProfiles(ctx context.Context, ids []int64) (map[int64]domain.Actor, error) {
	keys := s.cache.Keys()
	keyToID := make(map[string]int64, len(ids))
	cacheKeys := make([]string, 0, len(ids))
	for _, id := range ids {
		k := keys.Profile(id)
		if _, ok := keyToID[k]; !ok {
			keyToID[k] = id
			cacheKeys = append(cacheKeys, k)
		}
	}

	byKey, err := cache.FetchMulti(ctx, s.cache, cacheKeys, s.cache.Policies().Profile, func(ctx context.Context, missing []string) (map[string]domain.Actor, error) {
		var mu sync.Mutex
		out := make(map[string]domain.Actor, len(missing))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxProfileFetches)
		for _, k := range missing {
			id := keyToID[k]
			g.Go(func() error {
				actor, err := s.source.Person(gctx, id)
				if errors.Is(err, tmdb.ErrNotFound) {
					s.log.Info("actor not found, using placeholder", "actor_id", id)
					actor = domain.Actor{ID: id, Name: domain.UnknownActorName, Degraded: true}
					err = nil
				}
				if err != nil {
					return fmt.Errorf("actor %d: %w", id, err)
				}
				mu.Lock()
				out[k] = actor
				mu.Unlock()
				return nil
			})
		}
		return out, g.Wait()
	})
	if err != nil {
		return nil, fmt.Errorf("actor profiles: %w", err)
	}

	out := make(map[int64]domain.Actor, len(byKey))
	for k, actor := range byKey {
		out[keyToID[k]] = actor
	}
	return out, nil
}

// ActorMovies fetches an actor's dated movie credits, most recent first (cached).
func (s *TMDBService) ActorMovies(ctx context.Context, id int64) (domain.Filmography, error) {
	key := s.cache.Keys().Movies(id)
	f, err := cache.Fetch(ctx, s.cache, key, s.cache.Policies().MovieList, func(ctx context.Context) (domain.Filmography, error) {
		return s.source.MovieCredits(ctx, id)
	})
	if err != nil {
		return domain.Filmography{ActorID: id, Movies: []domain.MovieCredit{}}, fmt.Errorf("actor movies %d: %w", id, err)
	}
	return f, nil
}

// ActorName resolves an actor's display name from the profile (cached).
// Any failure yields the placeholder name.
func (s *TMDBService) ActorName(ctx context.Context, id int64) string {
	key := s.cache.Keys().Name(id)
	rec, err := cache.Fetch(ctx, s.cache, key, s.cache.Policies().Name, func(ctx context.Context) (nameRecord, error) {
		actor, err := s.ActorProfile(ctx, id)
		if err != nil {
			return nameRecord{}, err
		}
		return nameRecord{Name: actor.Name, Degraded: actor.Degraded}, nil
	})
	if err != nil || rec.Name == "" {
		if err != nil {
			s.log.Warn("actor name lookup failed", "actor_id", id, "error", err)
		}
		return domain.UnknownActorName
	}
	return rec.Name
}

// ResolveActor finds the actor whose name best matches name.
func (s *TMDBService) ResolveActor(ctx context.Context, name string) (Match, error) {
	res, err := s.SearchActors(ctx, name)
	if err != nil {
		return Match{}, err
	}
	m, ok := BestMatch(name, res.Actors)
	if !ok {
		return m, fmt.Errorf("%w: %q", ErrNoMatch, name)
	}
	s.log.Debug("resolved actor", "name", name, "actor_id", m.Actor.ID, "score", m.Score, "confidence", m.Confidence.String())
	return m, nil
}

// InvalidateActor removes every cached entry for an actor.
func (s *TMDBService) InvalidateActor(ctx context.Context, id int64) {
	keys := s.cache.Keys()
	s.cache.Delete(ctx, keys.Profile(id), keys.Movies(id), keys.Name(id))
	s.log.Info("invalidated actor cache", "actor_id", id)
}

// Health status values.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDown     = "down"
)

// CacheHealth reports whether the cache backend answered a ping.
type CacheHealth struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// IsDegraded keeps failed pings out of the cache.
func (h CacheHealth) IsDegraded() bool { return !h.OK }

// HealthReport aggregates dependency health.
type HealthReport struct {
	Status     string         `json:"status"`
	Configured bool           `json:"tmdb_configured"`
	TMDB       bool           `json:"tmdb_healthy"`
	Breaker    breaker.Status `json:"circuit_breaker"`
	Cache      CacheHealth    `json:"cache"`
}

// Health reports dependency health. The cache ping is cached under the health
// policy; breaker state is always read live.
func (s *TMDBService) Health(ctx context.Context) HealthReport {
	report := HealthReport{
		Configured: s.source.Configured(),
		TMDB:       s.source.Healthy(),
		Breaker:    s.source.BreakerStatus(),
	}

	key := s.cache.Keys().Health("cache")
	report.Cache, _ = cache.Fetch(ctx, s.cache, key, s.cache.Policies().Health, func(ctx context.Context) (CacheHealth, error) {
		if err := s.cache.Ping(ctx); err != nil {
			return CacheHealth{Error: err.Error()}, nil
		}
		return CacheHealth{OK: true}, nil
	})

	switch {
	case !report.Configured:
		report.Status = StatusDown
	case !report.TMDB || !report.Cache.OK:
		report.Status = StatusDegraded
	default:
		report.Status = StatusOK
	}
	return report
}
