// Package comparison builds and caches two-actor filmography comparisons.
package comparison

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_catalog.go -package=mocks github.com/vmunix/costar/internal/comparison Catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/costar/internal/cache"
	"github.com/vmunix/costar/internal/domain"
	"github.com/vmunix/costar/internal/timeline"
	"github.com/vmunix/costar/internal/tmdb"
)

// ErrInvalidActorID means a comparison was requested without two valid actor IDs.
var ErrInvalidActorID = errors.New("invalid actor id")

// Catalog is the cached actor data a comparison is built from.
// *metadata.TMDBService implements it.
type Catalog interface {
	ActorMovies(ctx context.Context, id int64) (domain.Filmography, error)
	ActorProfiles(ctx context.Context, ids []int64) (map[int64]domain.Actor, error)
	ActorName(ctx context.Context, id int64) string
}

// Service compares two actors' filmographies.
type Service struct {
	catalog Catalog
	cache   *cache.Manager
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a comparison service.
func New(catalog Catalog, cm *cache.Manager, log *slog.Logger, opts ...Option) *Service {
	if cm == nil {
		cm = cache.NewManager(nil)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		catalog: catalog,
		cache:   cm,
		log:     log.With("component", "comparison"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compare builds the comparison of two actors, cached under a key that does
// not depend on argument order. The cached value carries looked-up names only;
// non-empty caller names replace them in the returned result. A failed lookup
// yields "Unknown Actor".
//
// Only ErrInvalidActorID and configuration or authentication failures are
// returned. Upstream outages and unknown actors degrade to empty data.
func (s *Service) Compare(ctx context.Context, actor1ID, actor2ID int64, actor1Name, actor2Name string) (domain.Comparison, error) {
	if actor1ID <= 0 || actor2ID <= 0 {
		return domain.Comparison{}, fmt.Errorf("%w: actor1=%d actor2=%d", ErrInvalidActorID, actor1ID, actor2ID)
	}
	actor1Name = strings.TrimSpace(actor1Name)
	actor2Name = strings.TrimSpace(actor2Name)

	key := s.cache.Keys().Comparison(actor1ID, actor2ID)
	cmp, err := cache.Fetch(ctx, s.cache, key, s.cache.Policies().Comparison, func(ctx context.Context) (domain.Comparison, error) {
		return s.build(ctx, actor1ID, actor2ID)
	})
	if err != nil {
		return domain.Comparison{}, err
	}

	return present(cmp, actor1ID, actor1Name, actor2Name), nil
}

func (s *Service) build(ctx context.Context, actor1ID, actor2ID int64) (domain.Comparison, error) {
	requestID := uuid.NewString()
	log := s.log.With("request_id", requestID, "actor1_id", actor1ID, "actor2_id", actor2ID)
	start := s.now()

	var movies1, movies2 domain.Filmography
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies1, err = s.movies(gctx, actor1ID, log)
		return err
	})
	g.Go(func() error {
		var err error
		movies2, err = s.movies(gctx, actor2ID, log)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Comparison{}, err
	}

	profiles, err := s.catalog.ActorProfiles(ctx, []int64{actor1ID, actor2ID})
	if err != nil {
		if !tolerable(err) {
			return domain.Comparison{}, fmt.Errorf("compare: %w", err)
		}
		log.Warn("profile lookup failed, continuing without profiles", "error", err)
		profiles = map[int64]domain.Actor{}
	}
	p1, p2 := profiles[actor1ID], profiles[actor2ID]

	actor1Name := s.name(ctx, actor1ID, p1)
	actor2Name := s.name(ctx, actor2ID, p2)

	tl := timeline.Build(movies1.Movies, movies2.Movies, actor1Name, actor2Name)

	cmp := domain.Comparison{
		RequestID:    requestID,
		Actor1:       domain.ComparisonActor{ID: actor1ID, Name: actor1Name, ProfileImagePath: p1.ProfileImagePath},
		Actor2:       domain.ComparisonActor{ID: actor2ID, Name: actor2Name, ProfileImagePath: p2.ProfileImagePath},
		Actor1Movies: movies1.Movies,
		Actor2Movies: movies2.Movies,
		Timeline:     tl,
		GeneratedAt:  start.UTC(),
		Degraded: movies1.Degraded || movies2.Degraded || p1.Degraded || p2.Degraded ||
			actor1Name == domain.UnknownActorName || actor2Name == domain.UnknownActorName,
	}

	log.Info("comparison built",
		"years", len(tl.Years),
		"shared", len(tl.SharedMovies),
		"degraded", cmp.Degraded,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return cmp, nil
}

// name prefers the batch-fetched profile and falls back to the cached name lookup.
func (s *Service) name(ctx context.Context, id int64, p domain.Actor) string {
	if p.Name != "" && !p.Degraded {
		return p.Name
	}
	return s.catalog.ActorName(ctx, id)
}

// movies fetches one side. Not-found and other non-fatal failures become an
// empty, degraded list.
func (s *Service) movies(ctx context.Context, id int64, log *slog.Logger) (domain.Filmography, error) {
	f, err := s.catalog.ActorMovies(ctx, id)
	if err == nil {
		if f.Movies == nil {
			f.Movies = []domain.MovieCredit{}
		}
		return f, nil
	}
	if !tolerable(err) {
		return domain.Filmography{}, fmt.Errorf("compare: %w", err)
	}
	log.Warn("movie lookup failed, using empty list", "actor_id", id, "error", err)
	return domain.Filmography{ActorID: id, Movies: []domain.MovieCredit{}, Degraded: true}, nil
}

// tolerable reports whether a comparison can continue past err. Configuration,
// authentication and cancellation cannot be worked around.
func tolerable(err error) bool {
	switch {
	case errors.Is(err, tmdb.ErrConfiguration),
		errors.Is(err, tmdb.ErrUnauthorized),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

// present orients a possibly cached comparison so first is Actor1 and applies
// caller-supplied names. The timeline is rebuilt only when either changes.
func present(c domain.Comparison, first int64, name1, name2 string) domain.Comparison {
	changed := false
	if c.Actor1.ID != first && c.Actor2.ID == first {
		c.Actor1, c.Actor2 = c.Actor2, c.Actor1
		c.Actor1Movies, c.Actor2Movies = c.Actor2Movies, c.Actor1Movies
		changed = true
	}
	if name1 != "" && name1 != c.Actor1.Name {
		c.Actor1.Name = name1
		changed = true
	}
	if name2 != "" && name2 != c.Actor2.Name {
		c.Actor2.Name = name2
		changed = true
	}
	if changed {
		c.Timeline = timeline.Build(c.Actor1Movies, c.Actor2Movies, c.Actor1.Name, c.Actor2.Name)
	}
	return c
}
