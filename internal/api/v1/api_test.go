package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/costar/internal/cache"
	"github.com/vmunix/costar/internal/comparison"
	"github.com/vmunix/costar/internal/domain"
	"github.com/vmunix/costar/internal/metadata"
	"github.com/vmunix/costar/internal/tmdb"
)

const imageBase = "https://image.example/t/p/"

// fakeTMDB serves a tiny fixed slice of the TMDB person API.
func fakeTMDB(t *testing.T) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/search/person": `{"page":1,"results":[
			{"id":31,"name":"Tom Hanks","profile_path":"/hanks.jpg","known_for_department":"Acting","popularity":80.1},
			{"id":1136406,"name":"Tom Holland","profile_path":null,"known_for_department":"Acting","popularity":70.2}
		]}`,
		"/person/31": `{"id":31,"name":"Tom Hanks","biography":"Actor.","profile_path":"/hanks.jpg"}`,
		"/person/5":  `{"id":5,"name":"Meg Ryan","profile_path":"/ryan.jpg"}`,
		"/person/31/movie_credits": `{"id":31,"cast":[
			{"id":1,"title":"X","character":"A","release_date":"2010-05-01"},
			{"id":2,"title":"Y","character":"B","release_date":"2012-01-15","poster_path":"/y.jpg"},
			{"id":9,"title":"Undated","character":"C","release_date":""}
		]}`,
		"/person/5/movie_credits": `{"id":5,"cast":[
			{"id":2,"title":"Y","character":"D","release_date":"2012-01-15","poster_path":"/y.jpg"},
			{"id":3,"title":"Z","character":"E","release_date":"2012-08-01"}
		]}`,
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := bodies[r.URL.Path]
		if r.URL.Path == "/search/person" && strings.Contains(r.URL.Query().Get("query"), "zzz") {
			body, ok = `{"page":1,"results":[]}`, true
		}
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_code":34,"status_message":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func newTestAPI(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	upstream := fakeTMDB(t)
	t.Cleanup(upstream.Close)

	cm := cache.NewManager(cache.NewMemoryStore())
	client := tmdb.NewClient(apiKey,
		tmdb.WithBaseURL(upstream.URL),
		tmdb.WithRetry(tmdb.RetryPolicy{MaxAttempts: 1}),
		tmdb.WithFallbackCache(cm),
	)
	catalog := metadata.NewTMDBService(client, cm, nil)
	svc := comparison.New(catalog, cm, nil)

	return New(svc, catalog, Config{ImageBaseURL: imageBase, Version: "test"}, nil).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestCompare(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/compare?actor1_id=31&actor2_id=5")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decodeBody[comparisonResponse](t, w)
	assert.Equal(t, "Tom Hanks", resp.Actor1.Name)
	assert.Equal(t, "Meg Ryan", resp.Actor2.Name)
	assert.Equal(t, imageBase+"w185/hanks.jpg", resp.Actor1.ProfileURL)
	assert.Equal(t, 2, resp.Actor1.MovieCount, "undated credit is dropped")
	assert.False(t, resp.Degraded)

	require.Len(t, resp.SharedMovies, 1)
	assert.Equal(t, int64(2), resp.SharedMovies[0].ID)

	require.Len(t, resp.Years, 2)
	assert.Equal(t, 2012, resp.Years[0].Year)
	assert.Equal(t, 2010, resp.Years[1].Year)

	items := resp.Years[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, domain.ItemShared, items[0].Type)
	assert.Len(t, items[0].Movies, 2)
	assert.Equal(t, domain.ItemSingle, items[1].Type)
	assert.Equal(t, int64(3), items[1].MovieID())
}

func TestCompare_CallerNames(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/compare?actor1_id=5&actor2_id=31&actor1_name=Meg&actor2_name=Tom")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[comparisonResponse](t, w)
	assert.Equal(t, "Meg", resp.Actor1.Name)
	assert.Equal(t, int64(5), resp.Actor1.ID)
	assert.Equal(t, "Tom", resp.Actor2.Name)
}

func TestCompare_InvalidIDs(t *testing.T) {
	h := newTestAPI(t, "test-key")

	for _, target := range []string{
		"/api/v1/compare",
		"/api/v1/compare?actor1_id=31",
		"/api/v1/compare?actor1_id=abc&actor2_id=5",
	} {
		t.Run(target, func(t *testing.T) {
			w := get(t, h, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_ACTOR_ID", decodeBody[errorResponse](t, w).Code)
		})
	}
}

func TestCompare_NotConfigured(t *testing.T) {
	h := newTestAPI(t, "")

	w := get(t, h, "/api/v1/compare?actor1_id=31&actor2_id=5")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NOT_CONFIGURED", decodeBody[errorResponse](t, w).Code)
}

func TestCompare_RejectedKey(t *testing.T) {
	h := newTestAPI(t, "wrong-key")

	w := get(t, h, "/api/v1/compare?actor1_id=31&actor2_id=5")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "UPSTREAM_UNAUTHORIZED", decodeBody[errorResponse](t, w).Code)
}

// stubComparer returns a fixed error from Compare.
type stubComparer struct{ err error }

func (s stubComparer) Compare(context.Context, int64, int64, string, string) (domain.Comparison, error) {
	return domain.Comparison{}, s.err
}

func TestCompare_CanceledWithLiveClientIsAnError(t *testing.T) {
	h := New(stubComparer{err: context.Canceled}, nil, Config{}, nil).Handler()

	w := get(t, h, "/api/v1/compare?actor1_id=31&actor2_id=5")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeBody[errorResponse](t, w).Code)
}

func TestCompare_DisconnectedClientGetsNoBody(t *testing.T) {
	h := New(stubComparer{err: context.Canceled}, nil, Config{}, nil).Handler()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/compare?actor1_id=31&actor2_id=5", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Type"))
}

func TestSearchActors(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/actors/search?q=tom")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[searchResponse](t, w)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Tom Hanks", resp.Results[0].Name)
	assert.Equal(t, imageBase+"w185/hanks.jpg", resp.Results[0].ProfileURL)
	assert.Empty(t, resp.Results[1].ProfileURL)
}

func TestSearchActors_Blank(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/actors/search?q=")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[searchResponse](t, w).Results)
}

func TestResolveActor(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/actors/resolve?name=tom+hanks")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[resolveResponse](t, w)
	assert.Equal(t, int64(31), resp.Actor.ID)
	assert.Equal(t, "high", resp.Confidence)
}

func TestResolveActor_Errors(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/actors/resolve")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, h, "/api/v1/actors/resolve?name=zzz")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NO_MATCH", decodeBody[errorResponse](t, w).Code)
}

func TestGetActor(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/actors/31")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[actorResponse](t, w)
	assert.Equal(t, "Tom Hanks", resp.Name)
	assert.Equal(t, "Actor.", resp.Biography)
	assert.Equal(t, imageBase+"w342/hanks.jpg", resp.ProfileURL)
}

func TestGetActor_NotFound(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/actors/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[errorResponse](t, w).Code)
}

func TestGetActor_BadID(t *testing.T) {
	h := newTestAPI(t, "test-key")

	for _, target := range []string{"/api/v1/actors/abc", "/api/v1/actors/-4"} {
		w := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestGetActorMovies(t *testing.T) {
	h := newTestAPI(t, "test-key")

	w := get(t, h, "/api/v1/actors/31/movies")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[moviesResponse](t, w)
	require.Len(t, resp.Movies, 2)
	assert.Equal(t, "Y", resp.Movies[0].Title, "most recent first")
	assert.Equal(t, imageBase+"w185/y.jpg", resp.Movies[0].PosterURL)
	assert.Equal(t, "X", resp.Movies[1].Title)
}

func TestHealth(t *testing.T) {
	h := newTestAPI(t, "test-key")

	for _, target := range []string{"/healthz", "/api/v1/status"} {
		w := get(t, h, target)
		require.Equal(t, http.StatusOK, w.Code, target)

		resp := decodeBody[healthResponse](t, w)
		assert.Equal(t, metadata.StatusOK, resp.Status)
		assert.Equal(t, "test", resp.Version)
		assert.Equal(t, "closed", resp.Breaker.State)
		assert.True(t, resp.Cache.OK)
	}
}

func TestHealth_NotConfigured(t *testing.T) {
	h := newTestAPI(t, "your_api_key")

	w := get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, metadata.StatusDown, decodeBody[healthResponse](t, w).Status)
}

func TestRequestIDHeaderIsAccepted(t *testing.T) {
	h := newTestAPI(t, "test-key")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
