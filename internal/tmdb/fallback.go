package tmdb

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/vmunix/costar/internal/cache"
	"github.com/vmunix/costar/internal/domain"
)

// Endpoint categories used to shape synthetic fallback bodies.
const (
	categorySearch  = "search"
	categoryCredits = "credits"
	categoryPerson  = "person"
	categoryOther   = "other"
)

// fallbackKey identifies an endpoint plus its query, excluding the API key.
func fallbackKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// storeFallback keeps a copy of a good response for use during an outage.
func (c *Client) storeFallback(ctx context.Context, endpoint string, params url.Values, body []byte) {
	if c.fallback == nil {
		return
	}
	key := c.fallback.Keys().Fallback(fallbackKey(endpoint, params))
	cache.Write(ctx, c.fallback, key, c.fallback.Policies().Fallback, json.RawMessage(body))
}

// fallbackResponse returns the last good response for the endpoint if one is
// cached, otherwise an empty body shaped for the endpoint category.
func (c *Client) fallbackResponse(ctx context.Context, endpoint string, params url.Values) *Response {
	if c.fallback != nil {
		key := c.fallback.Keys().Fallback(fallbackKey(endpoint, params))
		if body, ok := cache.Read[json.RawMessage](ctx, c.fallback, key); ok {
			c.log.Info("serving cached fallback", "endpoint", endpoint)
			return &Response{Endpoint: endpoint, Body: body, Fallback: true, Source: SourceCache}
		}
	}
	return &Response{Endpoint: endpoint, Body: syntheticBody(endpoint), Fallback: true, Source: SourceSynthetic}
}

// syntheticBody builds an empty but well-formed response for endpoint.
func syntheticBody(endpoint string) json.RawMessage {
	var v any
	switch category, id := classifyEndpoint(endpoint); category {
	case categorySearch:
		v = PersonSearchResponse{Page: 1, Results: []PersonSearchResult{}}
	case categoryCredits:
		v = MovieCreditsResponse{ID: id, Cast: []CastCredit{}}
	case categoryPerson:
		v = Person{ID: id, Name: domain.UnknownActorName}
	default:
		return json.RawMessage(`{}`)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

// classifyEndpoint recognizes "search/person", "person/{id}" and
// "person/{id}/movie_credits". The id is zero when absent or not numeric.
func classifyEndpoint(endpoint string) (string, int64) {
	parts := strings.Split(strings.Trim(endpoint, "/"), "/")
	if len(parts) == 0 {
		return categoryOther, 0
	}
	switch parts[0] {
	case "search":
		return categorySearch, 0
	case "person":
		var id int64
		if len(parts) > 1 {
			id, _ = strconv.ParseInt(parts[1], 10, 64)
		}
		if len(parts) > 2 && parts[2] == "movie_credits" {
			return categoryCredits, id
		}
		if len(parts) == 2 {
			return categoryPerson, id
		}
	}
	return categoryOther, 0
}
