package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/vmunix/costar/internal/domain"
)

// SearchPeople searches for people by name. A blank query returns empty
// results without calling the API.
func (c *Client) SearchPeople(ctx context.Context, query string, page int) (domain.SearchResults, error) {
	query = strings.TrimSpace(query)
	out := domain.SearchResults{Query: query, Actors: []domain.ActorSummary{}}
	if query == "" {
		return out, nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	resp, err := c.Request(ctx, "search/person", params)
	if err != nil {
		return out, err
	}

	var raw PersonSearchResponse
	if err := decode(resp, &raw); err != nil {
		c.log.Warn("undecodable search response", "error", err)
		out.Degraded = true
		return out, nil
	}
	out.Actors = ProcessActorSearchResults(&raw)
	out.Degraded = resp.Fallback
	return out, nil
}

// Person fetches person details by TMDB ID.
func (c *Client) Person(ctx context.Context, id int64) (domain.Actor, error) {
	resp, err := c.Request(ctx, "person/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return domain.Actor{}, err
	}

	var raw Person
	if err := decode(resp, &raw); err != nil {
		c.log.Warn("undecodable person response", "id", id, "error", err)
		return domain.Actor{ID: id, Name: domain.UnknownActorName, Degraded: true}, nil
	}
	actor := NormalizeActor(raw)
	if actor.ID == 0 {
		actor.ID = id
	}
	if actor.Name == "" {
		actor.Name = domain.UnknownActorName
	}
	actor.Degraded = resp.Fallback
	return actor, nil
}

// MovieCredits fetches a person's acting credits, dated and most recent first.
func (c *Client) MovieCredits(ctx context.Context, id int64) (domain.Filmography, error) {
	out := domain.Filmography{ActorID: id, Movies: []domain.MovieCredit{}}

	resp, err := c.Request(ctx, "person/"+strconv.FormatInt(id, 10)+"/movie_credits", nil)
	if err != nil {
		return out, err
	}

	var raw MovieCreditsResponse
	if err := decode(resp, &raw); err != nil {
		c.log.Warn("undecodable credits response", "id", id, "error", err)
		out.Degraded = true
		return out, nil
	}
	out.Movies = ProcessMovieCredits(raw.Cast)
	out.Degraded = resp.Fallback
	return out, nil
}

func decode(resp *Response, v any) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", resp.Endpoint, err)
	}
	return nil
}
