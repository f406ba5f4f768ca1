// Package vlr acquires match data for the record corpus. It prefers the
// structured API and falls back to scraping the match page when the API is
// unavailable or returns too little, reconciling both sources into the
// canonical schema.
package vlr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/fetch"
)

// Taxonomy of structured-source failures. Both trigger the scrape fallback.
var (
	// ErrSourceUnavailable: no candidate request shape yielded a parseable
	// response.
	ErrSourceUnavailable = errors.New("structured source unavailable")
	// ErrIncompleteSource: the response parsed but lacked both team names.
	ErrIncompleteSource = errors.New("structured source incomplete")
)

// MatchID extracts the canonical match identifier from a locator: the first
// run of digits when given a URL, the input itself otherwise.
func MatchID(locator string) string {
	locator = strings.TrimSpace(locator)
	if IsURL(locator) {
		return firstDigitRun(locator)
	}
	return locator
}

// IsURL reports whether the locator is a fully-qualified URL rather than a
// bare identifier.
func IsURL(locator string) bool {
	return strings.Contains(locator, "://")
}

// Client speaks to the structured match endpoint.
type Client struct {
	fetcher *fetch.Fetcher
	apiBase string
	webBase string
}

func NewClient(cfg *config.VLRConfig, fetcher *fetch.Fetcher) *Client {
	return &Client{
		fetcher: fetcher,
		apiBase: strings.TrimSuffix(cfg.APIBase, "/"),
		webBase: strings.TrimSuffix(cfg.WebBase, "/"),
	}
}

// MatchURL builds the canonical page locator for a bare identifier.
func (c *Client) MatchURL(id string) string {
	return c.webBase + "/" + id
}

// FetchMatch queries the structured endpoint, trying several request shapes
// in sequence to absorb endpoint-contract drift. The first response that
// parses as an object wins. Returns ErrSourceUnavailable when none does.
func (c *Client) FetchMatch(ctx context.Context, id string) (map[string]any, error) {
	candidates := []string{
		c.apiBase + "/match?q=" + id,
		c.apiBase + "/match/" + id,
		c.apiBase + "/matches/" + id,
	}

	for _, u := range candidates {
		body, err := c.fetcher.JSON(ctx, u)
		if err != nil {
			slog.Debug("Candidate request shape failed", "url", u, "error", err)
			continue
		}
		payload, ok := decodeObject(body)
		if !ok {
			slog.Debug("Candidate response is not an object", "url", u)
			continue
		}
		return payload, nil
	}
	return nil, fmt.Errorf("%w: match %s", ErrSourceUnavailable, id)
}

// decodeObject parses a JSON object, unwrapping the common single-key
// envelopes the endpoint has shipped over time.
func decodeObject(body []byte) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	for _, envelope := range []string{"data", "match", "result"} {
		if inner, ok := asMap(m[envelope]); ok {
			return inner, true
		}
	}
	return m, true
}
