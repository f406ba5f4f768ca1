// Package prizepicks loads current statistic-line offers and normalizes
// them onto the canonical Offer schema.
package prizepicks

import (
	"context"
	"fmt"
	"strings"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/fetch"
)

// Client fetches the raw projections payload.
type Client struct {
	fetcher *fetch.Fetcher
	baseURL string
}

func NewClient(cfg *config.PrizePicksConfig, fetcher *fetch.Fetcher) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// FetchProjections pulls the current board in one page. Offers are ephemeral
// market state; there is no history endpoint to walk.
func (c *Client) FetchProjections(ctx context.Context) ([]byte, error) {
	u := c.baseURL + "/projections?per_page=250&single_stat=true"
	body, err := c.fetcher.JSON(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch projections: %w", err)
	}
	return body, nil
}
