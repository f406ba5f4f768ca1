// Package fetch provides the shared HTTP layer for all upstream sources:
// a fixed-header client with a per-request timeout ceiling, a minimum
// inter-request delay for courteous rate limiting, and a disk cache for
// scraped documents.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/performance"
)

// StatusError is returned for a non-2xx upstream response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

// Fetcher performs all outbound HTTP for the process. Calls block; there is
// no retry and no backoff beyond the fixed inter-request pause.
type Fetcher struct {
	httpClient     *http.Client
	cache          *Cache
	userAgent      string
	minDelay       time.Duration
	renderFallback bool
	tracker        *performance.Tracker

	mu       sync.Mutex
	lastLive time.Time
}

// SetTracker attaches run counters. Call before the first fetch.
func (f *Fetcher) SetTracker(t *performance.Tracker) {
	f.tracker = t
}

// NewFetcher builds a fetcher from config. cache may be nil, in which case
// page fetches always go to the network.
func NewFetcher(cfg *config.FetchConfig, cache *Cache) *Fetcher {
	return &Fetcher{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		cache:          cache,
		userAgent:      cfg.UserAgent,
		minDelay:       cfg.MinDelay,
		renderFallback: cfg.RenderFallback,
	}
}

// JSON fetches a structured endpoint. Responses are not cached: API state is
// live market data, not an immutable document.
func (f *Fetcher) JSON(ctx context.Context, rawURL string) ([]byte, error) {
	return f.do(ctx, rawURL, "application/json, text/plain, */*")
}

// Page fetches an HTML document through the disk cache. A cache hit skips
// both the network and the inter-request delay. When the response looks like
// a JavaScript shell (a script stub that builds the real page client-side)
// and render fallback is enabled, the page is re-fetched through headless
// Chrome before being cached.
func (f *Fetcher) Page(ctx context.Context, rawURL string) ([]byte, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(rawURL); ok {
			slog.Debug("Cache hit", "url", rawURL)
			f.tracker.RecordCacheHit()
			return body, nil
		}
	}

	body, err := f.do(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}

	if f.renderFallback && looksLikeScriptShell(body) {
		slog.Info("Response looks like a JavaScript shell, rendering with headless browser", "url", rawURL)
		f.tracker.RecordRender()
		rendered, rerr := f.renderPage(ctx, rawURL)
		if rerr != nil {
			slog.Warn("Headless render failed, keeping plain response", "url", rawURL, "error", rerr)
		} else {
			body = rendered
		}
	}

	if f.cache != nil {
		if err := f.cache.Put(rawURL, body); err != nil {
			slog.Warn("Failed to write cache entry", "url", rawURL, "error", err)
		}
	}
	return body, nil
}

func (f *Fetcher) do(ctx context.Context, rawURL, accept string) ([]byte, error) {
	f.throttle()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.tracker.RecordFailure()
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	f.tracker.RecordLive(time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.tracker.RecordFailure()
		return nil, &StatusError{URL: rawURL, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// throttle enforces the minimum delay between live requests.
func (f *Fetcher) throttle() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if wait := f.minDelay - time.Since(f.lastLive); wait > 0 {
		time.Sleep(wait)
	}
	f.lastLive = time.Now()
}

// looksLikeScriptShell detects bodies that carry no content markup, only a
// script that redirects or assembles the page client-side.
func looksLikeScriptShell(body []byte) bool {
	if len(body) > 4096 {
		return false
	}
	s := strings.ToLower(string(body))
	if !strings.Contains(s, "<script") {
		return false
	}
	return strings.Contains(s, "window.location") ||
		strings.Contains(s, "location.href") ||
		strings.Contains(s, "document.location")
}
