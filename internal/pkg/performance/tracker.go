// Package performance tracks fetch-layer counters for a run: live requests,
// cache hits, headless renders, and time spent on the wire.
package performance

import (
	"log/slog"
	"sync"
	"time"
)

// Tracker accumulates fetch metrics. Safe for concurrent use; the zero
// value is ready. A nil Tracker discards everything.
type Tracker struct {
	mu sync.Mutex

	LiveRequests  int
	CacheHits     int
	Renders       int
	Failures      int
	FetchDuration time.Duration
}

func (t *Tracker) RecordLive(d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.LiveRequests++
	t.FetchDuration += d
}

func (t *Tracker) RecordCacheHit() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.CacheHits++
}

func (t *Tracker) RecordRender() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Renders++
}

func (t *Tracker) RecordFailure() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Failures++
}

// LogSummary writes the accumulated counters at info level.
func (t *Tracker) LogSummary() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	slog.Info("fetch summary",
		"live_requests", t.LiveRequests,
		"cache_hits", t.CacheHits,
		"renders", t.Renders,
		"failures", t.Failures,
		"fetch_duration", t.FetchDuration.Round(time.Millisecond))
}
