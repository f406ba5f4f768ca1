package prizepicks

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akarpenko/propline/internal/pkg/aliases"
	"github.com/akarpenko/propline/internal/pkg/models"
)

// Normalizer maps heterogeneous upstream offer fields onto the canonical
// Offer schema, keeping only the configured league synonyms.
type Normalizer struct {
	leagues []string
}

func NewNormalizer(leagues []string) *Normalizer {
	low := make([]string, 0, len(leagues))
	for _, l := range leagues {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			low = append(low, l)
		}
	}
	return &Normalizer{leagues: low}
}

// Normalize parses an offers payload into canonical offers: league-filtered,
// de-duplicated by offer id (keep-first), sorted by offer time descending
// with unknown times last. Rows without a parseable line are dropped; any
// other unparseable field just stays at its missing value.
func (n *Normalizer) Normalize(payload []byte) ([]models.Offer, error) {
	items, err := decodeItems(payload)
	if err != nil {
		return nil, err
	}

	offers := make([]models.Offer, 0, len(items))
	seen := make(map[string]bool)

	for _, item := range items {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		flat := flatten(m)

		league := pickString(flat, "league", "league_name", "league_display")
		if !n.allowed(league) {
			continue
		}

		line, ok := pickNumber(flat, "line", "line_score", "value")
		if !ok {
			slog.Debug("Offer without a line, dropping", "league", league)
			continue
		}

		off := models.Offer{
			OfferID:   pickString(flat, "offer_id", "id"),
			Player:    aliases.CanonicalPlayer(pickString(flat, "player", "player_name", "name")),
			StatType:  strings.ToLower(pickString(flat, "stat_type", "stat", "market")),
			Line:      line,
			Team:      aliases.CanonicalTeam(pickString(flat, "team", "team_name")),
			Opponent:  aliases.CanonicalTeam(pickString(flat, "opponent", "opponent_name")),
			SeriesID:  pickString(flat, "series_id", "match_id", "game_id"),
			MapScope:  normalizeScope(pickString(flat, "map_scope", "scope", "board")),
			OfferTime: extractOfferTime(flat),
		}
		if off.OfferID == "" {
			off.OfferID = uuid.NewString()
		}

		if seen[off.OfferID] {
			continue
		}
		seen[off.OfferID] = true
		offers = append(offers, off)
	}

	sort.SliceStable(offers, func(i, j int) bool {
		ti, tj := offers[i].OfferTime, offers[j].OfferTime
		if ti.IsZero() != tj.IsZero() {
			return tj.IsZero() // known times before unknown ones
		}
		return ti.After(tj)
	})
	return offers, nil
}

func (n *Normalizer) allowed(league string) bool {
	low := strings.ToLower(strings.TrimSpace(league))
	if low == "" {
		return false
	}
	for _, syn := range n.leagues {
		if low == syn || strings.Contains(low, syn) {
			return true
		}
	}
	return false
}

// decodeItems accepts a bare array, or an object with the list under one of
// the usual keys.
func decodeItems(payload []byte) ([]any, error) {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("parse offers payload: %w", err)
	}
	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		if items := pickSlice(t, "data", "projections", "offers"); items != nil {
			return items, nil
		}
		return nil, fmt.Errorf("offers payload has no recognizable list")
	}
	return nil, fmt.Errorf("offers payload is neither list nor object")
}

// flatten merges a JSON:API style "attributes" sub-object into the entry so
// candidate keys see one flat namespace.
func flatten(m map[string]any) map[string]any {
	attrs, ok := asMap(m["attributes"])
	if !ok {
		return m
	}
	flat := make(map[string]any, len(m)+len(attrs))
	for k, v := range m {
		flat[k] = v
	}
	for k, v := range attrs {
		if _, exists := flat[k]; !exists {
			flat[k] = v
		}
	}
	return flat
}

func normalizeScope(raw string) string {
	low := strings.ToLower(raw)
	switch {
	case strings.Contains(low, "series"):
		return models.MapScopePerSeries
	case strings.Contains(low, "map"):
		return models.MapScopePerMap
	}
	return models.MapScopePerMap
}

// extractOfferTime prefers a numeric epoch over a formatted string.
func extractOfferTime(m map[string]any) time.Time {
	if ts, ok := pickNumber(m, "offer_ts", "board_ts"); ok && ts > 0 {
		return time.Unix(int64(ts), 0).UTC()
	}
	raw := pickString(m, "offer_time", "board_time", "updated_at", "start_time")
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
