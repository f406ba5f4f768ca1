package prizepicks

import (
	"testing"
	"time"
)

func TestNormalizeDedupAndSort(t *testing.T) {
	payload := `{"data": [
		{"id": "a", "league": "VALORANT", "player": "TenZ", "stat_type": "Kills", "line": 38.5,
		 "team": "SEN", "opponent": "FNC", "series_id": "S1", "map_scope": "per-series",
		 "offer_time": "2025-03-01T10:00:00Z"},
		{"id": "b", "league": "VALORANT", "player": "Derke", "stat_type": "kills", "line": 17.5,
		 "team": "FNC", "opponent": "SEN", "series_id": "S1", "map_scope": "per-map",
		 "offer_time": "2025-03-01T12:00:00Z"},
		{"id": "a", "league": "VALORANT", "player": "TenZ", "stat_type": "kills", "line": 99.5,
		 "team": "SEN", "opponent": "FNC", "series_id": "S1"},
		{"id": "c", "league": "VALORANT", "player": "Zekken", "stat_type": "kills", "line": 16.0,
		 "team": "SEN", "opponent": "FNC", "series_id": "S1"}
	]}`

	offers, err := NewNormalizer([]string{"valorant", "val"}).Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if len(offers) != 3 {
		t.Fatalf("got %d offers, want 3 (duplicate id collapsed)", len(offers))
	}

	// Keep-first: the surviving "a" carries the first row's line.
	var lineA float64
	for _, o := range offers {
		if o.OfferID == "a" {
			lineA = o.Line
		}
	}
	if lineA != 38.5 {
		t.Errorf("offer a line = %v, want 38.5 (keep-first)", lineA)
	}

	// Sorted by offer time descending, unknown times last.
	if offers[0].OfferID != "b" || offers[1].OfferID != "a" || offers[2].OfferID != "c" {
		t.Errorf("order = %s, %s, %s; want b, a, c", offers[0].OfferID, offers[1].OfferID, offers[2].OfferID)
	}
	if !offers[2].OfferTime.IsZero() {
		t.Errorf("offer c time = %v, want zero", offers[2].OfferTime)
	}
}

func TestNormalizeLeagueFilter(t *testing.T) {
	payload := `[
		{"id": "1", "league": "NBA", "player": "Someone", "line": 25.5},
		{"id": "2", "league": "VALORANT Champions", "player": "TenZ", "line": 38.5},
		{"id": "3", "player": "NoLeague", "line": 10.5}
	]`
	offers, err := NewNormalizer([]string{"valorant"}).Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(offers) != 1 || offers[0].OfferID != "2" {
		t.Errorf("offers = %+v, want only the VALORANT row (containment match)", offers)
	}
}

func TestNormalizeCandidateKeysAndAttributes(t *testing.T) {
	// JSON:API style: fields under attributes, alternate key names.
	payload := `{"projections": [
		{"id": "x1", "attributes": {
			"league_name": "val",
			"name": "tenz",
			"market": "Kills",
			"line_score": 38.5,
			"team_name": "sen",
			"opponent_name": "fnc",
			"game_id": "S9",
			"board_ts": 1741000000,
			"offer_time": "1999-01-01T00:00:00Z"
		}}
	]}`
	offers, err := NewNormalizer([]string{"val"}).Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}
	o := offers[0]
	if o.Player != "TenZ" {
		t.Errorf("Player = %q, want TenZ (alias-normalized)", o.Player)
	}
	if o.StatType != "kills" {
		t.Errorf("StatType = %q, want kills", o.StatType)
	}
	if o.Line != 38.5 {
		t.Errorf("Line = %v, want 38.5", o.Line)
	}
	if o.Team != "Sentinels" || o.Opponent != "Fnatic" {
		t.Errorf("Team/Opponent = %q/%q, want Sentinels/Fnatic", o.Team, o.Opponent)
	}
	if o.SeriesID != "S9" {
		t.Errorf("SeriesID = %q, want S9", o.SeriesID)
	}
	// Numeric epoch beats the formatted string.
	if want := time.Unix(1741000000, 0).UTC(); !o.OfferTime.Equal(want) {
		t.Errorf("OfferTime = %v, want %v", o.OfferTime, want)
	}
}

func TestNormalizeDropsLinelessRows(t *testing.T) {
	payload := `[{"id": "1", "league": "val", "player": "TenZ"}]`
	offers, err := NewNormalizer([]string{"val"}).Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("got %d offers, want 0 (no parseable line)", len(offers))
	}
}

func TestNormalizeGeneratesOfferID(t *testing.T) {
	payload := `[{"league": "val", "player": "TenZ", "line": 38.5}]`
	offers, err := NewNormalizer([]string{"val"}).Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(offers) != 1 || offers[0].OfferID == "" {
		t.Errorf("offers = %+v, want one row with a synthesized id", offers)
	}
}

func TestNormalizeScope(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"per-series", "per-series"},
		{"Series", "per-series"},
		{"per-map", "per-map"},
		{"MAP 1", "per-map"},
		{"", "per-map"},
	}
	for _, tt := range tests {
		if got := normalizeScope(tt.in); got != tt.want {
			t.Errorf("normalizeScope(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
