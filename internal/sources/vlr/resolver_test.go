package vlr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/fetch"
	"github.com/akarpenko/propline/internal/pkg/models"
)

func testResolver(t *testing.T, srvURL string) *Resolver {
	t.Helper()
	cache, err := fetch.NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	fetcher := fetch.NewFetcher(&config.FetchConfig{
		Timeout:   5 * time.Second,
		MinDelay:  time.Millisecond,
		UserAgent: "propline-test",
	}, cache)
	return NewResolver(&config.VLRConfig{
		APIBase: srvURL + "/api",
		WebBase: srvURL + "/web",
	}, fetcher)
}

func TestFetchMatchTriesCandidateShapes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/match", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/match/1001", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"team1": "Sentinels", "team2": "Fnatic"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := testResolver(t, srv.URL)
	payload, err := r.client.FetchMatch(context.Background(), "1001")
	if err != nil {
		t.Fatalf("FetchMatch: %v", err)
	}
	if got := pickString(payload, "team1"); got != "Sentinels" {
		t.Errorf("team1 = %q, want Sentinels (envelope should be unwrapped)", got)
	}
}

func TestFetchMatchAllShapesFail(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r := testResolver(t, srv.URL)
	_, err := r.client.FetchMatch(context.Background(), "1001")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}

func TestResolveAPIIncomplete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/match", func(w http.ResponseWriter, r *http.Request) {
		// Parses fine but has no team names.
		w.Write([]byte(`{"event": "Champions", "maps": []}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := testResolver(t, srv.URL)
	_, err := r.resolveAPI(context.Background(), "1001")
	if !errors.Is(err, ErrIncompleteSource) {
		t.Errorf("error = %v, want ErrIncompleteSource", err)
	}
}

func TestResolveMatchFallsBackToScrape(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/web/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureMatchPage))
	})
	// No API routes at all: structured source is unavailable.
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := testResolver(t, srv.URL)
	res, err := r.ResolveMatch(context.Background(), "458127")
	if err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}
	if res.Meta.MatchID != "458127" {
		t.Errorf("MatchID = %q, want 458127", res.Meta.MatchID)
	}
	if res.Meta.TeamA != "Sentinels" || res.Meta.TeamB != "Fnatic" {
		t.Errorf("teams = %q/%q, want Sentinels/Fnatic", res.Meta.TeamA, res.Meta.TeamB)
	}
	if len(res.Players) == 0 {
		t.Fatal("no player rows scraped")
	}
	for _, p := range res.Players {
		if p.MatchID != "458127" {
			t.Errorf("player %s MatchID = %q, want 458127 (post-parse assignment)", p.Player, p.MatchID)
		}
		if !p.Date.Equal(res.Meta.Date) {
			t.Errorf("player %s date = %v, want back-filled %v", p.Player, p.Date, res.Meta.Date)
		}
	}
}

func TestMergePolicy(t *testing.T) {
	primary := &Resolved{
		Meta: models.MatchMeta{MatchID: "1", TeamA: "Sentinels", TeamB: "Fnatic", Event: "Champions"},
		Players: []models.PlayerMapRecord{
			{MatchID: "1", Player: "TenZ", Kills: 20},
		},
	}
	fallback := &Resolved{
		Meta: models.MatchMeta{
			MatchID: "1", TeamA: "Sentinels", TeamB: "Fnatic",
			Event: "scraped event", BoFormat: "bo3",
			Vetoes: []string{"SEN pick Ascent"},
		},
		Maps: []models.MapResult{
			{MatchID: "1", MapNum: 1, MapName: "Ascent"},
		},
		Players: []models.PlayerMapRecord{
			{MatchID: "1", Player: "someone-else", Kills: 99},
		},
	}

	mergeResolved(primary, fallback)

	if len(primary.Maps) != 1 || primary.Maps[0].MapName != "Ascent" {
		t.Errorf("Maps = %+v, want the fallback's maps", primary.Maps)
	}
	if len(primary.Players) != 1 || primary.Players[0].Player != "TenZ" {
		t.Errorf("Players = %+v, non-empty primary collection must not be overwritten", primary.Players)
	}
	if primary.Meta.Event != "Champions" {
		t.Errorf("Event = %q, non-blank primary meta field must not be overwritten", primary.Meta.Event)
	}
	if primary.Meta.BoFormat != "bo3" {
		t.Errorf("BoFormat = %q, blank primary meta field should be filled", primary.Meta.BoFormat)
	}
	if len(primary.Meta.Vetoes) != 1 {
		t.Errorf("Vetoes = %v, want the fallback's (primary had none)", primary.Meta.Vetoes)
	}
}

func TestResolveMatchesBatchSkipsFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/match", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "1001", "1002":
			w.Write([]byte(`{
				"team1": "Sentinels", "team2": "Fnatic", "event": "Champions",
				"utc_ts": 1741000000,
				"maps": [{"map": "Ascent", "score": "13-7"}],
				"players": [{"player": "TenZ", "team": "Sentinels", "map": "Ascent", "kills": 20, "deaths": 10, "assists": 3}]
			}`))
		default:
			http.NotFound(w, r)
		}
	})
	// No /web routes: the failing id cannot scrape either.
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := testResolver(t, srv.URL)
	metas, maps, players := r.ResolveMatches(context.Background(), []string{"1001", "9999", "1002"})

	if len(metas) != 2 {
		t.Errorf("got %d metas, want 2 (failing match skipped, batch not aborted)", len(metas))
	}
	if len(maps) != 2 || len(players) != 2 {
		t.Errorf("got %d maps / %d players, want 2/2", len(maps), len(players))
	}
}

func TestResolveMatchesAllFailingStillShaped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r := testResolver(t, srv.URL)
	metas, maps, players := r.ResolveMatches(context.Background(), []string{"1", "2"})
	if metas == nil || maps == nil || players == nil {
		t.Error("aggregated collections must be empty but non-nil")
	}
	if len(metas) != 0 || len(maps) != 0 || len(players) != 0 {
		t.Errorf("got %d/%d/%d rows, want 0/0/0", len(metas), len(maps), len(players))
	}
}

func TestExtractMetaCandidateKeysAndEpochPriority(t *testing.T) {
	payload := map[string]any{
		"team_a": "Sentinels", // second candidate key
		"team2":  "Fnatic",    // first candidate key
		"event_name": "Champions 2025",
		"utc_ts": float64(1741000000),
		"date":   "1999-01-01", // epoch must win over the formatted string
	}
	meta := extractMeta(payload, "77")

	if meta.TeamA != "Sentinels" || meta.TeamB != "Fnatic" {
		t.Errorf("teams = %q/%q", meta.TeamA, meta.TeamB)
	}
	if meta.Event != "Champions 2025" {
		t.Errorf("Event = %q", meta.Event)
	}
	want := time.Unix(1741000000, 0).UTC()
	if !meta.Date.Equal(want) {
		t.Errorf("Date = %v, want epoch-derived %v", meta.Date, want)
	}
}

func TestExtractMetaTeamsList(t *testing.T) {
	payload := map[string]any{
		"teams": []any{
			map[string]any{"name": "Sentinels"},
			map[string]any{"name": "Fnatic"},
		},
	}
	meta := extractMeta(payload, "77")
	if meta.TeamA != "Sentinels" || meta.TeamB != "Fnatic" {
		t.Errorf("teams = %q/%q, want Sentinels/Fnatic from teams list", meta.TeamA, meta.TeamB)
	}
}

func TestExtractMapsWinnerValidation(t *testing.T) {
	meta := models.MatchMeta{MatchID: "1", TeamA: "Sentinels", TeamB: "Fnatic"}
	payload := map[string]any{
		"maps": []any{
			map[string]any{"map": "Ascent", "score": "13-7"},
			map[string]any{"map": "Haven", "score": "7-13", "winner": "Some Other Team"},
			map[string]any{"map": "Bind"},
		},
	}
	maps := extractMaps(payload, meta)
	if len(maps) != 3 {
		t.Fatalf("got %d maps, want 3", len(maps))
	}
	if maps[0].Winner != "Sentinels" {
		t.Errorf("map 1 winner = %q, want Sentinels", maps[0].Winner)
	}
	// A winner key naming a non-match team must not survive; score says Fnatic.
	if maps[1].Winner != "Fnatic" {
		t.Errorf("map 2 winner = %q, want Fnatic", maps[1].Winner)
	}
	if maps[2].Winner != "" || maps[2].Score != "" {
		t.Errorf("map 3 = %+v, want blank score and winner", maps[2])
	}
}
