package vlr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/fetch"
	"github.com/akarpenko/propline/internal/pkg/models"
)

// Resolved is one match's reconciled output: context, per-map results, and
// per-map player rows (vetoes ride inside Meta).
type Resolved struct {
	Meta    models.MatchMeta
	Maps    []models.MapResult
	Players []models.PlayerMapRecord
}

// Resolver reconciles the structured API with the scraped page.
type Resolver struct {
	client  *Client
	fetcher *fetch.Fetcher
}

func NewResolver(cfg *config.VLRConfig, fetcher *fetch.Fetcher) *Resolver {
	return &Resolver{
		client:  NewClient(cfg, fetcher),
		fetcher: fetcher,
	}
}

// ResolveMatch resolves one match from an identifier or a page URL.
//
// The structured endpoint is tried first. If it fails outright
// (ErrSourceUnavailable, ErrIncompleteSource) the scrape path takes over
// completely. If it succeeds but returns no maps or no player rows and the
// caller handed us a page URL, the scrape fills in: empty collections are
// wholly replaced, meta fields are filled only where the primary left them
// blank, and vetoes come from whichever source had any, primary preferred.
func (r *Resolver) ResolveMatch(ctx context.Context, locator string) (*Resolved, error) {
	id := MatchID(locator)
	if id == "" {
		return nil, fmt.Errorf("no match identifier in %q", locator)
	}

	primary, err := r.resolveAPI(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrIncompleteSource) {
			slog.Warn("Structured source failed, scraping instead", "match", id, "reason", err)
			pageURL := locator
			if !IsURL(locator) {
				pageURL = r.client.MatchURL(id)
			}
			return r.ScrapeMatch(ctx, pageURL, id)
		}
		return nil, err
	}

	if (len(primary.Maps) == 0 || len(primary.Players) == 0) && IsURL(locator) {
		slog.Info("Structured source is partial, scraping to fill in", "match", id,
			"maps", len(primary.Maps), "players", len(primary.Players))
		fallback, ferr := r.ScrapeMatch(ctx, locator, id)
		if ferr != nil {
			slog.Warn("Scrape fill-in failed, keeping partial structured result", "match", id, "error", ferr)
			return primary, nil
		}
		mergeResolved(primary, fallback)
	}
	return primary, nil
}

// ResolveMatches resolves each locator independently. One match failing is
// logged and skipped; the batch never aborts. All three collections come
// back non-nil so downstream code never tells "no data" from "malformed
// data" apart by shape.
func (r *Resolver) ResolveMatches(ctx context.Context, locators []string) ([]models.MatchMeta, []models.MapResult, []models.PlayerMapRecord) {
	metas := make([]models.MatchMeta, 0, len(locators))
	maps := make([]models.MapResult, 0)
	players := make([]models.PlayerMapRecord, 0)

	for _, locator := range locators {
		res, err := r.ResolveMatch(ctx, locator)
		if err != nil {
			slog.Warn("Skipping match", "locator", locator, "error", err)
			continue
		}
		metas = append(metas, res.Meta)
		maps = append(maps, res.Maps...)
		players = append(players, res.Players...)
	}
	return metas, maps, players
}

func (r *Resolver) resolveAPI(ctx context.Context, id string) (*Resolved, error) {
	payload, err := r.client.FetchMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	meta := extractMeta(payload, id)
	if !meta.Valid() {
		return nil, fmt.Errorf("%w: match %s has no team names", ErrIncompleteSource, id)
	}

	return &Resolved{
		Meta:    meta,
		Maps:    extractMaps(payload, meta),
		Players: extractPlayers(payload, meta),
	}, nil
}

// mergeResolved applies the fill-in policy: fallback replaces only what the
// primary left empty.
func mergeResolved(primary, fallback *Resolved) {
	if len(primary.Maps) == 0 {
		primary.Maps = fallback.Maps
	}
	if len(primary.Players) == 0 {
		primary.Players = fallback.Players
	}

	if primary.Meta.Event == "" {
		primary.Meta.Event = fallback.Meta.Event
	}
	if primary.Meta.Date.IsZero() {
		primary.Meta.Date = fallback.Meta.Date
	}
	if primary.Meta.BoFormat == "" {
		primary.Meta.BoFormat = fallback.Meta.BoFormat
	}
	if primary.Meta.SrcURL == "" {
		primary.Meta.SrcURL = fallback.Meta.SrcURL
	}
	if len(primary.Meta.Vetoes) == 0 {
		primary.Meta.Vetoes = fallback.Meta.Vetoes
	}
}

func extractMeta(payload map[string]any, id string) models.MatchMeta {
	meta := models.MatchMeta{
		MatchID:  id,
		Event:    pickString(payload, "event", "event_name", "tournament"),
		BoFormat: pickString(payload, "bo", "best_of", "format"),
		TeamA:    pickString(payload, "team1", "team_a", "home_team"),
		TeamB:    pickString(payload, "team2", "team_b", "away_team"),
		Vetoes:   pickStrings(payload, "vetoes", "notes", "map_notes"),
		SrcURL:   pickString(payload, "url", "match_url", "link"),
		Date:     extractDate(payload),
	}

	if meta.TeamA == "" || meta.TeamB == "" {
		if teams := pickSlice(payload, "teams"); len(teams) >= 2 {
			if t, ok := asMap(teams[0]); ok && meta.TeamA == "" {
				meta.TeamA = pickString(t, "name", "title", "team")
			}
			if t, ok := asMap(teams[1]); ok && meta.TeamB == "" {
				meta.TeamB = pickString(t, "name", "title", "team")
			}
		}
	}
	return meta
}

// extractDate prefers a numeric epoch timestamp over a pre-formatted string.
func extractDate(payload map[string]any) time.Time {
	if ts, ok := pickNumber(payload, "utc_ts", "unix_timestamp", "timestamp"); ok && ts > 0 {
		return time.Unix(int64(ts), 0).UTC()
	}
	raw := pickString(payload, "date", "match_date", "utc_date")
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

func extractMaps(payload map[string]any, meta models.MatchMeta) []models.MapResult {
	items := pickSlice(payload, "maps", "games", "map_data")
	out := make([]models.MapResult, 0, len(items))

	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		mr := models.MapResult{
			MatchID: meta.MatchID,
			MapNum:  i + 1,
			MapName: pickString(m, "map", "map_name", "name"),
			Score:   extractScore(m),
		}
		if num, ok := pickNumber(m, "map_num", "game_num"); ok && num >= 1 {
			mr.MapNum = int(num)
		}
		mr.Winner = inferWinner(mr.Score, meta.TeamA, meta.TeamB)
		if w := pickString(m, "winner", "won_by"); w != "" && (w == meta.TeamA || w == meta.TeamB) {
			mr.Winner = w
		}
		mr.PickedBy = inferPickedBy(meta.Vetoes, mr.MapName, meta.TeamA, meta.TeamB)
		out = append(out, mr)
	}
	return out
}

func extractScore(m map[string]any) string {
	if s := pickString(m, "score", "map_score"); s != "" {
		if a, b, ok := parseScore(s); ok {
			return strconv.Itoa(a) + "-" + strconv.Itoa(b)
		}
		return s
	}
	a, okA := pickNumber(m, "team1_score", "team_a_score", "score1")
	b, okB := pickNumber(m, "team2_score", "team_b_score", "score2")
	if okA && okB {
		return strconv.Itoa(int(a)) + "-" + strconv.Itoa(int(b))
	}
	return ""
}

// inferWinner resolves a winner only when the score parses; ties and
// unparseable scores stay blank. The winner is always one of the two match
// teams by construction.
func inferWinner(score, teamA, teamB string) string {
	a, b, ok := parseScore(score)
	if !ok {
		return ""
	}
	switch {
	case a > b:
		return teamA
	case b > a:
		return teamB
	}
	return ""
}

func extractPlayers(payload map[string]any, meta models.MatchMeta) []models.PlayerMapRecord {
	items := pickSlice(payload, "players", "player_stats", "stats")
	if items == nil {
		// Some schema revisions nest player rows under each map.
		for _, mi := range pickSlice(payload, "maps", "games", "map_data") {
			if m, ok := asMap(mi); ok {
				items = append(items, pickSlice(m, "players", "player_stats")...)
			}
		}
	}

	out := make([]models.PlayerMapRecord, 0, len(items))
	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		rec := models.PlayerMapRecord{
			MatchID: meta.MatchID,
			MapNum:  i/10 + 1, // ten rows per map when the schema gives no map index
			Date:    meta.Date,
			Player:  pickString(m, "player", "player_name", "name"),
			Team:    pickString(m, "team", "team_name"),
			MapName: pickString(m, "map", "map_name"),
			Agent:   pickString(m, "agent", "character"),
			ACS:     models.Missing(),
			RoundsPlayed: models.Missing(),
		}
		if rec.Player == "" {
			continue
		}
		if num, ok := pickNumber(m, "map_num", "game_num"); ok && num >= 1 {
			rec.MapNum = int(num)
		}
		if v, ok := pickNumber(m, "kills", "k"); ok {
			rec.Kills = int(v)
		}
		if v, ok := pickNumber(m, "deaths", "d"); ok {
			rec.Deaths = int(v)
		}
		if v, ok := pickNumber(m, "assists", "a"); ok {
			rec.Assists = int(v)
		}
		if v, ok := pickNumber(m, "acs", "combat_score", "average_combat_score"); ok {
			rec.ACS = v
		}
		if v, ok := pickNumber(m, "rounds", "rounds_played"); ok {
			rec.RoundsPlayed = v
		}
		rec.Opponent = opponentOf(rec.Team, meta)
		out = append(out, rec)
	}
	return out
}

func opponentOf(team string, meta models.MatchMeta) string {
	switch team {
	case meta.TeamA:
		return meta.TeamB
	case meta.TeamB:
		return meta.TeamA
	}
	return ""
}
