package models

import (
	"strings"
	"time"
)

// PlayerMapRecord is one player's statistics for one map within one match.
// (MatchID, MapNum, Player) uniquely identifies a record once MatchID is set.
// Scraper-parsed rows are created with an empty MatchID and receive it after
// parsing, before they are merged into the stored corpus.
type PlayerMapRecord struct {
	MatchID      string    `json:"match_id"`
	MapNum       int       `json:"map_num"` // 1-based within the match
	Date         time.Time `json:"date"`
	Player       string    `json:"player"`
	Team         string    `json:"team"`
	Opponent     string    `json:"opponent"`
	MapName      string    `json:"map_name"`
	Agent        string    `json:"agent"` // empty when unknown
	Kills        int       `json:"kills"`
	Deaths       int       `json:"deaths"`
	Assists      int       `json:"assists"`
	ACS          float64   `json:"acs"`           // per-round combat score, Missing() when unknown
	RoundsPlayed float64   `json:"rounds_played"` // Missing() when unknown
}

// Stat returns the named statistic as a float64, or the missing sentinel for
// an unknown stat name. Stat names are matched case-insensitively.
func (r PlayerMapRecord) Stat(name string) float64 {
	switch strings.ToLower(name) {
	case "kills":
		return float64(r.Kills)
	case "deaths":
		return float64(r.Deaths)
	case "assists":
		return float64(r.Assists)
	case "acs":
		return r.ACS
	case "rounds_played":
		return r.RoundsPlayed
	}
	return Missing()
}

// MapResult is one map within a match.
type MapResult struct {
	MatchID  string `json:"match_id"`
	MapNum   int    `json:"map_num"`
	MapName  string `json:"map_name"`
	Winner   string `json:"winner"`    // inferred from score, empty when not parseable
	Score    string `json:"score"`     // "A-B", empty when not parseable
	PickedBy string `json:"picked_by"` // inferred from veto notes, empty when unknown
	// FirstPickOrder is always empty. Placeholder for veto-order tracking.
	FirstPickOrder string `json:"first_pick_order"`
}

// MatchMeta is one match's context.
type MatchMeta struct {
	MatchID  string    `json:"match_id"`
	Event    string    `json:"event"`
	Date     time.Time `json:"date"`
	BoFormat string    `json:"bo_format"`
	TeamA    string    `json:"team_a"`
	TeamB    string    `json:"team_b"`
	Vetoes   []string  `json:"vetoes"`
	SrcURL   string    `json:"src_url"`
}

// Valid reports whether the meta identifies both teams. Acquisition treats a
// meta without both team names as unusable.
func (m MatchMeta) Valid() bool {
	return m.TeamA != "" && m.TeamB != ""
}

// MapPoolRow is a per-team map-pick probability distribution for one match.
// Maps absent from Probs implicitly have probability 0. Probabilities need
// not sum to 1: mixture expectation normalizes by the probability mass it
// actually matched to per-map data.
type MapPoolRow struct {
	MatchID string             `json:"match_id"`
	Team    string             `json:"team"`
	Probs   map[string]float64 `json:"probs"`
}
