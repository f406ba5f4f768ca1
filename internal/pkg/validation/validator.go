// Package validation checks resolved records before they reach storage or
// the feature corpus. Scraped pages and drifting API schemas produce rows
// with control characters, absurd stat values, or no identity at all; the
// validator drops the unusable ones and cleans the rest.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akarpenko/propline/internal/pkg/models"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// Reasonable per-map bounds. Values outside are parser artifacts, not play.
const (
	maxKillsPerMap  = 60
	maxRoundsPerMap = 40
	maxACS          = 600
)

// CleanString strips control characters and collapses whitespace.
func CleanString(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ValidateMeta reports whether a match meta row is storable.
func ValidateMeta(m *models.MatchMeta) error {
	m.MatchID = CleanString(m.MatchID)
	m.Event = CleanString(m.Event)
	m.TeamA = CleanString(m.TeamA)
	m.TeamB = CleanString(m.TeamB)

	if m.MatchID == "" {
		return fmt.Errorf("match meta has no match id")
	}
	if !m.Valid() {
		return fmt.Errorf("match %s is missing a team name", m.MatchID)
	}
	if m.TeamA == m.TeamB {
		return fmt.Errorf("match %s has identical teams %q", m.MatchID, m.TeamA)
	}
	return nil
}

// ValidateMapResult reports whether a map result row is storable.
func ValidateMapResult(m *models.MapResult) error {
	m.MapName = CleanString(m.MapName)
	m.Winner = CleanString(m.Winner)

	if m.MatchID == "" {
		return fmt.Errorf("map result has no match id")
	}
	if m.MapNum <= 0 {
		return fmt.Errorf("match %s has map number %d", m.MatchID, m.MapNum)
	}
	return nil
}

// ValidatePlayerRecord reports whether a per-map player row is storable.
// Out-of-range stat values are replaced with the missing sentinel rather
// than rejecting the row.
func ValidatePlayerRecord(r *models.PlayerMapRecord) error {
	r.Player = CleanString(r.Player)
	r.Team = CleanString(r.Team)
	r.Opponent = CleanString(r.Opponent)

	if r.MatchID == "" || r.Player == "" {
		return fmt.Errorf("player record is missing identity: match=%q player=%q", r.MatchID, r.Player)
	}
	if r.MapNum <= 0 {
		return fmt.Errorf("player %s has map number %d", r.Player, r.MapNum)
	}
	if r.Kills < 0 || r.Kills > maxKillsPerMap ||
		r.Deaths < 0 || r.Deaths > maxKillsPerMap ||
		r.Assists < 0 || r.Assists > maxKillsPerMap {
		return fmt.Errorf("player %s has implausible kda %d/%d/%d", r.Player, r.Kills, r.Deaths, r.Assists)
	}
	if !models.IsMissing(r.ACS) && (r.ACS < 0 || r.ACS > maxACS) {
		r.ACS = models.Missing()
	}
	if !models.IsMissing(r.RoundsPlayed) && (r.RoundsPlayed <= 0 || r.RoundsPlayed > maxRoundsPerMap) {
		r.RoundsPlayed = models.Missing()
	}
	return nil
}
