// Package aliases maps shorthand team and player names onto the canonical
// names used by the historical record corpus, so offers and records join
// cleanly regardless of which spelling an upstream used.
package aliases

import "strings"

var teamAliases = map[string]string{
	"sen":  "Sentinels",
	"nrg":  "NRG",
	"fnc":  "Fnatic",
	"tl":   "Team Liquid",
	"prx":  "Paper Rex",
	"eg":   "Evil Geniuses",
	"100t": "100 Thieves",
}

var playerAliases = map[string]string{
	"tenz":  "TenZ",
	"derke": "Derke",
}

// CanonicalTeam resolves a team name or shorthand to its canonical form.
// Unknown names pass through trimmed but otherwise unchanged.
func CanonicalTeam(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := teamAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// CanonicalPlayer resolves a player name to its canonical form.
func CanonicalPlayer(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := playerAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
