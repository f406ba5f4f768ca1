package vlr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/akarpenko/propline/internal/pkg/aliases"
)

// Free-text extraction from scraped pages is heuristic by nature. Each field
// gets its own small matcher with a "no match, no value" contract, so one
// unparseable fragment never takes the row down with it.

var (
	digitsRe = regexp.MustCompile(`\d+`)
	scoreRe  = regexp.MustCompile(`(\d+)\s*[-–:]\s*(\d+)`)
	kdaRe    = regexp.MustCompile(`(\d+)\s*/\s*(\d+)\s*/\s*(\d+)`)
	acsRe    = regexp.MustCompile(`\b(\d{2,3})\b`)
	boRe     = regexp.MustCompile(`(?i)\bbo\s*([0-9])\b`)
)

// firstDigitRun returns the first run of digits in s, or "".
func firstDigitRun(s string) string {
	return digitsRe.FindString(s)
}

// parseScore extracts the first integer-dash-integer pattern.
func parseScore(s string) (a, b int, ok bool) {
	m := scoreRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	a, _ = strconv.Atoi(m[1])
	b, _ = strconv.Atoi(m[2])
	return a, b, true
}

// parseKDA extracts the first int/int/int triple.
func parseKDA(s string) (kills, deaths, assists int, ok bool) {
	m := kdaRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, false
	}
	kills, _ = strconv.Atoi(m[1])
	deaths, _ = strconv.Atoi(m[2])
	assists, _ = strconv.Atoi(m[3])
	return kills, deaths, assists, true
}

// parseACS extracts the first standalone 2-3 digit token not already consumed
// by the KDA triple.
func parseACS(s string) (float64, bool) {
	if loc := kdaRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + " " + s[loc[1]:]
	}
	m := acsRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseBoFormat normalizes a "best of" mention in free text ("Bo3", "bo 5").
func parseBoFormat(s string) string {
	m := boRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return "bo" + m[1]
}

// inferPickedBy scans veto notes for a line naming mapName together with the
// word "pick" and returns whichever of the two teams that line mentions.
// Notes are free text ("SEN pick Ascent; FNC pick Haven; ..."), so matching
// is containment in either direction, case-insensitive.
func inferPickedBy(notes []string, mapName, teamA, teamB string) string {
	if mapName == "" {
		return ""
	}
	lowMap := strings.ToLower(mapName)
	for _, note := range notes {
		for _, clause := range strings.Split(note, ";") {
			low := strings.ToLower(clause)
			if !strings.Contains(low, "pick") || !strings.Contains(low, lowMap) {
				continue
			}
			if team := teamMentioned(low, teamA); team != "" {
				return team
			}
			if team := teamMentioned(low, teamB); team != "" {
				return team
			}
		}
	}
	return ""
}

func teamMentioned(clause, team string) string {
	if team == "" {
		return ""
	}
	lowTeam := strings.ToLower(team)
	if strings.Contains(clause, lowTeam) {
		return team
	}
	// Notes usually abbreviate ("SEN pick Ascent"): try the alias table, then
	// a plain prefix of the full name.
	for _, tok := range strings.Fields(clause) {
		if len(tok) < 2 {
			continue
		}
		if strings.EqualFold(aliases.CanonicalTeam(tok), team) {
			return team
		}
		if strings.HasPrefix(lowTeam, tok) {
			return team
		}
	}
	return ""
}
