package vlr

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/akarpenko/propline/internal/pkg/models"
)

// ScrapeMatch fetches the match page (through the disk cache) and rebuilds
// the match from its markup. Per-row parsing never knows the match id, so
// every extracted row receives it after parsing, and player dates are
// back-filled from the match date.
func (r *Resolver) ScrapeMatch(ctx context.Context, pageURL, id string) (*Resolved, error) {
	body, err := r.fetcher.Page(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch match page: %w", err)
	}

	res, err := parseMatchPage(body, pageURL)
	if err != nil {
		return nil, err
	}

	res.Meta.MatchID = id
	for i := range res.Maps {
		res.Maps[i].MatchID = id
	}
	for i := range res.Players {
		res.Players[i].MatchID = id
		res.Players[i].Date = res.Meta.Date
	}
	return res, nil
}

// parseMatchPage reconstructs a match from page markup using structural
// markers: header elements for teams, per-map stat blocks, and one two-team
// table pair per map. Field extraction is best-effort; a fragment that does
// not match leaves its field blank.
func parseMatchPage(body []byte, srcURL string) (*Resolved, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse match page: %w", err)
	}

	meta := scrapeMeta(doc, srcURL)
	if !meta.Valid() {
		return nil, fmt.Errorf("match page yielded no team names (%s)", srcURL)
	}

	res := &Resolved{Meta: meta}
	mapNum := 0
	doc.Find(".vm-stats-game").Each(func(_ int, block *goquery.Selection) {
		// The "all maps" overview block aggregates the series; skip it.
		if gameID, _ := block.Attr("data-game-id"); gameID == "all" {
			return
		}
		mapNum++
		mr := scrapeMapBlock(block, mapNum, meta)
		res.Maps = append(res.Maps, mr)
		res.Players = append(res.Players, scrapePlayerTables(block, mapNum, mr.MapName, meta)...)
	})

	return res, nil
}

func scrapeMeta(doc *goquery.Document, srcURL string) models.MatchMeta {
	meta := models.MatchMeta{SrcURL: srcURL}

	// Team names: first two non-empty header elements.
	headers := []string{}
	doc.Find(".match-header-link .wf-title-med, .match-header .team-name, h1, h2").
		EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if text := cleanText(sel.Text()); text != "" {
				headers = append(headers, text)
			}
			return len(headers) < 2
		})
	if len(headers) >= 1 {
		meta.TeamA = headers[0]
	}
	if len(headers) >= 2 {
		meta.TeamB = headers[1]
	}

	meta.Event = cleanText(doc.Find(".match-header-event div div").First().Text())
	if meta.Event == "" {
		meta.Event = cleanText(doc.Find(".match-header-event").First().Text())
	}

	if ts, ok := doc.Find("[data-utc-ts]").First().Attr("data-utc-ts"); ok {
		if t, err := time.Parse("2006-01-02 15:04:05", strings.TrimSpace(ts)); err == nil {
			meta.Date = t.UTC()
		}
	}

	doc.Find(".match-header-vs-note").Each(func(_ int, sel *goquery.Selection) {
		if meta.BoFormat == "" {
			meta.BoFormat = parseBoFormat(sel.Text())
		}
	})

	doc.Find(".match-header-note").Each(func(_ int, sel *goquery.Selection) {
		if note := cleanText(sel.Text()); note != "" {
			meta.Vetoes = append(meta.Vetoes, note)
		}
	})

	return meta
}

func scrapeMapBlock(block *goquery.Selection, mapNum int, meta models.MatchMeta) models.MapResult {
	mr := models.MapResult{MapNum: mapNum}

	mr.MapName = firstToken(block.Find(".map span").First().Text())
	if mr.MapName == "" {
		mr.MapName = firstToken(block.Find(".map").First().Text())
	}

	// Score: first integer-dash-integer pattern in the block header, falling
	// back to the whole block text.
	headerText := block.Find(".vm-stats-game-header").Text()
	if headerText == "" {
		headerText = block.Text()
	}
	if a, b, ok := parseScore(headerText); ok {
		mr.Score = strconv.Itoa(a) + "-" + strconv.Itoa(b)
		mr.Winner = inferWinner(mr.Score, meta.TeamA, meta.TeamB)
	}

	mr.PickedBy = inferPickedBy(meta.Vetoes, mr.MapName, meta.TeamA, meta.TeamB)
	return mr
}

// scrapePlayerTables reads the two per-team statistic tables of one map
// block. The first table belongs to the first header team.
func scrapePlayerTables(block *goquery.Selection, mapNum int, mapName string, meta models.MatchMeta) []models.PlayerMapRecord {
	var out []models.PlayerMapRecord

	block.Find("table").Each(func(tableIdx int, table *goquery.Selection) {
		team, opponent := meta.TeamA, meta.TeamB
		if tableIdx%2 == 1 {
			team, opponent = meta.TeamB, meta.TeamA
		}

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			rec := scrapePlayerRow(row, team, opponent, mapNum, mapName)
			if rec.Player != "" {
				out = append(out, rec)
			}
		})
	})
	return out
}

func scrapePlayerRow(row *goquery.Selection, team, opponent string, mapNum int, mapName string) models.PlayerMapRecord {
	rec := models.PlayerMapRecord{
		MapNum:       mapNum,
		MapName:      mapName,
		Team:         team,
		Opponent:     opponent,
		ACS:          models.Missing(),
		RoundsPlayed: models.Missing(),
	}

	rec.Player = firstToken(row.Find(".mod-player, td").First().Text())

	// Agent comes from an icon's alternate text when the row carries one.
	rec.Agent = strings.TrimSpace(row.Find("img").First().AttrOr("alt", ""))

	// Adjacent cells have no separating text nodes; join them explicitly so
	// tokens from different columns cannot fuse into one bogus number.
	rowText := strings.Join(row.Find("td").Map(func(_ int, cell *goquery.Selection) string {
		return strings.TrimSpace(cell.Text())
	}), " ")
	if k, d, a, ok := parseKDA(rowText); ok {
		rec.Kills, rec.Deaths, rec.Assists = k, d, a
	}
	if acs, ok := parseACS(rowText); ok {
		rec.ACS = acs
	}
	return rec
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
