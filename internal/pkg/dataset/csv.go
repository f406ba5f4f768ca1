// Package dataset loads sample corpora from CSV so the feature engine,
// bet card, and trainer work without network access. Column parsing follows
// the missing-sentinel convention: an absent or unparseable numeric cell
// becomes the sentinel, never an error for the whole file.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akarpenko/propline/internal/pkg/models"
)

type table struct {
	header map[string]int
	rows   [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s has no header row", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return &table{header: header, rows: records[1:]}, nil
}

func (t *table) str(row []string, col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) num(row []string, col string) float64 {
	s := t.str(row, col)
	if s == "" {
		return models.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.Missing()
	}
	return v
}

func (t *table) intval(row []string, col string) int {
	v := t.num(row, col)
	if models.IsMissing(v) {
		return 0
	}
	return int(v)
}

func (t *table) date(row []string, col string) time.Time {
	s := t.str(row, col)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d.UTC()
		}
	}
	return time.Time{}
}

// LoadPlayerMaps reads per-map player records.
func LoadPlayerMaps(path string) ([]models.PlayerMapRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.PlayerMapRecord, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, models.PlayerMapRecord{
			MatchID:      t.str(row, "match_id"),
			MapNum:       t.intval(row, "map_num"),
			Date:         t.date(row, "date"),
			Player:       t.str(row, "player"),
			Team:         t.str(row, "team"),
			Opponent:     t.str(row, "opponent"),
			MapName:      t.str(row, "map_name"),
			Agent:        t.str(row, "agent"),
			Kills:        t.intval(row, "kills"),
			Deaths:       t.intval(row, "deaths"),
			Assists:      t.intval(row, "assists"),
			ACS:          t.num(row, "acs"),
			RoundsPlayed: t.num(row, "rounds_played"),
		})
	}
	return out, nil
}

// LoadMapPool reads the wide map-pool table: one column per map name next to
// the match_id and team identifier columns.
func LoadMapPool(path string) ([]models.MapPoolRow, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.MapPoolRow, 0, len(t.rows))
	for _, row := range t.rows {
		pr := models.MapPoolRow{
			MatchID: t.str(row, "match_id"),
			Team:    t.str(row, "team"),
			Probs:   make(map[string]float64),
		}
		for col := range t.header {
			if col == "match_id" || col == "team" {
				continue
			}
			if v := t.num(row, col); !models.IsMissing(v) {
				pr.Probs[canonicalMapColumn(col)] = v
			}
		}
		out = append(out, pr)
	}
	return out, nil
}

// LoadOffers reads sample offers.
func LoadOffers(path string) ([]models.Offer, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.Offer, 0, len(t.rows))
	for _, row := range t.rows {
		line := t.num(row, "line")
		if models.IsMissing(line) {
			continue
		}
		out = append(out, models.Offer{
			OfferID:   t.str(row, "offer_id"),
			Player:    t.str(row, "player"),
			StatType:  strings.ToLower(t.str(row, "stat_type")),
			Line:      line,
			Team:      t.str(row, "team"),
			Opponent:  t.str(row, "opponent"),
			SeriesID:  t.str(row, "series_id"),
			MapScope:  t.str(row, "map_scope"),
			OfferTime: t.date(row, "offer_time"),
		})
	}
	return out, nil
}

// canonicalMapColumn restores display casing for a lowercased header cell
// ("ascent" -> "Ascent") so pool keys line up with scraped map names.
func canonicalMapColumn(col string) string {
	if col == "" {
		return col
	}
	return strings.ToUpper(col[:1]) + col[1:]
}
