package features

import (
	"github.com/akarpenko/propline/internal/pkg/models"
)

// Defaults used when assembling feature rows for offers.
const (
	DefaultLastN     = 15
	DefaultH2HWindow = 10
)

// Row is one offer's engineered features, the input of the baseline model
// and of the bet-card rendering.
type Row struct {
	OfferID    string
	Player     string
	Opponent   string
	Stat       string
	Line       float64
	LastNMean  float64
	LastNStd   float64
	H2HRate    float64
	MapMixMu   float64
	// Over is the demo label: last-N mean strictly above the line. Synthetic,
	// good enough for wiring the trainer end to end, useless for real stakes.
	Over bool
}

// BuildFrame assembles one feature row per offer. Pool rows are matched on
// (series id, team); an offer without a matching pool row gets a missing
// mixture expectation.
func BuildFrame(offers []models.Offer, records []models.PlayerMapRecord, pools []models.MapPoolRow) []Row {
	rows := make([]Row, 0, len(offers))
	for _, off := range offers {
		lastN := LastN(records, off.Player, off.StatType, DefaultLastN)
		h2h := HeadToHeadRate(records, off.Player, off.Opponent, off.Line, off.StatType, DefaultH2HWindow)
		mix := MapMixture(records, off.Player, poolRowFor(pools, off.SeriesID, off.Team), off.StatType)

		rows = append(rows, Row{
			OfferID:   off.OfferID,
			Player:    off.Player,
			Opponent:  off.Opponent,
			Stat:      off.StatType,
			Line:      off.Line,
			LastNMean: lastN.Mean,
			LastNStd:  lastN.Std,
			H2HRate:   h2h.OverRate,
			MapMixMu:  mix.Mu,
			Over:      !models.IsMissing(lastN.Mean) && lastN.Mean > off.Line,
		})
	}
	return rows
}

func poolRowFor(pools []models.MapPoolRow, seriesID, team string) models.MapPoolRow {
	for _, p := range pools {
		if p.MatchID == seriesID && p.Team == team {
			return p
		}
	}
	return models.MapPoolRow{}
}
