package models

import "time"

// Map scope of an offer's line.
const (
	MapScopePerMap    = "per-map"
	MapScopePerSeries = "per-series"
)

// Offer is a single statistic-line proposition to evaluate. Offers are
// ephemeral market state: rebuilt on every acquisition cycle, never mutated.
type Offer struct {
	OfferID   string    `json:"offer_id"`
	Player    string    `json:"player"`
	StatType  string    `json:"stat_type"`
	Line      float64   `json:"line"`
	Team      string    `json:"team"`
	Opponent  string    `json:"opponent"`
	SeriesID  string    `json:"series_id"` // matches MatchMeta.MatchID
	MapScope  string    `json:"map_scope"` // per-map or per-series
	OfferTime time.Time `json:"offer_time"`
}
