// Package features computes point estimates over the historical record
// corpus. All functions are pure and never fail on missing data: filtered-to
// -empty inputs return the missing sentinel for every numeric field, so "no
// data" is always distinguishable from a real zero.
package features

import (
	"math"
	"sort"

	"github.com/akarpenko/propline/internal/pkg/models"
)

// LastNFeatures summarizes a player's most recent qualifying maps.
type LastNFeatures struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"` // sample std (Bessel); exactly 0 when Count == 1
}

// HeadToHead is the over-rate of a player against one opponent.
type HeadToHead struct {
	Count    int     `json:"h2h_count"`
	OverRate float64 `json:"h2h_over_rate"` // Missing() when Count == 0, never 0
}

// MapEstimate is one map's contribution to a mixture expectation.
type MapEstimate struct {
	Prob float64 `json:"p"`
	Mean float64 `json:"mu"` // Missing() when the player has no history on the map
}

// Mixture is a probability-weighted per-map expectation plus its breakdown.
type Mixture struct {
	Mu     float64                `json:"map_mixture_mu"`
	PerMap map[string]MapEstimate `json:"per_map"`
}

// LastN filters records to the player, orders by date descending, takes the
// first n, and summarizes the named stat. Records whose stat value is itself
// missing do not qualify. No interpolation, no outlier handling.
func LastN(records []models.PlayerMapRecord, player, stat string, n int) LastNFeatures {
	values := recentStats(records, player, "", stat, n)
	if len(values) == 0 {
		return LastNFeatures{Count: 0, Mean: models.Missing(), Median: models.Missing(), Std: models.Missing()}
	}
	return LastNFeatures{
		Count:  len(values),
		Mean:   mean(values),
		Median: median(values),
		Std:    sampleStd(values),
	}
}

// HeadToHeadRate filters to the player against the given opponent, orders by
// date descending, takes the first window records, and returns the fraction
// whose stat strictly exceeds line. Zero qualifying records yields a missing
// rate — never 0, which would read as "certain under".
func HeadToHeadRate(records []models.PlayerMapRecord, player, opponent string, line float64, stat string, window int) HeadToHead {
	values := recentStats(records, player, opponent, stat, window)
	if len(values) == 0 {
		return HeadToHead{Count: 0, OverRate: models.Missing()}
	}
	over := 0
	for _, v := range values {
		if v > line {
			over++
		}
	}
	return HeadToHead{Count: len(values), OverRate: float64(over) / float64(len(values))}
}

// MapMixture accumulates probability-weighted per-map means for every map in
// the pool row with strictly positive probability. Maps where the player has
// no history contribute nothing to the estimate or its normalizer but still
// appear in the breakdown with a missing mean, so a consumer can show what
// was considered without corrupting the expectation.
func MapMixture(records []models.PlayerMapRecord, player string, pool models.MapPoolRow, stat string) Mixture {
	perMap := make(map[string]MapEstimate)
	weighted := 0.0
	totalP := 0.0

	for mapName, p := range pool.Probs {
		if p <= 0 {
			continue
		}
		mu := mapMean(records, player, mapName, stat)
		perMap[mapName] = MapEstimate{Prob: p, Mean: mu}
		if !models.IsMissing(mu) {
			weighted += p * mu
			totalP += p
		}
	}

	if totalP == 0 {
		return Mixture{Mu: models.Missing(), PerMap: perMap}
	}
	return Mixture{Mu: weighted / totalP, PerMap: perMap}
}

// recentStats collects the stat values of the player's most recent records,
// newest first, up to limit. opponent narrows the filter when non-empty.
func recentStats(records []models.PlayerMapRecord, player, opponent, stat string, limit int) []float64 {
	matched := make([]models.PlayerMapRecord, 0, limit)
	for _, r := range records {
		if r.Player != player {
			continue
		}
		if opponent != "" && r.Opponent != opponent {
			continue
		}
		if models.IsMissing(r.Stat(stat)) {
			continue
		}
		matched = append(matched, r)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	values := make([]float64, len(matched))
	for i, r := range matched {
		values[i] = r.Stat(stat)
	}
	return values
}

func mapMean(records []models.PlayerMapRecord, player, mapName, stat string) float64 {
	sum, count := 0.0, 0
	for _, r := range records {
		if r.Player != player || r.MapName != mapName {
			continue
		}
		v := r.Stat(stat)
		if models.IsMissing(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return models.Missing()
	}
	return sum / float64(count)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// sampleStd uses Bessel's correction. A single observation has no spread
// estimate, so it is defined as exactly 0 rather than undefined.
func sampleStd(values []float64) float64 {
	if len(values) == 1 {
		return 0
	}
	mu := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
