// Command betcard renders one bet card per offer: the line next to the
// player's recent form, head-to-head rate, and map-mixture expectation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/dataset"
	"github.com/akarpenko/propline/internal/pkg/features"
	"github.com/akarpenko/propline/internal/pkg/logging"
	"github.com/akarpenko/propline/internal/pkg/models"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	var offerID string
	flag.StringVar(&configPath, "config", configPath, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&offerID, "offer", "", "Render only the offer with this id")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(&cfg.Logging, "betcard")

	records, err := dataset.LoadPlayerMaps(cfg.Data.PlayerMapsCSV)
	if err != nil {
		log.Fatalf("Failed to load player records: %v", err)
	}
	pools, err := dataset.LoadMapPool(cfg.Data.MapPoolCSV)
	if err != nil {
		log.Fatalf("Failed to load map pool: %v", err)
	}
	offers, err := dataset.LoadOffers(cfg.Data.OffersCSV)
	if err != nil {
		log.Fatalf("Failed to load offers: %v", err)
	}

	shown := 0
	for _, off := range offers {
		if offerID != "" && off.OfferID != offerID {
			continue
		}
		renderCard(off, records, pools)
		shown++
	}
	if shown == 0 {
		log.Fatalf("betcard: no offer matched %q", offerID)
	}
}

func renderCard(off models.Offer, records []models.PlayerMapRecord, pools []models.MapPoolRow) {
	lastN := features.LastN(records, off.Player, off.StatType, features.DefaultLastN)
	h2h := features.HeadToHeadRate(records, off.Player, off.Opponent, off.Line, off.StatType, features.DefaultH2HWindow)

	var pool models.MapPoolRow
	for _, p := range pools {
		if p.MatchID == off.SeriesID && p.Team == off.Team {
			pool = p
			break
		}
	}
	mix := features.MapMixture(records, off.Player, pool, off.StatType)

	fmt.Printf("\n%s  %s %.1f (%s)  vs %s\n", off.Player, off.StatType, off.Line, off.MapScope, off.Opponent)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  last %d maps\tcount %d\tmean %s\tmedian %s\tstd %s\n",
		features.DefaultLastN, lastN.Count, num(lastN.Mean), num(lastN.Median), num(lastN.Std))
	fmt.Fprintf(w, "  vs %s\tcount %d\tover rate %s\n", off.Opponent, h2h.Count, num(h2h.OverRate))
	fmt.Fprintf(w, "  map mixture\tmu %s\n", num(mix.Mu))

	names := make([]string, 0, len(mix.PerMap))
	for name := range mix.PerMap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		est := mix.PerMap[name]
		fmt.Fprintf(w, "    %s\tp %.2f\tmu %s\n", name, est.Prob, num(est.Mean))
	}
	w.Flush()
}

// num formats a stat value, showing "-" for missing.
func num(v float64) string {
	if models.IsMissing(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
