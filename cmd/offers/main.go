// Command offers pulls the projections board, normalizes it into canonical
// offers, and prints them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/dataset"
	"github.com/akarpenko/propline/internal/pkg/fetch"
	"github.com/akarpenko/propline/internal/pkg/logging"
	"github.com/akarpenko/propline/internal/pkg/models"
	"github.com/akarpenko/propline/internal/sources/prizepicks"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	var sample bool
	flag.StringVar(&configPath, "config", configPath, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.BoolVar(&sample, "sample", false, "Load offers from the sample CSV instead of the live board")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(&cfg.Logging, "offers")

	var offers []models.Offer
	if sample {
		offers, err = dataset.LoadOffers(cfg.Data.OffersCSV)
		if err != nil {
			log.Fatalf("Failed to load sample offers: %v", err)
		}
	} else {
		offers, err = fetchOffers(cfg)
		if err != nil {
			log.Fatalf("Failed to fetch offers: %v", err)
		}
	}

	slog.Info("offers loaded", "count", len(offers))
	printOffers(offers)
}

func fetchOffers(cfg *config.Config) ([]models.Offer, error) {
	cache, err := fetch.NewCache(cfg.Fetch.CacheDir)
	if err != nil {
		return nil, err
	}
	fetcher := fetch.NewFetcher(&cfg.Fetch, cache)
	client := prizepicks.NewClient(&cfg.PrizePicks, fetcher)

	payload, err := client.FetchProjections(context.Background())
	if err != nil {
		return nil, err
	}
	return prizepicks.NewNormalizer(cfg.PrizePicks.Leagues).Normalize(payload)
}

func printOffers(offers []models.Offer) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "OFFER\tPLAYER\tSTAT\tLINE\tSCOPE\tTEAM\tOPPONENT\tTIME")
	for _, o := range offers {
		t := ""
		if !o.OfferTime.IsZero() {
			t = o.OfferTime.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\t%s\t%s\t%s\n",
			o.OfferID, o.Player, o.StatType, o.Line, o.MapScope, o.Team, o.Opponent, t)
	}
}
