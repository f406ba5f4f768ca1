// Command resolver fetches match locators, reconciles API and scraped data,
// and prints (or stores) the resulting records.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/fetch"
	"github.com/akarpenko/propline/internal/pkg/logging"
	"github.com/akarpenko/propline/internal/pkg/models"
	"github.com/akarpenko/propline/internal/pkg/notify"
	"github.com/akarpenko/propline/internal/pkg/performance"
	"github.com/akarpenko/propline/internal/pkg/storage"
	"github.com/akarpenko/propline/internal/sources/vlr"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	var save bool
	flag.StringVar(&configPath, "config", configPath, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.BoolVar(&save, "save", false, "Persist resolved records to PostgreSQL")
	flag.Parse()

	locators := flag.Args()
	if len(locators) == 0 {
		log.Fatal("resolver: at least one match id or URL is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(&cfg.Logging, "resolver")

	cache, err := fetch.NewCache(cfg.Fetch.CacheDir)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}
	fetcher := fetch.NewFetcher(&cfg.Fetch, cache)
	tracker := &performance.Tracker{}
	fetcher.SetTracker(tracker)
	resolver := vlr.NewResolver(&cfg.VLR, fetcher)

	ctx := context.Background()
	metas, maps, players := resolver.ResolveMatches(ctx, locators)
	tracker.LogSummary()

	skipped := len(locators) - len(metas)
	slog.Info("resolution finished",
		"requested", len(locators),
		"resolved", len(metas),
		"skipped", skipped,
		"maps", len(maps),
		"player_records", len(players))

	printResolved(metas, maps)

	if save {
		store, err := storage.NewPostgresStore(&cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer store.Close()

		saved, err := store.SaveResolved(ctx, metas, maps, players)
		if err != nil {
			log.Fatalf("Failed to save resolved records: %v", err)
		}
		slog.Info("saved to postgres", "rows", saved)
	}

	notifier := notify.New(&cfg.Telegram)
	notifier.SendRunSummary(uuid.NewString(), len(metas), skipped, nil)
}

func printResolved(metas []models.MatchMeta, maps []models.MapResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, m := range metas {
		date := ""
		if !m.Date.IsZero() {
			date = m.Date.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s vs %s\t%s\t%s\t%s\n", m.MatchID, m.TeamA, m.TeamB, m.Event, m.BoFormat, date)
		for _, mr := range maps {
			if mr.MatchID != m.MatchID {
				continue
			}
			fmt.Fprintf(w, "  map %d\t%s\t%s\twinner: %s\tpicked by: %s\n", mr.MapNum, mr.MapName, mr.Score, mr.Winner, mr.PickedBy)
		}
	}
}
