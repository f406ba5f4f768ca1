// Command trainer builds the feature frame from the sample corpus, fits the
// baseline logistic model, and reports its in-sample scores.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/dataset"
	"github.com/akarpenko/propline/internal/pkg/features"
	"github.com/akarpenko/propline/internal/pkg/logging"
	"github.com/akarpenko/propline/internal/pkg/trainer"
)

const defaultConfigPath = "configs/production.yaml"

var featureNames = []string{"line", "last_n_mean", "last_n_std", "h2h_over_rate", "map_mixture_mu"}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	var modelOut string
	flag.StringVar(&configPath, "config", configPath, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&modelOut, "out", "data/model.json", "Where to write the fitted model")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(&cfg.Logging, "trainer")

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

	rows := features.BuildFrame(offers, records, pools)
	if len(rows) == 0 {
		log.Fatal("trainer: feature frame is empty")
	}

	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, r := range rows {
		x[i] = []float64{r.Line, r.LastNMean, r.LastNStd, r.H2HRate, r.MapMixMu}
		if r.Over {
			y[i] = 1
		}
	}
	trainer.ImputeColumnMeans(x)

	model, err := trainer.Fit(x, y, featureNames, trainer.DefaultOptions())
	if err != nil {
		log.Fatalf("Failed to fit model: %v", err)
	}

	preds := make([]float64, len(x))
	for i := range x {
		preds[i] = model.Predict(x[i])
	}
	slog.Info("model fitted",
		"rows", len(rows),
		"log_loss", trainer.LogLoss(y, preds),
		"brier", trainer.Brier(y, preds))

	out, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode model: %v", err)
	}
	if err := os.WriteFile(modelOut, out, 0o644); err != nil {
		log.Fatalf("Failed to write model: %v", err)
	}
	slog.Info("model written", "path", modelOut)
}
