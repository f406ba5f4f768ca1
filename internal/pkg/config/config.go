package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Fetch      FetchConfig      `yaml:"fetch"`
	VLR        VLRConfig        `yaml:"vlr"`
	PrizePicks PrizePicksConfig `yaml:"prizepicks"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Data       DataConfig       `yaml:"data"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type FetchConfig struct {
	CacheDir       string        `yaml:"cache_dir"`
	Timeout        time.Duration `yaml:"timeout"`
	MinDelay       time.Duration `yaml:"min_delay"` // pause between live requests to the same upstream
	UserAgent      string        `yaml:"user_agent"`
	RenderFallback bool          `yaml:"render_fallback"` // re-fetch JS shell pages through headless Chrome
}

type VLRConfig struct {
	APIBase string `yaml:"api_base"`
	WebBase string `yaml:"web_base"`
}

type PrizePicksConfig struct {
	BaseURL string   `yaml:"base_url"`
	Leagues []string `yaml:"leagues"` // league-name synonyms to keep (e.g. valorant, val)
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

type DataConfig struct {
	PlayerMapsCSV string `yaml:"player_maps_csv"`
	MapPoolCSV    string `yaml:"map_pool_csv"`
	OffersCSV     string `yaml:"offers_csv"`
}

// Load reads a YAML config file, applying defaults for optional fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config usable without a config file (sample-data mode).
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Fetch.CacheDir == "" {
		c.Fetch.CacheDir = "data/cache"
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 20 * time.Second
	}
	if c.Fetch.MinDelay <= 0 {
		c.Fetch.MinDelay = 1500 * time.Millisecond
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "propline/1.0 (research; contact: admin@propline.dev)"
	}
	if c.VLR.APIBase == "" {
		c.VLR.APIBase = "https://vlrggapi.vercel.app"
	}
	if c.VLR.WebBase == "" {
		c.VLR.WebBase = "https://www.vlr.gg"
	}
	if c.PrizePicks.BaseURL == "" {
		c.PrizePicks.BaseURL = "https://api.prizepicks.com"
	}
	if len(c.PrizePicks.Leagues) == 0 {
		c.PrizePicks.Leagues = []string{"valorant", "val"}
	}
	if c.Data.PlayerMapsCSV == "" {
		c.Data.PlayerMapsCSV = "data/sample_player_maps.csv"
	}
	if c.Data.MapPoolCSV == "" {
		c.Data.MapPoolCSV = "data/sample_map_pool.csv"
	}
	if c.Data.OffersCSV == "" {
		c.Data.OffersCSV = "data/sample_offers.csv"
	}
}
