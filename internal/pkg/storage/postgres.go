// Package storage persists resolved match data in PostgreSQL so feature
// corpora can be rebuilt without re-fetching sources.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/akarpenko/propline/internal/pkg/config"
	"github.com/akarpenko/propline/internal/pkg/models"
	"github.com/akarpenko/propline/internal/pkg/validation"
)

// PostgresStore stores match metadata, map results, and per-map player
// records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection, verifies it, and ensures the schema.
func NewPostgresStore(cfg *config.PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("postgres store initialized")
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS match_meta (
		match_id VARCHAR(100) PRIMARY KEY,
		event VARCHAR(500) NOT NULL DEFAULT '',
		date TIMESTAMP,
		bo_format VARCHAR(20) NOT NULL DEFAULT '',
		team_a VARCHAR(200) NOT NULL,
		team_b VARCHAR(200) NOT NULL,
		vetoes TEXT NOT NULL DEFAULT '',
		src_url VARCHAR(500) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS map_results (
		match_id VARCHAR(100) NOT NULL,
		map_num INTEGER NOT NULL,
		map_name VARCHAR(100) NOT NULL DEFAULT '',
		winner VARCHAR(200) NOT NULL DEFAULT '',
		score VARCHAR(50) NOT NULL DEFAULT '',
		picked_by VARCHAR(200) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (match_id, map_num)
	);

	CREATE TABLE IF NOT EXISTS player_map_records (
		match_id VARCHAR(100) NOT NULL,
		map_num INTEGER NOT NULL,
		player VARCHAR(200) NOT NULL,
		date TIMESTAMP,
		team VARCHAR(200) NOT NULL DEFAULT '',
		opponent VARCHAR(200) NOT NULL DEFAULT '',
		map_name VARCHAR(100) NOT NULL DEFAULT '',
		agent VARCHAR(100) NOT NULL DEFAULT '',
		kills INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		assists INTEGER NOT NULL DEFAULT 0,
		acs DECIMAL(10, 2),
		rounds_played DECIMAL(10, 2),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (match_id, map_num, player)
	);

	CREATE INDEX IF NOT EXISTS idx_player_map_records_player ON player_map_records(player);
	CREATE INDEX IF NOT EXISTS idx_player_map_records_date ON player_map_records(date DESC);
	CREATE INDEX IF NOT EXISTS idx_map_results_match_id ON map_results(match_id);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// SaveMeta upserts match metadata. Re-resolving a match refreshes its row.
func (s *PostgresStore) SaveMeta(ctx context.Context, meta models.MatchMeta) error {
	query := `
	INSERT INTO match_meta (match_id, event, date, bo_format, team_a, team_b, vetoes, src_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (match_id) DO UPDATE SET
		event = EXCLUDED.event,
		date = EXCLUDED.date,
		bo_format = EXCLUDED.bo_format,
		team_a = EXCLUDED.team_a,
		team_b = EXCLUDED.team_b,
		vetoes = EXCLUDED.vetoes,
		src_url = EXCLUDED.src_url
	`
	_, err := s.db.ExecContext(ctx, query,
		meta.MatchID,
		meta.Event,
		nullTime(meta.Date),
		meta.BoFormat,
		meta.TeamA,
		meta.TeamB,
		strings.Join(meta.Vetoes, "; "),
		meta.SrcURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save match meta %s: %w", meta.MatchID, err)
	}
	return nil
}

// SaveMapResult upserts one map result row.
func (s *PostgresStore) SaveMapResult(ctx context.Context, m models.MapResult) error {
	query := `
	INSERT INTO map_results (match_id, map_num, map_name, winner, score, picked_by)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (match_id, map_num) DO UPDATE SET
		map_name = EXCLUDED.map_name,
		winner = EXCLUDED.winner,
		score = EXCLUDED.score,
		picked_by = EXCLUDED.picked_by
	`
	_, err := s.db.ExecContext(ctx, query, m.MatchID, m.MapNum, m.MapName, m.Winner, m.Score, m.PickedBy)
	if err != nil {
		return fmt.Errorf("failed to save map result %s/%d: %w", m.MatchID, m.MapNum, err)
	}
	return nil
}

// SavePlayerRecord upserts one per-map player record. Missing numeric stats
// are stored as NULL.
func (s *PostgresStore) SavePlayerRecord(ctx context.Context, r models.PlayerMapRecord) error {
	query := `
	INSERT INTO player_map_records (
		match_id, map_num, player, date, team, opponent,
		map_name, agent, kills, deaths, assists, acs, rounds_played
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (match_id, map_num, player) DO UPDATE SET
		date = EXCLUDED.date,
		team = EXCLUDED.team,
		opponent = EXCLUDED.opponent,
		map_name = EXCLUDED.map_name,
		agent = EXCLUDED.agent,
		kills = EXCLUDED.kills,
		deaths = EXCLUDED.deaths,
		assists = EXCLUDED.assists,
		acs = EXCLUDED.acs,
		rounds_played = EXCLUDED.rounds_played
	`
	_, err := s.db.ExecContext(ctx, query,
		r.MatchID,
		r.MapNum,
		r.Player,
		nullTime(r.Date),
		r.Team,
		r.Opponent,
		r.MapName,
		r.Agent,
		r.Kills,
		r.Deaths,
		r.Assists,
		nullFloat(r.ACS),
		nullFloat(r.RoundsPlayed),
	)
	if err != nil {
		return fmt.Errorf("failed to save player record %s/%d/%s: %w", r.MatchID, r.MapNum, r.Player, err)
	}
	return nil
}

// SaveResolved persists a full resolution batch. Rows failing validation or
// insertion are logged and skipped, so one bad row does not lose the batch.
func (s *PostgresStore) SaveResolved(ctx context.Context, metas []models.MatchMeta, maps []models.MapResult, players []models.PlayerMapRecord) (int, error) {
	saved := 0
	for _, meta := range metas {
		if err := validation.ValidateMeta(&meta); err != nil {
			slog.Warn("dropping invalid match meta", "error", err)
			continue
		}
		if err := s.SaveMeta(ctx, meta); err != nil {
			slog.Warn("skipping match meta", "match_id", meta.MatchID, "error", err)
			continue
		}
		saved++
	}
	for _, m := range maps {
		if err := validation.ValidateMapResult(&m); err != nil {
			slog.Warn("dropping invalid map result", "error", err)
			continue
		}
		if err := s.SaveMapResult(ctx, m); err != nil {
			slog.Warn("skipping map result", "match_id", m.MatchID, "map_num", m.MapNum, "error", err)
			continue
		}
		saved++
	}
	for _, r := range players {
		if err := validation.ValidatePlayerRecord(&r); err != nil {
			slog.Warn("dropping invalid player record", "error", err)
			continue
		}
		if err := s.SavePlayerRecord(ctx, r); err != nil {
			slog.Warn("skipping player record", "match_id", r.MatchID, "player", r.Player, "error", err)
			continue
		}
		saved++
	}
	return saved, nil
}

// LoadPlayerMaps reads the full per-map player corpus, newest first.
func (s *PostgresStore) LoadPlayerMaps(ctx context.Context) ([]models.PlayerMapRecord, error) {
	query := `
	SELECT match_id, map_num, player, date, team, opponent,
	       map_name, agent, kills, deaths, assists, acs, rounds_played
	FROM player_map_records
	ORDER BY date DESC NULLS LAST, match_id, map_num
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query player records: %w", err)
	}
	defer rows.Close()

	var out []models.PlayerMapRecord
	for rows.Next() {
		var r models.PlayerMapRecord
		var date sql.NullTime
		var acs, rounds sql.NullFloat64
		if err := rows.Scan(
			&r.MatchID, &r.MapNum, &r.Player, &date, &r.Team, &r.Opponent,
			&r.MapName, &r.Agent, &r.Kills, &r.Deaths, &r.Assists, &acs, &rounds,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player record: %w", err)
		}
		if date.Valid {
			r.Date = date.Time
		}
		r.ACS = fromNullFloat(acs)
		r.RoundsPlayed = fromNullFloat(rounds)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !models.IsMissing(v)}
}

func fromNullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return models.Missing()
	}
	return v.Float64
}
