package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

// ErrNotFound marks a lookup that matched no row.
var ErrNotFound = errors.New("store: not found")

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the relational cache over Riot data. Match and timeline blobs
// are stored as opaque jsonb; aggregation queries extract from them with
// jsonb path operators instead of materialized columns.
type Store struct {
	db PgPool
}

func New(db PgPool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates all tables if they do not exist. Primary keys carry
// the uniqueness guarantees; inserts rely on ON CONFLICT, not app locks.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			puuid            TEXT PRIMARY KEY,
			game_name        TEXT NOT NULL,
			tag_line         TEXT NOT NULL,
			region           TEXT NOT NULL DEFAULT 'na1',
			summoner_icon_id INT  NOT NULL DEFAULT 0,
			summoner_level   INT  NOT NULL DEFAULT 0,
			tier             TEXT NOT NULL DEFAULT 'UNRANKED'
		)`,
		`CREATE TABLE IF NOT EXISTS match_data (
			match_id   TEXT PRIMARY KEY,
			match_data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS match_timeline (
			match_id       TEXT PRIMARY KEY,
			match_timeline JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS player_stats (
			puuid         TEXT PRIMARY KEY REFERENCES players(puuid) ON DELETE CASCADE,
			role          JSONB NOT NULL,
			top_champions JSONB NOT NULL,
			winrate       DOUBLE PRECISION NOT NULL DEFAULT 0,
			aggression    JSONB NOT NULL,
			income        JSONB NOT NULL,
			vision        JSONB NOT NULL,
			objective     JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS aggregate_champion_stats (
			champion_id           TEXT PRIMARY KEY,
			champion_name         TEXT NOT NULL,
			kp                    DOUBLE PRECISION NOT NULL DEFAULT 0,
			dpm                   DOUBLE PRECISION NOT NULL DEFAULT 0,
			solo_kills            DOUBLE PRECISION NOT NULL DEFAULT 0,
			dmg_percent           DOUBLE PRECISION NOT NULL DEFAULT 0,
			gpm                   DOUBLE PRECISION NOT NULL DEFAULT 0,
			cspm                  DOUBLE PRECISION NOT NULL DEFAULT 0,
			gold_percentage       DOUBLE PRECISION NOT NULL DEFAULT 0,
			avg_vpm               DOUBLE PRECISION NOT NULL DEFAULT 0,
			avg_vision_score      DOUBLE PRECISION NOT NULL DEFAULT 0,
			avg_wards_cleared     DOUBLE PRECISION NOT NULL DEFAULT 0,
			avg_dmg_to_objectives DOUBLE PRECISION NOT NULL DEFAULT 0,
			avg_dmg_to_turrets    DOUBLE PRECISION NOT NULL DEFAULT 0,
			avg_turret_takedowns  DOUBLE PRECISION NOT NULL DEFAULT 0,
			games_played          INT NOT NULL DEFAULT 0,
			last_updated          TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- players ---

func (s *Store) UpsertPlayer(ctx context.Context, p models.Player) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO players (puuid, game_name, tag_line, region, summoner_icon_id, summoner_level, tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (puuid) DO UPDATE SET
			game_name = EXCLUDED.game_name,
			tag_line = EXCLUDED.tag_line,
			region = EXCLUDED.region,
			summoner_icon_id = EXCLUDED.summoner_icon_id,
			summoner_level = EXCLUDED.summoner_level,
			tier = EXCLUDED.tier`,
		p.PUUID, p.GameName, p.TagLine, p.Region, p.SummonerIconID, p.SummonerLevel, p.Tier)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", p.PUUID, err)
	}
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, puuid string) (*models.Player, error) {
	var p models.Player
	err := s.db.QueryRow(ctx, `
		SELECT puuid, game_name, tag_line, region, summoner_icon_id, summoner_level, tier
		FROM players WHERE puuid = $1`, puuid).
		Scan(&p.PUUID, &p.GameName, &p.TagLine, &p.Region, &p.SummonerIconID, &p.SummonerLevel, &p.Tier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %s: %w", puuid, err)
	}
	return &p, nil
}

func (s *Store) GetPlayerByRiotID(ctx context.Context, gameName, tagLine string) (*models.Player, error) {
	var p models.Player
	err := s.db.QueryRow(ctx, `
		SELECT puuid, game_name, tag_line, region, summoner_icon_id, summoner_level, tier
		FROM players WHERE game_name = $1 AND tag_line = $2`, gameName, tagLine).
		Scan(&p.PUUID, &p.GameName, &p.TagLine, &p.Region, &p.SummonerIconID, &p.SummonerLevel, &p.Tier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %s#%s: %w", gameName, tagLine, err)
	}
	return &p, nil
}

func (s *Store) ListPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := s.db.Query(ctx, `
		SELECT puuid, game_name, tag_line, region, summoner_icon_id, summoner_level, tier
		FROM players ORDER BY game_name, tag_line`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.PUUID, &p.GameName, &p.TagLine, &p.Region,
			&p.SummonerIconID, &p.SummonerLevel, &p.Tier); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Store) DeletePlayer(ctx context.Context, puuid string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM players WHERE puuid = $1`, puuid)
	if err != nil {
		return fmt.Errorf("delete player %s: %w", puuid, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- match / timeline blobs ---

func (s *Store) MatchExists(ctx context.Context, matchID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM match_data WHERE match_id = $1)`, matchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("match exists %s: %w", matchID, err)
	}
	return exists, nil
}

func (s *Store) TimelineExists(ctx context.Context, matchID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM match_timeline WHERE match_id = $1)`, matchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("timeline exists %s: %w", matchID, err)
	}
	return exists, nil
}

// InsertMatch stores a match blob. A duplicate insert is a no-op so the
// first cached version of a match always wins.
func (s *Store) InsertMatch(ctx context.Context, matchID string, data json.RawMessage) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO match_data (match_id, match_data) VALUES ($1, $2)
		ON CONFLICT (match_id) DO NOTHING`, matchID, data)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", matchID, err)
	}
	return nil
}

func (s *Store) InsertTimeline(ctx context.Context, matchID string, data json.RawMessage) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO match_timeline (match_id, match_timeline) VALUES ($1, $2)
		ON CONFLICT (match_id) DO NOTHING`, matchID, data)
	if err != nil {
		return fmt.Errorf("insert timeline %s: %w", matchID, err)
	}
	return nil
}

func (s *Store) GetMatch(ctx context.Context, matchID string) (json.RawMessage, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT match_data FROM match_data WHERE match_id = $1`, matchID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", matchID, err)
	}
	return data, nil
}

func (s *Store) GetTimeline(ctx context.Context, matchID string) (json.RawMessage, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT match_timeline FROM match_timeline WHERE match_id = $1`, matchID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get timeline %s: %w", matchID, err)
	}
	return data, nil
}

func (s *Store) ListMatchIDs(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, `SELECT match_id FROM match_data ORDER BY match_id`)
}

func (s *Store) ListTimelineIDs(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, `SELECT match_id FROM match_timeline ORDER BY match_id`)
}

func (s *Store) listIDs(ctx context.Context, sql string) ([]string, error) {
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- player stats ---

// UpsertPlayerStats replaces the whole stats row. Stats are always a full
// recompute, so partial updates are never needed.
func (s *Store) UpsertPlayerStats(ctx context.Context, st models.PlayerStats) error {
	role, err := json.Marshal(st.Role)
	if err != nil {
		return fmt.Errorf("marshal role: %w", err)
	}
	champs, err := json.Marshal(st.TopChampions)
	if err != nil {
		return fmt.Errorf("marshal top champions: %w", err)
	}
	aggr, err := json.Marshal(st.Aggression)
	if err != nil {
		return fmt.Errorf("marshal aggression: %w", err)
	}
	income, err := json.Marshal(st.Income)
	if err != nil {
		return fmt.Errorf("marshal income: %w", err)
	}
	vision, err := json.Marshal(st.Vision)
	if err != nil {
		return fmt.Errorf("marshal vision: %w", err)
	}
	objective, err := json.Marshal(st.Objective)
	if err != nil {
		return fmt.Errorf("marshal objective: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO player_stats (puuid, role, top_champions, winrate, aggression, income, vision, objective)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (puuid) DO UPDATE SET
			role = EXCLUDED.role,
			top_champions = EXCLUDED.top_champions,
			winrate = EXCLUDED.winrate,
			aggression = EXCLUDED.aggression,
			income = EXCLUDED.income,
			vision = EXCLUDED.vision,
			objective = EXCLUDED.objective`,
		st.PUUID, role, champs, st.Winrate, aggr, income, vision, objective)
	if err != nil {
		return fmt.Errorf("upsert player stats %s: %w", st.PUUID, err)
	}
	return nil
}

func (s *Store) GetPlayerStats(ctx context.Context, puuid string) (*models.PlayerStats, error) {
	var (
		st                                            models.PlayerStats
		role, champs, aggr, income, vision, objective []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT puuid, role, top_champions, winrate, aggression, income, vision, objective
		FROM player_stats WHERE puuid = $1`, puuid).
		Scan(&st.PUUID, &role, &champs, &st.Winrate, &aggr, &income, &vision, &objective)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player stats %s: %w", puuid, err)
	}
	if err := unmarshalStats(&st, role, champs, aggr, income, vision, objective); err != nil {
		return nil, fmt.Errorf("decode player stats %s: %w", puuid, err)
	}
	return &st, nil
}

func (s *Store) ListPlayerStats(ctx context.Context) ([]models.PlayerStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT puuid, role, top_champions, winrate, aggression, income, vision, objective
		FROM player_stats ORDER BY puuid`)
	if err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}
	defer rows.Close()

	var out []models.PlayerStats
	for rows.Next() {
		var (
			st                                            models.PlayerStats
			role, champs, aggr, income, vision, objective []byte
		)
		if err := rows.Scan(&st.PUUID, &role, &champs, &st.Winrate, &aggr, &income, &vision, &objective); err != nil {
			return nil, fmt.Errorf("scan player stats: %w", err)
		}
		if err := unmarshalStats(&st, role, champs, aggr, income, vision, objective); err != nil {
			return nil, fmt.Errorf("decode player stats %s: %w", st.PUUID, err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func unmarshalStats(st *models.PlayerStats, role, champs, aggr, income, vision, objective []byte) error {
	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{role, &st.Role},
		{champs, &st.TopChampions},
		{aggr, &st.Aggression},
		{income, &st.Income},
		{vision, &st.Vision},
		{objective, &st.Objective},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return err
		}
	}
	return nil
}

// --- aggregate champion stats ---

func (s *Store) ListAggregateChampionStats(ctx context.Context) ([]models.AggregateChampionStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT champion_id, champion_name, kp, dpm, solo_kills, dmg_percent,
		       gpm, cspm, gold_percentage, avg_vpm, avg_vision_score,
		       avg_wards_cleared, avg_dmg_to_objectives, avg_dmg_to_turrets,
		       avg_turret_takedowns, games_played, last_updated
		FROM aggregate_champion_stats ORDER BY games_played DESC, champion_name`)
	if err != nil {
		return nil, fmt.Errorf("list aggregate champion stats: %w", err)
	}
	defer rows.Close()

	var out []models.AggregateChampionStats
	for rows.Next() {
		var a models.AggregateChampionStats
		if err := rows.Scan(&a.ChampionID, &a.ChampionName, &a.KillParticipation,
			&a.DamagePerMinute, &a.SoloKills, &a.TeamDamagePercent, &a.GoldPerMinute,
			&a.CSPerMinute, &a.GoldPercentage, &a.VisionScorePerMinute,
			&a.AvgVisionScore, &a.AvgWardsCleared, &a.AvgDamageToObjectives,
			&a.AvgDamageToTurrets, &a.AvgTurretTakedowns, &a.GamesPlayed,
			&a.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan aggregate champion stats: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
