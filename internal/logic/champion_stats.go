package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

const championStatsCacheKey = "aggregate_champion_stats"

// ChampionStatsStore is the slice of the store the champion stats service
// reads pre-built aggregates from.
type ChampionStatsStore interface {
	ListAggregateChampionStats(ctx context.Context) ([]models.AggregateChampionStats, error)
}

type championStatsService struct {
	db       PgPool
	store    ChampionStatsStore
	redis    RedisClient
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
}

func NewChampionStatsService(db PgPool, store ChampionStatsStore, rdb RedisClient, cacheTTL time.Duration, logger *zap.SugaredLogger) ChampionStatsService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &championStatsService{db: db, store: store, redis: rdb, cacheTTL: cacheTTL, logger: logger}
}

// RefreshAggregates rebuilds the per-champion rollup over the whole cached
// corpus in one statement. Champions no longer present keep their old row;
// present champions are fully overwritten.
func (s *championStatsService) RefreshAggregates(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO aggregate_champion_stats (
			champion_id, champion_name, kp, dpm, solo_kills, dmg_percent,
			gpm, cspm, gold_percentage, avg_vpm, avg_vision_score,
			avg_wards_cleared, avg_dmg_to_objectives, avg_dmg_to_turrets,
			avg_turret_takedowns, games_played, last_updated
		)
		SELECT
			p->>'championId',
			MAX(p->>'championName'),
			COALESCE(AVG(COALESCE((p->'challenges'->>'killParticipation')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'damagePerMinute')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'soloKills')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'teamDamagePercentage')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'goldPerMinute')::float8, 0)), 0),
			COALESCE(AVG((COALESCE((p->>'totalMinionsKilled')::float8, 0)
				+ COALESCE((p->>'neutralMinionsKilled')::float8, 0))
				/ GREATEST((m.match_data->'info'->>'gameDuration')::float8 / 60, 1)), 0),
			COALESCE(AVG(COALESCE((p->>'goldEarned')::float8, 0) / GREATEST(team.gold, 1)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'visionScorePerMinute')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'visionScore')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'wardsKilled')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'damageDealtToObjectives')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'damageDealtToTurrets')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'turretTakedowns')::float8, 0)), 0),
			COUNT(*),
			now()
		FROM match_data m,
		     jsonb_array_elements(m.match_data->'info'->'participants') AS p,
		     LATERAL (
			SELECT COALESCE(SUM((tm->>'goldEarned')::float8), 0) AS gold
			FROM jsonb_array_elements(m.match_data->'info'->'participants') AS tm
			WHERE tm->>'teamId' = p->>'teamId'
		     ) AS team
		WHERE p->>'championId' IS NOT NULL
		GROUP BY p->>'championId'
		ON CONFLICT (champion_id) DO UPDATE SET
			champion_name = EXCLUDED.champion_name,
			kp = EXCLUDED.kp,
			dpm = EXCLUDED.dpm,
			solo_kills = EXCLUDED.solo_kills,
			dmg_percent = EXCLUDED.dmg_percent,
			gpm = EXCLUDED.gpm,
			cspm = EXCLUDED.cspm,
			gold_percentage = EXCLUDED.gold_percentage,
			avg_vpm = EXCLUDED.avg_vpm,
			avg_vision_score = EXCLUDED.avg_vision_score,
			avg_wards_cleared = EXCLUDED.avg_wards_cleared,
			avg_dmg_to_objectives = EXCLUDED.avg_dmg_to_objectives,
			avg_dmg_to_turrets = EXCLUDED.avg_dmg_to_turrets,
			avg_turret_takedowns = EXCLUDED.avg_turret_takedowns,
			games_played = EXCLUDED.games_played,
			last_updated = EXCLUDED.last_updated`)
	if err != nil {
		return fmt.Errorf("refresh champion aggregates: %w", err)
	}

	// Stale cache entries would outlive the rebuild, so drop them now.
	if err := s.redis.Del(ctx, championStatsCacheKey).Err(); err != nil {
		s.logger.Warnw("failed to invalidate champion stats cache", "error", err)
	}

	s.logger.Infow("refreshed champion aggregates")
	return nil
}

// ListAggregates serves the rollup from a short-TTL cache, falling back to
// the store. Cache failures degrade to a direct read, never an error.
func (s *championStatsService) ListAggregates(ctx context.Context) ([]models.AggregateChampionStats, error) {
	cached, err := s.redis.Get(ctx, championStatsCacheKey).Result()
	if err == nil {
		var out []models.AggregateChampionStats
		if jsonErr := json.Unmarshal([]byte(cached), &out); jsonErr == nil {
			return out, nil
		}
		s.logger.Warnw("corrupt champion stats cache entry, rereading")
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warnw("champion stats cache read failed", "error", err)
	}

	out, err := s.store.ListAggregateChampionStats(ctx)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(out); jsonErr == nil {
		if setErr := s.redis.Set(ctx, championStatsCacheKey, data, s.cacheTTL).Err(); setErr != nil {
			s.logger.Warnw("champion stats cache write failed", "error", setErr)
		}
	}
	return out, nil
}
