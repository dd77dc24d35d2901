package logic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// PlayerStatsService recomputes per-player aggregates from the cached
// match corpus.
type PlayerStatsService interface {
	RoleCounts(ctx context.Context, puuid string) ([]models.RoleCount, error)
	TopChampions(ctx context.Context, puuid string, n int) ([]models.ChampionGames, error)
	WinRate(ctx context.Context, puuid string) (float64, error)
	Aggression(ctx context.Context, puuid string) (models.AggressionStats, error)
	Income(ctx context.Context, puuid string) (models.IncomeStats, error)
	Vision(ctx context.Context, puuid string) (models.VisionStats, error)
	Objectives(ctx context.Context, puuid string) (models.ObjectiveStats, error)
	ComputePlayerStats(ctx context.Context, puuid string) (*models.PlayerStats, error)
}

// ChampionStatsService maintains the server-wide per-champion rollup.
type ChampionStatsService interface {
	RefreshAggregates(ctx context.Context) error
	ListAggregates(ctx context.Context) ([]models.AggregateChampionStats, error)
}

// MatchHistoryService serves formatted per-player match history.
type MatchHistoryService interface {
	HistoryByRiotID(ctx context.Context, gameName, tagLine string) ([]models.MatchSummary, error)
}
