package handlers

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/logic"
	"github.com/pencilhero402/rift-rewind/internal/models"
	"github.com/pencilhero402/rift-rewind/internal/riot"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// Store is the cache surface the read endpoints serve from.
type Store interface {
	GetPlayerByRiotID(ctx context.Context, gameName, tagLine string) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayerStats(ctx context.Context, puuid string) (*models.PlayerStats, error)
	ListPlayerStats(ctx context.Context) ([]models.PlayerStats, error)
	GetMatch(ctx context.Context, matchID string) (json.RawMessage, error)
	GetTimeline(ctx context.Context, matchID string) (json.RawMessage, error)
	ListMatchIDs(ctx context.Context) ([]string, error)
	ListTimelineIDs(ctx context.Context) ([]string, error)
}

// Ingestor resolves players against the provider and lists their matches.
type Ingestor interface {
	IngestPlayer(ctx context.Context, gameName, tagLine string) (*models.Player, error)
	ListMatchIDs(ctx context.Context, puuid string, opts riot.MatchListOptions) ([]string, error)
}

// Dispatcher enqueues work onto the player and match queues.
type Dispatcher interface {
	Enqueue(ctx context.Context, queueURL string, msg models.Message) error
	EnqueueBatch(ctx context.Context, queueURL string, msgs []models.Message) error
}

type Config struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
	Logger   *zap.Logger

	Store      Store
	Ingestor   Ingestor
	Dispatcher Dispatcher

	ChampionStats logic.ChampionStatsService
	MatchHistory  logic.MatchHistoryService

	PlayerQueueURL string
	MatchQueueURL  string
}

type Handler struct {
	pg            *pgxpool.Pool
	redis         *redis.Client
	logger        *zap.SugaredLogger
	validator     *validator.Validate
	store         Store
	ingestor      Ingestor
	dispatcher    Dispatcher
	championStats logic.ChampionStatsService
	matchHistory  logic.MatchHistoryService

	playerQueueURL string
	matchQueueURL  string
}

func New(cfg Config) *Handler {
	return &Handler{
		pg:             cfg.Postgres,
		redis:          cfg.Redis,
		logger:         cfg.Logger.Sugar(),
		validator:      validator.New(),
		store:          cfg.Store,
		ingestor:       cfg.Ingestor,
		dispatcher:     cfg.Dispatcher,
		championStats:  cfg.ChampionStats,
		matchHistory:   cfg.MatchHistory,
		playerQueueURL: cfg.PlayerQueueURL,
		matchQueueURL:  cfg.MatchQueueURL,
	}
}
