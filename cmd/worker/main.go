package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/config"
	"github.com/pencilhero402/rift-rewind/internal/ingest"
	"github.com/pencilhero402/rift-rewind/internal/logic"
	"github.com/pencilhero402/rift-rewind/internal/models"
	"github.com/pencilhero402/rift-rewind/internal/queue"
	"github.com/pencilhero402/rift-rewind/internal/riot"
	"github.com/pencilhero402/rift-rewind/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewProduction()
	if cfg.Env != "production" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("postgres connect failed", "error", err)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		sugar.Fatalw("schema setup failed", "error", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("invalid redis url", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		sugar.Fatalw("aws config failed", "error", err)
	}
	sqsClient := sqs.NewFromConfig(awsCfg)

	riotClient := riot.NewClient(riot.Config{
		RegionalURL: cfg.RiotRegionalURL,
		PlatformURL: cfg.RiotPlatformURL,
		APIKey:      cfg.RiotAPIKey,
		PageSize:    cfg.MatchPageSize,
		Timeout:     cfg.RiotTimeout,
	})

	orchestrator := ingest.New(riotClient, st, cfg.DefaultQueueID, sugar)
	playerStats := logic.NewPlayerStatsService(pool, cfg.TopChampionCount, sugar)
	championStats := logic.NewChampionStatsService(pool, st, rdb, cfg.StatsCacheTTL, sugar)

	w := &worker{
		store:         st,
		orchestrator:  orchestrator,
		playerStats:   playerStats,
		championStats: championStats,
	}

	playerConsumer := queue.NewConsumer(queue.ConsumerConfig{
		QueueURL:  cfg.PlayerQueueURL,
		BatchSize: cfg.PollBatchSize,
		WaitTime:  cfg.PollWaitTime,
		Client:    sqsClient,
		Logger:    sugar,
	})
	playerConsumer.Handle(models.ActionCreatePlayer, w.createPlayer)
	playerConsumer.Handle(models.ActionDeletePlayer, w.deletePlayer)
	playerConsumer.Handle(models.ActionCreatePlayerStats, w.createPlayerStats)
	playerConsumer.Handle(models.ActionCreateChampionStats, w.refreshChampionStats)

	matchConsumer := queue.NewConsumer(queue.ConsumerConfig{
		QueueURL:  cfg.MatchQueueURL,
		BatchSize: cfg.PollBatchSize,
		WaitTime:  cfg.PollWaitTime,
		Client:    sqsClient,
		Logger:    sugar,
	})
	matchConsumer.Handle(models.ActionCreateMatchData, w.createMatchData)
	matchConsumer.Handle(models.ActionCreateMatchTimeline, w.createMatchTimeline)

	playerConsumer.Start(ctx)
	matchConsumer.Start(ctx)
	sugar.Infow("worker started",
		"player_queue", cfg.PlayerQueueURL, "match_queue", cfg.MatchQueueURL)

	<-ctx.Done()
	sugar.Infow("shutting down")
	playerConsumer.Stop()
	matchConsumer.Stop()
}

type worker struct {
	store         *store.Store
	orchestrator  *ingest.Orchestrator
	playerStats   logic.PlayerStatsService
	championStats logic.ChampionStatsService
}

func playerPayload(msg models.Message) (models.PlayerMessage, error) {
	var p models.PlayerMessage
	if err := json.Unmarshal(msg.Data, &p); err != nil {
		return p, fmt.Errorf("decode player payload: %w", err)
	}
	return p, nil
}

func matchPayload(msg models.Message) (models.MatchMessage, error) {
	var m models.MatchMessage
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		return m, fmt.Errorf("decode match payload: %w", err)
	}
	return m, nil
}

func (w *worker) createPlayer(ctx context.Context, msg models.Message) error {
	p, err := playerPayload(msg)
	if err != nil {
		return err
	}
	_, err = w.orchestrator.IngestPlayer(ctx, p.GameName, p.TagLine)
	return err
}

func (w *worker) deletePlayer(ctx context.Context, msg models.Message) error {
	p, err := playerPayload(msg)
	if err != nil {
		return err
	}
	return w.orchestrator.DeletePlayer(ctx, p.GameName, p.TagLine)
}

func (w *worker) createPlayerStats(ctx context.Context, msg models.Message) error {
	p, err := playerPayload(msg)
	if err != nil {
		return err
	}
	player, err := w.store.GetPlayerByRiotID(ctx, p.GameName, p.TagLine)
	if err != nil {
		return err
	}
	stats, err := w.playerStats.ComputePlayerStats(ctx, player.PUUID)
	if err != nil {
		return err
	}
	return w.store.UpsertPlayerStats(ctx, *stats)
}

func (w *worker) refreshChampionStats(ctx context.Context, msg models.Message) error {
	return w.championStats.RefreshAggregates(ctx)
}

func (w *worker) createMatchData(ctx context.Context, msg models.Message) error {
	m, err := matchPayload(msg)
	if err != nil {
		return err
	}
	result := w.orchestrator.IngestMatches(ctx, []string{m.MatchID})
	if len(result.Failed) > 0 {
		return fmt.Errorf("match %s not cached", m.MatchID)
	}
	return nil
}

func (w *worker) createMatchTimeline(ctx context.Context, msg models.Message) error {
	m, err := matchPayload(msg)
	if err != nil {
		return err
	}
	result := w.orchestrator.IngestTimelines(ctx, []string{m.MatchID})
	if len(result.Failed) > 0 {
		return fmt.Errorf("timeline %s not cached", m.MatchID)
	}
	return nil
}
