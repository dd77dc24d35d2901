package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/config"
	"github.com/pencilhero402/rift-rewind/internal/handlers"
	"github.com/pencilhero402/rift-rewind/internal/ingest"
	"github.com/pencilhero402/rift-rewind/internal/logic"
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

	logger := newLogger(cfg.Env)
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
	dispatcher := queue.NewDispatcher(sqsClient, sugar)
	championStats := logic.NewChampionStatsService(pool, st, rdb, cfg.StatsCacheTTL, sugar)
	matchHistory := logic.NewMatchHistoryService(pool, st, sugar)

	h := handlers.New(handlers.Config{
		Postgres:       pool,
		Redis:          rdb,
		Logger:         logger,
		Store:          st,
		Ingestor:       orchestrator,
		Dispatcher:     dispatcher,
		ChampionStats:  championStats,
		MatchHistory:   matchHistory,
		PlayerQueueURL: cfg.PlayerQueueURL,
		MatchQueueURL:  cfg.MatchQueueURL,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h.Routes(cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown failed", "error", err)
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}
