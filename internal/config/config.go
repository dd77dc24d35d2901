package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Storage
	PostgresURL string
	RedisURL    string

	// Riot API
	RiotAPIKey      string
	RiotRegionalURL string
	RiotPlatformURL string
	RiotTimeout     time.Duration

	// SQS
	AWSRegion      string
	PlayerQueueURL string
	MatchQueueURL  string
	PollBatchSize  int
	PollWaitTime   time.Duration

	// Ingestion / aggregation defaults
	MatchPageSize    int
	DefaultQueueID   int
	TopChampionCount int
	StatsCacheTTL    time.Duration
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		RiotRegionalURL: getEnv("RIOT_REGIONAL_URL", "https://americas.api.riotgames.com"),
		RiotPlatformURL: getEnv("RIOT_PLATFORM_URL", "https://na1.api.riotgames.com"),
		RiotTimeout:     getEnvDuration("RIOT_TIMEOUT", 10*time.Second),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		PollBatchSize: getEnvInt("POLL_BATCH_SIZE", 10),
		PollWaitTime:  getEnvDuration("POLL_WAIT_TIME", 20*time.Second),

		MatchPageSize:    getEnvInt("MATCH_PAGE_SIZE", 100),
		DefaultQueueID:   getEnvInt("DEFAULT_QUEUE_ID", 700),
		TopChampionCount: getEnvInt("TOP_CHAMPION_COUNT", 6),
		StatsCacheTTL:    getEnvDuration("STATS_CACHE_TTL", 5*time.Minute),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}
	if cfg.RiotAPIKey, err = getEnvRequired("RIOT_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.PlayerQueueURL, err = getEnvRequired("PLAYER_QUEUE_URL"); err != nil {
		return nil, err
	}
	if cfg.MatchQueueURL, err = getEnvRequired("MATCH_QUEUE_URL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
