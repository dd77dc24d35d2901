package logic

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

type mockRedis struct {
	data     map[string]string
	setCalls int
	delCalls int
}

func newMockRedis() *mockRedis {
	return &mockRedis{data: map[string]string{}}
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := m.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.setCalls++
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *mockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.delCalls++
	for _, k := range keys {
		delete(m.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type mockChampionStore struct {
	stats []models.AggregateChampionStats
	calls int
}

func (m *mockChampionStore) ListAggregateChampionStats(ctx context.Context) ([]models.AggregateChampionStats, error) {
	m.calls++
	return m.stats, nil
}

func TestListAggregatesCacheMissThenHit(t *testing.T) {
	store := &mockChampionStore{stats: []models.AggregateChampionStats{
		{ChampionID: "103", ChampionName: "Ahri", GamesPlayed: 12},
	}}
	rdb := newMockRedis()
	svc := NewChampionStatsService(&mockPool{}, store, rdb, time.Minute, zap.NewNop().Sugar())

	out, err := svc.ListAggregates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ChampionName != "Ahri" {
		t.Fatalf("aggregates = %+v", out)
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1", store.calls)
	}
	if rdb.setCalls != 1 {
		t.Errorf("cache writes = %d, want 1", rdb.setCalls)
	}

	// Second read must come from cache.
	if _, err := svc.ListAggregates(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("store calls after cached read = %d, want 1", store.calls)
	}
}

func TestListAggregatesCorruptCacheFallsBack(t *testing.T) {
	store := &mockChampionStore{stats: []models.AggregateChampionStats{
		{ChampionID: "64", ChampionName: "Lee Sin"},
	}}
	rdb := newMockRedis()
	rdb.data[championStatsCacheKey] = "{not json"
	svc := NewChampionStatsService(&mockPool{}, store, rdb, time.Minute, zap.NewNop().Sugar())

	out, err := svc.ListAggregates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ChampionName != "Lee Sin" {
		t.Errorf("aggregates = %+v", out)
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1", store.calls)
	}
}

func TestRefreshAggregatesInvalidatesCache(t *testing.T) {
	pool := &mockPool{}
	rdb := newMockRedis()
	data, _ := json.Marshal([]models.AggregateChampionStats{{ChampionID: "stale"}})
	rdb.data[championStatsCacheKey] = string(data)
	svc := NewChampionStatsService(pool, &mockChampionStore{}, rdb, time.Minute, zap.NewNop().Sugar())

	if err := svc.RefreshAggregates(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execSQL) != 1 {
		t.Fatalf("exec calls = %d, want 1", len(pool.execSQL))
	}
	if rdb.delCalls != 1 {
		t.Errorf("cache invalidations = %d, want 1", rdb.delCalls)
	}
	if _, ok := rdb.data[championStatsCacheKey]; ok {
		t.Error("stale cache entry survived refresh")
	}
}

func TestRefreshAggregatesReadsProviderComputedFields(t *testing.T) {
	pool := &mockPool{}
	svc := NewChampionStatsService(pool, &mockChampionStore{}, newMockRedis(), time.Minute, zap.NewNop().Sugar())

	if err := svc.RefreshAggregates(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execSQL) != 1 {
		t.Fatalf("exec calls = %d, want 1", len(pool.execSQL))
	}

	sql := pool.execSQL[0]
	if !strings.Contains(sql, "'challenges'->>'damagePerMinute'") {
		t.Error("refresh does not read challenges.damagePerMinute")
	}
	if strings.Contains(sql, "totalDamageDealtToChampions") {
		t.Error("refresh derives dpm from raw damage")
	}
	if !strings.Contains(sql, "p->>'turretTakedowns'") {
		t.Error("refresh does not read participant turretTakedowns")
	}
}
