package handlers

import (
	"context"
	"encoding/json"

	"github.com/pencilhero402/rift-rewind/internal/models"
	"github.com/pencilhero402/rift-rewind/internal/riot"
	"github.com/pencilhero402/rift-rewind/internal/store"
)

type mockStore struct {
	player      *models.Player
	playerErr   error
	players     []models.Player
	stats       *models.PlayerStats
	statsErr    error
	allStats    []models.PlayerStats
	match       json.RawMessage
	matchErr    error
	matchIDs    []string
	timelineIDs []string

	calls []string
}

func (m *mockStore) GetPlayerByRiotID(ctx context.Context, gameName, tagLine string) (*models.Player, error) {
	m.calls = append(m.calls, "GetPlayerByRiotID")
	if m.playerErr != nil {
		return nil, m.playerErr
	}
	if m.player == nil {
		return nil, store.ErrNotFound
	}
	return m.player, nil
}

func (m *mockStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return m.players, nil
}

func (m *mockStore) GetPlayerStats(ctx context.Context, puuid string) (*models.PlayerStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	if m.stats == nil {
		return nil, store.ErrNotFound
	}
	return m.stats, nil
}

func (m *mockStore) ListPlayerStats(ctx context.Context) ([]models.PlayerStats, error) {
	return m.allStats, nil
}

func (m *mockStore) GetMatch(ctx context.Context, matchID string) (json.RawMessage, error) {
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	if m.match == nil {
		return nil, store.ErrNotFound
	}
	return m.match, nil
}

func (m *mockStore) GetTimeline(ctx context.Context, matchID string) (json.RawMessage, error) {
	return m.GetMatch(ctx, matchID)
}

func (m *mockStore) ListMatchIDs(ctx context.Context) ([]string, error) {
	return m.matchIDs, nil
}

func (m *mockStore) ListTimelineIDs(ctx context.Context) ([]string, error) {
	return m.timelineIDs, nil
}

type mockIngestor struct {
	player    *models.Player
	playerErr error
	matchIDs  []string
	calls     []string
}

func (m *mockIngestor) IngestPlayer(ctx context.Context, gameName, tagLine string) (*models.Player, error) {
	m.calls = append(m.calls, "IngestPlayer")
	return m.player, m.playerErr
}

func (m *mockIngestor) ListMatchIDs(ctx context.Context, puuid string, opts riot.MatchListOptions) ([]string, error) {
	m.calls = append(m.calls, "ListMatchIDs")
	return m.matchIDs, nil
}

type enqueued struct {
	queueURL string
	msgs     []models.Message
}

type mockDispatcher struct {
	single  []enqueued
	batches []enqueued
	err     error
}

func (m *mockDispatcher) Enqueue(ctx context.Context, queueURL string, msg models.Message) error {
	if m.err != nil {
		return m.err
	}
	m.single = append(m.single, enqueued{queueURL: queueURL, msgs: []models.Message{msg}})
	return nil
}

func (m *mockDispatcher) EnqueueBatch(ctx context.Context, queueURL string, msgs []models.Message) error {
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, enqueued{queueURL: queueURL, msgs: msgs})
	return nil
}

type mockChampionStats struct {
	stats []models.AggregateChampionStats
	err   error
}

func (m *mockChampionStats) RefreshAggregates(ctx context.Context) error {
	return m.err
}

func (m *mockChampionStats) ListAggregates(ctx context.Context) ([]models.AggregateChampionStats, error) {
	return m.stats, m.err
}

type mockMatchHistory struct {
	history []models.MatchSummary
	err     error
}

func (m *mockMatchHistory) HistoryByRiotID(ctx context.Context, gameName, tagLine string) ([]models.MatchSummary, error) {
	return m.history, m.err
}
