package logic

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

func TestDisplayLane(t *testing.T) {
	tests := []struct {
		lane, role, want string
	}{
		{"BOTTOM", "CARRY", "ADC"},
		{"BOTTOM", "SUPPORT", "SUPPORT"},
		{"TOP", "SOLO", "TOP"},
		{"JUNGLE", "NONE", "JUNGLE"},
	}
	for _, tt := range tests {
		if got := displayLane(tt.lane, tt.role); got != tt.want {
			t.Errorf("displayLane(%s, %s) = %s, want %s", tt.lane, tt.role, got, tt.want)
		}
	}
}

func TestRoundKDA(t *testing.T) {
	tests := []struct {
		kills, deaths, assists int
		want                   float64
	}{
		{5, 2, 7, 6},
		{10, 0, 5, 15}, // deathless floors deaths at 1
		{1, 3, 0, 0.33},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := roundKDA(tt.kills, tt.deaths, tt.assists); got != tt.want {
			t.Errorf("roundKDA(%d, %d, %d) = %v, want %v", tt.kills, tt.deaths, tt.assists, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(754); got != "12:34" {
		t.Errorf("formatDuration(754) = %s, want 12:34", got)
	}
	if got := formatDuration(61); got != "1:01" {
		t.Errorf("formatDuration(61) = %s, want 1:01", got)
	}
}

type mockPlayerLookup struct {
	player *models.Player
	err    error
}

func (m *mockPlayerLookup) GetPlayerByRiotID(ctx context.Context, gameName, tagLine string) (*models.Player, error) {
	return m.player, m.err
}

func TestHistoryByRiotID(t *testing.T) {
	participant := historyParticipant{
		Win:          true,
		ChampionName: "Ahri",
		ChampLevel:   16,
		Lane:         "BOTTOM",
		Role:         "CARRY",
		Kills:        5, Deaths: 2, Assists: 7,
		TotalMinionsKilled:   180,
		NeutralMinionsKilled: 20,
		GoldEarned:           12000,
		VisionScore:          22,
		Summoner1ID:          4,
		Summoner2ID:          14,
	}
	participant.Perks.Styles = []struct {
		Style      int `json:"style"`
		Selections []struct {
			Perk int `json:"perk"`
		} `json:"selections"`
	}{
		{Style: 8100, Selections: []struct {
			Perk int `json:"perk"`
		}{{Perk: 8112}}},
		{Style: 8400},
	}
	blob, err := json.Marshal(participant)
	if err != nil {
		t.Fatal(err)
	}

	pool := &mockPool{rows: map[string][][]any{
		"gameCreation": {
			{"NA1_42", int64(1700000000000), int64(1845), blob},
		},
	}}
	lookup := &mockPlayerLookup{player: &models.Player{PUUID: "puuid-1"}}
	svc := NewMatchHistoryService(pool, lookup, zap.NewNop().Sugar())

	history, err := svc.HistoryByRiotID(context.Background(), "Hide", "NA1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("len = %d, want 1", len(history))
	}

	got := history[0]
	if got.MatchID != "NA1_42" {
		t.Errorf("match id = %s", got.MatchID)
	}
	if got.GameCreation != "2023-11-14 22:13:20" {
		t.Errorf("game creation = %s", got.GameCreation)
	}
	if got.GameDuration != "30:45" {
		t.Errorf("game duration = %s", got.GameDuration)
	}
	if got.Lane != "ADC" {
		t.Errorf("lane = %s, want ADC", got.Lane)
	}
	if got.KDA != 6 {
		t.Errorf("kda = %v, want 6", got.KDA)
	}
	if got.CreepScore != 200 {
		t.Errorf("creep score = %d, want 200", got.CreepScore)
	}
	if got.SummonerSpell1 != "Flash" || got.SummonerSpell2 != "Ignite" {
		t.Errorf("spells = %s/%s", got.SummonerSpell1, got.SummonerSpell2)
	}
	if got.PrimaryRune != "Electrocute" {
		t.Errorf("primary rune = %s, want Electrocute", got.PrimaryRune)
	}
	if got.SecondaryRune != "Resolve" {
		t.Errorf("secondary rune = %s, want Resolve", got.SecondaryRune)
	}
}

func TestHistorySkipsMalformedBlob(t *testing.T) {
	pool := &mockPool{rows: map[string][][]any{
		"gameCreation": {
			{"NA1_1", int64(0), int64(0), []byte("{not json")},
		},
	}}
	lookup := &mockPlayerLookup{player: &models.Player{PUUID: "puuid-1"}}
	svc := NewMatchHistoryService(pool, lookup, zap.NewNop().Sugar())

	history, err := svc.HistoryByRiotID(context.Background(), "Hide", "NA1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history = %+v, want empty", history)
	}
}
