package models

import (
	"encoding/json"
	"fmt"
)

// Queue actions. The worker routes on these discriminators.
const (
	ActionCreatePlayer        = "create"
	ActionDeletePlayer        = "delete"
	ActionCreatePlayerStats   = "create_player_stats"
	ActionCreateMatchData     = "create_match_data"
	ActionCreateMatchTimeline = "create_match_timeline"
	ActionCreateChampionStats = "create_all_aggregate_champion_stats"
)

// Message is the queue envelope. Data carries the action-specific payload
// and may be empty for actions that need none.
type Message struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// PlayerMessage is the payload for create / delete / create_player_stats.
type PlayerMessage struct {
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// MatchMessage is the payload for create_match_data / create_match_timeline.
type MatchMessage struct {
	MatchID string `json:"match_id"`
}

// NewMessage marshals payload into a queue envelope for action.
func NewMessage(action string, payload any) (Message, error) {
	if payload == nil {
		return Message{Action: action}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", action, err)
	}
	return Message{Action: action, Data: data}, nil
}
