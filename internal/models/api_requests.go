package models

type PlayerRequest struct {
	GameName string `json:"gameName" validate:"required"`
	TagLine  string `json:"tagLine" validate:"required"`
}

type MatchRequest struct {
	MatchID string `json:"matchId" validate:"required"`
}

type EnqueueResponse struct {
	Enqueued int    `json:"enqueued"`
	Queue    string `json:"queue"`
}
