package models

// Player is the cached account record keyed by PUUID. It is upserted on
// every re-ingestion, so all fields reflect the most recent fetch.
type Player struct {
	PUUID          string `json:"puuid"`
	GameName       string `json:"gameName"`
	TagLine        string `json:"tagLine"`
	Region         string `json:"region"`
	SummonerIconID int    `json:"summonerIconId"`
	SummonerLevel  int    `json:"summonerLevel"`
	Tier           string `json:"tier"`
}
