package models

// MatchSummary is one formatted entry of a player's match history. Values
// are presentation-ready: timestamps and durations are pre-formatted
// strings and spell/rune IDs are resolved to names.
type MatchSummary struct {
	MatchID        string  `json:"matchId"`
	GameCreation   string  `json:"gameCreation"`
	GameDuration   string  `json:"gameDuration"`
	Win            bool    `json:"win"`
	ChampionName   string  `json:"championName"`
	ChampionLevel  int     `json:"championLevel"`
	Lane           string  `json:"lane"`
	Kills          int     `json:"kills"`
	Deaths         int     `json:"deaths"`
	Assists        int     `json:"assists"`
	KDA            float64 `json:"kda"`
	CreepScore     int     `json:"creepScore"`
	GoldEarned     int     `json:"goldEarned"`
	VisionScore    int     `json:"visionScore"`
	SummonerSpell1 string  `json:"summonerSpell1"`
	SummonerSpell2 string  `json:"summonerSpell2"`
	PrimaryRune    string  `json:"primaryRune"`
	SecondaryRune  string  `json:"secondaryRune"`
	Items          []int   `json:"items"`
}
