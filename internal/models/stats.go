package models

import "time"

// Role labels produced by classification. BOTTOM+CARRY collapses to
// RoleBottom and BOTTOM+SUPPORT to RoleSupport before counting.
const (
	RoleTop     = "TOP"
	RoleJungle  = "JUNGLE"
	RoleMiddle  = "MIDDLE"
	RoleBottom  = "BOTTOM"
	RoleSupport = "SUPPORT"
	RoleFlex    = "FLEX"
)

// RoleCount is one (normalized role, games) tally entry, ordered by
// descending games as returned by the store.
type RoleCount struct {
	Role  string `json:"role"`
	Games int    `json:"games"`
}

// RoleClassification is the primary/secondary role decision for a player.
// Secondary is empty for single-role and flex players.
type RoleClassification struct {
	Primary   string `json:"Primary"`
	Secondary string `json:"Secondary,omitempty"`
}

// ChampionGames is one entry of the top-champion ranking.
type ChampionGames struct {
	Name  string `json:"championName"`
	Games int    `json:"gamesPlayed"`
}

type AggressionStats struct {
	DamagePerMinute   float64 `json:"dpm"`
	TeamDamagePercent float64 `json:"dmg_percent"`
	KDA               float64 `json:"kda"`
	SoloKills         float64 `json:"solo_kills"`
	KillParticipation float64 `json:"kp"`
}

type IncomeStats struct {
	GoldPerMinute  float64 `json:"gpm"`
	GoldPercentage float64 `json:"gold_percentage"`
	CSPerMinute    float64 `json:"cspm"`
}

type VisionStats struct {
	VisionScorePerMinute float64 `json:"avg_vpm"`
	AvgVisionScore       float64 `json:"avg_vision_score"`
	AvgWardsCleared      float64 `json:"avg_wards_cleared"`
}

type ObjectiveStats struct {
	AvgDamageToObjectives float64 `json:"avg_dmg_to_objectives"`
	AvgDamageToTurrets    float64 `json:"avg_dmg_to_turrets"`
	AvgTurretTakedowns    float64 `json:"avg_turret_takedowns"`
}

// PlayerStats is the fully recomputed per-player aggregate. All metric
// groups default to zero values when the player has no cached matches.
type PlayerStats struct {
	PUUID        string             `json:"puuid"`
	Role         RoleClassification `json:"role"`
	TopChampions []ChampionGames    `json:"topChampions"`
	Winrate      float64            `json:"winrate"`
	Aggression   AggressionStats    `json:"aggression"`
	Income       IncomeStats        `json:"income"`
	Vision       VisionStats        `json:"vision"`
	Objective    ObjectiveStats     `json:"objective"`
}

// AggregateChampionStats is the server-wide per-champion rollup over the
// whole cached match corpus.
type AggregateChampionStats struct {
	ChampionID            string    `json:"champion_id"`
	ChampionName          string    `json:"champion_name"`
	KillParticipation     float64   `json:"kp"`
	DamagePerMinute       float64   `json:"dpm"`
	SoloKills             float64   `json:"solo_kills"`
	TeamDamagePercent     float64   `json:"dmg_percent"`
	GoldPerMinute         float64   `json:"gpm"`
	CSPerMinute           float64   `json:"cspm"`
	GoldPercentage        float64   `json:"gold_percentage"`
	VisionScorePerMinute  float64   `json:"avg_vpm"`
	AvgVisionScore        float64   `json:"avg_vision_score"`
	AvgWardsCleared       float64   `json:"avg_wards_cleared"`
	AvgDamageToObjectives float64   `json:"avg_dmg_to_objectives"`
	AvgDamageToTurrets    float64   `json:"avg_dmg_to_turrets"`
	AvgTurretTakedowns    float64   `json:"avg_turret_takedowns"`
	GamesPlayed           int       `json:"games_played"`
	LastUpdated           time.Time `json:"last_updated"`
}
