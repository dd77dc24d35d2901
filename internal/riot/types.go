package riot

// Account is the Riot account record resolved from a riot ID.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Region is the active-shard record for a player.
type Region struct {
	PUUID  string `json:"puuid"`
	Game   string `json:"game"`
	Region string `json:"region"`
}

// Summoner is the platform-side summoner record.
type Summoner struct {
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int    `json:"summonerLevel"`
}

// LeagueEntry is one ranked-queue entry for a player.
type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

const soloQueue = "RANKED_SOLO_5x5"

// SoloQueueEntry returns the ranked-solo entry from entries, or nil if the
// player has none.
func SoloQueueEntry(entries []LeagueEntry) *LeagueEntry {
	for i := range entries {
		if entries[i].QueueType == soloQueue {
			return &entries[i]
		}
	}
	return nil
}

// MatchListOptions narrows a match-ID listing. Zero values are omitted
// from the request; Count falls back to the client's configured page size.
type MatchListOptions struct {
	Queue     int
	Type      string
	StartTime int64
	EndTime   int64
	Start     int
	Count     int
}
