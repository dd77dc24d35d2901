package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

// summonerSpells maps spell IDs to display names.
var summonerSpells = map[int]string{
	1:  "Cleanse",
	3:  "Exhaust",
	4:  "Flash",
	6:  "Ghost",
	7:  "Heal",
	11: "Smite",
	12: "Teleport",
	14: "Ignite",
	21: "Barrier",
}

// runes maps rune style and keystone IDs to display names.
var runes = map[int]string{
	8000: "Precision",
	8005: "Press the Attack",
	8008: "Lethal Tempo",
	8010: "Conqueror",
	8021: "Fleet Footwork",
	8100: "Domination",
	8112: "Electrocute",
	8124: "Predator",
	8128: "Dark Harvest",
	9923: "Hail of Blades",
	8200: "Sorcery",
	8214: "Summon Aery",
	8229: "Arcane Comet",
	8230: "Phase Rush",
	8300: "Inspiration",
	8351: "Glacial Augment",
	8358: "Master Key",
	8360: "Unsealed Spellbook",
	8369: "First Strike",
	8400: "Resolve",
	8437: "Grasp of the Undying",
	8439: "Aftershock",
	8465: "Guardian",
}

// PlayerLookup resolves a riot ID to a cached player record.
type PlayerLookup interface {
	GetPlayerByRiotID(ctx context.Context, gameName, tagLine string) (*models.Player, error)
}

type matchHistoryService struct {
	db      PgPool
	players PlayerLookup
	logger  *zap.SugaredLogger
}

func NewMatchHistoryService(db PgPool, players PlayerLookup, logger *zap.SugaredLogger) MatchHistoryService {
	return &matchHistoryService{db: db, players: players, logger: logger}
}

// historyParticipant is the slice of a participant blob the history view
// needs.
type historyParticipant struct {
	Win                  bool   `json:"win"`
	ChampionName         string `json:"championName"`
	ChampLevel           int    `json:"champLevel"`
	Lane                 string `json:"lane"`
	Role                 string `json:"role"`
	Kills                int    `json:"kills"`
	Deaths               int    `json:"deaths"`
	Assists              int    `json:"assists"`
	TotalMinionsKilled   int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled int    `json:"neutralMinionsKilled"`
	GoldEarned           int    `json:"goldEarned"`
	VisionScore          int    `json:"visionScore"`
	Summoner1ID          int    `json:"summoner1Id"`
	Summoner2ID          int    `json:"summoner2Id"`
	Item0                int    `json:"item0"`
	Item1                int    `json:"item1"`
	Item2                int    `json:"item2"`
	Item3                int    `json:"item3"`
	Item4                int    `json:"item4"`
	Item5                int    `json:"item5"`
	Item6                int    `json:"item6"`
	Perks                struct {
		Styles []struct {
			Style      int `json:"style"`
			Selections []struct {
				Perk int `json:"perk"`
			} `json:"selections"`
		} `json:"styles"`
	} `json:"perks"`
}

// HistoryByRiotID returns formatted summaries of the player's cached
// matches, newest first.
func (s *matchHistoryService) HistoryByRiotID(ctx context.Context, gameName, tagLine string) ([]models.MatchSummary, error) {
	player, err := s.players.GetPlayerByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT m.match_id,
		       (m.match_data->'info'->>'gameCreation')::bigint,
		       (m.match_data->'info'->>'gameDuration')::bigint,
		       p
		FROM match_data m,
		     jsonb_array_elements(m.match_data->'info'->'participants') AS p
		WHERE p->>'puuid' = $1
		ORDER BY (m.match_data->'info'->>'gameCreation')::bigint DESC`, player.PUUID)
	if err != nil {
		return nil, fmt.Errorf("match history for %s: %w", player.PUUID, err)
	}
	defer rows.Close()

	var history []models.MatchSummary
	for rows.Next() {
		var (
			matchID            string
			creation, duration int64
			blob               []byte
		)
		if err := rows.Scan(&matchID, &creation, &duration, &blob); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}

		var p historyParticipant
		if err := json.Unmarshal(blob, &p); err != nil {
			s.logger.Warnw("skipping malformed participant blob", "match_id", matchID, "error", err)
			continue
		}
		history = append(history, formatSummary(matchID, creation, duration, p))
	}
	return history, rows.Err()
}

func formatSummary(matchID string, creationMillis, durationSecs int64, p historyParticipant) models.MatchSummary {
	return models.MatchSummary{
		MatchID:        matchID,
		GameCreation:   time.UnixMilli(creationMillis).UTC().Format("2006-01-02 15:04:05"),
		GameDuration:   formatDuration(durationSecs),
		Win:            p.Win,
		ChampionName:   p.ChampionName,
		ChampionLevel:  p.ChampLevel,
		Lane:           displayLane(p.Lane, p.Role),
		Kills:          p.Kills,
		Deaths:         p.Deaths,
		Assists:        p.Assists,
		KDA:            roundKDA(p.Kills, p.Deaths, p.Assists),
		CreepScore:     p.TotalMinionsKilled + p.NeutralMinionsKilled,
		GoldEarned:     p.GoldEarned,
		VisionScore:    p.VisionScore,
		SummonerSpell1: spellName(p.Summoner1ID),
		SummonerSpell2: spellName(p.Summoner2ID),
		PrimaryRune:    primaryRuneName(p),
		SecondaryRune:  secondaryRuneName(p),
		Items:          []int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6},
	}
}

// displayLane rewrites the bot-lane carry to ADC for presentation; the
// support keeps its role label.
func displayLane(lane, role string) string {
	if lane == models.RoleBottom {
		switch role {
		case "CARRY":
			return "ADC"
		case "SUPPORT":
			return models.RoleSupport
		}
	}
	return lane
}

// roundKDA is (kills+assists)/deaths rounded to 2 decimals, with deaths
// floored at 1 to keep deathless games finite.
func roundKDA(kills, deaths, assists int) float64 {
	d := deaths
	if d == 0 {
		d = 1
	}
	kda := float64(kills+assists) / float64(d)
	return math.Round(kda*100) / 100
}

func formatDuration(secs int64) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func spellName(id int) string {
	if name, ok := summonerSpells[id]; ok {
		return name
	}
	return strconv.Itoa(id)
}

func primaryRuneName(p historyParticipant) string {
	if len(p.Perks.Styles) > 0 && len(p.Perks.Styles[0].Selections) > 0 {
		if name, ok := runes[p.Perks.Styles[0].Selections[0].Perk]; ok {
			return name
		}
	}
	return ""
}

func secondaryRuneName(p historyParticipant) string {
	if len(p.Perks.Styles) > 1 {
		if name, ok := runes[p.Perks.Styles[1].Style]; ok {
			return name
		}
	}
	return ""
}
