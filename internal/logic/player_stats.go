package logic

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

// participantRows expands cached match blobs into one row per appearance
// of the player. All metric queries build on this fragment so a blob never
// needs materialized columns.
const participantRows = `
	FROM match_data m,
	     jsonb_array_elements(m.match_data->'info'->'participants') AS p
	WHERE p->>'puuid' = $1`

type playerStatsService struct {
	db          PgPool
	topChampCap int
	logger      *zap.SugaredLogger
}

// NewPlayerStatsService creates a player stats service. topChampCap is the
// default size of the top-champion ranking.
func NewPlayerStatsService(db PgPool, topChampCap int, logger *zap.SugaredLogger) PlayerStatsService {
	if topChampCap <= 0 {
		topChampCap = 6
	}
	return &playerStatsService{db: db, topChampCap: topChampCap, logger: logger}
}

// RoleCounts tallies normalized roles over every cached appearance of the
// player, most-played first. Role normalization matches NormalizeRole.
func (s *playerStatsService) RoleCounts(ctx context.Context, puuid string) ([]models.RoleCount, error) {
	rows, err := s.db.Query(ctx, `
		SELECT CASE
			WHEN p->>'lane' = 'BOTTOM' AND p->>'role' = 'CARRY' THEN 'BOTTOM'
			WHEN p->>'lane' = 'BOTTOM' AND p->>'role' = 'SUPPORT' THEN 'SUPPORT'
			ELSE p->>'lane'
		END AS role, COUNT(*) AS games`+participantRows+`
		GROUP BY 1
		ORDER BY games DESC, role`, puuid)
	if err != nil {
		return nil, fmt.Errorf("role counts for %s: %w", puuid, err)
	}
	defer rows.Close()

	var counts []models.RoleCount
	for rows.Next() {
		var c models.RoleCount
		if err := rows.Scan(&c.Role, &c.Games); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TopChampions returns up to n champions by games played. Fewer distinct
// champions than n yields a shorter list, never padding.
func (s *playerStatsService) TopChampions(ctx context.Context, puuid string, n int) ([]models.ChampionGames, error) {
	if n <= 0 {
		n = s.topChampCap
	}
	rows, err := s.db.Query(ctx, `
		SELECT p->>'championName' AS champion, COUNT(*) AS games`+participantRows+`
		GROUP BY 1
		ORDER BY games DESC, champion
		LIMIT $2`, puuid, n)
	if err != nil {
		return nil, fmt.Errorf("top champions for %s: %w", puuid, err)
	}
	defer rows.Close()

	var out []models.ChampionGames
	for rows.Next() {
		var c models.ChampionGames
		if err := rows.Scan(&c.Name, &c.Games); err != nil {
			return nil, fmt.Errorf("scan champion games: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// WinRate is wins over games played, 0 when the player has no cached
// matches.
func (s *playerStatsService) WinRate(ctx context.Context, puuid string) (float64, error) {
	var winrate float64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(CASE WHEN (p->>'win')::boolean THEN 1.0 ELSE 0.0 END), 0)`+
		participantRows, puuid).Scan(&winrate)
	if err != nil {
		return 0, fmt.Errorf("winrate for %s: %w", puuid, err)
	}
	return winrate, nil
}

// Missing or null blob fields contribute zero to averages rather than
// being dropped, so partial data pulls a metric down instead of hiding.
func (s *playerStatsService) Aggression(ctx context.Context, puuid string) (models.AggressionStats, error) {
	var a models.AggressionStats
	err := s.db.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(COALESCE((p->'challenges'->>'damagePerMinute')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'teamDamagePercentage')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'kda')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'soloKills')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->'challenges'->>'killParticipation')::float8, 0)), 0)`+
		participantRows, puuid).
		Scan(&a.DamagePerMinute, &a.TeamDamagePercent, &a.KDA, &a.SoloKills, &a.KillParticipation)
	if err != nil {
		return models.AggressionStats{}, fmt.Errorf("aggression stats for %s: %w", puuid, err)
	}
	return a, nil
}

func (s *playerStatsService) Income(ctx context.Context, puuid string) (models.IncomeStats, error) {
	var i models.IncomeStats
	err := s.db.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(COALESCE((p->'challenges'->>'goldPerMinute')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'goldEarned')::float8, 0) / GREATEST(team.gold, 1)), 0),
			COALESCE(AVG((COALESCE((p->>'totalMinionsKilled')::float8, 0)
				+ COALESCE((p->>'neutralMinionsKilled')::float8, 0))
				/ GREATEST((m.match_data->'info'->>'gameDuration')::float8 / 60, 1)), 0)
		FROM match_data m,
		     jsonb_array_elements(m.match_data->'info'->'participants') AS p,
		     LATERAL (
			SELECT COALESCE(SUM((tm->>'goldEarned')::float8), 0) AS gold
			FROM jsonb_array_elements(m.match_data->'info'->'participants') AS tm
			WHERE tm->>'teamId' = p->>'teamId'
		     ) AS team
		WHERE p->>'puuid' = $1`, puuid).
		Scan(&i.GoldPerMinute, &i.GoldPercentage, &i.CSPerMinute)
	if err != nil {
		return models.IncomeStats{}, fmt.Errorf("income stats for %s: %w", puuid, err)
	}
	return i, nil
}

func (s *playerStatsService) Vision(ctx context.Context, puuid string) (models.VisionStats, error) {
	var v models.VisionStats
	err := s.db.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(COALESCE((p->'challenges'->>'visionScorePerMinute')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'visionScore')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'wardsKilled')::float8, 0)), 0)`+
		participantRows, puuid).
		Scan(&v.VisionScorePerMinute, &v.AvgVisionScore, &v.AvgWardsCleared)
	if err != nil {
		return models.VisionStats{}, fmt.Errorf("vision stats for %s: %w", puuid, err)
	}
	return v, nil
}

func (s *playerStatsService) Objectives(ctx context.Context, puuid string) (models.ObjectiveStats, error) {
	var o models.ObjectiveStats
	err := s.db.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(COALESCE((p->>'damageDealtToObjectives')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'damageDealtToTurrets')::float8, 0)), 0),
			COALESCE(AVG(COALESCE((p->>'turretTakedowns')::float8, 0)), 0)`+
		participantRows, puuid).
		Scan(&o.AvgDamageToObjectives, &o.AvgDamageToTurrets, &o.AvgTurretTakedowns)
	if err != nil {
		return models.ObjectiveStats{}, fmt.Errorf("objective stats for %s: %w", puuid, err)
	}
	return o, nil
}

// ComputePlayerStats recomputes every stat group from scratch. Metric
// groups run concurrently; a failure in any group fails the whole
// recompute rather than persisting a partial row.
func (s *playerStatsService) ComputePlayerStats(ctx context.Context, puuid string) (*models.PlayerStats, error) {
	counts, err := s.RoleCounts(ctx, puuid)
	if err != nil {
		return nil, err
	}

	stats := &models.PlayerStats{
		PUUID:        puuid,
		Role:         ClassifyRoles(counts),
		TopChampions: []models.ChampionGames{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		champs, err := s.TopChampions(gctx, puuid, s.topChampCap)
		if err == nil && champs != nil {
			stats.TopChampions = champs
		}
		return err
	})
	g.Go(func() error {
		wr, err := s.WinRate(gctx, puuid)
		stats.Winrate = wr
		return err
	})
	g.Go(func() error {
		a, err := s.Aggression(gctx, puuid)
		stats.Aggression = a
		return err
	})
	g.Go(func() error {
		i, err := s.Income(gctx, puuid)
		stats.Income = i
		return err
	})
	g.Go(func() error {
		v, err := s.Vision(gctx, puuid)
		stats.Vision = v
		return err
	})
	g.Go(func() error {
		o, err := s.Objectives(gctx, puuid)
		stats.Objective = o
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute player stats for %s: %w", puuid, err)
	}

	s.logger.Infow("computed player stats",
		"puuid", puuid,
		"primary_role", stats.Role.Primary,
		"winrate", stats.Winrate)
	return stats, nil
}
