package logic

import "github.com/pencilhero402/rift-rewind/internal/models"

// Role classification thresholds. A single role at or above
// primaryRoleShare of games wins outright; otherwise the top two roles
// together must reach dualRoleShare, else the player is flex.
const (
	primaryRoleShare = 0.70
	dualRoleShare    = 0.50
)

// NormalizeRole collapses Riot's lane/role pair into one role label.
// Bot-lane carries and supports share the BOTTOM lane, so the role field
// disambiguates them; every other lane stands on its own.
func NormalizeRole(lane, role string) string {
	if lane == models.RoleBottom {
		switch role {
		case "CARRY":
			return models.RoleBottom
		case "SUPPORT":
			return models.RoleSupport
		}
	}
	return lane
}

// ClassifyRoles decides a primary (and possibly secondary) role from a
// tally ordered by descending games. Ties keep the incoming order, so the
// store's ordering is the tie-break.
func ClassifyRoles(counts []models.RoleCount) models.RoleClassification {
	total := 0
	for _, c := range counts {
		total += c.Games
	}
	if total == 0 {
		return models.RoleClassification{Primary: models.RoleFlex}
	}

	if float64(counts[0].Games)/float64(total) >= primaryRoleShare {
		return models.RoleClassification{Primary: counts[0].Role}
	}
	if len(counts) >= 2 {
		topTwo := counts[0].Games + counts[1].Games
		if float64(topTwo)/float64(total) >= dualRoleShare {
			return models.RoleClassification{
				Primary:   counts[0].Role,
				Secondary: counts[1].Role,
			}
		}
	}
	return models.RoleClassification{Primary: models.RoleFlex}
}
