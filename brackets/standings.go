package brackets

import (
	"sort"

	"github.com/Dosada05/league-manager/models"
)

// ComputeStandings orders teams by points, then goal difference, then goals
// scored, all descending. Equal teams keep their input order. The input slice
// is left untouched.
func ComputeStandings(teams []*models.Team) []*models.Team {
	ordered := make([]*models.Team, len(teams))
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if gdA, gdB := a.GoalDifference(), b.GoalDifference(); gdA != gdB {
			return gdA > gdB
		}
		return a.GoalsFor > b.GoalsFor
	})
	return ordered
}

// RankStandings is ComputeStandings projected into numbered table rows.
func RankStandings(teams []*models.Team) []models.Standing {
	ordered := ComputeStandings(teams)
	rows := make([]models.Standing, 0, len(ordered))
	for i, t := range ordered {
		rows = append(rows, models.Standing{
			Position:       i + 1,
			TeamID:         t.ID,
			TeamName:       t.Name,
			GoalDifference: t.GoalDifference(),
			TeamStats:      t.TeamStats,
		})
	}
	return rows
}

// ResetTeams returns copies of teams with every counter zeroed.
func ResetTeams(teams []*models.Team) []*models.Team {
	reset := make([]*models.Team, 0, len(teams))
	for _, t := range teams {
		c := *t
		c.TeamStats = models.TeamStats{}
		reset = append(reset, &c)
	}
	return reset
}
