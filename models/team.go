package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamStats holds the cumulative league counters of a team.
// Played = Won + Drawn + Lost and Points = 3*Won + Drawn must hold at all times.
type TeamStats struct {
	Played       int `json:"played" db:"played"`
	Won          int `json:"won" db:"won"`
	Drawn        int `json:"drawn" db:"drawn"`
	Lost         int `json:"lost" db:"lost"`
	GoalsFor     int `json:"goals_for" db:"goals_for"`
	GoalsAgainst int `json:"goals_against" db:"goals_against"`
	Points       int `json:"points" db:"points"`
}

func (s TeamStats) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// Add returns s with every counter of d added to it.
func (s TeamStats) Add(d TeamStats) TeamStats {
	return TeamStats{
		Played:       s.Played + d.Played,
		Won:          s.Won + d.Won,
		Drawn:        s.Drawn + d.Drawn,
		Lost:         s.Lost + d.Lost,
		GoalsFor:     s.GoalsFor + d.GoalsFor,
		GoalsAgainst: s.GoalsAgainst + d.GoalsAgainst,
		Points:       s.Points + d.Points,
	}
}

// Negate flips the sign of every counter; used to undo a previously applied result.
func (s TeamStats) Negate() TeamStats {
	return TeamStats{
		Played:       -s.Played,
		Won:          -s.Won,
		Drawn:        -s.Drawn,
		Lost:         -s.Lost,
		GoalsFor:     -s.GoalsFor,
		GoalsAgainst: -s.GoalsAgainst,
		Points:       -s.Points,
	}
}

func (s TeamStats) IsZero() bool {
	return s == TeamStats{}
}

// Consistent reports whether the counters are non-negative and satisfy the
// played and points identities.
func (s TeamStats) Consistent() bool {
	if s.Played < 0 || s.Won < 0 || s.Drawn < 0 || s.Lost < 0 ||
		s.GoalsFor < 0 || s.GoalsAgainst < 0 || s.Points < 0 {
		return false
	}
	return s.Played == s.Won+s.Drawn+s.Lost && s.Points == 3*s.Won+s.Drawn
}

type Team struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TournamentID uuid.UUID `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	TeamStats
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
