package models

import (
	"time"

	"github.com/google/uuid"
)

// Placeholder score stored on bye matches. It is never applied to team stats.
const (
	ByeHomeScore = 1
	ByeAwayScore = 0
)

type Match struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TournamentID uuid.UUID `json:"tournament_id" db:"tournament_id"`
	HomeTeamID   uuid.UUID `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   uuid.UUID `json:"away_team_id" db:"away_team_id"`
	HomeScore    int       `json:"home_score" db:"home_score"`
	AwayScore    int       `json:"away_score" db:"away_score"`
	Played       bool      `json:"played" db:"played"`
	IsBye        bool      `json:"is_bye" db:"is_bye"`
	Round        int       `json:"round" db:"round"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Populated by the service layer for responses, not stored.
	HomeTeam *Team `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team `json:"away_team,omitempty" db:"-"`
}

// Involves reports whether teamID is on either side of the match.
func (m *Match) Involves(teamID uuid.UUID) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}
