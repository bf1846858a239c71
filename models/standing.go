package models

import "github.com/google/uuid"

// Standing is one row of a ranked table.
type Standing struct {
	Position       int       `json:"position"`
	TeamID         uuid.UUID `json:"team_id"`
	TeamName       string    `json:"team_name"`
	GoalDifference int       `json:"goal_difference"`
	TeamStats
}
