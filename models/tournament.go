package models

import (
	"time"

	"github.com/google/uuid"
)

type TournamentType string

const (
	TournamentTypeLeague   TournamentType = "league"
	TournamentTypeKnockout TournamentType = "knockout"
)

func (t TournamentType) Valid() bool {
	return t == TournamentTypeLeague || t == TournamentTypeKnockout
}

// Tournament is the aggregate owning teams and matches. Teams and Matches are
// kept in insertion order; for matches that is generation order, not round order.
type Tournament struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Type      TournamentType `json:"type" db:"type"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`

	Teams   []*Team  `json:"teams,omitempty" db:"-"`
	Matches []*Match `json:"matches,omitempty" db:"-"`

	// Set for a knockout whose final has been played.
	ChampionID *uuid.UUID `json:"champion_id,omitempty" db:"champion_id"`
}
