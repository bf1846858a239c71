package brackets

import (
	"math/rand/v2"

	"github.com/Dosada05/league-manager/models"
	"github.com/google/uuid"
)

// IDSource hands out identities for newly generated matches.
type IDSource interface {
	NewID() uuid.UUID
}

type IDFunc func() uuid.UUID

func (f IDFunc) NewID() uuid.UUID { return f() }

// UUIDSource issues random v4 identifiers.
var UUIDSource IDSource = IDFunc(uuid.New)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultShuffler draws from the math/rand/v2 global source.
var DefaultShuffler Shuffler = globalShuffler{}

type GenerateBracketParams struct {
	TournamentID uuid.UUID
	TeamIDs      []uuid.UUID
	Round        int
	Shuffle      bool
}

type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) ([]*models.Match, error)

	GetName() string
}

func validateEntrants(teamIDs []uuid.UUID) error {
	if len(teamIDs) < 2 {
		return ErrNotEnoughTeams
	}
	seen := make(map[uuid.UUID]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if id == uuid.Nil {
			return ErrUnassignedTeam
		}
		if _, dup := seen[id]; dup {
			return ErrDuplicateTeam
		}
		seen[id] = struct{}{}
	}
	return nil
}

func newFixture(ids IDSource, tournamentID, home, away uuid.UUID, round int) *models.Match {
	return &models.Match{
		ID:           ids.NewID(),
		TournamentID: tournamentID,
		HomeTeamID:   home,
		AwayTeamID:   away,
		Round:        round,
	}
}
