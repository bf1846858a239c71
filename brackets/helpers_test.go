package brackets

import (
	"encoding/binary"
	"fmt"

	"github.com/Dosada05/league-manager/models"
	"github.com/google/uuid"
)

// seqIDs hands out predictable identifiers so fixtures can be compared exactly.
type seqIDs struct {
	n uint32
}

func (s *seqIDs) NewID() uuid.UUID {
	s.n++
	var id uuid.UUID
	binary.BigEndian.PutUint32(id[12:], s.n)
	return id
}

// keepOrder is a Shuffler that leaves entrants where they are.
type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

// reverseOrder is a Shuffler with a known, non-identity permutation.
type reverseOrder struct{}

func (reverseOrder) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

var testTournamentID = uuid.MustParse("6f1d8d0e-9a0c-4c55-9a3e-2b8a3b1f0c11")

func teamIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("team-%d", i)))
	}
	return ids
}

func newTeam(id uuid.UUID, name string) *models.Team {
	return &models.Team{ID: id, TournamentID: testTournamentID, Name: name}
}

// playHomeWins records a 1-0 home win on every unplayed match.
func playHomeWins(matches []*models.Match) {
	for _, m := range matches {
		if !m.Played {
			m.HomeScore, m.AwayScore, m.Played = 1, 0, true
		}
	}
}
