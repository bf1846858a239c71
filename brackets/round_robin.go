package brackets

import (
	"github.com/Dosada05/league-manager/models"
	"github.com/google/uuid"
)

type RoundRobinGenerator struct {
	ids IDSource
}

func NewRoundRobinGenerator(ids IDSource) *RoundRobinGenerator {
	if ids == nil {
		ids = UUIDSource
	}
	return &RoundRobinGenerator{ids: ids}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// rrSlot is one position on the rotation wheel. An odd field is padded with a
// slot that has bye set; pairings against it are skipped.
type rrSlot struct {
	team uuid.UUID
	bye  bool
}

// GenerateBracket schedules a single round robin with the circle method.
// Round and Shuffle in params are ignored: the whole league is produced at once
// and home/away follows slot order.
func (g *RoundRobinGenerator) GenerateBracket(params GenerateBracketParams) ([]*models.Match, error) {
	if err := validateEntrants(params.TeamIDs); err != nil {
		return nil, err
	}

	slots := make([]rrSlot, 0, len(params.TeamIDs)+1)
	for _, id := range params.TeamIDs {
		slots = append(slots, rrSlot{team: id})
	}
	if len(slots)%2 != 0 {
		slots = append(slots, rrSlot{bye: true})
	}

	m := len(slots)
	n := len(params.TeamIDs)
	matches := make([]*models.Match, 0, n*(n-1)/2)

	for round := 0; round < m-1; round++ {
		for i := 0; i < m/2; i++ {
			home, away := slots[i], slots[m-1-i]
			if home.bye || away.bye {
				continue
			}
			matches = append(matches, newFixture(g.ids, params.TournamentID, home.team, away.team, round+1))
		}
		rotate(slots)
	}

	return matches, nil
}

// rotate moves the last slot to index 1; index 0 never moves.
func rotate(slots []rrSlot) {
	last := slots[len(slots)-1]
	copy(slots[2:], slots[1:len(slots)-1])
	slots[1] = last
}

// RoundCount is the number of rounds a league of n teams needs.
func RoundCount(n int) int {
	if n < 2 {
		return 0
	}
	if n%2 != 0 {
		return n
	}
	return n - 1
}
