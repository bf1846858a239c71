package brackets

import (
	"math/bits"

	"github.com/Dosada05/league-manager/models"
	"github.com/google/uuid"
)

type SingleEliminationGenerator struct {
	ids IDSource
	rng Shuffler
}

func NewSingleEliminationGenerator(ids IDSource, rng Shuffler) *SingleEliminationGenerator {
	if ids == nil {
		ids = UUIDSource
	}
	if rng == nil {
		rng = DefaultShuffler
	}
	return &SingleEliminationGenerator{ids: ids, rng: rng}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// RoundShape describes how one knockout round consumes its entrants.
type RoundShape struct {
	Entrants int
	Matches  int
	Byes     int
}

// Advancing is the number of entrants the following round receives.
func (s RoundShape) Advancing() int {
	return s.Matches + s.Byes
}

// ShapeFor computes the pairing of n entrants. When n is not a power of two,
// just enough matches are played that the next round has exactly the largest
// power of two not above n; everyone else gets a bye.
func ShapeFor(n int) RoundShape {
	if n < 2 {
		return RoundShape{Entrants: n}
	}
	target := 1 << (bits.Len(uint(n)) - 1)
	if n == target {
		return RoundShape{Entrants: n, Matches: n / 2}
	}
	matches := n - target
	return RoundShape{Entrants: n, Matches: matches, Byes: n - 2*matches}
}

// BracketShape lists the shape of every round from n entrants down to the final.
func BracketShape(n int) []RoundShape {
	var rounds []RoundShape
	for n >= 2 {
		shape := ShapeFor(n)
		rounds = append(rounds, shape)
		n = shape.Advancing()
	}
	return rounds
}

// GenerateBracket produces a single knockout round. Ordinary matches come
// first, consuming entrants pairwise from the front; byes follow.
func (g *SingleEliminationGenerator) GenerateBracket(params GenerateBracketParams) ([]*models.Match, error) {
	if err := validateEntrants(params.TeamIDs); err != nil {
		return nil, err
	}
	if params.Round < 1 {
		return nil, ErrInvalidRound
	}

	entrants := make([]uuid.UUID, len(params.TeamIDs))
	copy(entrants, params.TeamIDs)
	if params.Shuffle {
		g.rng.Shuffle(len(entrants), func(i, j int) {
			entrants[i], entrants[j] = entrants[j], entrants[i]
		})
	}

	shape := ShapeFor(len(entrants))
	matches := make([]*models.Match, 0, shape.Matches+shape.Byes)

	for i := 0; i < shape.Matches; i++ {
		home, away := entrants[2*i], entrants[2*i+1]
		matches = append(matches, newFixture(g.ids, params.TournamentID, home, away, params.Round))
	}
	for _, team := range entrants[2*shape.Matches:] {
		bye := newFixture(g.ids, params.TournamentID, team, team, params.Round)
		bye.HomeScore = models.ByeHomeScore
		bye.AwayScore = models.ByeAwayScore
		bye.Played = true
		bye.IsBye = true
		matches = append(matches, bye)
	}

	return matches, nil
}

// Progression is the outcome of advancing a completed knockout round: either
// the next round's fixtures, or completion with the champion.
type Progression struct {
	Round      int
	Matches    []*models.Match
	Complete   bool
	ChampionID uuid.UUID
}

// NextRound derives the next round from the completed round previousRound.
// Winners keep bracket order; no reseeding happens after the first round.
func (g *SingleEliminationGenerator) NextRound(previous []*models.Match, tournamentID uuid.UUID, previousRound int) (*Progression, error) {
	winners, err := RoundWinners(previous, previousRound)
	if err != nil {
		return nil, err
	}

	if len(previous) == 1 {
		return &Progression{Round: previousRound, Complete: true, ChampionID: winners[0]}, nil
	}

	next := previousRound + 1
	matches, err := g.GenerateBracket(GenerateBracketParams{
		TournamentID: tournamentID,
		TeamIDs:      winners,
		Round:        next,
		Shuffle:      false,
	})
	if err != nil {
		return nil, err
	}
	return &Progression{Round: next, Matches: matches}, nil
}

// Winner returns the advancing team of a played match. A bye advances its home
// team; a draw has no winner.
func Winner(m *models.Match) (uuid.UUID, error) {
	if !m.Played {
		return uuid.Nil, ErrRoundIncomplete
	}
	switch {
	case m.IsBye:
		return m.HomeTeamID, nil
	case m.HomeScore > m.AwayScore:
		return m.HomeTeamID, nil
	case m.AwayScore > m.HomeScore:
		return m.AwayTeamID, nil
	default:
		return uuid.Nil, ErrUndecidedMatch
	}
}

// RoundWinners checks that every match of round is played and returns the
// winners in match order.
func RoundWinners(matches []*models.Match, round int) ([]uuid.UUID, error) {
	if round < 1 {
		return nil, ErrInvalidRound
	}
	if len(matches) == 0 {
		return nil, ErrEmptyRound
	}
	for _, m := range matches {
		if m.Round != round {
			return nil, ErrMixedRounds
		}
		if !m.Played {
			return nil, ErrRoundIncomplete
		}
	}

	winners := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		w, err := Winner(m)
		if err != nil {
			return nil, err
		}
		winners = append(winners, w)
	}
	return winners, nil
}

// LatestRound returns the highest round number among matches together with the
// matches of that round, in their original order. It returns 0 for no matches.
func LatestRound(matches []*models.Match) (int, []*models.Match) {
	latest := 0
	for _, m := range matches {
		if m.Round > latest {
			latest = m.Round
		}
	}
	if latest == 0 {
		return 0, nil
	}
	round := make([]*models.Match, 0)
	for _, m := range matches {
		if m.Round == latest {
			round = append(round, m)
		}
	}
	return latest, round
}

// Champion reports the winner of a knockout whose last round is a single,
// decided match.
func Champion(matches []*models.Match) (uuid.UUID, bool) {
	_, last := LatestRound(matches)
	if len(last) != 1 {
		return uuid.Nil, false
	}
	w, err := Winner(last[0])
	if err != nil {
		return uuid.Nil, false
	}
	return w, true
}
