package brackets

import "github.com/Dosada05/league-manager/models"

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// ApplyResult is the single unit of change produced by RecordResult. The match
// update and both team deltas must be committed together.
type ApplyResult struct {
	Match     *models.Match
	HomeTeam  *models.Team
	AwayTeam  *models.Team
	HomeDelta models.TeamStats
	AwayDelta models.TeamStats
	// Replaced is true when an earlier result was reversed.
	Replaced bool
}

// outcome returns the contribution of one match result to the team that
// scored goalsFor and conceded goalsAgainst.
func outcome(goalsFor, goalsAgainst int) models.TeamStats {
	s := models.TeamStats{Played: 1, GoalsFor: goalsFor, GoalsAgainst: goalsAgainst}
	switch {
	case goalsFor > goalsAgainst:
		s.Won = 1
		s.Points = pointsForWin
	case goalsFor == goalsAgainst:
		s.Drawn = 1
		s.Points = pointsForDraw
	default:
		s.Lost = 1
	}
	return s
}

// RecordResult applies homeScore-awayScore to match and its two teams. A
// previously recorded result is reversed first, so re-recording the same score
// leaves team totals unchanged. The inputs are not modified; updated copies are
// returned in the ApplyResult.
func RecordResult(match *models.Match, home, away *models.Team, homeScore, awayScore int) (*ApplyResult, error) {
	if match.IsBye {
		return nil, ErrByeImmutable
	}
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrNegativeScore
	}
	if match.HomeTeamID == match.AwayTeamID {
		return nil, ErrSelfPairedFixture
	}
	if home == nil || away == nil || home.ID != match.HomeTeamID || away.ID != match.AwayTeamID {
		return nil, ErrTeamMismatch
	}

	var homeDelta, awayDelta models.TeamStats
	if match.Played {
		homeDelta = outcome(match.HomeScore, match.AwayScore).Negate()
		awayDelta = outcome(match.AwayScore, match.HomeScore).Negate()
	}
	homeDelta = homeDelta.Add(outcome(homeScore, awayScore))
	awayDelta = awayDelta.Add(outcome(awayScore, homeScore))

	updatedHome := *home
	updatedHome.TeamStats = home.TeamStats.Add(homeDelta)
	updatedAway := *away
	updatedAway.TeamStats = away.TeamStats.Add(awayDelta)
	if !updatedHome.TeamStats.Consistent() || !updatedAway.TeamStats.Consistent() {
		return nil, ErrStatsCorrupted
	}

	updatedMatch := *match
	updatedMatch.HomeScore = homeScore
	updatedMatch.AwayScore = awayScore
	updatedMatch.Played = true

	return &ApplyResult{
		Match:     &updatedMatch,
		HomeTeam:  &updatedHome,
		AwayTeam:  &updatedAway,
		HomeDelta: homeDelta,
		AwayDelta: awayDelta,
		Replaced:  match.Played,
	}, nil
}
