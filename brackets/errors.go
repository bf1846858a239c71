package brackets

import (
	"errors"
	"fmt"
)

// Base categories. Every error returned by this package wraps exactly one of them.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrImmutableEntity    = errors.New("entity is immutable")
)

var (
	ErrNotEnoughTeams    = fmt.Errorf("%w: at least two teams are required", ErrInvalidInput)
	ErrDuplicateTeam     = fmt.Errorf("%w: team listed more than once", ErrInvalidInput)
	ErrUnassignedTeam    = fmt.Errorf("%w: team id is not set", ErrInvalidInput)
	ErrInvalidRound      = fmt.Errorf("%w: round must be a positive number", ErrInvalidInput)
	ErrNegativeScore     = fmt.Errorf("%w: scores must not be negative", ErrInvalidInput)
	ErrTeamMismatch      = fmt.Errorf("%w: teams do not belong to the match", ErrInvalidInput)
	ErrEmptyRound        = fmt.Errorf("%w: round has no matches", ErrInvalidInput)
	ErrMixedRounds       = fmt.Errorf("%w: matches belong to different rounds", ErrInvalidInput)
	ErrSelfPairedFixture = fmt.Errorf("%w: a non-bye match needs two different teams", ErrInvalidInput)

	ErrRoundIncomplete    = fmt.Errorf("%w: finish all matches in current round first", ErrPreconditionFailed)
	ErrTournamentFinished = fmt.Errorf("%w: tournament already finished", ErrPreconditionFailed)
	ErrUndecidedMatch     = fmt.Errorf("%w: drawn knockout match has no winner", ErrPreconditionFailed)
	ErrStatsCorrupted     = fmt.Errorf("%w: stored team stats cannot absorb the previous result", ErrPreconditionFailed)

	ErrByeImmutable = fmt.Errorf("%w: results cannot be recorded for a bye", ErrImmutableEntity)
)
