package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/league-manager/brackets"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")

	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	ErrTournamentInvalidType  = fmt.Errorf("%w: tournament type must be league or knockout", ErrValidationFailed)
	ErrTeamNameRequired       = fmt.Errorf("%w: team name is required", ErrValidationFailed)
	ErrScoresRequired         = fmt.Errorf("%w: home_score and away_score are required", ErrValidationFailed)
	ErrInvalidRoundFilter     = fmt.Errorf("%w: round must be a positive number", ErrValidationFailed)

	ErrTeamNameConflict = errors.New("team name is already used in this tournament")

	// Rule violations on existing state. They wrap the precondition category
	// so callers can treat them like core precondition failures.
	ErrFixturesAlreadyGenerated = fmt.Errorf("%w: league fixtures already generated", brackets.ErrPreconditionFailed)
	ErrFixturesExist            = fmt.Errorf("%w: teams cannot change once fixtures exist", brackets.ErrPreconditionFailed)
	ErrRoundAlreadyAdvanced     = fmt.Errorf("%w: match belongs to a round that already produced the next one", brackets.ErrPreconditionFailed)

	ErrStorageNotConfigured = errors.New("snapshot storage is not configured")

	ErrAuthDisabled           = errors.New("authentication is not configured")
	ErrAuthInvalidCredentials = errors.New("invalid password")
)
