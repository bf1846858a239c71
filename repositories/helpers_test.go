package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckAffectedRows(t *testing.T) {
	notFound := errors.New("gone")

	assert.NoError(t, checkAffectedRows(fakeResult{rows: 1}, notFound))
	assert.ErrorIs(t, checkAffectedRows(fakeResult{rows: 0}, notFound), notFound)

	driverErr := errors.New("driver")
	err := checkAffectedRows(fakeResult{err: driverErr}, notFound)
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, notFound)
}

func TestPQCodeUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: pqUniqueViolation, Constraint: "teams_tournament_name_key"})
	code, constraint := pqCode(wrapped)
	assert.Equal(t, pqUniqueViolation, code)
	assert.Equal(t, "teams_tournament_name_key", constraint)

	code, constraint = pqCode(errors.New("plain"))
	assert.Empty(t, code)
	assert.Empty(t, constraint)
}

func TestTeamErrorMapping(t *testing.T) {
	r := &postgresTeamRepository{}
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate name", &pq.Error{Code: pqUniqueViolation, Constraint: "teams_tournament_name_key"}, ErrTeamNameConflict},
		{"unknown tournament", &pq.Error{Code: pqForeignKeyViolation, Constraint: "teams_tournament_id_fkey"}, ErrTeamTournamentInvalid},
		{"home side reference", &pq.Error{Code: pqForeignKeyViolation, Constraint: "matches_home_team_id_fkey"}, ErrTeamHasMatches},
		{"away side reference", &pq.Error{Code: pqForeignKeyViolation, Constraint: "matches_away_team_id_fkey"}, ErrTeamHasMatches},
		{"negative counter", &pq.Error{Code: pqCheckViolation, Constraint: "teams_points_check"}, ErrTeamStatsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.handleTeamError(tt.err), tt.want)
		})
	}

	assert.NoError(t, r.handleTeamError(nil))
	other := errors.New("connection reset")
	assert.ErrorIs(t, r.handleTeamError(other), other)
}

func TestMatchErrorMapping(t *testing.T) {
	r := &postgresMatchRepository{}

	assert.ErrorIs(t, r.handleMatchError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "matches_tournament_id_fkey"}), ErrMatchTournamentInvalid)
	assert.ErrorIs(t, r.handleMatchError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "matches_away_team_id_fkey"}), ErrMatchTeamInvalid)

	unique := &pq.Error{Code: pqUniqueViolation, Constraint: "matches_pkey"}
	assert.ErrorIs(t, r.handleMatchError(unique), unique)
}
