package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-manager/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name already used in this tournament")
	ErrTeamTournamentInvalid = errors.New("team tournament does not exist")
	ErrTeamHasMatches        = errors.New("team is referenced by matches")
	ErrTeamStatsInvalid      = errors.New("team stats would become invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Team, error)
	// ListByTournament returns teams in registration order.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Team, error)
	// GetForUpdate locks the given teams until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, tx SQLExecutor, ids ...uuid.UUID) ([]*models.Team, error)
	ApplyDelta(ctx context.Context, exec SQLExecutor, id uuid.UUID, delta models.TeamStats) error
	ResetStats(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error
	Delete(ctx context.Context, exec SQLExecutor, id uuid.UUID) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, tournament_id, name, played, won, drawn, lost, goals_for, goals_against, points, created_at`

func scanTeam(row interface{ Scan(...any) error }) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(
		&t.ID,
		&t.TournamentID,
		&t.Name,
		&t.Played,
		&t.Won,
		&t.Drawn,
		&t.Lost,
		&t.GoalsFor,
		&t.GoalsAgainst,
		&t.Points,
		&t.CreatedAt,
	)
	return t, err
}

func scanTeams(rows *sql.Rows) ([]*models.Team, error) {
	defer rows.Close()
	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	query := `INSERT INTO teams (id, tournament_id, name) VALUES ($1, $2, $3) RETURNING created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, team.ID, team.TournamentID, team.Name).Scan(&team.CreatedAt)
	if err != nil {
		return r.handleTeamError(err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	t, err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY seq`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of tournament %s: %w", tournamentID, err)
	}
	return scanTeams(rows)
}

func (r *postgresTeamRepository) GetForUpdate(ctx context.Context, tx SQLExecutor, ids ...uuid.UUID) ([]*models.Team, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	// Rows are locked in id order so concurrent writers cannot deadlock.
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`
	rows, err := r.getExecutor(tx).QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to lock teams: %w", err)
	}
	teams, err := scanTeams(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	ordered := make([]*models.Team, len(ids))
	for i, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, ErrTeamNotFound
		}
		ordered[i] = t
	}
	return ordered, nil
}

func (r *postgresTeamRepository) ApplyDelta(ctx context.Context, exec SQLExecutor, id uuid.UUID, delta models.TeamStats) error {
	query := `
		UPDATE teams
		SET played = played + $1,
			won = won + $2,
			drawn = drawn + $3,
			lost = lost + $4,
			goals_for = goals_for + $5,
			goals_against = goals_against + $6,
			points = points + $7
		WHERE id = $8`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		delta.Played,
		delta.Won,
		delta.Drawn,
		delta.Lost,
		delta.GoalsFor,
		delta.GoalsAgainst,
		delta.Points,
		id,
	)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) ResetStats(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error {
	query := `
		UPDATE teams
		SET played = 0, won = 0, drawn = 0, lost = 0, goals_for = 0, goals_against = 0, points = 0
		WHERE tournament_id = $1`
	if _, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to reset team stats of tournament %s: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id uuid.UUID) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error {
	if _, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE tournament_id = $1`, tournamentID); err != nil {
		return r.handleTeamError(err)
	}
	return nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint := pqCode(err)
	switch code {
	case pqUniqueViolation:
		if constraint == "teams_tournament_name_key" {
			return ErrTeamNameConflict
		}
	case pqForeignKeyViolation:
		switch constraint {
		case "teams_tournament_id_fkey":
			return ErrTeamTournamentInvalid
		case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
			return ErrTeamHasMatches
		}
	case pqCheckViolation:
		return ErrTeamStatsInvalid
	}
	return fmt.Errorf("team query failed: %w", err)
}
