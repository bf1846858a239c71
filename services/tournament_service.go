package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-manager/brackets"
	"github.com/Dosada05/league-manager/models"
	"github.com/Dosada05/league-manager/realtime"
	"github.com/Dosada05/league-manager/repositories"
	"github.com/Dosada05/league-manager/storage"
	"github.com/Dosada05/league-manager/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type CreateTournamentInput struct {
	Name string                `json:"name"`
	Type models.TournamentType `json:"type"`
}

// GenerateResult is the outcome of one fixture generation request. Round is
// the highest round number among the generated matches.
type GenerateResult struct {
	Round   int             `json:"round"`
	Matches []*models.Match `json:"matches"`
}

// Snapshot is the document uploaded by ExportSnapshot.
type Snapshot struct {
	Tournament *models.Tournament `json:"tournament"`
	Standings  []models.Standing  `json:"standings"`
	ExportedAt time.Time          `json:"exported_at"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	ListTournaments(ctx context.Context, limit, offset int) ([]*models.Tournament, error)
	GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	RenameTournament(ctx context.Context, id uuid.UUID, name string) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id uuid.UUID) error

	AddTeam(ctx context.Context, tournamentID uuid.UUID, name string) (*models.Team, error)
	RemoveTeam(ctx context.Context, tournamentID, teamID uuid.UUID) error

	GenerateFixtures(ctx context.Context, tournamentID uuid.UUID) (*GenerateResult, error)
	ClearFixtures(ctx context.Context, tournamentID uuid.UUID) ([]*models.Team, error)
	ListMatches(ctx context.Context, tournamentID uuid.UUID, round *int) ([]*models.Match, error)
	GetStandings(ctx context.Context, tournamentID uuid.UUID) ([]models.Standing, error)

	ExportSnapshot(ctx context.Context, tournamentID uuid.UUID) (*storage.UploadResult, error)
}

type tournamentService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	league         *brackets.RoundRobinGenerator
	knockout       *brackets.SingleEliminationGenerator
	uploader       storage.FileUploader
	notifier       Notifier
	logger         *slog.Logger
	now            func() time.Time
}

// NewTournamentService wires the service. uploader may be nil when snapshot
// export is not configured; notifier may be nil when nobody listens.
func NewTournamentService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	knockout *brackets.SingleEliminationGenerator,
	uploader storage.FileUploader,
	notifier Notifier,
	logger *slog.Logger,
) TournamentService {
	if knockout == nil {
		knockout = brackets.NewSingleEliminationGenerator(nil, nil)
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		league:         brackets.NewRoundRobinGenerator(nil),
		knockout:       knockout,
		uploader:       uploader,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

func mapTournamentErr(err error) error {
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := utils.NormalizeName(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Type == "" {
		input.Type = models.TournamentTypeLeague
	}
	if !input.Type.Valid() {
		return nil, ErrTournamentInvalidType
	}

	tournament := &models.Tournament{ID: uuid.New(), Name: name, Type: input.Type}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	s.logger.Info("tournament created", slog.String("tournament_id", tournament.ID.String()), slog.String("type", string(tournament.Type)))
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	tournaments, err := s.tournamentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

// GetTournament loads the tournament with its teams and matches.
func (s *tournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTournamentErr(err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to load teams of tournament %s: %w", id, err)
		}
		tournament.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, nil, id, nil)
		if err != nil {
			return fmt.Errorf("failed to load matches of tournament %s: %w", id, err)
		}
		tournament.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) RenameTournament(ctx context.Context, id uuid.UUID, name string) (*models.Tournament, error) {
	name = utils.NormalizeName(name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if err := s.tournamentRepo.UpdateName(ctx, nil, id, name); err != nil {
		return nil, mapTournamentErr(err)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTournamentErr(err)
	}
	return tournament, nil
}

// DeleteTournament removes the tournament together with its matches and teams.
func (s *tournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetForUpdate(ctx, tx, id); err != nil {
			return mapTournamentErr(err)
		}
		if _, err := s.matchRepo.DeleteByTournament(ctx, tx, id); err != nil {
			return err
		}
		if err := s.teamRepo.DeleteByTournament(ctx, tx, id); err != nil {
			return err
		}
		return mapTournamentErr(s.tournamentRepo.Delete(ctx, tx, id))
	})
	if err != nil {
		return err
	}
	s.logger.Info("tournament deleted", slog.String("tournament_id", id.String()))
	return nil
}

func (s *tournamentService) AddTeam(ctx context.Context, tournamentID uuid.UUID, name string) (*models.Team, error) {
	name = utils.NormalizeName(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{ID: uuid.New(), TournamentID: tournamentID, Name: name}
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetForUpdate(ctx, tx, tournamentID); err != nil {
			return mapTournamentErr(err)
		}
		n, err := s.matchRepo.CountByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrFixturesExist
		}
		if err := s.teamRepo.Create(ctx, tx, team); err != nil {
			switch {
			case errors.Is(err, repositories.ErrTeamNameConflict):
				return ErrTeamNameConflict
			case errors.Is(err, repositories.ErrTeamTournamentInvalid):
				return ErrTournamentNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(tournamentID, realtime.EventTeamAdded, team)
	return team, nil
}

func (s *tournamentService) RemoveTeam(ctx context.Context, tournamentID, teamID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetForUpdate(ctx, tx, tournamentID); err != nil {
			return mapTournamentErr(err)
		}
		team, err := s.teamRepo.GetByID(ctx, tx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		if team.TournamentID != tournamentID {
			return ErrTeamNotFound
		}
		n, err := s.matchRepo.CountByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrFixturesExist
		}
		if err := s.teamRepo.Delete(ctx, tx, teamID); err != nil {
			switch {
			case errors.Is(err, repositories.ErrTeamHasMatches):
				return ErrFixturesExist
			case errors.Is(err, repositories.ErrTeamNotFound):
				return ErrTeamNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(tournamentID, realtime.EventTeamRemoved, map[string]uuid.UUID{"team_id": teamID})
	return nil
}

// GenerateFixtures schedules a whole league, or the next knockout round: the
// first round (shuffled) when none exists yet, otherwise the round fed by the
// winners of the latest one.
func (s *tournamentService) GenerateFixtures(ctx context.Context, tournamentID uuid.UUID) (*GenerateResult, error) {
	var result *GenerateResult
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.GetForUpdate(ctx, tx, tournamentID)
		if err != nil {
			return mapTournamentErr(err)
		}
		if tournament.ChampionID != nil {
			return brackets.ErrTournamentFinished
		}

		teams, err := s.teamRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		existing, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, nil)
		if err != nil {
			return err
		}

		switch tournament.Type {
		case models.TournamentTypeLeague:
			result, err = s.generateLeague(tournamentID, teams, existing)
		case models.TournamentTypeKnockout:
			result, err = s.generateKnockoutRound(tournamentID, teams, existing)
		default:
			err = ErrTournamentInvalidType
		}
		if err != nil {
			return err
		}

		return s.matchRepo.CreateBatch(ctx, tx, result.Matches)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixtures generated",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("round", result.Round),
		slog.Int("matches", len(result.Matches)),
	)
	s.notifier.Publish(tournamentID, realtime.EventFixturesGenerated, result)
	return result, nil
}

func (s *tournamentService) generateLeague(tournamentID uuid.UUID, teams []*models.Team, existing []*models.Match) (*GenerateResult, error) {
	if len(existing) > 0 {
		return nil, ErrFixturesAlreadyGenerated
	}
	matches, err := s.league.GenerateBracket(brackets.GenerateBracketParams{
		TournamentID: tournamentID,
		TeamIDs:      teamIDs(teams),
		Round:        1,
	})
	if err != nil {
		return nil, err
	}
	return &GenerateResult{Round: brackets.RoundCount(len(teams)), Matches: matches}, nil
}

func (s *tournamentService) generateKnockoutRound(tournamentID uuid.UUID, teams []*models.Team, existing []*models.Match) (*GenerateResult, error) {
	if len(existing) == 0 {
		matches, err := s.knockout.GenerateBracket(brackets.GenerateBracketParams{
			TournamentID: tournamentID,
			TeamIDs:      teamIDs(teams),
			Round:        1,
			Shuffle:      true,
		})
		if err != nil {
			return nil, err
		}
		return &GenerateResult{Round: 1, Matches: matches}, nil
	}

	round, latest := brackets.LatestRound(existing)
	progression, err := s.knockout.NextRound(latest, tournamentID, round)
	if err != nil {
		return nil, err
	}
	if progression.Complete {
		return nil, brackets.ErrTournamentFinished
	}
	return &GenerateResult{Round: progression.Round, Matches: progression.Matches}, nil
}

// ClearFixtures deletes every match and zeroes team stats. It returns the
// reset teams.
func (s *tournamentService) ClearFixtures(ctx context.Context, tournamentID uuid.UUID) ([]*models.Team, error) {
	var reset []*models.Team
	var removed int64
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetForUpdate(ctx, tx, tournamentID); err != nil {
			return mapTournamentErr(err)
		}
		teams, err := s.teamRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if removed, err = s.matchRepo.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.teamRepo.ResetStats(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.tournamentRepo.SetChampion(ctx, tx, tournamentID, nil); err != nil {
			return mapTournamentErr(err)
		}
		reset = brackets.ResetTeams(teams)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixtures cleared", slog.String("tournament_id", tournamentID.String()), slog.Int64("matches", removed))
	s.notifier.Publish(tournamentID, realtime.EventFixturesCleared, reset)
	return reset, nil
}

// ListMatches returns the fixtures of a tournament with both teams attached.
func (s *tournamentService) ListMatches(ctx context.Context, tournamentID uuid.UUID, round *int) ([]*models.Match, error) {
	if round != nil && *round < 1 {
		return nil, ErrInvalidRoundFilter
	}
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentErr(err)
	}

	var teams []*models.Team
	var matches []*models.Match
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teams, err = s.teamRepo.ListByTournament(gCtx, nil, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		matches, err = s.matchRepo.ListByTournament(gCtx, nil, tournamentID, round)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load fixtures of tournament %s: %w", tournamentID, err)
	}

	attachTeams(matches, teams)
	return matches, nil
}

func (s *tournamentService) GetStandings(ctx context.Context, tournamentID uuid.UUID) ([]models.Standing, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentErr(err)
	}
	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams of tournament %s: %w", tournamentID, err)
	}
	return brackets.RankStandings(teams), nil
}

// ExportSnapshot uploads the tournament, its fixtures and standings as one
// JSON document.
func (s *tournamentService) ExportSnapshot(ctx context.Context, tournamentID uuid.UUID) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrStorageNotConfigured
	}

	tournament, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	exportedAt := s.now().UTC()
	snapshot := Snapshot{
		Tournament: tournament,
		Standings:  brackets.RankStandings(tournament.Teams),
		ExportedAt: exportedAt,
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("exports/tournaments/%s/%s.json", tournamentID, exportedAt.Format("20060102T150405Z"))
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}
	s.logger.Info("snapshot exported", slog.String("tournament_id", tournamentID.String()), slog.String("key", result.Key))
	return result, nil
}

func teamIDs(teams []*models.Team) []uuid.UUID {
	ids := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids
}

func attachTeams(matches []*models.Match, teams []*models.Team) {
	byID := make(map[uuid.UUID]*models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	for _, m := range matches {
		m.HomeTeam = byID[m.HomeTeamID]
		m.AwayTeam = byID[m.AwayTeamID]
	}
}
