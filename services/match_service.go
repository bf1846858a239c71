package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/league-manager/brackets"
	"github.com/Dosada05/league-manager/models"
	"github.com/Dosada05/league-manager/realtime"
	"github.com/Dosada05/league-manager/repositories"
	"github.com/google/uuid"
)

type RecordResultInput struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

// ResultRecordedPayload is pushed to subscribers after a result is stored.
type ResultRecordedPayload struct {
	Match    *models.Match `json:"match"`
	Replaced bool          `json:"replaced"`
}

type TournamentFinishedPayload struct {
	ChampionID uuid.UUID    `json:"champion_id"`
	Champion   *models.Team `json:"champion,omitempty"`
}

type MatchService interface {
	GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	RecordResult(ctx context.Context, id uuid.UUID, input RecordResultInput) (*models.Match, error)
}

type matchService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	notifier       Notifier
	logger         *slog.Logger
}

func NewMatchService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	logger *slog.Logger,
) MatchService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

func mapMatchErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	}
	return err
}

func (s *matchService) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapMatchErr(err)
	}
	home, err := s.teamRepo.GetByID(ctx, nil, match.HomeTeamID)
	if err != nil {
		return nil, mapMatchErr(err)
	}
	match.HomeTeam = home
	if match.AwayTeamID == match.HomeTeamID {
		match.AwayTeam = home
		return match, nil
	}
	away, err := s.teamRepo.GetByID(ctx, nil, match.AwayTeamID)
	if err != nil {
		return nil, mapMatchErr(err)
	}
	match.AwayTeam = away
	return match, nil
}

// RecordResult stores a score and the matching team stat changes in one
// transaction. Re-recording a played match replaces its earlier result.
// In a knockout only matches of the latest round can change, and the final
// decides the champion.
func (s *matchService) RecordResult(ctx context.Context, id uuid.UUID, input RecordResultInput) (*models.Match, error) {
	if input.HomeScore == nil || input.AwayScore == nil {
		return nil, ErrScoresRequired
	}

	var applied *brackets.ApplyResult
	var champion *models.Team
	var tournamentID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, tx, id)
		if err != nil {
			return mapMatchErr(err)
		}
		tournamentID = match.TournamentID

		// Tournament first, then match, then teams: the same order every writer uses.
		tournament, err := s.tournamentRepo.GetForUpdate(ctx, tx, tournamentID)
		if err != nil {
			return mapMatchErr(err)
		}
		if match, err = s.matchRepo.GetForUpdate(ctx, tx, id); err != nil {
			return mapMatchErr(err)
		}
		if match.IsBye {
			return brackets.ErrByeImmutable
		}
		teams, err := s.teamRepo.GetForUpdate(ctx, tx, match.HomeTeamID, match.AwayTeamID)
		if err != nil {
			return mapMatchErr(err)
		}

		applied, err = brackets.RecordResult(match, teams[0], teams[1], *input.HomeScore, *input.AwayScore)
		if err != nil {
			return err
		}

		var latest []*models.Match
		if tournament.Type == models.TournamentTypeKnockout {
			all, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, nil)
			if err != nil {
				return err
			}
			var round int
			round, latest = brackets.LatestRound(all)
			if match.Round < round {
				return ErrRoundAlreadyAdvanced
			}
		}

		if err := s.matchRepo.UpdateResult(ctx, tx, applied.Match); err != nil {
			return mapMatchErr(err)
		}
		if err := s.teamRepo.ApplyDelta(ctx, tx, applied.HomeTeam.ID, applied.HomeDelta); err != nil {
			return mapMatchErr(err)
		}
		if err := s.teamRepo.ApplyDelta(ctx, tx, applied.AwayTeam.ID, applied.AwayDelta); err != nil {
			return mapMatchErr(err)
		}

		if tournament.Type == models.TournamentTypeKnockout && len(latest) == 1 {
			var championID *uuid.UUID
			if winner, ok := brackets.Champion([]*models.Match{applied.Match}); ok {
				championID = &winner
				champion = applied.HomeTeam
				if winner == applied.AwayTeam.ID {
					champion = applied.AwayTeam
				}
			}
			if err := s.tournamentRepo.SetChampion(ctx, tx, tournamentID, championID); err != nil {
				return mapMatchErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := applied.Match
	result.HomeTeam = applied.HomeTeam
	result.AwayTeam = applied.AwayTeam

	s.logger.Info("result recorded",
		slog.String("match_id", id.String()),
		slog.Int("home_score", result.HomeScore),
		slog.Int("away_score", result.AwayScore),
		slog.Bool("replaced", applied.Replaced),
	)
	s.notifier.Publish(tournamentID, realtime.EventResultRecorded, ResultRecordedPayload{Match: result, Replaced: applied.Replaced})
	if champion != nil {
		s.notifier.Publish(tournamentID, realtime.EventTournamentFinished, TournamentFinishedPayload{ChampionID: champion.ID, Champion: champion})
	}
	return result, nil
}
