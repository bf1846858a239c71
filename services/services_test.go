package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/league-manager/brackets"
	"github.com/Dosada05/league-manager/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// keepOrder leaves knockout entrants in registration order.
type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

type harness struct {
	store       *memStore
	events      *recordingNotifier
	uploader    *fakeUploader
	tournaments TournamentService
	matches     MatchService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newMemStore()
	events := &recordingNotifier{}
	uploader := &fakeUploader{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &harness{
		store:    store,
		events:   events,
		uploader: uploader,
		tournaments: NewTournamentService(
			store,
			memTournaments{store},
			memTeams{store},
			memMatches{store},
			brackets.NewSingleEliminationGenerator(nil, keepOrder{}),
			uploader,
			events,
			logger,
		),
		matches: NewMatchService(store, memTournaments{store}, memTeams{store}, memMatches{store}, events, logger),
	}
}

func (h *harness) setup(t *testing.T, typ models.TournamentType, names ...string) (*models.Tournament, []*models.Team) {
	t.Helper()
	ctx := context.Background()
	tournament, err := h.tournaments.CreateTournament(ctx, CreateTournamentInput{Name: "Cup", Type: typ})
	require.NoError(t, err)

	teams := make([]*models.Team, 0, len(names))
	for _, name := range names {
		team, err := h.tournaments.AddTeam(ctx, tournament.ID, name)
		require.NoError(t, err)
		teams = append(teams, team)
	}
	return tournament, teams
}

func (h *harness) record(t *testing.T, matchID uuid.UUID, home, away int) *models.Match {
	t.Helper()
	m, err := h.matches.RecordResult(context.Background(), matchID, scores(home, away))
	require.NoError(t, err)
	return m
}

// playHomeWins records 1-0 on every non-bye match of matches.
func (h *harness) playHomeWins(t *testing.T, matches []*models.Match) {
	t.Helper()
	for _, m := range matches {
		if !m.IsBye {
			h.record(t, m.ID, 1, 0)
		}
	}
}

func (h *harness) team(t *testing.T, id uuid.UUID) *models.Team {
	t.Helper()
	team, err := memTeams{h.store}.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return team
}

func scores(home, away int) RecordResultInput {
	return RecordResultInput{HomeScore: &home, AwayScore: &away}
}
