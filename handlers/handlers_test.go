package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/league-manager/brackets"
	"github.com/Dosada05/league-manager/models"
	"github.com/Dosada05/league-manager/services"
	"github.com/Dosada05/league-manager/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTournaments implements services.TournamentService; unset funcs panic.
type stubTournaments struct {
	services.TournamentService

	create      func(services.CreateTournamentInput) (*models.Tournament, error)
	list        func(limit, offset int) ([]*models.Tournament, error)
	get         func(uuid.UUID) (*models.Tournament, error)
	addTeam     func(uuid.UUID, string) (*models.Team, error)
	removeTeam  func(uuid.UUID, uuid.UUID) error
	generate    func(uuid.UUID) (*services.GenerateResult, error)
	listMatches func(uuid.UUID, *int) ([]*models.Match, error)
	export      func(uuid.UUID) (*storage.UploadResult, error)
}

func (s *stubTournaments) CreateTournament(_ context.Context, in services.CreateTournamentInput) (*models.Tournament, error) {
	return s.create(in)
}

func (s *stubTournaments) ListTournaments(_ context.Context, limit, offset int) ([]*models.Tournament, error) {
	return s.list(limit, offset)
}

func (s *stubTournaments) GetTournament(_ context.Context, id uuid.UUID) (*models.Tournament, error) {
	return s.get(id)
}

func (s *stubTournaments) AddTeam(_ context.Context, id uuid.UUID, name string) (*models.Team, error) {
	return s.addTeam(id, name)
}

func (s *stubTournaments) RemoveTeam(_ context.Context, tournamentID, teamID uuid.UUID) error {
	return s.removeTeam(tournamentID, teamID)
}

func (s *stubTournaments) GenerateFixtures(_ context.Context, id uuid.UUID) (*services.GenerateResult, error) {
	return s.generate(id)
}

func (s *stubTournaments) ListMatches(_ context.Context, id uuid.UUID, round *int) ([]*models.Match, error) {
	return s.listMatches(id, round)
}

func (s *stubTournaments) ExportSnapshot(_ context.Context, id uuid.UUID) (*storage.UploadResult, error) {
	return s.export(id)
}

type stubMatches struct {
	record func(uuid.UUID, services.RecordResultInput) (*models.Match, error)
}

func (s *stubMatches) GetMatch(context.Context, uuid.UUID) (*models.Match, error) {
	return nil, services.ErrMatchNotFound
}

func (s *stubMatches) RecordResult(_ context.Context, id uuid.UUID, in services.RecordResultInput) (*models.Match, error) {
	return s.record(id, in)
}

func newRouter(ts services.TournamentService, ms services.MatchService) http.Handler {
	th := NewTournamentHandler(ts)
	mh := NewMatchHandler(ms)

	r := chi.NewRouter()
	r.Get("/tournaments", th.ListHandler)
	r.Post("/tournaments", th.CreateHandler)
	r.Get("/tournaments/{tournamentID}", th.GetByIDHandler)
	r.Post("/tournaments/{tournamentID}/teams", th.AddTeamHandler)
	r.Delete("/tournaments/{tournamentID}/teams/{teamID}", th.RemoveTeamHandler)
	r.Post("/tournaments/{tournamentID}/generate-fixtures", th.GenerateFixturesHandler)
	r.Get("/tournaments/{tournamentID}/matches", th.ListMatchesHandler)
	r.Post("/tournaments/{tournamentID}/export", th.ExportHandler)
	r.Get("/matches/{matchID}", mh.GetByIDHandler)
	r.Post("/matches/{matchID}/result", mh.RecordResultHandler)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateTournamentHandler(t *testing.T) {
	var got services.CreateTournamentInput
	ts := &stubTournaments{create: func(in services.CreateTournamentInput) (*models.Tournament, error) {
		got = in
		if in.Name == "" {
			return nil, services.ErrTournamentNameRequired
		}
		return &models.Tournament{ID: uuid.New(), Name: in.Name, Type: in.Type}, nil
	}}
	router := newRouter(ts, &stubMatches{})

	rec := do(t, router, http.MethodPost, "/tournaments", `{"name":"Cup","type":"knockout"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.TournamentTypeKnockout, got.Type)
	assert.Contains(t, decode(t, rec), "tournament")

	rec = do(t, router, http.MethodPost, "/tournaments", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/tournaments", `{"name":"Cup","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown key")

	rec = do(t, router, http.MethodPost, "/tournaments", ``)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTournamentsHandlerQuery(t *testing.T) {
	var gotLimit, gotOffset int
	ts := &stubTournaments{list: func(limit, offset int) ([]*models.Tournament, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Tournament{}, nil
	}}
	router := newRouter(ts, &stubMatches{})

	rec := do(t, router, http.MethodGet, "/tournaments?limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 10, gotOffset)

	for _, q := range []string{"limit=0", "limit=x", "offset=-1"} {
		rec = do(t, router, http.MethodGet, "/tournaments?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestInvalidUUIDParam(t *testing.T) {
	router := newRouter(&stubTournaments{}, &stubMatches{})

	rec := do(t, router, http.MethodGet, "/tournaments/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tournamentID")

	rec = do(t, router, http.MethodPost, "/matches/42/result", `{"home_score":1,"away_score":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateFixturesHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusCreated},
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{brackets.ErrNotEnoughTeams, http.StatusBadRequest},
		{brackets.ErrRoundIncomplete, http.StatusConflict},
		{brackets.ErrTournamentFinished, http.StatusConflict},
		{services.ErrFixturesAlreadyGenerated, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", brackets.ErrUndecidedMatch), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			ts := &stubTournaments{generate: func(uuid.UUID) (*services.GenerateResult, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &services.GenerateResult{Round: 1, Matches: []*models.Match{}}, nil
			}}
			rec := do(t, newRouter(ts, &stubMatches{}), http.MethodPost, "/tournaments/"+uuid.NewString()+"/generate-fixtures", "")
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
		})
	}
}

func TestTeamHandlers(t *testing.T) {
	tournamentID, teamID := uuid.New(), uuid.New()
	ts := &stubTournaments{
		addTeam: func(id uuid.UUID, name string) (*models.Team, error) {
			if name == "Dup" {
				return nil, services.ErrTeamNameConflict
			}
			return &models.Team{ID: teamID, TournamentID: id, Name: name}, nil
		},
		removeTeam: func(tid, id uuid.UUID) error {
			if tid != tournamentID || id != teamID {
				return services.ErrTeamNotFound
			}
			return services.ErrFixturesExist
		},
	}
	router := newRouter(ts, &stubMatches{})
	base := "/tournaments/" + tournamentID.String() + "/teams"

	assert.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, base, `{"name":"Lions"}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, base, `{"name":"Dup"}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodDelete, base+"/"+teamID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, base+"/"+uuid.NewString(), "").Code)
}

func TestListMatchesHandlerRound(t *testing.T) {
	var gotRound *int
	ts := &stubTournaments{listMatches: func(_ uuid.UUID, round *int) ([]*models.Match, error) {
		gotRound = round
		if round != nil && *round < 1 {
			return nil, services.ErrInvalidRoundFilter
		}
		return []*models.Match{}, nil
	}}
	router := newRouter(ts, &stubMatches{})
	base := "/tournaments/" + uuid.NewString() + "/matches"

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, base, "").Code)
	assert.Nil(t, gotRound)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, base+"?round=2", "").Code)
	require.NotNil(t, gotRound)
	assert.Equal(t, 2, *gotRound)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, base+"?round=two", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, base+"?round=0", "").Code)
}

func TestExportHandler(t *testing.T) {
	ts := &stubTournaments{export: func(uuid.UUID) (*storage.UploadResult, error) {
		return nil, services.ErrStorageNotConfigured
	}}
	rec := do(t, newRouter(ts, &stubMatches{}), http.MethodPost, "/tournaments/"+uuid.NewString()+"/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecordResultHandler(t *testing.T) {
	matchID := uuid.New()
	ms := &stubMatches{record: func(id uuid.UUID, in services.RecordResultInput) (*models.Match, error) {
		if in.HomeScore == nil || in.AwayScore == nil {
			return nil, services.ErrScoresRequired
		}
		if *in.HomeScore < 0 {
			return nil, brackets.ErrNegativeScore
		}
		if *in.HomeScore == 9 {
			return nil, brackets.ErrByeImmutable
		}
		return &models.Match{ID: id, HomeScore: *in.HomeScore, AwayScore: *in.AwayScore, Played: true}, nil
	}}
	router := newRouter(&stubTournaments{}, ms)
	target := "/matches/" + matchID.String() + "/result"

	rec := do(t, router, http.MethodPost, target, `{"home_score":2,"away_score":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Match models.Match `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, matchID, body.Match.ID)
	assert.True(t, body.Match.Played)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, target, `{"home_score":2}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, target, `{"home_score":-1,"away_score":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, target, `{"home_score":"2","away_score":0}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, target, `{"home_score":9,"away_score":0}`).Code)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/matches/"+matchID.String(), "").Code)
}

type stubAuth struct {
	enabled bool
}

func (s stubAuth) Enabled() bool { return s.enabled }

func (s stubAuth) IssueToken(_ context.Context, password string) (*services.Token, error) {
	if !s.enabled {
		return nil, services.ErrAuthDisabled
	}
	if password != "right" {
		return nil, services.ErrAuthInvalidCredentials
	}
	return &services.Token{Token: "signed"}, nil
}

func TestTokenHandler(t *testing.T) {
	h := http.HandlerFunc(NewAuthHandler(stubAuth{enabled: true}).TokenHandler)

	rec := do(t, h, http.MethodPost, "/auth/token", `{"password":"right"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"signed"`, string(decode(t, rec)["token"]))

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodPost, "/auth/token", `{"password":"wrong"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/auth/token", `{}`).Code)

	disabled := http.HandlerFunc(NewAuthHandler(stubAuth{}).TokenHandler)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, disabled, http.MethodPost, "/auth/token", `{"password":"right"}`).Code)
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	rec := do(t, http.HandlerFunc(NewHealthHandler(pinger{}).Healthz), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, http.HandlerFunc(NewHealthHandler(pinger{err: errors.New("down")}).Healthz), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://app.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
