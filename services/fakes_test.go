package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/league-manager/models"
	"github.com/Dosada05/league-manager/repositories"
	"github.com/Dosada05/league-manager/storage"
	"github.com/google/uuid"
)

// memStore backs the three repositories with plain slices. WithTx snapshots
// the whole store and restores it when the unit of work fails.
type memStore struct {
	mu          sync.Mutex
	tournaments []*models.Tournament
	teams       []*models.Team
	matches     []*models.Match

	// failDeltaFor makes ApplyDelta fail for one team.
	failDeltaFor uuid.UUID
}

type memSnapshot struct {
	tournaments []*models.Tournament
	teams       []*models.Team
	matches     []*models.Match
}

func newMemStore() *memStore { return &memStore{} }

func (s *memStore) WithTx(_ context.Context, fn func(tx repositories.SQLExecutor) error) error {
	s.mu.Lock()
	snap := memSnapshot{
		tournaments: cloneAll(s.tournaments, cloneTournament),
		teams:       cloneAll(s.teams, cloneTeam),
		matches:     cloneAll(s.matches, cloneMatch),
	}
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.tournaments, s.teams, s.matches = snap.tournaments, snap.teams, snap.matches
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneAll[T any](items []*T, clone func(*T) *T) []*T {
	out := make([]*T, len(items))
	for i, it := range items {
		out[i] = clone(it)
	}
	return out
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	c := *t
	if t.ChampionID != nil {
		id := *t.ChampionID
		c.ChampionID = &id
	}
	c.Teams, c.Matches = nil, nil
	return &c
}

func cloneTeam(t *models.Team) *models.Team {
	c := *t
	return &c
}

func cloneMatch(m *models.Match) *models.Match {
	c := *m
	c.HomeTeam, c.AwayTeam = nil, nil
	return &c
}

type memTournaments struct{ *memStore }
type memTeams struct{ *memStore }
type memMatches struct{ *memStore }

func (s *memStore) findTournament(id uuid.UUID) *models.Tournament {
	for _, t := range s.tournaments {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *memStore) findTeam(id uuid.UUID) *models.Team {
	for _, t := range s.teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *memStore) findMatch(id uuid.UUID) *models.Match {
	for _, m := range s.matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r memTournaments) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.tournaments = append(r.tournaments, cloneTournament(t))
	return nil
}

func (r memTournaments) GetByID(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.findTournament(id)
	if t == nil {
		return nil, repositories.ErrTournamentNotFound
	}
	return cloneTournament(t), nil
}

func (r memTournaments) GetForUpdate(ctx context.Context, tx repositories.SQLExecutor, id uuid.UUID) (*models.Tournament, error) {
	return r.GetByID(ctx, tx, id)
}

func (r memTournaments) List(_ context.Context, limit, offset int) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Tournament, 0)
	for i := len(r.tournaments) - 1; i >= 0; i-- {
		out = append(out, cloneTournament(r.tournaments[i]))
	}
	if offset >= len(out) {
		return []*models.Tournament{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r memTournaments) UpdateName(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.findTournament(id)
	if t == nil {
		return repositories.ErrTournamentNotFound
	}
	t.Name = name
	return nil
}

func (r memTournaments) SetChampion(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID, championID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.findTournament(id)
	if t == nil {
		return repositories.ErrTournamentNotFound
	}
	t.ChampionID = nil
	if championID != nil {
		c := *championID
		t.ChampionID = &c
	}
	return nil
}

func (r memTournaments) Delete(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tournaments {
		if t.ID == id {
			r.tournaments = append(r.tournaments[:i], r.tournaments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}

func (r memTeams) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findTournament(team.TournamentID) == nil {
		return repositories.ErrTeamTournamentInvalid
	}
	for _, t := range r.teams {
		if t.TournamentID == team.TournamentID && t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	team.CreatedAt = time.Now()
	r.teams = append(r.teams, cloneTeam(team))
	return nil
}

func (r memTeams) GetByID(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.findTeam(id)
	if t == nil {
		return nil, repositories.ErrTeamNotFound
	}
	return cloneTeam(t), nil
}

func (r memTeams) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Team, 0)
	for _, t := range r.teams {
		if t.TournamentID == tournamentID {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (r memTeams) GetForUpdate(_ context.Context, _ repositories.SQLExecutor, ids ...uuid.UUID) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Team, len(ids))
	for i, id := range ids {
		t := r.findTeam(id)
		if t == nil {
			return nil, repositories.ErrTeamNotFound
		}
		out[i] = cloneTeam(t)
	}
	return out, nil
}

func (r memTeams) ApplyDelta(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID, delta models.TeamStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == r.failDeltaFor {
		return repositories.ErrTeamStatsInvalid
	}
	t := r.findTeam(id)
	if t == nil {
		return repositories.ErrTeamNotFound
	}
	t.TeamStats = t.TeamStats.Add(delta)
	return nil
}

func (r memTeams) ResetStats(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.TournamentID == tournamentID {
			t.TeamStats = models.TeamStats{}
		}
	}
	return nil
}

func (r memTeams) Delete(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.Involves(id) {
			return repositories.ErrTeamHasMatches
		}
	}
	for i, t := range r.teams {
		if t.ID == id {
			r.teams = append(r.teams[:i], r.teams[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

func (r memTeams) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.teams[:0]
	for _, t := range r.teams {
		if t.TournamentID != tournamentID {
			kept = append(kept, t)
		}
	}
	r.teams = kept
	return nil
}

func (r memMatches) CreateBatch(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range matches {
		if r.findTeam(m.HomeTeamID) == nil || r.findTeam(m.AwayTeamID) == nil {
			return repositories.ErrMatchTeamInvalid
		}
		m.CreatedAt = time.Now()
		r.matches = append(r.matches, cloneMatch(m))
	}
	return nil
}

func (r memMatches) GetByID(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.findMatch(id)
	if m == nil {
		return nil, repositories.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (r memMatches) GetForUpdate(ctx context.Context, tx repositories.SQLExecutor, id uuid.UUID) (*models.Match, error) {
	return r.GetByID(ctx, tx, id)
}

func (r memMatches) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID, round *int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && (round == nil || m.Round == *round) {
			out = append(out, cloneMatch(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (r memMatches) CountByTournament(ctx context.Context, tx repositories.SQLExecutor, tournamentID uuid.UUID) (int, error) {
	matches, err := r.ListByTournament(ctx, tx, tournamentID, nil)
	return len(matches), err
}

func (r memMatches) UpdateResult(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.findMatch(match.ID)
	if m == nil || m.IsBye {
		return repositories.ErrMatchNotFound
	}
	m.HomeScore, m.AwayScore, m.Played = match.HomeScore, match.AwayScore, match.Played
	return nil
}

func (r memMatches) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.matches[:0]
	var removed int64
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	r.matches = kept
	return removed, nil
}

type event struct {
	TournamentID uuid.UUID
	Type         string
	Payload      any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) Publish(tournamentID uuid.UUID, eventType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{TournamentID: tournamentID, Type: eventType, Payload: payload})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type fakeUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (u *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, err
	}
	u.key, u.contentType, u.body = key, contentType, buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(context.Context, string) error { return nil }

func (u *fakeUploader) GetPublicURL(key string) string { return "https://cdn.test/" + key }
