package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/cache"
	"github.com/fortuna/ballpark/internal/ingest"
	"github.com/fortuna/ballpark/internal/ingest/mlb"
	"github.com/fortuna/ballpark/internal/publisher"
	"github.com/fortuna/ballpark/internal/store"
	"github.com/fortuna/ballpark/internal/store/repository"
)

type memoryGames struct {
	mu     sync.Mutex
	nextID int64
	rows   []*store.AttendedGame
	scans  int
	keyErr error
}

func (m *memoryGames) Add(ctx context.Context, game *store.AttendedGame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.UserID == game.UserID && r.GameKey == game.GameKey {
			return repository.ErrDuplicateGame
		}
	}
	m.nextID++
	game.ID = m.nextID
	copied := *game
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *memoryGames) filter(keep func(*store.AttendedGame) bool) []*store.AttendedGame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*store.AttendedGame{}
	for _, r := range m.rows {
		if keep(r) {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out
}

func (m *memoryGames) GetAll(ctx context.Context, userID string) ([]*store.AttendedGame, error) {
	m.mu.Lock()
	m.scans++
	m.mu.Unlock()
	return m.filter(func(g *store.AttendedGame) bool { return g.UserID == userID }), nil
}

func (m *memoryGames) Get(ctx context.Context, userID string, id int64) (*store.AttendedGame, error) {
	got := m.filter(func(g *store.AttendedGame) bool { return g.UserID == userID && g.ID == id })
	if len(got) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	return got[0], nil
}

func (m *memoryGames) GetByKey(ctx context.Context, userID, gameKey string) (*store.AttendedGame, error) {
	if m.keyErr != nil {
		return nil, m.keyErr
	}
	got := m.filter(func(g *store.AttendedGame) bool { return g.UserID == userID && g.GameKey == gameKey })
	if len(got) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	return got[0], nil
}

func (m *memoryGames) GetByDateAndTeams(ctx context.Context, userID, date, home, away string) (*store.AttendedGame, error) {
	got := m.filter(func(g *store.AttendedGame) bool {
		return g.UserID == userID && g.GameDate == date && g.HomeTeam == home && g.AwayTeam == away
	})
	if len(got) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	return got[0], nil
}

func (m *memoryGames) GetByTeam(ctx context.Context, userID, team string) ([]*store.AttendedGame, error) {
	return m.filter(func(g *store.AttendedGame) bool {
		return g.UserID == userID && (g.HomeTeam == team || g.AwayTeam == team)
	}), nil
}

func (m *memoryGames) GetByDateRange(ctx context.Context, userID, start, end string) ([]*store.AttendedGame, error) {
	return m.filter(func(g *store.AttendedGame) bool {
		return g.UserID == userID && g.GameDate >= start && g.GameDate <= end
	}), nil
}

func (m *memoryGames) ListNotFinal(ctx context.Context) ([]*store.AttendedGame, error) {
	return m.filter(func(g *store.AttendedGame) bool { return !g.Record.IsFinal() }), nil
}

func (m *memoryGames) UpdateRecord(ctx context.Context, id int64, record boxscore.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			r.Record = record
			r.GameStatus = record.GameStatus
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func (m *memoryGames) Remove(ctx context.Context, userID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.UserID == userID && r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func (m *memoryGames) Clear(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

type recordingPublisher struct {
	events []publisher.GameEvent
}

func (p *recordingPublisher) PublishGameEvent(ctx context.Context, event publisher.GameEvent) error {
	p.events = append(p.events, event)
	return nil
}

type recordingNotifier struct {
	users    []string
	messages []interface{}
}

func (n *recordingNotifier) BroadcastToUser(userID string, message interface{}) {
	n.users = append(n.users, userID)
	n.messages = append(n.messages, message)
}

// fakeProvider returns a box score built from the request, or err.
type fakeProvider struct {
	status string
	err    error
	calls  []ingest.GameRequest
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) GetGame(ctx context.Context, req ingest.GameRequest) (*boxscore.GameRecord, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	home, away := 5, 3
	return &boxscore.GameRecord{
		GameID:     "745123",
		HomeTeam:   req.HomeTeam,
		AwayTeam:   req.AwayTeam,
		HomeScore:  &home,
		AwayScore:  &away,
		GameStatus: p.status,
		HomeTeamBatting: []boxscore.BattingLine{
			{PlayerID: "1", Name: "Home Hitter", AtBats: 4, Hits: 2, HomeRuns: 1},
		},
		AwayTeamBatting: []boxscore.BattingLine{
			{PlayerID: "2", Name: "Away Hitter", AtBats: 3, Hits: 1, Walks: 1},
		},
		HomeTeamPitching: []boxscore.PitchingLine{
			{PlayerID: "10", Name: "Home Arm", InningsPitched: 9, EarnedRuns: 3, Strikeouts: 8, Wins: 1},
		},
	}, nil
}

type staticTeams struct {
	teams []mlb.Team
	calls int
}

func (s *staticTeams) Teams(ctx context.Context) ([]mlb.Team, error) {
	s.calls++
	return s.teams, nil
}

type staticPeople struct {
	calls int
}

func (s *staticPeople) FetchPerson(ctx context.Context, id int) (*mlb.Person, error) {
	s.calls++
	if id == 404 {
		return nil, nil
	}
	return &mlb.Person{ID: id, FullName: "Aaron Judge"}, nil
}

func testTeams() []mlb.Team {
	return []mlb.Team{
		{ID: 111, Name: "Boston Red Sox", Abbreviation: "BOS", TeamName: "Red Sox", LocationName: "Boston"},
		{ID: 112, Name: "Chicago Cubs", Abbreviation: "CHC", TeamName: "Cubs", LocationName: "Chicago"},
		{ID: 145, Name: "Chicago White Sox", Abbreviation: "CWS", TeamName: "White Sox", LocationName: "Chicago"},
		{ID: 147, Name: "New York Yankees", Abbreviation: "NYY", TeamName: "Yankees", LocationName: "Bronx"},
	}
}
