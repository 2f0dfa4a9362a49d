package service

import (
	"context"
	"errors"
	"time"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/ingest/mlb"
	"github.com/fortuna/ballpark/internal/publisher"
	"github.com/fortuna/ballpark/internal/store"
)

// ErrInvalidRequest wraps validation failures of caller input.
var ErrInvalidRequest = errors.New("invalid request")

// GameStore persists each user's attended games.
type GameStore interface {
	Add(ctx context.Context, game *store.AttendedGame) error
	GetAll(ctx context.Context, userID string) ([]*store.AttendedGame, error)
	Get(ctx context.Context, userID string, id int64) (*store.AttendedGame, error)
	GetByKey(ctx context.Context, userID, gameKey string) (*store.AttendedGame, error)
	GetByDateAndTeams(ctx context.Context, userID, date, homeTeam, awayTeam string) (*store.AttendedGame, error)
	GetByTeam(ctx context.Context, userID, team string) ([]*store.AttendedGame, error)
	GetByDateRange(ctx context.Context, userID, start, end string) ([]*store.AttendedGame, error)
	ListNotFinal(ctx context.Context) ([]*store.AttendedGame, error)
	UpdateRecord(ctx context.Context, id int64, record boxscore.GameRecord) error
	Remove(ctx context.Context, userID string, id int64) error
	Clear(ctx context.Context, userID string) (int64, error)
}

// Cache stores JSON values by key.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher announces changes to attended games.
type EventPublisher interface {
	PublishGameEvent(ctx context.Context, event publisher.GameEvent) error
}

// Notifier pushes a message to every connection a user has open.
type Notifier interface {
	BroadcastToUser(userID string, message interface{})
}

// TeamSource lists MLB teams.
type TeamSource interface {
	Teams(ctx context.Context) ([]mlb.Team, error)
}

// PersonSource looks up players.
type PersonSource interface {
	FetchPerson(ctx context.Context, personID int) (*mlb.Person, error)
}

type noopCache struct{}

func (noopCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	return errCacheDisabled
}

func (noopCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }

var errCacheDisabled = errors.New("cache disabled")

type noopPublisher struct{}

func (noopPublisher) PublishGameEvent(ctx context.Context, event publisher.GameEvent) error {
	return nil
}

type noopNotifier struct{}

func (noopNotifier) BroadcastToUser(userID string, message interface{}) {}
