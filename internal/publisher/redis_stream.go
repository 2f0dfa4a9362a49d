package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// GamesStream is the stream attended-game events are appended to.
const GamesStream = "ballpark.games.attended"

// Event types published to GamesStream.
const (
	EventGameAdded     = "game_added"
	EventGameRemoved   = "game_removed"
	EventGamesCleared  = "games_cleared"
	EventGameRefreshed = "game_refreshed"
)

// GameEvent describes a change to a user's attended games.
type GameEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	GameID    int64     `json:"game_id,omitempty"`
	GameKey   string    `json:"game_key,omitempty"`
	Status    string    `json:"status,omitempty"`
	Count     int64     `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewGameEvent stamps a new event with an ID and the current time.
func NewGameEvent(eventType, userID string) GameEvent {
	return GameEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client streamAdder
	stream string
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: GamesStream,
	}
}

// PublishGameEvent appends event to the games stream.
func (p *RedisStreamPublisher) PublishGameEvent(ctx context.Context, event GameEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Type, err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_id":  event.EventID,
			"type":      event.Type,
			"user_id":   event.UserID,
			"data":      string(data),
			"timestamp": event.Timestamp.Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing %s event: %w", event.Type, err)
	}
	return nil
}
