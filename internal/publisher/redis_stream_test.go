package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type recordingAdder struct {
	args []*redis.XAddArgs
	err  error
}

func (r *recordingAdder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	r.args = append(r.args, a)
	return redis.NewStringResult("1-0", r.err)
}

func TestPublishGameEvent(t *testing.T) {
	adder := &recordingAdder{}
	p := &RedisStreamPublisher{client: adder, stream: GamesStream}

	event := NewGameEvent(EventGameAdded, "user-1")
	event.GameID = 42
	event.GameKey = "2024-05-01_112_138"

	if err := p.PublishGameEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adder.args) != 1 {
		t.Fatalf("expected one XADD, got %d", len(adder.args))
	}

	args := adder.args[0]
	if args.Stream != "ballpark.games.attended" {
		t.Fatalf("unexpected stream: %s", args.Stream)
	}
	values := args.Values.(map[string]interface{})
	if values["type"] != EventGameAdded || values["user_id"] != "user-1" {
		t.Fatalf("unexpected values: %v", values)
	}
	if _, err := uuid.Parse(values["event_id"].(string)); err != nil {
		t.Fatalf("expected a UUID event id, got %v", values["event_id"])
	}

	var decoded GameEvent
	if err := json.Unmarshal([]byte(values["data"].(string)), &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.GameID != 42 || decoded.GameKey != event.GameKey {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestPublishGameEventError(t *testing.T) {
	adder := &recordingAdder{err: errors.New("READONLY")}
	p := &RedisStreamPublisher{client: adder, stream: GamesStream}

	if err := p.PublishGameEvent(context.Background(), NewGameEvent(EventGamesCleared, "u")); err == nil {
		t.Fatalf("expected error")
	}
}
