package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", m.err)
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.values[k]; ok {
			delete(m.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *memoryStore) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.err)
}

func TestJSONRoundTrip(t *testing.T) {
	mem := newMemoryStore()
	rc := &RedisCache{store: mem}
	ctx := context.Background()

	type teams struct {
		Names []string `json:"names"`
	}
	if err := rc.SetJSON(ctx, TeamsKey(), teams{Names: []string{"Chicago Cubs"}}, TeamsTTL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.ttls[TeamsKey()] != 24*time.Hour {
		t.Fatalf("expected 24h TTL, got %v", mem.ttls[TeamsKey()])
	}

	var got teams
	if err := rc.GetJSON(ctx, TeamsKey(), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Names) != 1 || got.Names[0] != "Chicago Cubs" {
		t.Fatalf("unexpected decoded value: %+v", got)
	}
}

func TestGetJSONMiss(t *testing.T) {
	rc := &RedisCache{store: newMemoryStore()}

	var v map[string]int
	if err := rc.GetJSON(context.Background(), StatsKey("u1"), &v); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestGetJSONError(t *testing.T) {
	mem := newMemoryStore()
	mem.err = errors.New("connection refused")
	rc := &RedisCache{store: mem}

	var v map[string]int
	err := rc.GetJSON(context.Background(), StatsKey("u1"), &v)
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected a non-miss error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	mem := newMemoryStore()
	mem.values[StatsKey("u1")] = "{}"
	rc := &RedisCache{store: mem}

	if err := rc.Delete(context.Background(), StatsKey("u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mem.values[StatsKey("u1")]; ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestKeys(t *testing.T) {
	if StatsKey("abc") != "ballpark:stats:abc" {
		t.Fatalf("unexpected stats key: %s", StatsKey("abc"))
	}
	if PersonKey(592450) != "ballpark:mlb:person:592450" {
		t.Fatalf("unexpected person key: %s", PersonKey(592450))
	}
	if TeamsKey() != "ballpark:mlb:teams" {
		t.Fatalf("unexpected teams key: %s", TeamsKey())
	}
}
