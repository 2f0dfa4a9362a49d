package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/fortuna/ballpark/internal/boxscore"
)

type stubProvider struct {
	name  string
	game  *boxscore.GameRecord
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GetGame(ctx context.Context, req GameRequest) (*boxscore.GameRecord, error) {
	s.calls++
	return s.game, s.err
}

func TestChainUsesPrimary(t *testing.T) {
	primary := &stubProvider{name: "mlb", game: &boxscore.GameRecord{GameID: "1"}}
	fallback := &stubProvider{name: "bbref"}
	chain := &Chain{Primary: primary, Fallback: fallback}

	game, err := chain.GetGame(context.Background(), GameRequest{Date: "2024-05-01"})
	if err != nil || game.GameID != "1" {
		t.Fatalf("expected primary game, got %+v / %v", game, err)
	}
	if fallback.calls != 0 {
		t.Fatalf("expected fallback to be skipped")
	}
}

func TestChainDoesNotFallBackOnNotFound(t *testing.T) {
	primary := &stubProvider{name: "mlb", err: ErrGameNotFound}
	fallback := &stubProvider{name: "bbref", game: &boxscore.GameRecord{}}
	chain := &Chain{Primary: primary, Fallback: fallback}

	if _, err := chain.GetGame(context.Background(), GameRequest{}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if fallback.calls != 0 {
		t.Fatalf("expected fallback not to be called")
	}
}

func TestChainFallsBackOnError(t *testing.T) {
	primary := &stubProvider{name: "mlb", err: errors.New("503")}
	fallback := &stubProvider{name: "bbref", game: &boxscore.GameRecord{GameID: "BOS202405010"}}
	chain := &Chain{Primary: primary, Fallback: fallback}

	game, err := chain.GetGame(context.Background(), GameRequest{})
	if err != nil || game.GameID != "BOS202405010" {
		t.Fatalf("expected fallback game, got %+v / %v", game, err)
	}
}

func TestChainBothFail(t *testing.T) {
	chain := &Chain{
		Primary:  &stubProvider{name: "mlb", err: errors.New("503")},
		Fallback: &stubProvider{name: "bbref", err: ErrGameNotFound},
	}

	_, err := chain.GetGame(context.Background(), GameRequest{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected fallback error to be wrapped, got %v", err)
	}
}

func TestChainWithoutFallback(t *testing.T) {
	chain := &Chain{Primary: &stubProvider{name: "mlb", err: errors.New("timeout")}}
	if _, err := chain.GetGame(context.Background(), GameRequest{}); err == nil {
		t.Fatalf("expected primary error")
	}
}
