package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/boxscore"
)

// ErrGameNotFound is returned when no game between the two teams was
// scheduled on the requested date.
var ErrGameNotFound = errors.New("game not found")

// GameRequest identifies a game by date and the two teams.
type GameRequest struct {
	Date       string `json:"date"`
	HomeTeamID int    `json:"home_team_id"`
	AwayTeamID int    `json:"away_team_id"`
	HomeTeam   string `json:"home_team,omitempty"`
	AwayTeam   string `json:"away_team,omitempty"`
}

// Provider fetches a box score for one game.
type Provider interface {
	Name() string
	GetGame(ctx context.Context, req GameRequest) (*boxscore.GameRecord, error)
}

// Chain asks Primary first and falls back to Fallback when Primary fails
// for any reason other than the game not existing.
type Chain struct {
	Primary  Provider
	Fallback Provider
	Logger   *zap.Logger
}

func (c *Chain) Name() string { return "chain" }

// GetGame implements Provider.
func (c *Chain) GetGame(ctx context.Context, req GameRequest) (*boxscore.GameRecord, error) {
	game, err := c.Primary.GetGame(ctx, req)
	if err == nil {
		return game, nil
	}
	if errors.Is(err, ErrGameNotFound) || c.Fallback == nil {
		return nil, err
	}

	c.logger().Warn("primary box score provider failed, trying fallback",
		zap.String("primary", c.Primary.Name()),
		zap.String("fallback", c.Fallback.Name()),
		zap.String("date", req.Date),
		zap.Int("home_team_id", req.HomeTeamID),
		zap.Int("away_team_id", req.AwayTeamID),
		zap.Error(err),
	)

	game, fbErr := c.Fallback.GetGame(ctx, req)
	if fbErr != nil {
		return nil, fmt.Errorf("%s: %v; %s: %w", c.Primary.Name(), err, c.Fallback.Name(), fbErr)
	}
	return game, nil
}

func (c *Chain) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
