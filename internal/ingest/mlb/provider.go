package mlb

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/ingest"
)

// Provider builds game records from the MLB Stats API.
type Provider struct {
	client *Client
	logger *zap.Logger
}

// NewProvider creates a provider backed by client.
func NewProvider(client *Client, logger *zap.Logger) *Provider {
	return &Provider{client: client, logger: logger}
}

func (p *Provider) Name() string { return "mlb" }

// GetGame finds the game between the two teams on req.Date and returns its
// box score. For doubleheaders the first game listed is used.
func (p *Provider) GetGame(ctx context.Context, req ingest.GameRequest) (*boxscore.GameRecord, error) {
	schedule, err := p.client.FetchSchedule(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	var target *ScheduledGame
	for i := range schedule {
		if schedule[i].HomeID == req.HomeTeamID && schedule[i].AwayID == req.AwayTeamID {
			target = &schedule[i]
			break
		}
	}
	if target == nil || target.GamePk == 0 {
		return nil, fmt.Errorf("%s %d vs %d: %w", req.Date, req.HomeTeamID, req.AwayTeamID, ingest.ErrGameNotFound)
	}

	box, err := p.client.FetchBoxScore(ctx, target.GamePk)
	if err != nil {
		return nil, err
	}

	game := BuildGameRecord(req.Date, *target, box)
	p.logger.Info("fetched box score",
		zap.Int("game_pk", target.GamePk),
		zap.String("date", req.Date),
		zap.String("home_team", game.HomeTeam),
		zap.String("away_team", game.AwayTeam),
		zap.String("status", game.GameStatus),
		zap.Int("batters", len(game.HomeTeamBatting)+len(game.AwayTeamBatting)),
		zap.Int("pitchers", len(game.HomeTeamPitching)+len(game.AwayTeamPitching)),
	)
	return game, nil
}

// Teams returns the MLB team list.
func (p *Provider) Teams(ctx context.Context) ([]Team, error) {
	return p.client.FetchTeams(ctx)
}
