package bbref

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/ingest"
)

// TeamNamer maps a page caption to the canonical team name.
type TeamNamer interface {
	CanonicalName(query string) (string, error)
}

// Provider builds game records from Baseball-Reference box score pages.
type Provider struct {
	client *Client
	names  TeamNamer
	logger *zap.Logger
}

// NewProvider creates a provider. names may be nil, in which case captions
// are used as team names as they are.
func NewProvider(client *Client, names TeamNamer, logger *zap.Logger) *Provider {
	return &Provider{client: client, names: names, logger: logger}
}

func (p *Provider) Name() string { return "bbref" }

// GetGame implements ingest.Provider. Only the first game of a doubleheader
// is looked up.
func (p *Provider) GetGame(ctx context.Context, req ingest.GameRequest) (*boxscore.GameRecord, error) {
	code, ok := TeamCode(req.HomeTeamID)
	if !ok {
		return nil, fmt.Errorf("no baseball-reference code for team %d", req.HomeTeamID)
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", req.Date, err)
	}

	url := p.client.BoxScoreURL(code, day.Format("20060102"), 0)
	doc, err := p.client.FetchBoxScore(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	tables := ParseTeamTables(doc)
	if len(tables) < 2 {
		return nil, fmt.Errorf("%s: expected two team tables, found %d", url, len(tables))
	}

	away, home := p.assignSides(tables[0], tables[1], req)
	homeRuns, awayRuns := home.Runs, away.Runs

	game := &boxscore.GameRecord{
		GameID:           code + day.Format("20060102") + "0",
		Date:             req.Date,
		HomeTeam:         p.teamName(req.HomeTeam, home.Team),
		AwayTeam:         p.teamName(req.AwayTeam, away.Team),
		HomeTeamID:       req.HomeTeamID,
		AwayTeamID:       req.AwayTeamID,
		HomeScore:        &homeRuns,
		AwayScore:        &awayRuns,
		GameStatus:       "Final",
		HomeTeamBatting:  home.Batting,
		AwayTeamBatting:  away.Batting,
		HomeTeamPitching: home.Pitching,
		AwayTeamPitching: away.Pitching,
	}

	p.logger.Info("fetched fallback box score",
		zap.String("url", url),
		zap.String("home_team", game.HomeTeam),
		zap.String("away_team", game.AwayTeam),
	)
	return game, nil
}

// assignSides returns (away, home). Pages list the visitors first; the order
// is swapped only when the captions clearly say otherwise.
func (p *Provider) assignSides(first, second TeamTable, req ingest.GameRequest) (TeamTable, TeamTable) {
	if req.HomeTeam == "" {
		return first, second
	}
	if p.sameTeam(first.Team, req.HomeTeam) && !p.sameTeam(second.Team, req.HomeTeam) {
		return second, first
	}
	return first, second
}

func (p *Provider) sameTeam(caption, name string) bool {
	return strings.EqualFold(p.canonical(caption), name)
}

func (p *Provider) teamName(requested, caption string) string {
	if requested != "" {
		return requested
	}
	return p.canonical(caption)
}

func (p *Provider) canonical(caption string) string {
	if p.names == nil {
		return caption
	}
	name, err := p.names.CanonicalName(caption)
	if err != nil {
		p.logger.Debug("could not resolve team caption", zap.String("caption", caption), zap.Error(err))
		return caption
	}
	return name
}
