package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/cache"
	"github.com/fortuna/ballpark/internal/ingest/mlb"
	"github.com/fortuna/ballpark/internal/reconciliation"
)

// resolveTimeout bounds team lookups made without a caller context.
const resolveTimeout = 10 * time.Second

// TeamService serves the MLB team list and resolves team names.
type TeamService struct {
	source TeamSource
	cache  Cache
	logger *zap.Logger
}

// NewTeamService creates a team service. c may be nil.
func NewTeamService(source TeamSource, c Cache, logger *zap.Logger) *TeamService {
	if c == nil {
		c = noopCache{}
	}
	return &TeamService{source: source, cache: c, logger: logger}
}

// Teams returns every MLB team sorted by name, from cache when possible.
func (s *TeamService) Teams(ctx context.Context) ([]mlb.Team, error) {
	var teams []mlb.Team
	err := s.cache.GetJSON(ctx, cache.TeamsKey(), &teams)
	if err == nil && len(teams) > 0 {
		return teams, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, errCacheDisabled) {
		s.logger.Warn("reading cached teams", zap.Error(err))
	}

	return s.WarmCache(ctx)
}

// WarmCache fetches the team list from the source and caches it.
func (s *TeamService) WarmCache(ctx context.Context) ([]mlb.Team, error) {
	teams, err := s.source.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("loading teams: empty team list")
	}

	if err := s.cache.SetJSON(ctx, cache.TeamsKey(), teams, cache.TeamsTTL); err != nil {
		s.logger.Warn("caching teams", zap.Error(err))
	}
	return teams, nil
}

// Resolve maps a free-form team name to an MLB team.
func (s *TeamService) Resolve(ctx context.Context, query string) (mlb.Team, error) {
	teams, err := s.Teams(ctx)
	if err != nil {
		return mlb.Team{}, err
	}
	return reconciliation.NewMatcher(teams).Resolve(query)
}

// ByID returns the team with the given ID.
func (s *TeamService) ByID(ctx context.Context, id int) (mlb.Team, bool, error) {
	teams, err := s.Teams(ctx)
	if err != nil {
		return mlb.Team{}, false, err
	}
	for _, t := range teams {
		if t.ID == id {
			return t, true, nil
		}
	}
	return mlb.Team{}, false, nil
}

// CanonicalName resolves query to a full team name.
func (s *TeamService) CanonicalName(query string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	team, err := s.Resolve(ctx, query)
	if err != nil {
		return "", err
	}
	return team.Name, nil
}
