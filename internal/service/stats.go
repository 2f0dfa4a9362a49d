package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/cache"
	"github.com/fortuna/ballpark/internal/stats"
	"github.com/fortuna/ballpark/internal/store"
)

// StatsUpdatedMessage is the websocket message type sent after a user's
// stats change.
const StatsUpdatedMessage = "stats_updated"

// UserStats is a user's aggregated season line.
type UserStats struct {
	UserID      string               `json:"user_id"`
	TotalGames  int                  `json:"total_games"`
	Batting     []stats.BattingStat  `json:"batting"`
	Pitching    []stats.PitchingStat `json:"pitching"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Totals sums the user's batting and pitching lines.
type Totals struct {
	Games    int                  `json:"games"`
	Batting  stats.BattingTotals  `json:"batting"`
	Pitching stats.PitchingTotals `json:"pitching"`
}

// Dashboard is everything the stats dashboard renders for one user.
type Dashboard struct {
	UserID         string              `json:"user_id"`
	Totals         Totals              `json:"totals"`
	GamesByMonth   []stats.MonthCount  `json:"games_by_month"`
	TeamAttendance []stats.TeamCount   `json:"team_attendance"`
	TeamRecords    []stats.TeamRecord  `json:"team_records"`
	TeamSummary    []stats.TeamWinLoss `json:"team_summary"`
	TopAverage     []stats.BattingStat `json:"top_batting_average"`
	TopHomeRuns    []stats.BattingStat `json:"top_home_runs"`
	LeaderMinGames int                 `json:"leader_min_games"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

// StatsUpdate is pushed to a user's websocket connections.
type StatsUpdate struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Totals Totals `json:"totals"`
}

// StatsService aggregates a user's attended games into season stats.
type StatsService struct {
	games    GameStore
	cache    Cache
	notifier Notifier
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatsService creates a stats service. c and notifier may be nil.
func NewStatsService(games GameStore, c Cache, notifier Notifier, ttl time.Duration, logger *zap.Logger) *StatsService {
	if c == nil {
		c = noopCache{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &StatsService{
		games:    games,
		cache:    c,
		notifier: notifier,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// SetNotifier replaces the notifier used for stats updates.
func (s *StatsService) SetNotifier(n Notifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

// Aggregate returns the user's season stats, from cache when possible.
func (s *StatsService) Aggregate(ctx context.Context, userID string) (*UserStats, error) {
	var cached UserStats
	err := s.cache.GetJSON(ctx, cache.StatsKey(userID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, errCacheDisabled) {
		s.logger.Warn("reading cached stats", zap.String("user_id", userID), zap.Error(err))
	}

	return s.compute(ctx, userID)
}

func (s *StatsService) compute(ctx context.Context, userID string) (*UserStats, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}

	batting, pitching := stats.Aggregate(records)
	result := &UserStats{
		UserID:      userID,
		TotalGames:  len(records),
		Batting:     batting,
		Pitching:    pitching,
		GeneratedAt: s.now().UTC(),
	}

	if err := s.cache.SetJSON(ctx, cache.StatsKey(userID), result, s.ttl); err != nil {
		s.logger.Warn("caching stats", zap.String("user_id", userID), zap.Error(err))
	}
	return result, nil
}

func (s *StatsService) records(ctx context.Context, userID string) ([]boxscore.GameRecord, error) {
	games, err := s.games.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching attended games: %w", err)
	}
	return store.Records(games), nil
}

// Batting returns the user's batting lines with at least minGames games,
// most games first.
func (s *StatsService) Batting(ctx context.Context, userID string, minGames int) ([]stats.BattingStat, error) {
	agg, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.SortBattingByGames(stats.FilterBattingByMinGames(agg.Batting, minGames)), nil
}

// Pitching returns the user's pitching lines with at least minGames games,
// most games first.
func (s *StatsService) Pitching(ctx context.Context, userID string, minGames int) ([]stats.PitchingStat, error) {
	agg, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.SortPitchingByGames(stats.FilterPitchingByMinGames(agg.Pitching, minGames)), nil
}

// Dashboard builds the user's dashboard.
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}
	agg, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		UserID:         userID,
		Totals:         totals(agg),
		GamesByMonth:   stats.GamesByMonth(records),
		TeamAttendance: stats.TeamAttendance(records, stats.DefaultTeamAttendanceLimit),
		TeamRecords:    stats.TeamRecords(records),
		TeamSummary:    stats.TeamSummary(records),
		TopAverage:     stats.TopBatters(agg.Batting, stats.LeaderboardMinGames, stats.LeaderboardSize, stats.MetricBattingAverage),
		TopHomeRuns:    stats.TopBatters(agg.Batting, stats.LeaderboardMinGames, stats.LeaderboardSize, stats.MetricHomeRuns),
		LeaderMinGames: stats.LeaderboardMinGames,
		GeneratedAt:    s.now().UTC(),
	}, nil
}

// Export returns the user's stats in export form.
func (s *StatsService) Export(ctx context.Context, userID string) (stats.Export, error) {
	agg, err := s.Aggregate(ctx, userID)
	if err != nil {
		return stats.Export{}, err
	}
	return stats.NewExport(agg.TotalGames, agg.Batting, agg.Pitching, s.now()), nil
}

// Refresh drops the user's cached stats, recomputes them and notifies the
// user's open connections.
func (s *StatsService) Refresh(ctx context.Context, userID string) (*UserStats, error) {
	if err := s.cache.Delete(ctx, cache.StatsKey(userID)); err != nil {
		s.logger.Warn("invalidating cached stats", zap.String("user_id", userID), zap.Error(err))
	}

	agg, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.notifier.BroadcastToUser(userID, StatsUpdate{
		Type:   StatsUpdatedMessage,
		UserID: userID,
		Totals: totals(agg),
	})
	return agg, nil
}

func totals(agg *UserStats) Totals {
	return Totals{
		Games:    agg.TotalGames,
		Batting:  stats.SumBatting(agg.Batting),
		Pitching: stats.SumPitching(agg.Pitching),
	}
}
