package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/config"
	"github.com/fortuna/ballpark/internal/ingest/mlb"
)

// jobTimeout bounds a single run of a daily job.
const jobTimeout = 30 * time.Minute

// GameRefresher re-fetches box scores of games that were not final.
type GameRefresher interface {
	RefreshPending(ctx context.Context) (int, error)
}

// TeamWarmer reloads the cached MLB team list.
type TeamWarmer interface {
	WarmCache(ctx context.Context) ([]mlb.Team, error)
}

// Scheduler runs the daily maintenance jobs.
type Scheduler struct {
	s      gocron.Scheduler
	cfg    config.Scheduler
	games  GameRefresher
	teams  TeamWarmer
	logger *zap.Logger
}

// NewScheduler creates a scheduler in the configured time zone. An unknown
// zone falls back to UTC.
func NewScheduler(cfg config.Scheduler, games GameRefresher, teams TeamWarmer, logger *zap.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Warn("failed to load location, using UTC", zap.String("tz", cfg.TimeZone), zap.Error(err))
		location = time.UTC
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(location))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:      s,
		cfg:    cfg,
		games:  games,
		teams:  teams,
		logger: logger,
	}, nil
}

// Start registers the daily jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	at := gocron.NewAtTimes(gocron.NewAtTime(s.cfg.RefreshHour, 0, 0))

	// Unfinished games - daily at REFRESH_HOUR
	_, err := s.s.NewJob(
		gocron.DailyJob(1, at),
		gocron.NewTask(s.refreshGames),
		gocron.WithName("refresh-unfinished-games"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}

	// Team list - daily at REFRESH_HOUR
	_, err = s.s.NewJob(
		gocron.DailyJob(1, at),
		gocron.NewTask(s.warmTeams),
		gocron.WithName("warm-team-cache"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create team cache job: %w", err)
	}

	s.s.Start()
	s.logger.Info("scheduler started",
		zap.Uint("refresh_hour", s.cfg.RefreshHour),
		zap.String("tz", s.cfg.TimeZone))
	return nil
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refreshGames() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.games.RefreshPending(ctx)
	if err != nil {
		s.logger.Error("failed to refresh unfinished games", zap.Int("refreshed", n), zap.Error(err))
		return
	}
	s.logger.Info("refreshed unfinished games", zap.Int("refreshed", n), zap.Duration("duration", time.Since(start)))
}

func (s *Scheduler) warmTeams() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	teams, err := s.teams.WarmCache(ctx)
	if err != nil {
		s.logger.Error("failed to refresh team cache", zap.Error(err))
		return
	}
	s.logger.Info("refreshed team cache", zap.Int("teams", len(teams)))
}
