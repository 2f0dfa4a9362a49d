package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/api/rest"
	"github.com/fortuna/ballpark/internal/api/websocket"
	"github.com/fortuna/ballpark/internal/cache"
	"github.com/fortuna/ballpark/internal/config"
	"github.com/fortuna/ballpark/internal/ingest"
	"github.com/fortuna/ballpark/internal/ingest/bbref"
	"github.com/fortuna/ballpark/internal/ingest/mlb"
	"github.com/fortuna/ballpark/internal/logger"
	"github.com/fortuna/ballpark/internal/publisher"
	"github.com/fortuna/ballpark/internal/scheduler"
	"github.com/fortuna/ballpark/internal/service"
	"github.com/fortuna/ballpark/internal/store"
	"github.com/fortuna/ballpark/internal/store/repository"
)

const (
	serviceName    = "ballpark"
	serviceVersion = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting", zap.String("service", serviceName), zap.String("version", serviceVersion))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := store.NewDatabase(ctx, cfg.Database.DSN, log)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready")

	// Initialize Redis client with retry logic
	redisCache, err := connectRedis(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisCache.Close()
	log.Info("redis ready")

	events := publisher.NewRedisStreamPublisher(redisCache.Client())

	// Box score providers
	mlbClient := mlb.NewClient(cfg.MLB.BaseURL, cfg.MLB.Timeout, log.Named("mlb"))
	mlbProvider := mlb.NewProvider(mlbClient, log.Named("mlb"))

	teams := service.NewTeamService(mlbProvider, redisCache, log.Named("teams"))
	players := service.NewPlayerService(mlbClient, redisCache, log.Named("players"))

	chain := &ingest.Chain{Primary: mlbProvider, Logger: log.Named("ingest")}
	if cfg.Fallback.Enabled {
		var fetcher bbref.Fetcher
		if cfg.Fallback.UseBrowser {
			browser := bbref.NewBrowserFetcher(cfg.Fallback.Timeout)
			defer browser.Close()
			fetcher = browser
		} else {
			fetcher = bbref.NewHTTPFetcher(cfg.Fallback.Timeout)
		}
		client := bbref.NewClient(fetcher, cfg.Fallback.BaseURL, log.Named("bbref"))
		chain.Fallback = bbref.NewProvider(client, teams, log.Named("bbref"))
		log.Info("fallback provider enabled", zap.Bool("browser", cfg.Fallback.UseBrowser))
	}

	// Services
	wsServer := websocket.NewServer(log.Named("ws"))
	games := repository.NewGameRepository(db)
	statsSvc := service.NewStatsService(games, redisCache, wsServer.Hub(), cfg.Redis.StatsTTL, log.Named("stats"))
	gameSvc := service.NewGameService(games, chain, teams, statsSvc, events, log.Named("games"))

	if _, err := teams.WarmCache(ctx); err != nil {
		log.Warn("team cache not warmed", zap.Error(err))
	}

	// Servers
	handler := rest.NewHandler(gameSvc, statsSvc, teams, players, map[string]rest.HealthChecker{
		"postgres": db,
		"redis":    redisCache,
	})
	restServer := rest.NewServer(cfg.Server.RESTPort, handler, log.Named("rest"))

	errCh := make(chan error, 2)
	go func() {
		log.Info("REST API listening", zap.String("port", cfg.Server.RESTPort))
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("REST server: %w", err)
		}
	}()
	go func() {
		if err := wsServer.Start(cfg.Server.WSPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("WebSocket server: %w", err)
		}
	}()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.NewScheduler(cfg.Scheduler, gameSvc, teams, log.Named("scheduler"))
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server failed, shutting down", zap.Error(err))
	}

	cancel()
	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Warn("scheduler shutdown error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("REST API server shutdown error", zap.Error(err))
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("WebSocket server shutdown error", zap.Error(err))
	}

	log.Info("stopped")
	return nil
}

func connectRedis(ctx context.Context, cfg config.Redis, log *zap.Logger) (*cache.RedisCache, error) {
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		rc, err := cache.NewRedisCache(ctx, cfg.URL)
		if err == nil {
			return rc, nil
		}
		lastErr = err

		if i < attempts-1 {
			log.Warn("redis connection failed, retrying",
				zap.Int("attempt", i+1),
				zap.Int("max_attempts", attempts),
				zap.Duration("delay", cfg.RetryDelay),
				zap.Error(err))
			select {
			case <-time.After(cfg.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("connecting to redis after %d attempts: %w", attempts, lastErr)
}
