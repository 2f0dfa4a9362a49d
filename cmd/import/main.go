package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/backfill"
	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/config"
	"github.com/fortuna/ballpark/internal/logger"
	"github.com/fortuna/ballpark/internal/store"
	"github.com/fortuna/ballpark/internal/store/repository"
)

const (
	appName    = "ballpark-import"
	appVersion = "1.0.0"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: loading config: %v\n", appName, err)
		os.Exit(1)
	}

	var (
		dsn    = flag.String("dsn", cfg.Database.DSN, "Postgres DSN")
		file   = flag.String("file", "", "Per-user JSON data file to import")
		userID = flag.String("user", "", "User to record the games for")
		start  = flag.String("start", "", "Only import games on or after this date (YYYY-MM-DD)")
		end    = flag.String("end", "", "Only import games on or before this date (YYYY-MM-DD)")
		dryRun = flag.Bool("dry-run", false, "Dry run (do not write to DB)")
	)
	flag.Parse()

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: building logger: %v\n", appName, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting", zap.String("app", appName), zap.String("version", appVersion))

	if *file == "" || *userID == "" {
		log.Fatal("specify -file and -user")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("reading data file", zap.Error(err))
	}
	records, err := boxscore.DecodeDataFile(data)
	if err != nil {
		log.Fatal("decoding data file", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := store.NewDatabase(ctx, *dsn, log)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatal("running migrations", zap.Error(err))
	}

	spec := backfill.JobSpec{
		UserID: *userID,
		Source: *file,
		Start:  *start,
		End:    *end,
		DryRun: *dryRun,
	}
	runner := backfill.NewRunner(repository.NewGameRepository(db))
	if _, err := runner.Run(ctx, spec, records, &logReporter{log: log}); err != nil {
		log.Fatal("import failed", zap.Error(err))
	}
}

type logReporter struct {
	log *zap.Logger
}

func (r *logReporter) OnJobStart(spec backfill.JobSpec, total int) {
	r.log.Info("import started",
		zap.String("user_id", spec.UserID),
		zap.String("source", spec.Source),
		zap.Int("games", total),
		zap.Bool("dry_run", spec.DryRun))
}

func (r *logReporter) OnGameProcessed(gameKey string, index, total int) {
	r.log.Info("imported game", zap.String("game_key", gameKey), zap.Int("index", index+1), zap.Int("total", total))
}

func (r *logReporter) OnGameSkipped(gameKey, reason string) {
	r.log.Info("skipped game", zap.String("game_key", gameKey), zap.String("reason", reason))
}

func (r *logReporter) OnJobComplete(result backfill.Result) {
	r.log.Info("import complete",
		zap.Int("total", result.Total),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))
}

func (r *logReporter) OnJobError(err error) {
	r.log.Error("import error", zap.Error(err))
}
