package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/config"
	"github.com/fortuna/ballpark/internal/logger"
	"github.com/fortuna/ballpark/internal/stats"
	"github.com/fortuna/ballpark/internal/store"
	"github.com/fortuna/ballpark/internal/store/repository"
)

const (
	appName    = "ballpark-export"
	appVersion = "1.0.0"
)

type options struct {
	file     string
	userID   string
	dsn      string
	format   string
	kind     string
	minGames int
	out      string
}

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: loading config: %v\n", appName, err)
		os.Exit(1)
	}

	var opts options
	flag.StringVar(&opts.file, "file", "", "Per-user JSON data file to read")
	flag.StringVar(&opts.userID, "user", "", "User whose stored games to read from Postgres")
	flag.StringVar(&opts.dsn, "dsn", cfg.Database.DSN, "Postgres DSN")
	flag.StringVar(&opts.format, "format", "json", "Output format: json or csv")
	flag.StringVar(&opts.kind, "kind", "batting", "CSV table: batting or pitching")
	flag.IntVar(&opts.minGames, "min-games", 0, "Only include players with at least this many games")
	flag.StringVar(&opts.out, "out", "", "Output file (default stdout)")
	flag.Parse()

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: building logger: %v\n", appName, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting", zap.String("app", appName), zap.String("version", appVersion))

	if err := run(context.Background(), opts, log); err != nil {
		log.Fatal("export failed", zap.Error(err))
	}
}

func run(ctx context.Context, opts options, log *zap.Logger) error {
	if err := validate(opts); err != nil {
		return err
	}

	games, err := loadGames(ctx, opts, log)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := write(w, games, opts, time.Now()); err != nil {
		return err
	}
	log.Info("export complete", zap.Int("games", len(games)), zap.String("format", opts.format))
	return nil
}

func validate(opts options) error {
	if (opts.file == "") == (opts.userID == "") {
		return fmt.Errorf("specify exactly one of -file or -user")
	}
	if opts.format != "json" && opts.format != "csv" {
		return fmt.Errorf("-format must be json or csv, got %q", opts.format)
	}
	if opts.kind != "batting" && opts.kind != "pitching" {
		return fmt.Errorf("-kind must be batting or pitching, got %q", opts.kind)
	}
	if opts.minGames < 0 {
		return fmt.Errorf("-min-games must not be negative")
	}
	return nil
}

func loadGames(ctx context.Context, opts options, log *zap.Logger) ([]boxscore.GameRecord, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("reading data file: %w", err)
		}
		return boxscore.DecodeDataFile(data)
	}

	db, err := store.NewDatabase(ctx, opts.dsn, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	rows, err := repository.NewGameRepository(db).GetAll(ctx, opts.userID)
	if err != nil {
		return nil, err
	}
	return store.Records(rows), nil
}

// write aggregates games and renders them in the requested format.
func write(w io.Writer, games []boxscore.GameRecord, opts options, now time.Time) error {
	batting, pitching := stats.Aggregate(games)
	batting = stats.SortBattingByGames(stats.FilterBattingByMinGames(batting, opts.minGames))
	pitching = stats.SortPitchingByGames(stats.FilterPitchingByMinGames(pitching, opts.minGames))

	if opts.format == "csv" {
		if opts.kind == "pitching" {
			return stats.WritePitchingCSV(w, pitching)
		}
		return stats.WriteBattingCSV(w, batting)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats.NewExport(len(games), batting, pitching, now)); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}
