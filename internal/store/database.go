package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// migrations are applied in order, each at most once.
var migrations = []string{
	"001_create_attended_games.sql",
	"002_create_attended_games_indexes.sql",
}

// migrationDirs are searched in order for migration files: the repository
// layout first, then the container layout.
var migrationDirs = []string{
	filepath.Join("db", "migrations"),
	"migrations",
}

// Database wraps the Postgres connection pool.
type Database struct {
	conn   *sql.DB
	logger *zap.Logger
}

// NewDatabase opens and pings a Postgres connection pool.
func NewDatabase(ctx context.Context, dsn string, logger *zap.Logger) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Database{conn: db, logger: logger}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// RunMigrations applies every migration that has not been recorded in
// schema_migrations yet.
func (db *Database) RunMigrations(ctx context.Context) error {
	db.logger.Info("running database migrations")

	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	for _, migration := range migrations {
		if err := db.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("running migration %s: %w", migration, err)
		}
	}

	db.logger.Info("database migrations complete", zap.Int("count", len(migrations)))
	return nil
}

func (db *Database) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.ExecContext(ctx, query)
	return err
}

func (db *Database) runMigration(ctx context.Context, filename string) error {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", filename,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking migration state: %w", err)
	}
	if exists {
		db.logger.Debug("skipping applied migration", zap.String("migration", filename))
		return nil
	}

	content, err := readMigration(filename)
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", filename); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	db.logger.Info("applied migration", zap.String("migration", filename))
	return nil
}

func readMigration(filename string) ([]byte, error) {
	var lastErr error
	for _, dir := range migrationDirs {
		content, err := os.ReadFile(filepath.Join(dir, filename))
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("reading migration file: %w", lastErr)
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}
