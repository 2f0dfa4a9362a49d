package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/store"
)

var (
	// ErrDuplicateGame is returned when the user already has a game with the
	// same date and team IDs.
	ErrDuplicateGame = errors.New("game already recorded")
	// ErrRecordNotFound is returned when no row matches.
	ErrRecordNotFound = errors.New("record not found")
)

// finalStatuses mirrors boxscore.GameRecord.IsFinal.
var finalStatuses = []string{"Final", "Game Over", "Completed Early", "final"}

const uniqueViolation = "23505"

const attendedGameColumns = `
	id, user_id, game_key, game_date, home_team, away_team,
	home_team_id, away_team_id, game_status, record, notes, added_at, updated_at`

// GameRepository stores each user's attended games.
type GameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db.DB()}
}

// Add inserts game for its user. It returns ErrDuplicateGame if the user
// already has a game with the same key.
func (r *GameRepository) Add(ctx context.Context, game *store.AttendedGame) error {
	record, err := json.Marshal(game.Record)
	if err != nil {
		return fmt.Errorf("encoding game record: %w", err)
	}

	query := `
		INSERT INTO attended_games (user_id, game_key, game_date, home_team, away_team,
			home_team_id, away_team_id, game_status, record, notes, added_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		game.UserID, game.GameKey, game.GameDate, game.HomeTeam, game.AwayTeam,
		game.HomeTeamID, game.AwayTeamID, game.GameStatus, record, game.Notes, game.AddedAt,
	).Scan(&game.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateGame
	}
	if err != nil {
		return fmt.Errorf("inserting attended game: %w", err)
	}

	return nil
}

// GetAll returns every game of a user in the order they were added.
func (r *GameRepository) GetAll(ctx context.Context, userID string) ([]*store.AttendedGame, error) {
	query := `SELECT ` + attendedGameColumns + `
		FROM attended_games
		WHERE user_id = $1
		ORDER BY id
	`
	return r.query(ctx, query, userID)
}

// Get returns one of a user's games by row ID.
func (r *GameRepository) Get(ctx context.Context, userID string, id int64) (*store.AttendedGame, error) {
	query := `SELECT ` + attendedGameColumns + `
		FROM attended_games
		WHERE user_id = $1 AND id = $2
	`
	return r.queryOne(ctx, query, userID, id)
}

// GetByKey finds a user's game by its game key.
func (r *GameRepository) GetByKey(ctx context.Context, userID, gameKey string) (*store.AttendedGame, error) {
	query := `SELECT ` + attendedGameColumns + `
		FROM attended_games
		WHERE user_id = $1 AND game_key = $2
	`
	return r.queryOne(ctx, query, userID, gameKey)
}

// GetByDateAndTeams finds a user's game by date and team names.
func (r *GameRepository) GetByDateAndTeams(ctx context.Context, userID, date, homeTeam, awayTeam string) (*store.AttendedGame, error) {
	query := `SELECT ` + attendedGameColumns + `
		FROM attended_games
		WHERE user_id = $1 AND game_date = $2 AND home_team = $3 AND away_team = $4
		ORDER BY id
		LIMIT 1
	`
	return r.queryOne(ctx, query, userID, date, homeTeam, awayTeam)
}

// GetByTeam returns a user's games in which team played at home or away.
func (r *GameRepository) GetByTeam(ctx context.Context, userID, team string) ([]*store.AttendedGame, error) {
	query := `SELECT ` + attendedGameColumns + `
		FROM attended_games
		WHERE user_id = $1 AND (home_team = $2 OR away_team = $2)
		ORDER BY id
	`
	return r.query(ctx, query, userID, team)
}

// GetByDateRange returns a user's games dated between start and end
// inclusive. Dates compare as YYYY-MM-DD strings.
func (r *GameRepository) GetByDateRange(ctx context.Context, userID, start, end string) ([]*store.AttendedGame, error) {
	query := `SELECT ` + attendedGameColumns + `
		FROM attended_games
		WHERE user_id = $1 AND game_date >= $2 AND game_date <= $3
		ORDER BY id
	`
	return r.query(ctx, query, userID, start, end)
}

// ListNotFinal returns games of every user whose box score may still change.
func (r *GameRepository) ListNotFinal(ctx context.Context) ([]*store.AttendedGame, error) {
	query := `SELECT ` + attendedGameColumns + `
		FROM attended_games
		WHERE NOT (game_status = ANY($1))
		ORDER BY id
	`
	return r.query(ctx, query, pq.Array(finalStatuses))
}

// UpdateRecord replaces the stored box score of a game and its status.
func (r *GameRepository) UpdateRecord(ctx context.Context, id int64, record boxscore.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding game record: %w", err)
	}

	query := `
		UPDATE attended_games
		SET record = $2, game_status = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, data, record.GameStatus, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating game record: %w", err)
	}
	return expectRows(res)
}

// Remove deletes one of a user's games.
func (r *GameRepository) Remove(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attended_games WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting attended game: %w", err)
	}
	return expectRows(res)
}

// Clear deletes all of a user's games and reports how many were removed.
func (r *GameRepository) Clear(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attended_games WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clearing attended games: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return n, nil
}

func (r *GameRepository) query(ctx context.Context, query string, args ...interface{}) ([]*store.AttendedGame, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attended games: %w", err)
	}
	defer rows.Close()

	return scanAttendedGames(rows)
}

func (r *GameRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*store.AttendedGame, error) {
	game, err := scanAttendedGame(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying attended game: %w", err)
	}
	return game, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAttendedGame(row scanner) (*store.AttendedGame, error) {
	game := &store.AttendedGame{}
	var record []byte
	err := row.Scan(
		&game.ID, &game.UserID, &game.GameKey, &game.GameDate, &game.HomeTeam, &game.AwayTeam,
		&game.HomeTeamID, &game.AwayTeamID, &game.GameStatus, &record, &game.Notes,
		&game.AddedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(record, &game.Record); err != nil {
		return nil, fmt.Errorf("decoding game record %d: %w", game.ID, err)
	}
	return game, nil
}

func scanAttendedGames(rows *sql.Rows) ([]*store.AttendedGame, error) {
	games := []*store.AttendedGame{}
	for rows.Next() {
		game, err := scanAttendedGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attended game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
