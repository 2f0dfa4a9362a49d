package store

import (
	"time"

	"github.com/fortuna/ballpark/internal/boxscore"
)

// AttendedGame is one row of attended_games: a game a user was at, with the
// full box score kept as JSONB in Record.
type AttendedGame struct {
	ID         int64               `json:"id" db:"id"`
	UserID     string              `json:"user_id" db:"user_id"`
	GameKey    string              `json:"game_key" db:"game_key"`
	GameDate   string              `json:"game_date" db:"game_date"`
	HomeTeam   string              `json:"home_team" db:"home_team"`
	AwayTeam   string              `json:"away_team" db:"away_team"`
	HomeTeamID int                 `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int                 `json:"away_team_id" db:"away_team_id"`
	GameStatus string              `json:"game_status" db:"game_status"`
	Record     boxscore.GameRecord `json:"record" db:"record"`
	Notes      string              `json:"notes" db:"notes"`
	AddedAt    time.Time           `json:"added_at" db:"added_at"`
	UpdatedAt  time.Time           `json:"updated_at" db:"updated_at"`
}

// NewAttendedGame builds the row for record, stamping the notes and the time
// the user added it onto the stored box score as well.
func NewAttendedGame(userID string, record boxscore.GameRecord, notes string, now time.Time) *AttendedGame {
	added := now.UTC()
	record.Notes = notes
	record.AddedAt = &added

	return &AttendedGame{
		UserID:     userID,
		GameKey:    record.Key(),
		GameDate:   record.Date,
		HomeTeam:   record.HomeTeam,
		AwayTeam:   record.AwayTeam,
		HomeTeamID: record.HomeTeamID,
		AwayTeamID: record.AwayTeamID,
		GameStatus: record.GameStatus,
		Record:     record,
		Notes:      notes,
		AddedAt:    added,
		UpdatedAt:  added,
	}
}

// Records returns the box scores of games in order.
func Records(games []*AttendedGame) []boxscore.GameRecord {
	out := make([]boxscore.GameRecord, 0, len(games))
	for _, g := range games {
		out = append(out, g.Record)
	}
	return out
}
