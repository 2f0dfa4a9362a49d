package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/fortuna/ballpark/internal/boxscore"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	if !isUniqueViolation(dup) {
		t.Fatalf("expected unique violation to be detected")
	}
	if !isUniqueViolation(fmt.Errorf("inserting: %w", dup)) {
		t.Fatalf("expected wrapped unique violation to be detected")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("expected foreign key violation to be ignored")
	}
	if isUniqueViolation(errors.New("boom")) || isUniqueViolation(nil) {
		t.Fatalf("expected non-pq errors to be ignored")
	}
}

func TestFinalStatusesMatchRecord(t *testing.T) {
	for _, status := range finalStatuses {
		if !(boxscore.GameRecord{GameStatus: status}).IsFinal() {
			t.Fatalf("expected %q to be final", status)
		}
	}
	if (boxscore.GameRecord{GameStatus: "In Progress"}).IsFinal() {
		t.Fatalf("expected In Progress not to be final")
	}
}

type fakeRow struct {
	values []interface{}
}

func (f fakeRow) Scan(dest ...interface{}) error {
	if len(dest) != len(f.values) {
		return fmt.Errorf("expected %d columns, got %d", len(f.values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = f.values[i].(int64)
		case *int:
			*p = f.values[i].(int)
		case *string:
			*p = f.values[i].(string)
		case *[]byte:
			*p = f.values[i].([]byte)
		default:
			// timestamps are left zero
		}
	}
	return nil
}

func TestScanAttendedGameDecodesRecord(t *testing.T) {
	row := fakeRow{values: []interface{}{
		int64(7), "user-1", "2024-05-01_112_138", "2024-05-01", "Chicago Cubs", "St. Louis Cardinals",
		112, 138, "Final",
		[]byte(`{"game_id":"745000","home_team":"Chicago Cubs","home_score":"4","home_team_batting":[{"player_id":1,"name":"A","hits":"2"}]}`),
		"great seats", nil, nil,
	}}

	game, err := scanAttendedGame(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if game.ID != 7 || game.UserID != "user-1" || game.Notes != "great seats" {
		t.Fatalf("unexpected row fields: %+v", game)
	}
	if game.Record.HomeScore == nil || *game.Record.HomeScore != 4 {
		t.Fatalf("expected lenient score decode, got %v", game.Record.HomeScore)
	}
	if len(game.Record.HomeTeamBatting) != 1 || game.Record.HomeTeamBatting[0].PlayerID != "1" || game.Record.HomeTeamBatting[0].Hits != 2 {
		t.Fatalf("unexpected batting decode: %+v", game.Record.HomeTeamBatting)
	}
}
