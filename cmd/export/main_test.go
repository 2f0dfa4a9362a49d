package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/stats"
)

const dataFile = `{"games": [
  {"date": "2024-05-01", "home_team": "Boston Red Sox", "away_team": "New York Yankees",
   "home_team_id": 111, "away_team_id": 147, "home_score": 5, "away_score": 3,
   "home_team_batting": [{"player_id": "1", "name": "Rafael Devers", "at_bats": 4, "hits": 2, "home_runs": 1}],
   "away_team_batting": [{"player_id": "2", "name": "Aaron Judge", "at_bats": 3, "hits": 1, "walks": 1}],
   "home_team_pitching": [{"player_id": "10", "name": "Brayan Bello", "innings_pitched": "6.1", "earned_runs": 3}],
   "away_team_pitching": []},
  {"date": "2024-05-02", "home_team": "Boston Red Sox", "away_team": "New York Yankees",
   "home_team_id": 111, "away_team_id": 147,
   "home_team_batting": [{"player_id": "1", "name": "Rafael Devers", "at_bats": 4, "hits": 1}]}
]}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		opts options
		ok   bool
	}{
		{"file", options{file: "x.json", format: "json", kind: "batting"}, true},
		{"user", options{userID: "u1", format: "csv", kind: "pitching"}, true},
		{"neither", options{format: "json", kind: "batting"}, false},
		{"both", options{file: "x", userID: "u", format: "json", kind: "batting"}, false},
		{"format", options{file: "x", format: "xml", kind: "batting"}, false},
		{"kind", options{file: "x", format: "csv", kind: "fielding"}, false},
		{"min games", options{file: "x", format: "json", kind: "batting", minGames: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.opts)
			if (err == nil) != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}

func TestRunFromFileJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "user.json")
	out := filepath.Join(dir, "out.json")
	if err := os.WriteFile(in, []byte(dataFile), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	err := run(context.Background(), options{file: in, format: "json", kind: "batting", out: out}, zap.NewNop())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var exp stats.Export
	if err := json.Unmarshal(data, &exp); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if exp.TotalGames != 2 || exp.TotalBatters != 2 || exp.TotalPitchers != 1 {
		t.Fatalf("unexpected totals: %+v", exp)
	}
	if exp.BattingStats[0].PlayerID != "1" || exp.BattingStats[0].Games != 2 {
		t.Fatalf("expected Devers first with 2 games, got %+v", exp.BattingStats[0])
	}
	if exp.PitchingStats[0].ERA != 4.26 {
		t.Fatalf("expected ERA 4.26, got %v", exp.PitchingStats[0].ERA)
	}
}

func TestWriteCSVMinGames(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "user.json")
	if err := os.WriteFile(in, []byte(dataFile), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	games, err := loadGames(context.Background(), options{file: in}, zap.NewNop())
	if err != nil {
		t.Fatalf("loadGames failed: %v", err)
	}

	var buf bytes.Buffer
	opts := options{format: "csv", kind: "batting", minGames: 2}
	if err := write(&buf, games, opts, time.Now()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "1,Rafael Devers,Boston Red Sox,2,8,3,") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}
