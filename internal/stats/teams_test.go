package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fortuna/ballpark/internal/boxscore"
)

func scoredGame(date, home, away string, hs, as int) boxscore.GameRecord {
	return boxscore.GameRecord{Date: date, HomeTeam: home, AwayTeam: away, HomeScore: intPtr(hs), AwayScore: intPtr(as)}
}

func TestTeamRecords(t *testing.T) {
	games := []boxscore.GameRecord{
		scoredGame("2024-04-01", "Cubs", "Cardinals", 5, 3),
		scoredGame("2024-04-02", "Cubs", "Cardinals", 2, 2),
		scoredGame("2024-04-03", "Cardinals", "Brewers", 1, 4),
		{Date: "2024-04-04", HomeTeam: "Cubs", AwayTeam: "Brewers"},
	}

	records := TeamRecords(games)
	if len(records) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(records))
	}

	brewers, cubs, cardinals := records[0], records[1], records[2]
	if brewers.Team != "Brewers" || brewers.WinPct != 1 || brewers.Games != 1 {
		t.Fatalf("expected Brewers first at 1.000, got %+v", brewers)
	}
	if cubs.Team != "Cubs" || cubs.Wins != 1 || cubs.Ties != 1 || cubs.WinPct != 0.5 {
		t.Fatalf("unexpected Cubs record: %+v", cubs)
	}
	if cubs.RunsFor != 7 || cubs.RunsAgainst != 5 {
		t.Fatalf("expected Cubs runs 7-5, got %d-%d", cubs.RunsFor, cubs.RunsAgainst)
	}
	if cardinals.Losses != 2 || cardinals.Ties != 1 || cardinals.Games != 3 || cardinals.WinPct != 0 {
		t.Fatalf("unexpected Cardinals record: %+v", cardinals)
	}
}

func TestTeamRecordsSkipsGamesWithoutBothTeams(t *testing.T) {
	games := []boxscore.GameRecord{
		scoredGame("2024-04-01", "Cubs", "", 5, 3),
		scoredGame("2024-04-02", "", "Cardinals", 2, 1),
		scoredGame("2024-04-03", "Cubs", "Cardinals", 4, 0),
	}

	records := TeamRecords(games)
	if len(records) != 2 {
		t.Fatalf("expected 2 teams, got %+v", records)
	}
	for _, r := range records {
		if r.Team == "" {
			t.Fatalf("expected no record for an empty team name, got %+v", r)
		}
		if r.Games != 1 {
			t.Fatalf("expected %s to count only the complete game, got %d", r.Team, r.Games)
		}
	}
}

func TestTeamSummaryCountsMissingScoresAsZero(t *testing.T) {
	games := []boxscore.GameRecord{
		scoredGame("2024-04-01", "Cubs", "Cardinals", 5, 3),
		{HomeTeam: "Cubs", AwayTeam: "Cardinals"},
		{AwayScore: intPtr(1)},
	}

	summary := TeamSummary(games)
	if len(summary) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(summary))
	}
	cubs := summary[0]
	if cubs.Team != "Cubs" || cubs.GamesSeen != 2 || cubs.Wins != 1 || cubs.Losses != 0 {
		t.Fatalf("unexpected Cubs summary: %+v", cubs)
	}
	unknown := summary[2]
	if unknown.Team != "Unknown" || unknown.GamesSeen != 2 || unknown.Wins != 1 || unknown.Losses != 1 {
		t.Fatalf("expected Unknown to both win and lose its self-matchup, got %+v", unknown)
	}
}

func TestGamesByMonth(t *testing.T) {
	games := []boxscore.GameRecord{
		{Date: "2024-07-04"},
		{Date: "2024-05-12"},
		{Date: "2024-7-20"},
		{Date: "not a date"},
		{},
	}

	got := GamesByMonth(games)
	want := []MonthCount{{"2024-05", 1}, {"2024-07", 2}, {"Unknown", 2}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTeamAttendance(t *testing.T) {
	games := []boxscore.GameRecord{
		{HomeTeam: "Cubs", AwayTeam: "Cardinals"},
		{HomeTeam: "Brewers", AwayTeam: "Reds"},
		{HomeTeam: "Reds", AwayTeam: ""},
	}

	got := TeamAttendance(games, 3)
	want := []TeamCount{{"Reds", 2}, {"Cubs", 1}, {"Cardinals", 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected limit of 3 to apply, got %d", len(got))
	}
}

func TestTopBatters(t *testing.T) {
	stats := []BattingStat{
		{PlayerID: "a", Games: 3, BattingAverage: 0.250, HomeRuns: 4},
		{PlayerID: "b", Games: 2, BattingAverage: 0.500, HomeRuns: 9},
		{PlayerID: "c", Games: 5, BattingAverage: 0.300, HomeRuns: 4},
		{PlayerID: "d", Games: 4, BattingAverage: 0.300, HomeRuns: 1},
	}

	byAvg := TopBatters(stats, LeaderboardMinGames, 2, MetricBattingAverage)
	if len(byAvg) != 2 || byAvg[0].PlayerID != "c" || byAvg[1].PlayerID != "d" {
		t.Fatalf("expected [c d] by average, got %+v", byAvg)
	}

	byHR := TopBatters(stats, LeaderboardMinGames, LeaderboardSize, MetricHomeRuns)
	if len(byHR) != 3 || byHR[0].PlayerID != "a" || byHR[1].PlayerID != "c" {
		t.Fatalf("expected ties kept in order [a c d], got %+v", byHR)
	}
}

func TestSortAndFilterByGames(t *testing.T) {
	stats := []PitchingStat{
		{PlayerID: "a", Games: 1},
		{PlayerID: "b", Games: 3},
		{PlayerID: "c", Games: 1},
		{PlayerID: "d", Games: 2},
	}

	sorted := SortPitchingByGames(stats)
	if got := sorted[0].PlayerID + sorted[1].PlayerID + sorted[2].PlayerID + sorted[3].PlayerID; got != "bdac" {
		t.Fatalf("expected stable order bdac, got %s", got)
	}
	if stats[0].PlayerID != "a" {
		t.Fatalf("expected input to be left in place")
	}
	if filtered := FilterPitchingByMinGames(stats, 2); len(filtered) != 2 {
		t.Fatalf("expected 2 pitchers with 2+ games, got %d", len(filtered))
	}
}

func TestWriteBattingCSV(t *testing.T) {
	batting, _ := Aggregate([]boxscore.GameRecord{{
		HomeTeam: "A",
		HomeTeamBatting: []boxscore.BattingLine{
			{PlayerID: "123", Name: "Last, First", AtBats: 4, Hits: 2, Doubles: 1, HomeRuns: 1},
		},
	}})

	var buf bytes.Buffer
	if err := WriteBattingCSV(&buf, batting); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "player_id,player_name,team,games,at_bats") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	want := `123,"Last, First",A,1,4,2,0,0,1,0,1,0,0,0.5,0.5,1.5,2.0`
	if lines[1] != want {
		t.Fatalf("expected row %q, got %q", want, lines[1])
	}
}

func TestWritePitchingCSVKeepsDecimalPoint(t *testing.T) {
	var buf bytes.Buffer
	err := WritePitchingCSV(&buf, []PitchingStat{{PlayerID: "9", PlayerName: "Ace", Team: "A", Games: 1, InningsPitched: 6, EarnedRuns: 3, ERA: 4.5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "9,Ace,A,1,0,0,0,6.0,0,0,3,0,0,0,4.5,0.0") {
		t.Fatalf("unexpected CSV output: %s", buf.String())
	}
}

func TestNewExport(t *testing.T) {
	now := time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC)
	export := NewExport(4, nil, []PitchingStat{{PlayerID: "9"}}, now)

	data, err := json.Marshal(export)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"batting_stats", "pitching_stats", "export_date", "total_games", "total_batters", "total_pitchers"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("expected key %s in export", key)
		}
	}
	if doc["total_games"].(float64) != 4 || doc["total_pitchers"].(float64) != 1 || doc["total_batters"].(float64) != 0 {
		t.Fatalf("unexpected totals: %v", doc)
	}
	if batting, ok := doc["batting_stats"].([]interface{}); !ok || len(batting) != 0 {
		t.Fatalf("expected empty batting array, got %v", doc["batting_stats"])
	}
}
