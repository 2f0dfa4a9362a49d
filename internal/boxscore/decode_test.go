package boxscore

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDecodeGamesCoercesMalformedFields(t *testing.T) {
	data := []byte(`[
		{
			"date": "2024-06-01",
			"home_team": "Cincinnati Reds",
			"away_team": "Chicago Cubs",
			"home_team_id": 113,
			"away_team_id": "112",
			"home_score": 5,
			"home_team_batting": [
				{"player_id": 663697, "name": "Jonathan India", "at_bats": "4", "hits": 2, "walks": "x", "order": 1, "sub": false},
				{"name": "Bench Guy", "at_bats": null, "hits": 1.9, "sub": "true"}
			],
			"home_team_pitching": [
				{"player_id": "668881", "name": "Hunter Greene", "innings_pitched": "6.1", "earned_runs": 3},
				{"player_id": "1", "name": "Stored", "innings_pitched": 6.333333333333333}
			],
			"away_team_batting": {"not": "a list"}
		},
		null,
		"garbage"
	]`)

	games, err := DecodeGames(data)
	if err != nil {
		t.Fatalf("decode returned error: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}

	g := games[0]
	if g.AwayTeamID != 112 {
		t.Fatalf("expected away_team_id 112, got %d", g.AwayTeamID)
	}
	if g.HomeScore == nil || *g.HomeScore != 5 {
		t.Fatalf("expected home score 5, got %v", g.HomeScore)
	}
	if g.AwayScore != nil {
		t.Fatalf("expected missing away score to stay nil, got %d", *g.AwayScore)
	}
	if len(g.AwayTeamBatting) != 0 {
		t.Fatalf("expected malformed batting list to decode empty, got %d", len(g.AwayTeamBatting))
	}

	india := g.HomeTeamBatting[0]
	if india.PlayerID != "663697" || india.AtBats != 4 || india.Hits != 2 || india.Walks != 0 {
		t.Fatalf("unexpected batting line: %+v", india)
	}
	if india.Order == nil || *india.Order != 1 {
		t.Fatalf("expected batting order 1, got %v", india.Order)
	}

	bench := g.HomeTeamBatting[1]
	if bench.PlayerID != "" || bench.AtBats != 0 || bench.Hits != 1 || !bench.Sub {
		t.Fatalf("unexpected bench line: %+v", bench)
	}

	if got := g.HomeTeamPitching[0].InningsPitched; math.Abs(got-(6+1.0/3.0)) > 1e-9 {
		t.Fatalf("expected notation string to convert, got %.6f", got)
	}
	if got := g.HomeTeamPitching[1].InningsPitched; got != 6.333333333333333 {
		t.Fatalf("expected stored decimal to pass through, got %v", got)
	}

	if games[1].Date != "" || len(games[1].HomeTeamBatting) != 0 || len(games[2].HomeTeamPitching) != 0 {
		t.Fatalf("expected null game to decode empty, got %+v", games[1])
	}
}

func TestDecodeGamesRejectsNonArray(t *testing.T) {
	if _, err := DecodeGames([]byte(`{"games": []}`)); err == nil {
		t.Fatalf("expected error for non-array document")
	}
}

func TestGameRecordRoundTripKeepsFieldNames(t *testing.T) {
	home := 3
	order := 2
	in := GameRecord{
		Date:             "2024-07-04",
		HomeTeam:         "New York Yankees",
		HomeTeamID:       147,
		AwayTeamID:       111,
		HomeScore:        &home,
		HomeTeamBatting:  []BattingLine{{PlayerID: "592450", Name: "Aaron Judge", Order: &order, AtBats: 4, HomeRuns: 1, Hits: 1}},
		AwayTeamPitching: []PitchingLine{{PlayerID: "1", InningsPitched: 6 + 2.0/3.0, Losses: 1}},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out GameRecord
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.Key() != "2024-07-04_147_111" {
		t.Fatalf("unexpected key %s", out.Key())
	}
	if out.HomeTeamBatting[0].HomeRuns != 1 || *out.HomeTeamBatting[0].Order != 2 {
		t.Fatalf("batting line lost fields: %+v", out.HomeTeamBatting[0])
	}
	if out.AwayTeamPitching[0].InningsPitched != in.AwayTeamPitching[0].InningsPitched {
		t.Fatalf("innings changed across round trip")
	}
	if out.AwayScore != nil {
		t.Fatalf("expected nil away score after round trip")
	}
}

func TestDecodeDataFile(t *testing.T) {
	doc := []byte(`{"games": [{"date": "2024-05-01", "home_team": "Cubs"}], "created_at": "2024-04-01T10:00:00"}`)
	games, err := DecodeDataFile(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 1 || games[0].HomeTeam != "Cubs" {
		t.Fatalf("expected one Cubs game, got %+v", games)
	}

	games, err = DecodeDataFile([]byte(`[{"date": "2024-05-02"}]`))
	if err != nil || len(games) != 1 {
		t.Fatalf("expected bare array to decode, got %v / %v", games, err)
	}

	games, err = DecodeDataFile([]byte(`{"games": "oops"}`))
	if err != nil || len(games) != 0 {
		t.Fatalf("expected malformed games list to decode as empty, got %v / %v", games, err)
	}

	if _, err := DecodeDataFile([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid document")
	}
}
