package boxscore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Stored game files come from several generations of the box-score client,
// so decoding never fails on a bad field: malformed numbers become zero,
// missing lists become empty, and a null game decodes to an empty record.

// GameKey builds the de-duplication key for a game.
func GameKey(date string, homeTeamID, awayTeamID int) string {
	return fmt.Sprintf("%s_%d_%d", date, homeTeamID, awayTeamID)
}

// DecodeGames decodes a JSON array of game records. Only a document that is
// not an array at all is reported as an error.
func DecodeGames(data []byte) ([]GameRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding game list: %w", err)
	}

	games := make([]GameRecord, 0, len(raw))
	for _, item := range raw {
		var game GameRecord
		_ = game.UnmarshalJSON(item)
		games = append(games, game)
	}
	return games, nil
}

// DecodeDataFile decodes a per-user data file. Both the object form
// {"games": [...]} and a bare game array are accepted; a file without a
// games list yields no games.
func DecodeDataFile(data []byte) ([]GameRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return DecodeGames(trimmed)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decoding data file: %w", err)
	}
	list, ok := doc["games"]
	if !ok || bytes.Equal(bytes.TrimSpace(list), []byte("null")) {
		return []GameRecord{}, nil
	}
	games, err := DecodeGames(list)
	if err != nil {
		return []GameRecord{}, nil
	}
	return games, nil
}

// UnmarshalJSON decodes a game record leniently.
func (g *GameRecord) UnmarshalJSON(data []byte) error {
	*g = GameRecord{}
	f := parseFields(data)
	if f == nil {
		return nil
	}

	g.GameID = f.str("game_id")
	g.Date = f.str("date")
	g.HomeTeam = f.str("home_team")
	g.AwayTeam = f.str("away_team")
	g.HomeTeamID = f.int("home_team_id")
	g.AwayTeamID = f.int("away_team_id")
	g.HomeScore = f.intPtr("home_score")
	g.AwayScore = f.intPtr("away_score")
	g.GameStatus = f.str("game_status")
	g.Venue = f.str("venue")
	g.Notes = f.str("notes")

	if added := f.str("added_at"); added != "" {
		if ts, ok := parseTimestamp(added); ok {
			g.AddedAt = &ts
		}
	}

	g.HomeTeamBatting = decodeBatting(f.list("home_team_batting"))
	g.AwayTeamBatting = decodeBatting(f.list("away_team_batting"))
	g.HomeTeamPitching = decodePitching(f.list("home_team_pitching"))
	g.AwayTeamPitching = decodePitching(f.list("away_team_pitching"))

	return nil
}

// UnmarshalJSON decodes a batting line leniently.
func (b *BattingLine) UnmarshalJSON(data []byte) error {
	*b = BattingLine{}
	f := parseFields(data)
	if f == nil {
		return nil
	}

	b.Order = f.intPtr("order")
	b.PlayerID = f.str("player_id")
	b.Name = f.str("name")
	b.Position = f.str("position")
	b.Sub = f.bool("sub")
	b.AtBats = f.int("at_bats")
	b.Hits = f.int("hits")
	b.Runs = f.int("runs")
	b.RBIs = f.int("rbis")
	b.Doubles = f.int("doubles")
	b.Triples = f.int("triples")
	b.HomeRuns = f.int("home_runs")
	b.Walks = f.int("walks")
	b.Strikeouts = f.int("strikeouts")
	b.StolenBases = f.int("stolen_bases")
	b.CaughtStealing = f.int("caught_stealing")
	return nil
}

// UnmarshalJSON decodes a pitching line leniently. A numeric innings value is
// taken as already converted; a string is read as baseball notation.
func (p *PitchingLine) UnmarshalJSON(data []byte) error {
	*p = PitchingLine{}
	f := parseFields(data)
	if f == nil {
		return nil
	}

	p.PlayerID = f.str("player_id")
	p.Name = f.str("name")
	p.Wins = f.int("wins")
	p.Losses = f.int("losses")
	p.Saves = f.int("saves")
	p.InningsPitched = f.innings("innings_pitched")
	p.HitsAllowed = f.int("hits_allowed")
	p.RunsAllowed = f.int("runs_allowed")
	p.EarnedRuns = f.int("earned_runs")
	p.WalksAllowed = f.int("walks_allowed")
	p.Strikeouts = f.int("strikeouts")
	p.HomeRunsAllowed = f.int("home_runs_allowed")
	p.PitchesThrown = f.int("pitches_thrown")
	return nil
}

func decodeBatting(items []json.RawMessage) []BattingLine {
	lines := make([]BattingLine, 0, len(items))
	for _, item := range items {
		var line BattingLine
		_ = line.UnmarshalJSON(item)
		lines = append(lines, line)
	}
	return lines
}

func decodePitching(items []json.RawMessage) []PitchingLine {
	lines := make([]PitchingLine, 0, len(items))
	for _, item := range items {
		var line PitchingLine
		_ = line.UnmarshalJSON(item)
		lines = append(lines, line)
	}
	return lines
}

type fields map[string]json.RawMessage

func parseFields(data []byte) fields {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	return f
}

func (f fields) value(key string) interface{} {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func (f fields) int(key string) int {
	n, _ := toInt(f.value(key))
	return n
}

func (f fields) intPtr(key string) *int {
	v := f.value(key)
	if v == nil {
		return nil
	}
	n, ok := toInt(v)
	if !ok {
		return nil
	}
	return &n
}

func (f fields) innings(key string) float64 {
	switch val := f.value(key).(type) {
	case float64:
		return val
	case string:
		return ParseInnings(val)
	}
	return 0
}

func (f fields) str(key string) string {
	switch val := f.value(key).(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

func (f fields) bool(key string) bool {
	switch val := f.value(key).(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(val))
		return b
	}
	return false
}

func (f fields) list(key string) []json.RawMessage {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// toInt coerces a decoded JSON value to an int. Floats truncate toward zero.
func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.Abs(val) > 1e15 {
			return 0, false
		}
		return int(val), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
