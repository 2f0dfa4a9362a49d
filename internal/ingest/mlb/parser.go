package mlb

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fortuna/ballpark/internal/boxscore"
)

// ParseTeams extracts the team list from a /teams response, sorted by name.
func ParseTeams(data map[string]interface{}) []Team {
	var teams []Team
	for _, item := range extractArray(data, "teams") {
		t, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		teams = append(teams, Team{
			ID:           extractInt(t, "id"),
			Name:         extractString(t, "name"),
			Abbreviation: extractString(t, "abbreviation"),
			TeamName:     extractString(t, "teamName"),
			LocationName: extractString(t, "locationName"),
			Division:     extractString(extractMap(t, "division"), "name"),
			League:       extractString(extractMap(t, "league"), "name"),
		})
	}

	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

// ParseSchedule flattens a /schedule response into its games.
func ParseSchedule(data map[string]interface{}) []ScheduledGame {
	var games []ScheduledGame
	for _, d := range extractArray(data, "dates") {
		day, ok := d.(map[string]interface{})
		if !ok {
			continue
		}
		for _, g := range extractArray(day, "games") {
			game, ok := g.(map[string]interface{})
			if !ok {
				continue
			}
			teams := extractMap(game, "teams")
			home := extractMap(teams, "home")
			away := extractMap(teams, "away")

			games = append(games, ScheduledGame{
				GamePk:     extractInt(game, "gamePk"),
				HomeID:     extractInt(extractMap(home, "team"), "id"),
				AwayID:     extractInt(extractMap(away, "team"), "id"),
				HomeName:   extractString(extractMap(home, "team"), "name"),
				AwayName:   extractString(extractMap(away, "team"), "name"),
				HomeScore:  extractIntPtr(home, "score"),
				AwayScore:  extractIntPtr(away, "score"),
				Status:     extractString(extractMap(game, "status"), "detailedState"),
				VenueName:  extractString(extractMap(game, "venue"), "name"),
				GameNumber: extractInt(game, "gameNumber"),
			})
		}
	}
	return games
}

// ParsePerson extracts the first entry of a /people response.
func ParsePerson(data map[string]interface{}) *Person {
	people := extractArray(data, "people")
	if len(people) == 0 {
		return nil
	}
	p, ok := people[0].(map[string]interface{})
	if !ok {
		return nil
	}
	return &Person{
		ID:           extractInt(p, "id"),
		FullName:     extractString(p, "fullName"),
		FirstName:    extractString(p, "firstName"),
		LastName:     extractString(p, "lastName"),
		Position:     extractString(extractMap(p, "primaryPosition"), "name"),
		JerseyNumber: extractString(p, "primaryNumber"),
		Team:         extractString(extractMap(p, "currentTeam"), "name"),
		BirthDate:    extractString(p, "birthDate"),
		Height:       extractString(p, "height"),
		Weight:       extractInt(p, "weight"),
		Bats:         extractString(extractMap(p, "batSide"), "description"),
		Throws:       extractString(extractMap(p, "pitchHand"), "description"),
	}
}

// BuildGameRecord combines a schedule entry with its box score.
func BuildGameRecord(date string, game ScheduledGame, box map[string]interface{}) *boxscore.GameRecord {
	teams := extractMap(box, "teams")
	home := extractMap(teams, "home")
	away := extractMap(teams, "away")

	return &boxscore.GameRecord{
		GameID:           strconv.Itoa(game.GamePk),
		Date:             date,
		HomeTeam:         fallbackString(game.HomeName, extractString(extractMap(home, "team"), "name")),
		AwayTeam:         fallbackString(game.AwayName, extractString(extractMap(away, "team"), "name")),
		HomeTeamID:       game.HomeID,
		AwayTeamID:       game.AwayID,
		HomeScore:        game.HomeScore,
		AwayScore:        game.AwayScore,
		GameStatus:       game.Status,
		Venue:            game.VenueName,
		HomeTeamBatting:  parseBatters(home),
		AwayTeamBatting:  parseBatters(away),
		HomeTeamPitching: parsePitchers(home),
		AwayTeamPitching: parsePitchers(away),
	}
}

func parseBatters(team map[string]interface{}) []boxscore.BattingLine {
	players := extractMap(team, "players")
	lines := []boxscore.BattingLine{}
	for _, id := range extractArray(team, "batters") {
		personID := parseInt(id)
		if personID <= 0 {
			continue
		}
		player := extractMap(players, "ID"+strconv.Itoa(personID))
		lines = append(lines, parseBattingLine(personID, player))
	}
	return lines
}

func parseBattingLine(personID int, player map[string]interface{}) boxscore.BattingLine {
	stats := extractMap(extractMap(player, "stats"), "batting")
	sub := extractBool(extractMap(player, "gameStatus"), "isSubstitute")

	return boxscore.BattingLine{
		Order:       battingOrder(extractString(player, "battingOrder"), sub),
		PlayerID:    strconv.Itoa(personID),
		Name:        playerName(personID, player),
		Position:    extractString(extractMap(player, "position"), "abbreviation"),
		Sub:         sub,
		AtBats:      extractInt(stats, "atBats"),
		Hits:        extractInt(stats, "hits"),
		Runs:        extractInt(stats, "runs"),
		RBIs:        extractInt(stats, "rbi"),
		Doubles:     extractInt(stats, "doubles"),
		Triples:     extractInt(stats, "triples"),
		HomeRuns:    extractInt(stats, "homeRuns"),
		Walks:       extractInt(stats, "baseOnBalls"),
		Strikeouts:  extractInt(stats, "strikeOuts"),
		StolenBases: extractInt(stats, "stolenBases"),
		// caught stealing is not reported per game
	}
}

func parsePitchers(team map[string]interface{}) []boxscore.PitchingLine {
	players := extractMap(team, "players")
	lines := []boxscore.PitchingLine{}
	for _, id := range extractArray(team, "pitchers") {
		personID := parseInt(id)
		if personID <= 0 {
			continue
		}
		player := extractMap(players, "ID"+strconv.Itoa(personID))
		lines = append(lines, parsePitchingLine(personID, player))
	}
	return lines
}

func parsePitchingLine(personID int, player map[string]interface{}) boxscore.PitchingLine {
	stats := extractMap(extractMap(player, "stats"), "pitching")
	wins, losses, saves := decision(extractString(stats, "note"))

	return boxscore.PitchingLine{
		PlayerID:        strconv.Itoa(personID),
		Name:            playerName(personID, player),
		Wins:            wins,
		Losses:          losses,
		Saves:           saves,
		InningsPitched:  boxscore.ParseInnings(extractString(stats, "inningsPitched")),
		HitsAllowed:     extractInt(stats, "hits"),
		RunsAllowed:     extractInt(stats, "runs"),
		EarnedRuns:      extractInt(stats, "earnedRuns"),
		WalksAllowed:    extractInt(stats, "baseOnBalls"),
		Strikeouts:      extractInt(stats, "strikeOuts"),
		HomeRunsAllowed: extractInt(stats, "homeRuns"),
		PitchesThrown:   extractInt(stats, "numberOfPitches"),
	}
}

// battingOrder reads the lineup slot from codes like "100" or "401".
// Substitutes have no slot.
func battingOrder(code string, sub bool) *int {
	if sub || code == "" {
		return nil
	}
	slot, err := strconv.Atoi(code[:1])
	if err != nil {
		return nil
	}
	return &slot
}

// decision reads the pitcher's decision from a note like "(W, 9-8)". At most
// one of win, loss and save is credited.
func decision(note string) (wins, losses, saves int) {
	switch {
	case strings.Contains(note, "(W,"):
		return 1, 0, 0
	case strings.Contains(note, "(L,"):
		return 0, 1, 0
	case strings.Contains(note, "(S,"):
		return 0, 0, 1
	}
	return 0, 0, 0
}

func playerName(personID int, player map[string]interface{}) string {
	if name := extractString(extractMap(player, "person"), "fullName"); name != "" {
		return name
	}
	return "Player " + strconv.Itoa(personID)
}

// Helper functions

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

func fallbackString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func extractInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		return parseInt(v)
	}
	return 0
}

func extractIntPtr(m map[string]interface{}, key string) *int {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	n := parseInt(v)
	return &n
}

func extractBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}

func parseInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(val))
		return i
	case int:
		return val
	default:
		return 0
	}
}
