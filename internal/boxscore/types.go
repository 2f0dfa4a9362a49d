package boxscore

import "time"

// GameRecord is one attended game with both teams' box scores. Records are
// immutable once stored; consumers must not modify the line slices.
type GameRecord struct {
	GameID     string `json:"game_id,omitempty"`
	Date       string `json:"date"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	HomeTeamID int    `json:"home_team_id"`
	AwayTeamID int    `json:"away_team_id"`

	// Scores are nil when the source did not report them, which is not the
	// same as a shutout.
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`

	GameStatus string `json:"game_status,omitempty"`
	Venue      string `json:"venue,omitempty"`

	HomeTeamBatting  []BattingLine  `json:"home_team_batting"`
	AwayTeamBatting  []BattingLine  `json:"away_team_batting"`
	HomeTeamPitching []PitchingLine `json:"home_team_pitching"`
	AwayTeamPitching []PitchingLine `json:"away_team_pitching"`

	Notes   string     `json:"notes"`
	AddedAt *time.Time `json:"added_at,omitempty"`
}

// BattingLine is a single player's batting row for one game.
type BattingLine struct {
	Order    *int   `json:"order"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Sub      bool   `json:"sub"`

	AtBats         int `json:"at_bats"`
	Hits           int `json:"hits"`
	Runs           int `json:"runs"`
	RBIs           int `json:"rbis"`
	Doubles        int `json:"doubles"`
	Triples        int `json:"triples"`
	HomeRuns       int `json:"home_runs"`
	Walks          int `json:"walks"`
	Strikeouts     int `json:"strikeouts"`
	StolenBases    int `json:"stolen_bases"`
	CaughtStealing int `json:"caught_stealing"`
}

// PitchingLine is a single pitcher's row for one game. InningsPitched is
// already converted from baseball notation (6.1 -> 6.333...).
type PitchingLine struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Saves  int `json:"saves"`

	InningsPitched  float64 `json:"innings_pitched"`
	HitsAllowed     int     `json:"hits_allowed"`
	RunsAllowed     int     `json:"runs_allowed"`
	EarnedRuns      int     `json:"earned_runs"`
	WalksAllowed    int     `json:"walks_allowed"`
	Strikeouts      int     `json:"strikeouts"`
	HomeRunsAllowed int     `json:"home_runs_allowed"`
	PitchesThrown   int     `json:"pitches_thrown"`
}

// Key identifies the game for de-duplication within one user's list.
func (g GameRecord) Key() string {
	return GameKey(g.Date, g.HomeTeamID, g.AwayTeamID)
}

// HasScore reports whether both scores are known.
func (g GameRecord) HasScore() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// IsFinal reports whether the box score can no longer change.
func (g GameRecord) IsFinal() bool {
	switch g.GameStatus {
	case "Final", "Game Over", "Completed Early", "final":
		return true
	}
	return false
}
