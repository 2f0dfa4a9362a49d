package stats

// BattingStat is a player's cumulative batting line across every game passed
// to Aggregate.
type BattingStat struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	Games      int    `json:"games"`

	AtBats     int `json:"at_bats"`
	Hits       int `json:"hits"`
	Runs       int `json:"runs"`
	RBIs       int `json:"rbis"`
	Doubles    int `json:"doubles"`
	Triples    int `json:"triples"`
	HomeRuns   int `json:"home_runs"`
	Walks      int `json:"walks"`
	Strikeouts int `json:"strikeouts"`

	BattingAverage     float64 `json:"batting_average"`
	OnBasePercentage   float64 `json:"on_base_percentage"`
	SluggingPercentage float64 `json:"slugging_percentage"`
	OPS                float64 `json:"ops"`
}

// PitchingStat is a pitcher's cumulative line across every game passed to
// Aggregate.
type PitchingStat struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	Games      int    `json:"games"`

	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	Saves           int     `json:"saves"`
	InningsPitched  float64 `json:"innings_pitched"`
	HitsAllowed     int     `json:"hits_allowed"`
	RunsAllowed     int     `json:"runs_allowed"`
	EarnedRuns      int     `json:"earned_runs"`
	WalksAllowed    int     `json:"walks_allowed"`
	Strikeouts      int     `json:"strikeouts"`
	HomeRunsAllowed int     `json:"home_runs_allowed"`

	ERA  float64 `json:"era"`
	WHIP float64 `json:"whip"`
}

// TotalBases counts singles once, doubles twice, triples three times and
// home runs four times.
func (s BattingStat) TotalBases() int {
	singles := s.Hits - s.Doubles - s.Triples - s.HomeRuns
	return singles + 2*s.Doubles + 3*s.Triples + 4*s.HomeRuns
}
