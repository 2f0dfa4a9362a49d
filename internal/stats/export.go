package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Export is the downloadable JSON document of a user's aggregated stats.
type Export struct {
	BattingStats  []BattingStat  `json:"batting_stats"`
	PitchingStats []PitchingStat `json:"pitching_stats"`
	ExportDate    time.Time      `json:"export_date"`
	TotalGames    int            `json:"total_games"`
	TotalBatters  int            `json:"total_batters"`
	TotalPitchers int            `json:"total_pitchers"`
}

// NewExport wraps aggregated stats with the export metadata.
func NewExport(totalGames int, batting []BattingStat, pitching []PitchingStat, now time.Time) Export {
	if batting == nil {
		batting = []BattingStat{}
	}
	if pitching == nil {
		pitching = []PitchingStat{}
	}
	return Export{
		BattingStats:  batting,
		PitchingStats: pitching,
		ExportDate:    now,
		TotalGames:    totalGames,
		TotalBatters:  len(batting),
		TotalPitchers: len(pitching),
	}
}

var battingHeader = []string{
	"player_id", "player_name", "team", "games",
	"at_bats", "hits", "runs", "rbis", "doubles", "triples", "home_runs", "walks", "strikeouts",
	"batting_average", "on_base_percentage", "slugging_percentage", "ops",
}

var pitchingHeader = []string{
	"player_id", "player_name", "team", "games",
	"wins", "losses", "saves", "innings_pitched",
	"hits_allowed", "runs_allowed", "earned_runs", "walks_allowed", "strikeouts", "home_runs_allowed",
	"era", "whip",
}

// WriteBattingCSV writes stats as CSV with a header row of field names.
func WriteBattingCSV(w io.Writer, stats []BattingStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(battingHeader); err != nil {
		return fmt.Errorf("writing batting header: %w", err)
	}
	for _, s := range stats {
		row := []string{
			s.PlayerID, s.PlayerName, s.Team, itoa(s.Games),
			itoa(s.AtBats), itoa(s.Hits), itoa(s.Runs), itoa(s.RBIs),
			itoa(s.Doubles), itoa(s.Triples), itoa(s.HomeRuns), itoa(s.Walks), itoa(s.Strikeouts),
			ftoa(s.BattingAverage), ftoa(s.OnBasePercentage), ftoa(s.SluggingPercentage), ftoa(s.OPS),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing batting row for %s: %w", s.PlayerID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePitchingCSV writes stats as CSV with a header row of field names.
func WritePitchingCSV(w io.Writer, stats []PitchingStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pitchingHeader); err != nil {
		return fmt.Errorf("writing pitching header: %w", err)
	}
	for _, s := range stats {
		row := []string{
			s.PlayerID, s.PlayerName, s.Team, itoa(s.Games),
			itoa(s.Wins), itoa(s.Losses), itoa(s.Saves), ftoa(s.InningsPitched),
			itoa(s.HitsAllowed), itoa(s.RunsAllowed), itoa(s.EarnedRuns),
			itoa(s.WalksAllowed), itoa(s.Strikeouts), itoa(s.HomeRunsAllowed),
			ftoa(s.ERA), ftoa(s.WHIP),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing pitching row for %s: %w", s.PlayerID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func itoa(n int) string { return strconv.Itoa(n) }

// ftoa prints the shortest representation and always keeps a decimal point,
// so 2 is written as 2.0.
func ftoa(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
