package stats

import "sort"

// Dashboard leaderboard defaults.
const (
	LeaderboardMinGames = 3
	LeaderboardSize     = 10
)

// BattingMetric selects the column TopBatters ranks by.
type BattingMetric string

const (
	MetricBattingAverage BattingMetric = "batting_average"
	MetricHomeRuns       BattingMetric = "home_runs"
)

// Valid reports whether m is a metric TopBatters can rank by.
func (m BattingMetric) Valid() bool {
	return m == MetricBattingAverage || m == MetricHomeRuns
}

func (m BattingMetric) value(s BattingStat) float64 {
	if m == MetricHomeRuns {
		return float64(s.HomeRuns)
	}
	return s.BattingAverage
}

// BattingTotals sums the headline batting numbers across all players.
type BattingTotals struct {
	Players  int `json:"players"`
	AtBats   int `json:"at_bats"`
	Hits     int `json:"hits"`
	HomeRuns int `json:"home_runs"`
}

// PitchingTotals sums the headline pitching numbers across all pitchers.
type PitchingTotals struct {
	Pitchers       int     `json:"pitchers"`
	InningsPitched float64 `json:"innings_pitched"`
	Strikeouts     int     `json:"strikeouts"`
	EarnedRuns     int     `json:"earned_runs"`
}

// FilterBattingByMinGames returns the players with at least minGames games.
func FilterBattingByMinGames(stats []BattingStat, minGames int) []BattingStat {
	out := make([]BattingStat, 0, len(stats))
	for _, s := range stats {
		if s.Games >= minGames {
			out = append(out, s)
		}
	}
	return out
}

// FilterPitchingByMinGames returns the pitchers with at least minGames games.
func FilterPitchingByMinGames(stats []PitchingStat, minGames int) []PitchingStat {
	out := make([]PitchingStat, 0, len(stats))
	for _, s := range stats {
		if s.Games >= minGames {
			out = append(out, s)
		}
	}
	return out
}

// SortBattingByGames returns a copy sorted by games descending. Players with
// the same number of games keep their aggregation order.
func SortBattingByGames(stats []BattingStat) []BattingStat {
	out := append([]BattingStat(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Games > out[j].Games })
	return out
}

// SortPitchingByGames is SortBattingByGames for pitchers.
func SortPitchingByGames(stats []PitchingStat) []PitchingStat {
	out := append([]PitchingStat(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Games > out[j].Games })
	return out
}

// TopBatters returns up to n players with at least minGames games ranked by
// metric, highest first. Ties keep aggregation order.
func TopBatters(stats []BattingStat, minGames, n int, metric BattingMetric) []BattingStat {
	out := FilterBattingByMinGames(stats, minGames)
	sort.SliceStable(out, func(i, j int) bool {
		return metric.value(out[i]) > metric.value(out[j])
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SumBatting totals stats.
func SumBatting(stats []BattingStat) BattingTotals {
	totals := BattingTotals{Players: len(stats)}
	for _, s := range stats {
		totals.AtBats += s.AtBats
		totals.Hits += s.Hits
		totals.HomeRuns += s.HomeRuns
	}
	return totals
}

// SumPitching totals stats.
func SumPitching(stats []PitchingStat) PitchingTotals {
	totals := PitchingTotals{Pitchers: len(stats)}
	for _, s := range stats {
		totals.InningsPitched += s.InningsPitched
		totals.Strikeouts += s.Strikeouts
		totals.EarnedRuns += s.EarnedRuns
	}
	return totals
}
