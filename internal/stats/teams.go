package stats

import (
	"sort"
	"time"

	"github.com/fortuna/ballpark/internal/boxscore"
)

// DefaultTeamAttendanceLimit is how many teams the dashboard lists.
const DefaultTeamAttendanceLimit = 20

// UnknownMonth groups games whose date cannot be parsed.
const UnknownMonth = "Unknown"

// TeamWinLoss is one team's entry in TeamSummary.
type TeamWinLoss struct {
	Team      string `json:"team"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	GamesSeen int    `json:"games_seen"`
}

// TeamRecord is a team's record across the games a user attended.
type TeamRecord struct {
	Team        string  `json:"team"`
	Games       int     `json:"games"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	RunsFor     int     `json:"runs_for"`
	RunsAgainst int     `json:"runs_against"`
	WinPct      float64 `json:"win_pct"`
}

// MonthCount is the number of games attended in one YYYY-MM month.
type MonthCount struct {
	Month string `json:"month"`
	Games int    `json:"games"`
}

// TeamCount is the number of attended games a team played in.
type TeamCount struct {
	Team  string `json:"team"`
	Games int    `json:"games"`
}

// TeamSummary counts wins, losses and games seen per team in first-seen
// order. A missing score counts as 0, so a game with no scores is seen by
// both teams but decides nothing.
func TeamSummary(games []boxscore.GameRecord) []TeamWinLoss {
	var order []string
	byTeam := make(map[string]*TeamWinLoss)
	get := func(team string) *TeamWinLoss {
		team = teamName(team)
		entry, ok := byTeam[team]
		if !ok {
			entry = &TeamWinLoss{Team: team}
			byTeam[team] = entry
			order = append(order, team)
		}
		return entry
	}

	for _, game := range games {
		home := get(game.HomeTeam)
		away := get(game.AwayTeam)
		home.GamesSeen++
		away.GamesSeen++

		homeScore, awayScore := scoreOrZero(game.HomeScore), scoreOrZero(game.AwayScore)
		switch {
		case homeScore > awayScore:
			home.Wins++
			away.Losses++
		case awayScore > homeScore:
			away.Wins++
			home.Losses++
		}
	}

	out := make([]TeamWinLoss, 0, len(order))
	for _, team := range order {
		out = append(out, *byTeam[team])
	}
	return out
}

// TeamRecords builds each team's W/L/T record and run totals. Games missing
// either team or either score are skipped. The result is sorted by win
// percentage, then by games, both descending.
func TeamRecords(games []boxscore.GameRecord) []TeamRecord {
	var order []string
	byTeam := make(map[string]*TeamRecord)
	get := func(team string) *TeamRecord {
		entry, ok := byTeam[team]
		if !ok {
			entry = &TeamRecord{Team: team}
			byTeam[team] = entry
			order = append(order, team)
		}
		return entry
	}

	for _, game := range games {
		if game.HomeTeam == "" || game.AwayTeam == "" || !game.HasScore() {
			continue
		}
		hs, as := *game.HomeScore, *game.AwayScore
		home := get(game.HomeTeam)
		away := get(game.AwayTeam)

		home.Games++
		away.Games++
		home.RunsFor += hs
		home.RunsAgainst += as
		away.RunsFor += as
		away.RunsAgainst += hs

		switch {
		case hs > as:
			home.Wins++
			away.Losses++
		case hs < as:
			away.Wins++
			home.Losses++
		default:
			home.Ties++
			away.Ties++
		}
	}

	out := make([]TeamRecord, 0, len(order))
	for _, team := range order {
		rec := *byTeam[team]
		rec.WinPct = ratio(float64(rec.Wins), float64(rec.Games), 3)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WinPct != out[j].WinPct {
			return out[i].WinPct > out[j].WinPct
		}
		return out[i].Games > out[j].Games
	})
	return out
}

// GamesByMonth counts games per YYYY-MM month, sorted by month key.
func GamesByMonth(games []boxscore.GameRecord) []MonthCount {
	counts := make(map[string]int)
	for _, game := range games {
		counts[monthKey(game.Date)]++
	}

	out := make([]MonthCount, 0, len(counts))
	for month, n := range counts {
		out = append(out, MonthCount{Month: month, Games: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TeamAttendance counts games per team, most attended first with ties kept
// in first-seen order, truncated to limit. A limit <= 0 returns every team.
func TeamAttendance(games []boxscore.GameRecord, limit int) []TeamCount {
	var out []TeamCount
	index := make(map[string]int)
	for _, game := range games {
		for _, team := range [2]string{game.HomeTeam, game.AwayTeam} {
			if team == "" {
				continue
			}
			i, ok := index[team]
			if !ok {
				i = len(out)
				index[team] = i
				out = append(out, TeamCount{Team: team})
			}
			out[i].Games++
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Games > out[j].Games })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func monthKey(date string) string {
	t, err := time.Parse("2006-1-2", date)
	if err != nil {
		return UnknownMonth
	}
	return t.Format("2006-01")
}

func scoreOrZero(score *int) int {
	if score == nil {
		return 0
	}
	return *score
}
