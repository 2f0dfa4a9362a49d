package stats

import (
	"github.com/fortuna/ballpark/internal/boxscore"
)

const (
	unknownKeyPrefix = "unknown_"
	unnamedPlayer    = "unnamed"
	unknownName      = "Unknown"
)

// Aggregate folds every batting and pitching line of games into one record
// per player and computes the derived rate statistics from the totals.
//
// Results come back in the order each player was first seen: for every game,
// home lines before away lines. Aggregate keeps no state between calls and
// never modifies games.
func Aggregate(games []boxscore.GameRecord) ([]BattingStat, []PitchingStat) {
	batting := newBattingTable()
	pitching := newPitchingTable()

	for i := range games {
		game := &games[i]
		homeTeam := teamName(game.HomeTeam)
		awayTeam := teamName(game.AwayTeam)

		for _, line := range game.HomeTeamBatting {
			batting.add(homeTeam, line)
		}
		for _, line := range game.AwayTeamBatting {
			batting.add(awayTeam, line)
		}
		for _, line := range game.HomeTeamPitching {
			pitching.add(homeTeam, line)
		}
		for _, line := range game.AwayTeamPitching {
			pitching.add(awayTeam, line)
		}
	}

	return batting.finish(), pitching.finish()
}

// PlayerKey returns the accumulation key for a line. Lines without a player
// ID fall back to a key built from the display name, so two different
// players without IDs who share a name are merged.
func PlayerKey(playerID, name string) string {
	if playerID != "" {
		return playerID
	}
	if name == "" {
		name = unnamedPlayer
	}
	return unknownKeyPrefix + name
}

func displayName(name string) string {
	if name == "" {
		return unknownName
	}
	return name
}

func teamName(team string) string {
	if team == "" {
		return unknownName
	}
	return team
}

type battingTable struct {
	order []string
	byKey map[string]*BattingStat
}

func newBattingTable() *battingTable {
	return &battingTable{byKey: make(map[string]*BattingStat)}
}

func (t *battingTable) add(team string, line boxscore.BattingLine) {
	key := PlayerKey(line.PlayerID, line.Name)

	stat, ok := t.byKey[key]
	if !ok {
		stat = &BattingStat{PlayerID: key}
		t.byKey[key] = stat
		t.order = append(t.order, key)
	}

	// Name and team follow the most recent line.
	stat.PlayerName = displayName(line.Name)
	stat.Team = team
	stat.Games++

	stat.AtBats += line.AtBats
	stat.Hits += line.Hits
	stat.Runs += line.Runs
	stat.RBIs += line.RBIs
	stat.Doubles += line.Doubles
	stat.Triples += line.Triples
	stat.HomeRuns += line.HomeRuns
	stat.Walks += line.Walks
	stat.Strikeouts += line.Strikeouts
}

func (t *battingTable) finish() []BattingStat {
	out := make([]BattingStat, 0, len(t.order))
	for _, key := range t.order {
		stat := *t.byKey[key]
		applyBattingRates(&stat)
		out = append(out, stat)
	}
	return out
}

type pitchingTable struct {
	order []string
	byKey map[string]*PitchingStat
}

func newPitchingTable() *pitchingTable {
	return &pitchingTable{byKey: make(map[string]*PitchingStat)}
}

func (t *pitchingTable) add(team string, line boxscore.PitchingLine) {
	key := PlayerKey(line.PlayerID, line.Name)

	stat, ok := t.byKey[key]
	if !ok {
		stat = &PitchingStat{PlayerID: key}
		t.byKey[key] = stat
		t.order = append(t.order, key)
	}

	stat.PlayerName = displayName(line.Name)
	stat.Team = team
	stat.Games++

	stat.Wins += line.Wins
	stat.Losses += line.Losses
	stat.Saves += line.Saves
	stat.InningsPitched += line.InningsPitched
	stat.HitsAllowed += line.HitsAllowed
	stat.RunsAllowed += line.RunsAllowed
	stat.EarnedRuns += line.EarnedRuns
	stat.WalksAllowed += line.WalksAllowed
	stat.Strikeouts += line.Strikeouts
	stat.HomeRunsAllowed += line.HomeRunsAllowed
}

func (t *pitchingTable) finish() []PitchingStat {
	out := make([]PitchingStat, 0, len(t.order))
	for _, key := range t.order {
		stat := *t.byKey[key]
		applyPitchingRates(&stat)
		out = append(out, stat)
	}
	return out
}
