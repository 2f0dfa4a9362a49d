package bbref

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/ballpark/internal/boxscore"
)

// TeamTable is one team's batting or pitching table on a box score page.
type TeamTable struct {
	Team     string
	Batting  []boxscore.BattingLine
	Pitching []boxscore.PitchingLine
	Runs     int
}

var decisionPattern = regexp.MustCompile(`,\s*([WLS])\s*\(`)

// ParseTeamTables extracts each team's batting and pitching tables in page
// order, which lists the visiting team first.
func ParseTeamTables(doc *goquery.Document) []TeamTable {
	var tables []TeamTable
	byTeam := map[string]int{}

	get := func(team string) *TeamTable {
		i, ok := byTeam[team]
		if !ok {
			i = len(tables)
			byTeam[team] = i
			tables = append(tables, TeamTable{Team: team})
		}
		return &tables[i]
	}

	doc.Find("table[id$='batting']").Each(func(_ int, table *goquery.Selection) {
		t := get(tableTeam(table))
		t.Batting = parseBattingRows(table)
		t.Runs = footerInt(table, "R")
	})
	doc.Find("table[id$='pitching']").Each(func(_ int, table *goquery.Selection) {
		t := get(tableTeam(table))
		t.Pitching = parsePitchingRows(table)
	})

	return tables
}

// tableTeam reads the team name from a caption like "New York Yankees Table".
func tableTeam(table *goquery.Selection) string {
	caption := strings.TrimSpace(table.Find("caption").First().Text())
	return strings.TrimSpace(strings.TrimSuffix(caption, "Table"))
}

func parseBattingRows(table *goquery.Selection) []boxscore.BattingLine {
	lines := []boxscore.BattingLine{}
	slot := 0
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if skipRow(row) {
			return
		}
		cell := row.Find("th[data-stat='player']").First()
		name := strings.TrimSpace(cell.Find("a").First().Text())
		if name == "" {
			return
		}

		sub := isSubstitute(cell)
		var order *int
		if !sub {
			slot++
			n := slot
			order = &n
		}

		lines = append(lines, boxscore.BattingLine{
			Order:      order,
			PlayerID:   playerID(cell),
			Name:       name,
			Position:   position(cell, name),
			Sub:        sub,
			AtBats:     statInt(row, "AB"),
			Hits:       statInt(row, "H"),
			Runs:       statInt(row, "R"),
			RBIs:       statInt(row, "RBI"),
			Walks:      statInt(row, "BB"),
			Strikeouts: statInt(row, "SO"),
		})
	})
	return lines
}

func parsePitchingRows(table *goquery.Selection) []boxscore.PitchingLine {
	lines := []boxscore.PitchingLine{}
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if skipRow(row) {
			return
		}
		cell := row.Find("th[data-stat='player']").First()
		name := strings.TrimSpace(cell.Find("a").First().Text())
		if name == "" {
			return
		}

		line := boxscore.PitchingLine{
			PlayerID:        playerID(cell),
			Name:            name,
			InningsPitched:  boxscore.ParseInnings(statText(row, "IP")),
			HitsAllowed:     statInt(row, "H"),
			RunsAllowed:     statInt(row, "R"),
			EarnedRuns:      statInt(row, "ER"),
			WalksAllowed:    statInt(row, "BB"),
			Strikeouts:      statInt(row, "SO"),
			HomeRunsAllowed: statInt(row, "HR"),
			PitchesThrown:   statInt(row, "pitches"),
		}
		if m := decisionPattern.FindStringSubmatch(cell.Text()); m != nil {
			switch m[1] {
			case "W":
				line.Wins = 1
			case "L":
				line.Losses = 1
			case "S":
				line.Saves = 1
			}
		}
		lines = append(lines, line)
	})
	return lines
}

func skipRow(row *goquery.Selection) bool {
	return row.HasClass("spacer") || row.HasClass("thead")
}

func playerID(cell *goquery.Selection) string {
	id, _ := cell.Attr("data-append-csv")
	return strings.TrimSpace(id)
}

// isSubstitute reports whether the name cell is indented, which is how the
// site marks players who entered the game.
func isSubstitute(cell *goquery.Selection) bool {
	text := cell.Text()
	return strings.HasPrefix(text, " ") || strings.HasPrefix(text, "\u00a0")
}

// position reads the trailing position text, e.g. "Aaron Judge RF".
func position(cell *goquery.Selection, name string) string {
	text := strings.TrimSpace(strings.ReplaceAll(cell.Text(), "\u00a0", " "))
	return strings.TrimSpace(strings.TrimPrefix(text, name))
}

func statText(row *goquery.Selection, stat string) string {
	return strings.TrimSpace(row.Find("td[data-stat='" + stat + "']").First().Text())
}

func statInt(row *goquery.Selection, stat string) int {
	n, err := strconv.Atoi(statText(row, stat))
	if err != nil {
		return 0
	}
	return n
}

func footerInt(table *goquery.Selection, stat string) int {
	n, err := strconv.Atoi(strings.TrimSpace(table.Find("tfoot td[data-stat='" + stat + "']").First().Text()))
	if err != nil {
		return 0
	}
	return n
}
