package reconciliation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/fortuna/ballpark/internal/ingest/mlb"
)

var (
	// ErrNoTeamMatch is returned when a query matches no team.
	ErrNoTeamMatch = errors.New("no matching team")
	// ErrAmbiguousTeam is returned when a query matches several teams
	// equally well.
	ErrAmbiguousTeam = errors.New("ambiguous team")
)

// similarityThreshold is the minimum Levenshtein similarity for a typo match.
const similarityThreshold = 0.7

// Matcher resolves free-form team names ("Cubs", "NYY", "Red Sox") to MLB
// teams.
type Matcher struct {
	teams []mlb.Team
	names []string
}

// NewMatcher creates a matcher over teams.
func NewMatcher(teams []mlb.Team) *Matcher {
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.Name
	}
	return &Matcher{teams: teams, names: names}
}

// Teams returns the teams the matcher knows.
func (m *Matcher) Teams() []mlb.Team {
	return m.teams
}

// Resolve finds the team query refers to. Exact matches on the full name,
// abbreviation, club name or location win, then names containing the query.
// After that, names containing the query's letters in order are ranked, and
// finally close misspellings of the name or club name are accepted.
func (m *Matcher) Resolve(query string) (mlb.Team, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return mlb.Team{}, fmt.Errorf("empty query: %w", ErrNoTeamMatch)
	}

	if idx := m.exact(q); len(idx) == 1 {
		return m.teams[idx[0]], nil
	} else if len(idx) > 1 {
		return mlb.Team{}, fmt.Errorf("%q matches %s: %w", q, m.describe(idx), ErrAmbiguousTeam)
	}

	if idx := m.containing(q); len(idx) == 1 {
		return m.teams[idx[0]], nil
	} else if len(idx) > 1 {
		return mlb.Team{}, fmt.Errorf("%q matches %s: %w", q, m.describe(idx), ErrAmbiguousTeam)
	}

	if idx := m.ranked(q); len(idx) == 1 {
		return m.teams[idx[0]], nil
	} else if len(idx) > 1 {
		return mlb.Team{}, fmt.Errorf("%q matches %s: %w", q, m.describe(idx), ErrAmbiguousTeam)
	}

	if i, ok := m.closest(q); ok {
		return m.teams[i], nil
	}
	return mlb.Team{}, fmt.Errorf("%q: %w", q, ErrNoTeamMatch)
}

// CanonicalName resolves query and returns the team's full name.
func (m *Matcher) CanonicalName(query string) (string, error) {
	team, err := m.Resolve(query)
	if err != nil {
		return "", err
	}
	return team.Name, nil
}

func (m *Matcher) exact(q string) []int {
	var idx []int
	for i, t := range m.teams {
		for _, candidate := range []string{t.Name, t.Abbreviation, t.TeamName, t.LocationName} {
			if candidate != "" && strings.EqualFold(candidate, q) {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

func (m *Matcher) containing(q string) []int {
	lower := strings.ToLower(q)
	var idx []int
	for i, name := range m.names {
		if strings.Contains(strings.ToLower(name), lower) {
			idx = append(idx, i)
		}
	}
	return idx
}

// ranked returns the teams tied for the best fuzzy rank.
func (m *Matcher) ranked(q string) []int {
	ranks := fuzzy.RankFindNormalizedFold(q, m.names)
	if len(ranks) == 0 {
		return nil
	}
	sort.Stable(ranks)

	best := ranks[0].Distance
	var idx []int
	for _, r := range ranks {
		if r.Distance != best {
			break
		}
		idx = append(idx, r.OriginalIndex)
	}
	return idx
}

func (m *Matcher) closest(q string) (int, bool) {
	lower := strings.ToLower(q)
	bestIdx, bestScore := -1, 0.0
	for i, t := range m.teams {
		for _, candidate := range []string{t.Name, t.TeamName} {
			if candidate == "" {
				continue
			}
			score := similarity(lower, strings.ToLower(candidate))
			if score > similarityThreshold && score > bestScore {
				bestIdx, bestScore = i, score
			}
		}
	}
	return bestIdx, bestIdx >= 0
}

func similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(maxLen)
}

func (m *Matcher) describe(idx []int) string {
	names := make([]string, len(idx))
	for i, j := range idx {
		names[i] = m.teams[j].Name
	}
	return strings.Join(names, ", ")
}
