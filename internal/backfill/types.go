package backfill

import (
	"context"

	"github.com/fortuna/ballpark/internal/store"
)

// JobSpec describes one import: the records passed to Run, optionally limited
// to dates in [Start, End], recorded for UserID. Source names where the
// records came from.
type JobSpec struct {
	UserID string
	Source string
	Start  string
	End    string
	DryRun bool
}

// Result counts what an import did.
type Result struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec, total int)
	OnGameProcessed(gameKey string, index, total int)
	OnGameSkipped(gameKey, reason string)
	OnJobComplete(result Result)
	OnJobError(err error)
}

// GameWriter is where imported games are stored.
type GameWriter interface {
	Add(ctx context.Context, game *store.AttendedGame) error
}

// Skip reasons reported to OnGameSkipped.
const (
	SkipDuplicate    = "already recorded"
	SkipMissingDate  = "missing date"
	SkipMissingTeams = "missing team id"
	SkipOutOfRange   = "outside date range"
)
