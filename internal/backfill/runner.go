package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/store"
	"github.com/fortuna/ballpark/internal/store/repository"
)

// Runner imports stored game files into the attended games table.
type Runner struct {
	games GameWriter
	now   func() time.Time
}

// NewRunner constructs a runner writing to games.
func NewRunner(games GameWriter) *Runner {
	return &Runner{games: games, now: time.Now}
}

// Run imports records per spec, reporting progress via the Reporter if
// provided. Duplicates and unusable records are skipped; an error is returned
// only when the import cannot continue.
func (r *Runner) Run(ctx context.Context, spec JobSpec, records []boxscore.GameRecord, reporter Reporter) (Result, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if spec.UserID == "" {
		err := fmt.Errorf("no user given for import")
		reporter.OnJobError(err)
		return Result{}, err
	}

	result := Result{Total: len(records)}
	reporter.OnJobStart(spec, len(records))

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			reporter.OnJobError(err)
			return result, err
		}

		key := record.Key()
		if reason := skipReason(record, spec); reason != "" {
			result.Skipped++
			reporter.OnGameSkipped(key, reason)
			continue
		}

		if !spec.DryRun {
			if err := r.games.Add(ctx, r.attendedGame(spec.UserID, record)); err != nil {
				if errors.Is(err, repository.ErrDuplicateGame) {
					result.Skipped++
					reporter.OnGameSkipped(key, SkipDuplicate)
					continue
				}
				result.Failed++
				err = fmt.Errorf("importing %s: %w", key, err)
				reporter.OnJobError(err)
				return result, err
			}
		}

		result.Imported++
		reporter.OnGameProcessed(key, i, len(records))
	}

	reporter.OnJobComplete(result)
	return result, nil
}

// attendedGame keeps the record's own added_at when it has one.
func (r *Runner) attendedGame(userID string, record boxscore.GameRecord) *store.AttendedGame {
	added := r.now()
	if record.AddedAt != nil {
		added = *record.AddedAt
	}
	return store.NewAttendedGame(userID, record, record.Notes, added)
}

func skipReason(record boxscore.GameRecord, spec JobSpec) string {
	switch {
	case record.Date == "":
		return SkipMissingDate
	case record.HomeTeamID <= 0 || record.AwayTeamID <= 0:
		return SkipMissingTeams
	case spec.Start != "" && record.Date < spec.Start:
		return SkipOutOfRange
	case spec.End != "" && record.Date > spec.End:
		return SkipOutOfRange
	}
	return ""
}

type nopReporter struct{}

func (nopReporter) OnJobStart(JobSpec, int)          {}
func (nopReporter) OnGameProcessed(string, int, int) {}
func (nopReporter) OnGameSkipped(string, string)     {}
func (nopReporter) OnJobComplete(Result)             {}
func (nopReporter) OnJobError(error)                 {}
