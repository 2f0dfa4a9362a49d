package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/boxscore"
	"github.com/fortuna/ballpark/internal/ingest"
	"github.com/fortuna/ballpark/internal/publisher"
	"github.com/fortuna/ballpark/internal/store"
	"github.com/fortuna/ballpark/internal/store/repository"
)

const dateLayout = "2006-01-02"

// AddGameRequest is a user's request to record a game they attended. Team
// IDs win over names; names are resolved only when an ID is missing.
type AddGameRequest struct {
	Date       string `json:"date"`
	HomeTeamID int    `json:"home_team_id"`
	AwayTeamID int    `json:"away_team_id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Notes      string `json:"notes"`
}

// GameFilter narrows ListGames. Team takes precedence over the date range.
type GameFilter struct {
	Team  string
	Start string
	End   string
}

// GameService manages the games each user attended.
type GameService struct {
	repo      GameStore
	provider  ingest.Provider
	teams     *TeamService
	stats     *StatsService
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewGameService creates a game service. teams, stats and pub may be nil.
func NewGameService(repo GameStore, provider ingest.Provider, teams *TeamService, stats *StatsService, pub EventPublisher, logger *zap.Logger) *GameService {
	if pub == nil {
		pub = noopPublisher{}
	}
	return &GameService{
		repo:      repo,
		provider:  provider,
		teams:     teams,
		stats:     stats,
		publisher: pub,
		logger:    logger,
		now:       time.Now,
	}
}

// AddGame fetches the box score of the requested game and records it for
// the user.
func (s *GameService) AddGame(ctx context.Context, userID string, req AddGameRequest) (*store.AttendedGame, error) {
	gameReq, err := s.buildRequest(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	key := boxscore.GameKey(gameReq.Date, gameReq.HomeTeamID, gameReq.AwayTeamID)
	if _, err := s.repo.GetByKey(ctx, userID, key); err == nil {
		return nil, fmt.Errorf("game %s: %w", key, repository.ErrDuplicateGame)
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up game %s: %w", key, err)
	}

	record, err := s.provider.GetGame(ctx, gameReq)
	if err != nil {
		return nil, fmt.Errorf("fetching box score: %w", err)
	}
	record.Date = gameReq.Date
	record.HomeTeamID = gameReq.HomeTeamID
	record.AwayTeamID = gameReq.AwayTeamID

	game := store.NewAttendedGame(userID, *record, req.Notes, s.now())
	if err := s.repo.Add(ctx, game); err != nil {
		return nil, fmt.Errorf("saving attended game: %w", err)
	}

	s.logger.Info("game added",
		zap.String("user_id", userID),
		zap.String("game_key", game.GameKey),
		zap.String("status", game.GameStatus))

	event := publisher.NewGameEvent(publisher.EventGameAdded, userID)
	event.GameID = game.ID
	event.GameKey = game.GameKey
	event.Status = game.GameStatus
	s.afterChange(ctx, event)

	return game, nil
}

func (s *GameService) buildRequest(ctx context.Context, userID string, req AddGameRequest) (ingest.GameRequest, error) {
	if strings.TrimSpace(userID) == "" {
		return ingest.GameRequest{}, fmt.Errorf("missing user: %w", ErrInvalidRequest)
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return ingest.GameRequest{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", req.Date, ErrInvalidRequest)
	}

	out := ingest.GameRequest{
		Date:       req.Date,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		HomeTeam:   req.HomeTeam,
		AwayTeam:   req.AwayTeam,
	}

	var err error
	if out.HomeTeamID, out.HomeTeam, err = s.resolveTeam(ctx, out.HomeTeamID, out.HomeTeam); err != nil {
		return ingest.GameRequest{}, fmt.Errorf("home team: %w", err)
	}
	if out.AwayTeamID, out.AwayTeam, err = s.resolveTeam(ctx, out.AwayTeamID, out.AwayTeam); err != nil {
		return ingest.GameRequest{}, fmt.Errorf("away team: %w", err)
	}
	if out.HomeTeamID == out.AwayTeamID {
		return ingest.GameRequest{}, fmt.Errorf("home and away team are the same: %w", ErrInvalidRequest)
	}
	return out, nil
}

// resolveTeam fills in whichever of id and name is missing.
func (s *GameService) resolveTeam(ctx context.Context, id int, name string) (int, string, error) {
	name = strings.TrimSpace(name)
	if id > 0 {
		if name == "" && s.teams != nil {
			if team, ok, err := s.teams.ByID(ctx, id); err == nil && ok {
				name = team.Name
			}
		}
		return id, name, nil
	}
	if name == "" {
		return 0, "", fmt.Errorf("missing team: %w", ErrInvalidRequest)
	}
	if s.teams == nil {
		return 0, "", fmt.Errorf("team %q has no id: %w", name, ErrInvalidRequest)
	}
	team, err := s.teams.Resolve(ctx, name)
	if err != nil {
		return 0, "", err
	}
	return team.ID, team.Name, nil
}

// ListGames returns the user's games in the order they were added.
func (s *GameService) ListGames(ctx context.Context, userID string, filter GameFilter) ([]*store.AttendedGame, error) {
	var (
		games []*store.AttendedGame
		err   error
	)
	switch {
	case filter.Team != "":
		games, err = s.repo.GetByTeam(ctx, userID, filter.Team)
	case filter.Start != "" || filter.End != "":
		start, end := filter.Start, filter.End
		if start == "" {
			start = "0000-01-01"
		}
		if end == "" {
			end = "9999-12-31"
		}
		for _, d := range []string{start, end} {
			if _, perr := time.Parse(dateLayout, d); perr != nil {
				return nil, fmt.Errorf("date %q must be YYYY-MM-DD: %w", d, ErrInvalidRequest)
			}
		}
		games, err = s.repo.GetByDateRange(ctx, userID, start, end)
	default:
		games, err = s.repo.GetAll(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching attended games: %w", err)
	}
	return games, nil
}

// GetGame returns one of the user's games.
func (s *GameService) GetGame(ctx context.Context, userID string, id int64) (*store.AttendedGame, error) {
	game, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("fetching attended game: %w", err)
	}
	return game, nil
}

// FindGame looks up the user's game by date and team names.
func (s *GameService) FindGame(ctx context.Context, userID, date, homeTeam, awayTeam string) (*store.AttendedGame, error) {
	game, err := s.repo.GetByDateAndTeams(ctx, userID, date, homeTeam, awayTeam)
	if err != nil {
		return nil, fmt.Errorf("fetching attended game: %w", err)
	}
	return game, nil
}

// RemoveGame deletes one of the user's games.
func (s *GameService) RemoveGame(ctx context.Context, userID string, id int64) error {
	game, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("fetching attended game: %w", err)
	}
	if err := s.repo.Remove(ctx, userID, id); err != nil {
		return fmt.Errorf("removing attended game: %w", err)
	}

	event := publisher.NewGameEvent(publisher.EventGameRemoved, userID)
	event.GameID = game.ID
	event.GameKey = game.GameKey
	s.afterChange(ctx, event)
	return nil
}

// ClearGames deletes all of the user's games and returns how many there were.
func (s *GameService) ClearGames(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clearing attended games: %w", err)
	}

	event := publisher.NewGameEvent(publisher.EventGamesCleared, userID)
	event.Count = n
	s.afterChange(ctx, event)
	return n, nil
}

// RefreshGame re-fetches the box score of a stored game, keeping the user's
// notes and the time it was added.
func (s *GameService) RefreshGame(ctx context.Context, game *store.AttendedGame) (*store.AttendedGame, error) {
	record, err := s.provider.GetGame(ctx, ingest.GameRequest{
		Date:       game.GameDate,
		HomeTeamID: game.HomeTeamID,
		AwayTeamID: game.AwayTeamID,
		HomeTeam:   game.HomeTeam,
		AwayTeam:   game.AwayTeam,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching box score: %w", err)
	}

	updated := *record
	updated.Date = game.GameDate
	updated.HomeTeamID = game.HomeTeamID
	updated.AwayTeamID = game.AwayTeamID
	updated.Notes = game.Record.Notes
	updated.AddedAt = game.Record.AddedAt

	if err := s.repo.UpdateRecord(ctx, game.ID, updated); err != nil {
		return nil, fmt.Errorf("updating attended game: %w", err)
	}

	refreshed := *game
	refreshed.Record = updated
	refreshed.GameStatus = updated.GameStatus
	refreshed.UpdatedAt = s.now().UTC()

	event := publisher.NewGameEvent(publisher.EventGameRefreshed, game.UserID)
	event.GameID = game.ID
	event.GameKey = game.GameKey
	event.Status = updated.GameStatus
	s.afterChange(ctx, event)

	return &refreshed, nil
}

// RefreshPending refreshes every stored game that was not final when it was
// fetched and returns how many were updated. Failures are logged and skipped.
func (s *GameService) RefreshPending(ctx context.Context) (int, error) {
	games, err := s.repo.ListNotFinal(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing unfinished games: %w", err)
	}

	refreshed := 0
	for _, g := range games {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if _, err := s.RefreshGame(ctx, g); err != nil {
			level := s.logger.Warn
			if errors.Is(err, ingest.ErrGameNotFound) {
				level = s.logger.Info
			}
			level("refreshing game failed",
				zap.Int64("id", g.ID),
				zap.String("game_key", g.GameKey),
				zap.Error(err))
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *GameService) afterChange(ctx context.Context, event publisher.GameEvent) {
	if err := s.publisher.PublishGameEvent(ctx, event); err != nil {
		s.logger.Warn("publishing game event",
			zap.String("type", event.Type),
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
	if s.stats == nil {
		return
	}
	if _, err := s.stats.Refresh(ctx, event.UserID); err != nil {
		s.logger.Warn("refreshing stats", zap.String("user_id", event.UserID), zap.Error(err))
	}
}
