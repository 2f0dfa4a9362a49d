package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/ballpark/internal/ingest"
	"github.com/fortuna/ballpark/internal/ingest/mlb"
	"github.com/fortuna/ballpark/internal/reconciliation"
	"github.com/fortuna/ballpark/internal/service"
	"github.com/fortuna/ballpark/internal/stats"
	"github.com/fortuna/ballpark/internal/store"
	"github.com/fortuna/ballpark/internal/store/repository"
)

// GameService is the part of service.GameService the API uses.
type GameService interface {
	AddGame(ctx context.Context, userID string, req service.AddGameRequest) (*store.AttendedGame, error)
	ListGames(ctx context.Context, userID string, filter service.GameFilter) ([]*store.AttendedGame, error)
	GetGame(ctx context.Context, userID string, id int64) (*store.AttendedGame, error)
	FindGame(ctx context.Context, userID, date, homeTeam, awayTeam string) (*store.AttendedGame, error)
	RemoveGame(ctx context.Context, userID string, id int64) error
	ClearGames(ctx context.Context, userID string) (int64, error)
}

// StatsService is the part of service.StatsService the API uses.
type StatsService interface {
	Aggregate(ctx context.Context, userID string) (*service.UserStats, error)
	Batting(ctx context.Context, userID string, minGames int) ([]stats.BattingStat, error)
	Pitching(ctx context.Context, userID string, minGames int) ([]stats.PitchingStat, error)
	Dashboard(ctx context.Context, userID string) (*service.Dashboard, error)
	Export(ctx context.Context, userID string) (stats.Export, error)
}

// TeamService is the part of service.TeamService the API uses.
type TeamService interface {
	Teams(ctx context.Context) ([]mlb.Team, error)
	Resolve(ctx context.Context, query string) (mlb.Team, error)
}

// PlayerService is the part of service.PlayerService the API uses.
type PlayerService interface {
	GetPlayer(ctx context.Context, personID int) (*mlb.Person, error)
}

// HealthChecker is a dependency reported by /health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	games   GameService
	stats   StatsService
	teams   TeamService
	players PlayerService
	checks  map[string]HealthChecker
}

// NewHandler creates a new handler. checks maps a dependency name to its
// health check and may be nil.
func NewHandler(games GameService, stats StatsService, teams TeamService, players PlayerService, checks map[string]HealthChecker) *Handler {
	return &Handler{
		games:   games,
		stats:   stats,
		teams:   teams,
		players: players,
		checks:  checks,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":       state,
		"service":      "ballpark",
		"dependencies": deps,
	})
}

// GetTeams returns every MLB team
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.Teams(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

// ResolveTeam maps a free-form name to a team
func (h *Handler) ResolveTeam(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter q", nil)
		return
	}

	team, err := h.teams.Resolve(r.Context(), q)
	if err != nil {
		respondServiceError(w, "Failed to resolve team", err)
		return
	}

	respondJSON(w, http.StatusOK, team)
}

// GetPlayer returns a player's biography
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.Atoi(mux.Vars(r)["playerID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player ID", err)
		return
	}

	player, err := h.players.GetPlayer(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, "Failed to fetch player", err)
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// ListGames returns the user's attended games
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	games, err := h.games.ListGames(r.Context(), userID(r), service.GameFilter{
		Team:  q.Get("team"),
		Start: q.Get("start"),
		End:   q.Get("end"),
	})
	if err != nil {
		respondServiceError(w, "Failed to fetch games", err)
		return
	}

	respondJSON(w, http.StatusOK, games)
}

// AddGame records a game the user attended
func (h *Handler) AddGame(w http.ResponseWriter, r *http.Request) {
	var req service.AddGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	game, err := h.games.AddGame(r.Context(), userID(r), req)
	if err != nil {
		respondServiceError(w, "Failed to add game", err)
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

// LookupGame finds the user's game by date and team names
func (h *Handler) LookupGame(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, home, away := q.Get("date"), q.Get("home"), q.Get("away")
	if date == "" || home == "" || away == "" {
		respondError(w, http.StatusBadRequest, "date, home and away are required", nil)
		return
	}

	game, err := h.games.FindGame(r.Context(), userID(r), date, home, away)
	if err != nil {
		respondServiceError(w, "Failed to fetch game", err)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// GetGame returns one attended game
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", err)
		return
	}

	game, err := h.games.GetGame(r.Context(), userID(r), id)
	if err != nil {
		respondServiceError(w, "Failed to fetch game", err)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// RemoveGame deletes one attended game
func (h *Handler) RemoveGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", err)
		return
	}

	if err := h.games.RemoveGame(r.Context(), userID(r), id); err != nil {
		respondServiceError(w, "Failed to remove game", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearGames deletes all of the user's games
func (h *Handler) ClearGames(w http.ResponseWriter, r *http.Request) {
	n, err := h.games.ClearGames(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, "Failed to clear games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Games cleared",
		"games_removed": n,
	})
}

// GetStats returns the user's aggregated batting and pitching lines
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	agg, err := h.stats.Aggregate(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, "Failed to aggregate stats", err)
		return
	}

	respondJSON(w, http.StatusOK, agg)
}

// GetBattingStats returns batting lines filtered by min_games
func (h *Handler) GetBattingStats(w http.ResponseWriter, r *http.Request) {
	minGames, err := minGamesParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid min_games", err)
		return
	}

	batting, err := h.stats.Batting(r.Context(), userID(r), minGames)
	if err != nil {
		respondServiceError(w, "Failed to aggregate batting stats", err)
		return
	}

	respondJSON(w, http.StatusOK, batting)
}

// GetPitchingStats returns pitching lines filtered by min_games
func (h *Handler) GetPitchingStats(w http.ResponseWriter, r *http.Request) {
	minGames, err := minGamesParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid min_games", err)
		return
	}

	pitching, err := h.stats.Pitching(r.Context(), userID(r), minGames)
	if err != nil {
		respondServiceError(w, "Failed to aggregate pitching stats", err)
		return
	}

	respondJSON(w, http.StatusOK, pitching)
}

// GetDashboard returns the user's dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.stats.Dashboard(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, "Failed to build dashboard", err)
		return
	}

	respondJSON(w, http.StatusOK, dashboard)
}

// Export downloads the user's stats as JSON or CSV
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}
	kind := strings.ToLower(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = "batting"
	}
	if format != "json" && format != "csv" {
		respondError(w, http.StatusBadRequest, "format must be json or csv", nil)
		return
	}
	if format == "csv" && kind != "batting" && kind != "pitching" {
		respondError(w, http.StatusBadRequest, "kind must be batting or pitching", nil)
		return
	}

	exp, err := h.stats.Export(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, "Failed to export stats", err)
		return
	}

	stamp := exp.ExportDate.Format("20060102_150405")
	if format == "json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="baseball_stats_%s.json"`, stamp))
		respondJSON(w, http.StatusOK, exp)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_stats_%s.csv"`, kind, stamp))
	w.WriteHeader(http.StatusOK)
	if kind == "pitching" {
		_ = stats.WritePitchingCSV(w, exp.PitchingStats)
		return
	}
	_ = stats.WriteBattingCSV(w, exp.BattingStats)
}

func userID(r *http.Request) string {
	return mux.Vars(r)["userID"]
}

func gameID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func minGamesParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("min_games")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("min_games must not be negative")
	}
	return n, nil
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, reconciliation.ErrAmbiguousTeam):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrRecordNotFound), errors.Is(err, ingest.ErrGameNotFound), errors.Is(err, reconciliation.ErrNoTeamMatch):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateGame):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondServiceError(w http.ResponseWriter, message string, err error) {
	respondError(w, statusFor(err), message, err)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}
