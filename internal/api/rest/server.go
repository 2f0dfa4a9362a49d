package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, handler *Handler, logger *zap.Logger) *Server {
	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           NewRouter(handler, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter builds the route table.
func NewRouter(handler *Handler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware)

	// Preflight requests are answered by CORSMiddleware
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Reference data
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/resolve", handler.ResolveTeam).Methods("GET")
	api.HandleFunc("/players/{playerID:[0-9]+}", handler.GetPlayer).Methods("GET")

	// Attended games
	user := api.PathPrefix("/users/{userID}").Subrouter()
	user.HandleFunc("/games", handler.ListGames).Methods("GET")
	user.HandleFunc("/games", handler.AddGame).Methods("POST")
	user.HandleFunc("/games", handler.ClearGames).Methods("DELETE")
	user.HandleFunc("/games/lookup", handler.LookupGame).Methods("GET")
	user.HandleFunc("/games/{id:[0-9]+}", handler.GetGame).Methods("GET")
	user.HandleFunc("/games/{id:[0-9]+}", handler.RemoveGame).Methods("DELETE")

	// Stats
	user.HandleFunc("/stats", handler.GetStats).Methods("GET")
	user.HandleFunc("/stats/batting", handler.GetBattingStats).Methods("GET")
	user.HandleFunc("/stats/pitching", handler.GetPitchingStats).Methods("GET")
	user.HandleFunc("/dashboard", handler.GetDashboard).Methods("GET")
	user.HandleFunc("/export", handler.Export).Methods("GET")

	return router
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
