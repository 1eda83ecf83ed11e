package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playtrackhq/playtrack/internal/api/handler"
	"github.com/playtrackhq/playtrack/internal/api/middleware"
	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/services/award"
	"github.com/playtrackhq/playtrack/internal/services/identity"
	"github.com/playtrackhq/playtrack/internal/services/progress"
	"github.com/playtrackhq/playtrack/internal/services/session"
	"github.com/playtrackhq/playtrack/internal/services/unlocks"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Clock           clock.Clock
	Storage         storage.Storage
	IdentityService *identity.Service
	ProgressService *progress.Service
	SessionTracker  *session.Tracker
	UnlockService   *unlocks.Service
	AwardService    *award.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.IdentityService, cfg.ProgressService, cfg.AwardService, cfg.Storage)
	sessionHandler := handler.NewSessionHandler(cfg.SessionTracker, cfg.UnlockService, cfg.Clock)
	gameHandler := handler.NewGameHandler(cfg.Storage, cfg.Clock)
	unlockHandler := handler.NewUnlockHandler(cfg.Storage, cfg.ProgressService, cfg.AwardService, cfg.SessionTracker, cfg.Clock)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.IdentityService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account creation (no auth)
	api.HandleFunc("/users", userHandler.Register).Methods(http.MethodPost)

	// Public read routes
	api.HandleFunc("/users/{name}/badges", userHandler.ListBadges).Methods(http.MethodGet)
	api.HandleFunc("/users/{name}/games/{game_id}/progress", userHandler.GetProgress).Methods(http.MethodGet)
	api.HandleFunc("/users/{name}/games/{game_id}/award", userHandler.GetHighestAward).Methods(http.MethodGet)
	api.HandleFunc("/users/{name}/games/{game_id}/revalidate", userHandler.Revalidate).Methods(http.MethodPost)

	// Game registration and lookup
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games/{game_id}", gameHandler.Get).Methods(http.MethodGet)

	// Session routes (all require auth)
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("/start", sessionHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/ping", sessionHandler.Ping).Methods(http.MethodPost)

	// Unlock and beat submission (require auth)
	unlockRoutes := api.PathPrefix("/unlocks").Subrouter()
	unlockRoutes.Use(authMiddleware)
	unlockRoutes.HandleFunc("", unlockHandler.Record).Methods(http.MethodPost)

	progressRoutes := api.PathPrefix("/progress").Subrouter()
	progressRoutes.Use(authMiddleware)
	progressRoutes.HandleFunc("/beaten", unlockHandler.SetBeaten).Methods(http.MethodPost)

	// Developer yield submission (requires auth)
	developerRoutes := api.PathPrefix("/developer").Subrouter()
	developerRoutes.Use(authMiddleware)
	developerRoutes.HandleFunc("/yield", userHandler.RecordDeveloperYield).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
