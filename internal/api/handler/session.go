package handler

import (
	"encoding/json"
	"net/http"

	"github.com/playtrackhq/playtrack/internal/api/middleware"
	"github.com/playtrackhq/playtrack/internal/api/request"
	"github.com/playtrackhq/playtrack/internal/api/response"
	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/services/session"
	"github.com/playtrackhq/playtrack/internal/services/unlocks"
)

// SessionHandler handles play session endpoints
type SessionHandler struct {
	tracker       *session.Tracker
	unlockService *unlocks.Service
	clock         clock.Clock
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tracker *session.Tracker, unlockService *unlocks.Service, clk clock.Clock) *SessionHandler {
	return &SessionHandler{
		tracker:       tracker,
		unlockService: unlockService,
		clock:         clk,
	}
}

// Start handles POST /api/v1/sessions/start
//
// Besides touching the session, the response carries the player's unlock
// lists so the emulator can seed its local state at game load.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GameID == "" {
		WriteError(w, NewInvalidRequestError("game_id is required"))
		return
	}

	sess, outcome, err := h.tracker.ReportActivity(r.Context(), user.ID, req.GameID, req.GameHashID, r.UserAgent(), req.RichPresence)
	if err != nil {
		WriteError(w, err)
		return
	}

	now := h.clock.Now()
	hardcore, softcore, err := h.unlockService.VisibleUnlocks(r.Context(), user.ID, req.GameID, now)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StartSessionResponse{
		SessionID:       sess.ID,
		Outcome:         string(outcome),
		HardcoreUnlocks: response.UnlockEntriesFromViews(hardcore),
		Unlocks:         response.UnlockEntriesFromViews(softcore),
		ServerNow:       now.Unix(),
	})
}

// Ping handles POST /api/v1/sessions/ping
func (h *SessionHandler) Ping(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.PingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GameID == "" {
		WriteError(w, NewInvalidRequestError("game_id is required"))
		return
	}

	sess, outcome, err := h.tracker.ReportActivity(r.Context(), user.ID, req.GameID, req.GameHashID, r.UserAgent(), req.RichPresence)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PingResponse{
		SessionID: sess.ID,
		Outcome:   string(outcome),
		Duration:  sess.Duration,
		ServerNow: h.clock.Now().Unix(),
	})
}
