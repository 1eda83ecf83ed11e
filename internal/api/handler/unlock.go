package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playtrackhq/playtrack/internal/api/middleware"
	"github.com/playtrackhq/playtrack/internal/api/request"
	"github.com/playtrackhq/playtrack/internal/api/response"
	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/services/award"
	"github.com/playtrackhq/playtrack/internal/services/progress"
	"github.com/playtrackhq/playtrack/internal/services/session"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// UnlockHandler handles achievement unlock submission and beat reporting
type UnlockHandler struct {
	storage         storage.Storage
	progressService *progress.Service
	awardService    *award.Service
	tracker         *session.Tracker
	clock           clock.Clock
}

// NewUnlockHandler creates a new unlock handler
func NewUnlockHandler(store storage.Storage, progressService *progress.Service, awardService *award.Service, tracker *session.Tracker, clk clock.Clock) *UnlockHandler {
	return &UnlockHandler{
		storage:         store,
		progressService: progressService,
		awardService:    awardService,
		tracker:         tracker,
		clock:           clk,
	}
}

// Record handles POST /api/v1/unlocks
//
// Recording an unlock counts as play activity: the open session is touched,
// then the progress read model is recomputed and a badge revalidation pass
// runs. The response carries the resulting progress and any revalidation
// signals.
func (h *UnlockHandler) Record(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.RecordUnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.AchievementID == "" {
		WriteError(w, NewInvalidRequestError("achievement_id is required"))
		return
	}

	achievement, err := h.storage.GetAchievement(r.Context(), req.AchievementID)
	if err != nil {
		WriteError(w, err)
		return
	}

	unlock, err := h.storage.GetUnlock(r.Context(), user.ID, achievement.ID)
	if err != nil {
		if !errors.Is(err, model.ErrAchievementNotFound) {
			WriteError(w, err)
			return
		}
		unlock = &model.Unlock{
			UserID:        user.ID,
			AchievementID: achievement.ID,
			GameID:        achievement.GameID,
		}
	}

	// Re-submitting an unlock never moves an existing timestamp.
	now := h.clock.Now()
	if req.Hardcore {
		if unlock.UnlockedHardcoreAt == nil {
			unlock.UnlockedHardcoreAt = &now
		}
	} else {
		if unlock.UnlockedAt == nil {
			unlock.UnlockedAt = &now
		}
	}

	if err := h.storage.SaveUnlock(r.Context(), unlock); err != nil {
		WriteError(w, err)
		return
	}

	if _, _, err := h.tracker.Touch(r.Context(), user.ID, achievement.GameID); err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.progressService.Recompute(r.Context(), user.ID, achievement.GameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	plan, err := h.awardService.Revalidate(r.Context(), user.ID, achievement.GameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, struct {
		Progress     response.ProgressResponse   `json:"progress"`
		Revalidation response.RevalidateResponse `json:"revalidation"`
	}{
		Progress:     response.ProgressResponseFromModel(p),
		Revalidation: revalidateResponseFromPlan(plan),
	})
}

// SetBeaten handles POST /api/v1/progress/beaten
//
// Records beat-detection results for the authenticated user and immediately
// revalidates badge eligibility.
func (h *UnlockHandler) SetBeaten(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.SetBeatenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GameID == "" {
		WriteError(w, NewInvalidRequestError("game_id is required"))
		return
	}

	p, err := h.progressService.SetBeaten(r.Context(), user.ID, req.GameID, req.BeatenAt, req.BeatenHardcoreAt)
	if err != nil {
		WriteError(w, err)
		return
	}

	plan, err := h.awardService.Revalidate(r.Context(), user.ID, req.GameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, struct {
		Progress     response.ProgressResponse   `json:"progress"`
		Revalidation response.RevalidateResponse `json:"revalidation"`
	}{
		Progress:     response.ProgressResponseFromModel(p),
		Revalidation: revalidateResponseFromPlan(plan),
	})
}
