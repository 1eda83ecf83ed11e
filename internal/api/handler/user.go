package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playtrackhq/playtrack/internal/api/middleware"
	"github.com/playtrackhq/playtrack/internal/api/request"
	"github.com/playtrackhq/playtrack/internal/api/response"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/services/award"
	"github.com/playtrackhq/playtrack/internal/services/identity"
	"github.com/playtrackhq/playtrack/internal/services/progress"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// UserHandler handles account and per-user read endpoints
type UserHandler struct {
	identityService *identity.Service
	progressService *progress.Service
	awardService    *award.Service
	storage         storage.Storage
}

// NewUserHandler creates a new user handler
func NewUserHandler(identityService *identity.Service, progressService *progress.Service, awardService *award.Service, store storage.Storage) *UserHandler {
	return &UserHandler{
		identityService: identityService,
		progressService: progressService,
		awardService:    awardService,
		storage:         store,
	}
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	user, apiKey, err := h.identityService.Register(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisterResponse{
		UserID: user.ID,
		Name:   user.Name,
		APIKey: apiKey,
	})
}

// ListBadges handles GET /api/v1/users/{name}/badges
func (h *UserHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	user, err := h.storage.GetUserByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, err)
		return
	}

	badges, err := h.storage.ListBadgesForUser(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.BadgeListResponse{Badges: make([]response.BadgeResponse, 0, len(badges))}
	for _, b := range badges {
		resp.Badges = append(resp.Badges, response.BadgeResponseFromModel(b))
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetProgress handles GET /api/v1/users/{name}/games/{game_id}/progress
func (h *UserHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	user, err := h.storage.GetUserByName(r.Context(), vars["name"])
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.progressService.Get(r.Context(), user.ID, model.GameID(vars["game_id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProgressResponseFromModel(p))
}

// GetHighestAward handles GET /api/v1/users/{name}/games/{game_id}/award
func (h *UserHandler) GetHighestAward(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	user, err := h.storage.GetUserByName(r.Context(), vars["name"])
	if err != nil {
		WriteError(w, err)
		return
	}

	badges, err := h.storage.ListBadgesForUser(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	badge, kind, ok := model.HighestAwardForGame(badges, model.GameID(vars["game_id"]))
	if !ok {
		WriteError(w, model.ErrBadgeNotFound)
		return
	}

	response.JSON(w, http.StatusOK, response.HighestAwardResponse{
		Kind:  kind,
		Badge: response.BadgeResponseFromModel(badge),
	})
}

// RecordDeveloperYield handles POST /api/v1/developer/yield
//
// Accepts the authenticated developer's externally computed yield movement and
// awards any newly crossed tier badge.
func (h *UserHandler) RecordDeveloperYield(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.DeveloperYieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var kind model.BadgeType
	switch req.Metric {
	case "unlocks":
		kind = model.BadgeDeveloperUnlocksYield
	case "points":
		kind = model.BadgeDeveloperPointsYield
	default:
		WriteError(w, NewInvalidRequestError("metric must be \"unlocks\" or \"points\""))
		return
	}

	if req.NewValue < req.OldValue {
		WriteError(w, NewInvalidRequestError("new_value must not be below old_value"))
		return
	}

	plan, err := h.awardService.RevalidateDeveloperYield(r.Context(), user.ID, kind, req.OldValue, req.NewValue)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, revalidateResponseFromPlan(plan))
}

// Revalidate handles POST /api/v1/users/{name}/games/{game_id}/revalidate
func (h *UserHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	user, err := h.storage.GetUserByName(r.Context(), vars["name"])
	if err != nil {
		WriteError(w, err)
		return
	}

	plan, err := h.awardService.Revalidate(r.Context(), user.ID, model.GameID(vars["game_id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, revalidateResponseFromPlan(plan))
}

func revalidateResponseFromPlan(plan award.Plan) response.RevalidateResponse {
	resp := response.RevalidateResponse{
		Mutations: len(plan.Mutations),
		Signals:   make([]response.SignalResponse, 0, len(plan.Signals)),
	}
	for _, sig := range plan.Signals {
		resp.Signals = append(resp.Signals, response.SignalResponse{
			Type:      sig.Type,
			SubjectID: sig.SubjectID,
			BadgeType: sig.BadgeType,
			Variant:   sig.Variant,
			Hardcore:  sig.Hardcore,
		})
	}
	return resp
}
