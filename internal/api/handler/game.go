package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playtrackhq/playtrack/internal/api/request"
	"github.com/playtrackhq/playtrack/internal/api/response"
	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// GameHandler handles game and achievement set ingestion
type GameHandler struct {
	storage storage.Storage
	clock   clock.Clock
}

// NewGameHandler creates a new game handler
func NewGameHandler(store storage.Storage, clk clock.Clock) *GameHandler {
	return &GameHandler{
		storage: store,
		clock:   clk,
	}
}

// Create handles POST /api/v1/games
//
// Registers a game together with its achievement set and, for event games,
// its tier ladder and mirror declarations.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.ID == "" {
		WriteError(w, NewInvalidRequestError("id is required"))
		return
	}
	if req.Title == "" {
		WriteError(w, NewInvalidRequestError("title is required"))
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = model.GameKindStandard
	}
	if kind != model.GameKindStandard && kind != model.GameKindEvent {
		WriteError(w, NewInvalidRequestError("kind must be 'standard' or 'event'"))
		return
	}
	if req.Event != nil && kind != model.GameKindEvent {
		WriteError(w, NewInvalidRequestError("only event games may carry a tier ladder"))
		return
	}

	now := h.clock.Now()

	published := 0
	for _, a := range req.Achievements {
		if a.Published {
			published++
		}
	}

	game := &model.Game{
		ID:                    req.ID,
		Title:                 req.Title,
		Kind:                  kind,
		AchievementsPublished: published,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := h.storage.SaveGame(r.Context(), game); err != nil {
		WriteError(w, err)
		return
	}

	for _, a := range req.Achievements {
		achievement := &model.Achievement{
			ID:        a.ID,
			GameID:    game.ID,
			Title:     a.Title,
			Points:    a.Points,
			Published: a.Published,
			CreatedAt: now,
		}
		if err := h.storage.SaveAchievement(r.Context(), achievement); err != nil {
			WriteError(w, err)
			return
		}
	}

	if req.Event != nil {
		tiers := make([]model.EventTier, 0, len(req.Event.Tiers))
		for _, t := range req.Event.Tiers {
			tiers = append(tiers, model.EventTier{
				TierIndex:      t.TierIndex,
				Label:          t.Label,
				PointsRequired: t.PointsRequired,
			})
		}
		event := &model.Event{
			ID:     req.Event.ID,
			GameID: game.ID,
			Title:  req.Event.Title,
			Tiers:  tiers,
		}
		if err := h.storage.SaveEvent(r.Context(), event); err != nil {
			WriteError(w, err)
			return
		}
	}

	for _, m := range req.Mirrors {
		mirror := &model.EventMirror{
			AchievementID:       m.AchievementID,
			SourceAchievementID: m.SourceAchievementID,
			ActiveFrom:          m.ActiveFrom,
			ActiveUntil:         m.ActiveUntil,
		}
		if err := h.storage.SaveEventMirror(r.Context(), mirror); err != nil {
			WriteError(w, err)
			return
		}
	}

	response.JSON(w, http.StatusCreated, response.GameResponseFromModel(game))
}

// Get handles GET /api/v1/games/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.storage.GetGame(r.Context(), model.GameID(mux.Vars(r)["game_id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameResponseFromModel(game))
}
