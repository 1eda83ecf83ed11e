package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtrackhq/playtrack/internal/api"
	"github.com/playtrackhq/playtrack/internal/api/response"
	"github.com/playtrackhq/playtrack/internal/factory"
	"github.com/playtrackhq/playtrack/internal/model"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

// credentials of a registered test user
type credentials struct {
	name   string
	apiKey string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use the production factory
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Clock:           app.Clock,
		Storage:         app.Storage,
		IdentityService: app.IdentityService,
		ProgressService: app.ProgressService,
		SessionTracker:  app.SessionTracker,
		UnlockService:   app.UnlockService,
		AwardService:    app.AwardService,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any, creds *credentials) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		req.Header.Set("X-API-User", creds.name)
		req.Header.Set("X-API-Key", creds.apiKey)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) register(t *testing.T, name string) *credentials {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]string{"name": name}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return &credentials{name: resp.Name, apiKey: resp.APIKey}
}

// createGame registers a standard game with the given published achievements
func (ts *testServer) createGame(t *testing.T, gameID string, achievements int, points int) {
	t.Helper()

	achs := make([]map[string]any, 0, achievements)
	for i := 0; i < achievements; i++ {
		achs = append(achs, map[string]any{
			"id":        fmt.Sprintf("%s-ach-%d", gameID, i),
			"title":     fmt.Sprintf("Achievement %d", i),
			"points":    points,
			"published": true,
		})
	}

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{
		"id":           gameID,
		"title":        "Test Game",
		"kind":         "standard",
		"achievements": achs,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
}

func (ts *testServer) recordUnlock(t *testing.T, creds *credentials, achievementID string, hardcore bool) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/unlocks", map[string]any{
		"achievement_id": achievementID,
		"hardcore":       hardcore,
	}, creds)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterUser(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]string{"name": "alice"}, nil)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Equal(t, "alice", resp.Name)
	assert.NotEmpty(t, resp.UserID)
	assert.NotEmpty(t, resp.APIKey)
}

func TestRegisterDuplicateUser(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]string{"name": "alice"}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "USERNAME_EXISTS")
}

func TestRegisterRequiresName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSessionStartRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/start", map[string]string{"game_id": "game-1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSessionStartWithBadKey(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")

	bad := &credentials{name: creds.name, apiKey: "wrong"}
	rr := ts.request(http.MethodPost, "/api/v1/sessions/start", map[string]string{"game_id": "game-1"}, bad)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSessionStartAndPing(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")
	ts.createGame(t, "game-1", 6, 5)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/start", map[string]string{
		"game_id":      "game-1",
		"game_hash_id": "hash-1",
	}, creds)
	require.Equal(t, http.StatusOK, rr.Code)

	var started response.StartSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))
	assert.Equal(t, "started", started.Outcome)
	assert.NotEmpty(t, started.SessionID)
	assert.Empty(t, started.HardcoreUnlocks)
	assert.Empty(t, started.Unlocks)
	assert.NotZero(t, started.ServerNow)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ping", map[string]string{
		"game_id": "game-1",
	}, creds)
	require.Equal(t, http.StatusOK, rr.Code)

	var pinged response.PingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pinged))
	assert.Equal(t, "extended", pinged.Outcome)
	assert.Equal(t, started.SessionID, pinged.SessionID)
}

func TestSessionStartUnknownGame(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/start", map[string]string{"game_id": "missing"}, creds)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_NOT_FOUND")
}

func TestRecordUnlockUpdatesProgress(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")
	ts.createGame(t, "game-1", 6, 5)

	ts.recordUnlock(t, creds, "game-1-ach-0", true)

	rr := ts.request(http.MethodGet, "/api/v1/users/alice/games/game-1/progress", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var progress response.ProgressResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
	assert.Equal(t, 6, progress.AchievementsTotal)
	assert.Equal(t, 1, progress.AchievementsUnlocked)
	assert.Equal(t, 1, progress.AchievementsUnlockedHardcore)
	assert.Equal(t, 5, progress.PointsHardcore)
}

func TestFullHardcoreClearAwardsMastery(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")
	ts.createGame(t, "game-1", 6, 5)

	for i := 0; i < 6; i++ {
		ts.recordUnlock(t, creds, fmt.Sprintf("game-1-ach-%d", i), true)
	}

	rr := ts.request(http.MethodGet, "/api/v1/users/alice/badges", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var badges response.BadgeListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &badges))
	require.Len(t, badges.Badges, 1)
	assert.Equal(t, model.BadgeMastery, badges.Badges[0].Type)
	assert.Equal(t, model.VariantHardcore, badges.Badges[0].Variant)

	rr = ts.request(http.MethodGet, "/api/v1/users/alice/games/game-1/award", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var award response.HighestAwardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &award))
	assert.Equal(t, model.AwardKindMastered, award.Kind)
}

func TestSetBeatenAwardsBeatenBadge(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")
	ts.createGame(t, "game-1", 6, 5)
	ts.recordUnlock(t, creds, "game-1-ach-0", true)

	beatenAt := time.Now().UTC().Add(-time.Hour)
	rr := ts.request(http.MethodPost, "/api/v1/progress/beaten", map[string]any{
		"game_id":            "game-1",
		"beaten_hardcore_at": beatenAt,
	}, creds)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/users/alice/games/game-1/award", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var award response.HighestAwardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &award))
	assert.Equal(t, model.AwardKindBeatenHardcore, award.Kind)
}

func TestRevalidateEndpointIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")
	ts.createGame(t, "game-1", 6, 5)
	for i := 0; i < 6; i++ {
		ts.recordUnlock(t, creds, fmt.Sprintf("game-1-ach-%d", i), true)
	}

	rr := ts.request(http.MethodPost, "/api/v1/users/alice/games/game-1/revalidate", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var reval response.RevalidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reval))
	assert.Zero(t, reval.Mutations)
}

func TestSessionStartReturnsUnlockLists(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")
	ts.createGame(t, "game-1", 6, 5)
	ts.recordUnlock(t, creds, "game-1-ach-0", true)
	ts.recordUnlock(t, creds, "game-1-ach-1", false)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/start", map[string]string{
		"game_id": "game-1",
	}, creds)
	require.Equal(t, http.StatusOK, rr.Code)

	var started response.StartSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))
	require.Len(t, started.HardcoreUnlocks, 1)
	assert.Equal(t, model.AchievementID("game-1-ach-0"), started.HardcoreUnlocks[0].ID)
	require.Len(t, started.Unlocks, 1)
	assert.Equal(t, model.AchievementID("game-1-ach-1"), started.Unlocks[0].ID)
}

func TestGetProgressUnknownUser(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/users/nobody/games/game-1/progress", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "USER_NOT_FOUND")
}

func TestGetGame(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t, "game-1", 3, 10)

	rr := ts.request(http.MethodGet, "/api/v1/games/game-1", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var game response.GameResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	assert.Equal(t, model.GameID("game-1"), game.ID)
	assert.Equal(t, 3, game.AchievementsPublished)

	rr = ts.request(http.MethodGet, "/api/v1/games/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateEventGameWithLadder(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{
		"id":    "event-game",
		"title": "Challenge League",
		"kind":  "event",
		"achievements": []map[string]any{
			{"id": "ev-ach-0", "title": "Week 1", "points": 1000, "published": true},
			{"id": "ev-ach-1", "title": "Week 2", "points": 1000, "published": true},
			{"id": "ev-ach-2", "title": "Week 3", "points": 1000, "published": true},
			{"id": "ev-ach-3", "title": "Week 4", "points": 1000, "published": true},
			{"id": "ev-ach-4", "title": "Week 5", "points": 1000, "published": true},
			{"id": "ev-ach-5", "title": "Week 6", "points": 1000, "published": true},
		},
		"event": map[string]any{
			"id":    "league-1",
			"title": "Challenge League",
			"tiers": []map[string]any{
				{"tier_index": 0, "label": "Bronze", "points_required": 1000},
				{"tier_index": 1, "label": "Gold", "points_required": 5000},
			},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	// Four hardcore unlocks put the player at 4000 points: tier 0
	for i := 0; i < 4; i++ {
		ts.recordUnlock(t, creds, fmt.Sprintf("ev-ach-%d", i), true)
	}

	rr = ts.request(http.MethodGet, "/api/v1/users/alice/badges", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var badges response.BadgeListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &badges))
	require.Len(t, badges.Badges, 1)
	assert.Equal(t, model.BadgeEvent, badges.Badges[0].Type)
	assert.Equal(t, model.SubjectID("league-1"), badges.Badges[0].SubjectID)
	assert.Equal(t, 0, badges.Badges[0].Variant)

	// Two more unlocks cross the gold requirement: upgraded in place
	ts.recordUnlock(t, creds, "ev-ach-4", true)
	ts.recordUnlock(t, creds, "ev-ach-5", true)

	rr = ts.request(http.MethodGet, "/api/v1/users/alice/badges", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &badges))
	require.Len(t, badges.Badges, 1)
	assert.Equal(t, 1, badges.Badges[0].Variant)
}

func TestEventLadderOnStandardGameRejected(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{
		"id":    "game-1",
		"title": "Not An Event",
		"kind":  "standard",
		"event": map[string]any{"id": "event-1", "title": "Nope"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// newTestServerWithClock builds a server over the test factory so a test can
// move time between requests
func newTestServerWithClock(t *testing.T) (*testServer, *factory.TestApp) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Clock:           app.Clock,
		Storage:         app.Storage,
		IdentityService: app.IdentityService,
		ProgressService: app.ProgressService,
		SessionTracker:  app.SessionTracker,
		UnlockService:   app.UnlockService,
		AwardService:    app.AwardService,
	})

	return &testServer{handler: router}, app
}

func TestRecordUnlockTouchesOpenSession(t *testing.T) {
	ts, app := newTestServerWithClock(t)
	creds := ts.register(t, "alice")
	ts.createGame(t, "game-1", 6, 5)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/start", map[string]string{
		"game_id":      "game-1",
		"game_hash_id": "hash-1",
	}, creds)
	require.Equal(t, http.StatusOK, rr.Code)

	var started response.StartSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))

	app.MockClock.Advance(5 * time.Minute)
	ts.recordUnlock(t, creds, "game-1-ach-0", true)

	ctx := context.Background()
	user, err := app.Storage.GetUserByName(ctx, "alice")
	require.NoError(t, err)

	sess, err := app.Storage.LatestSession(ctx, user.ID, "game-1")
	require.NoError(t, err)
	assert.Equal(t, started.SessionID, sess.ID)
	assert.Equal(t, app.MockClock.Now(), sess.LastActiveAt)
	assert.Equal(t, 6, sess.Duration)
	assert.Equal(t, model.GameHashID("hash-1"), sess.GameHashID)
}

func TestDeveloperYieldAwardsTierBadge(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "dev")

	rr := ts.request(http.MethodPost, "/api/v1/developer/yield", map[string]any{
		"metric":    "unlocks",
		"old_value": 0,
		"new_value": 600,
	}, creds)
	require.Equal(t, http.StatusOK, rr.Code)

	var reval response.RevalidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reval))
	assert.Equal(t, 1, reval.Mutations)

	rr = ts.request(http.MethodGet, "/api/v1/users/dev/badges", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var badges response.BadgeListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &badges))
	require.Len(t, badges.Badges, 1)
	assert.Equal(t, model.BadgeDeveloperUnlocksYield, badges.Badges[0].Type)
	assert.Equal(t, 2, badges.Badges[0].Variant)
}

func TestDeveloperYieldIsIdempotentPerTier(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "dev")

	body := map[string]any{"metric": "points", "old_value": 0, "new_value": 1000}

	rr := ts.request(http.MethodPost, "/api/v1/developer/yield", body, creds)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/developer/yield", body, creds)
	require.Equal(t, http.StatusOK, rr.Code)

	var reval response.RevalidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reval))
	assert.Zero(t, reval.Mutations)
}

func TestDeveloperYieldRejectsUnknownMetric(t *testing.T) {
	ts := newTestServer(t)
	creds := ts.register(t, "dev")

	rr := ts.request(http.MethodPost, "/api/v1/developer/yield", map[string]any{
		"metric":    "stars",
		"old_value": 0,
		"new_value": 100,
	}, creds)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeveloperYieldRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/developer/yield", map[string]any{
		"metric":    "unlocks",
		"old_value": 0,
		"new_value": 100,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
