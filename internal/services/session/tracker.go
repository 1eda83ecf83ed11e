package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// InactivityWindow is how long a session stays open after its last ping.
// A ping arriving later than this opens a fresh session.
const InactivityWindow = 10 * time.Minute

// Outcome describes what a reported activity ping did
type Outcome string

const (
	OutcomeStarted  Outcome = "started"
	OutcomeExtended Outcome = "extended"
)

// Tracker manages rolling play sessions per (user, game)
type Tracker struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewTracker creates a new session tracker
func NewTracker(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Tracker {
	return &Tracker{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// ReportActivity records an activity ping for (user, game). The latest open
// session is extended when its last ping is within the inactivity window;
// otherwise a new session is opened with a duration of one minute. The user's
// denormalized last-game and rich-presence fields are refreshed either way.
//
// The tracker treats each call as authoritative "now": out-of-order pings are
// not reordered, and concurrent pings for the same pair must be serialized by
// the caller.
func (t *Tracker) ReportActivity(ctx context.Context, userID model.UserID, gameID model.GameID, gameHashID model.GameHashID, userAgent, richPresence string) (*model.PlaySession, Outcome, error) {
	return t.report(ctx, userID, gameID, gameHashID, userAgent, richPresence, false)
}

// Touch extends the open session for (user, game) without replacing its hash,
// user agent or rich-presence text. An unlock arriving with no open session
// starts one the same way an activity ping would.
func (t *Tracker) Touch(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.PlaySession, Outcome, error) {
	return t.report(ctx, userID, gameID, "", "", "", true)
}

func (t *Tracker) report(ctx context.Context, userID model.UserID, gameID model.GameID, gameHashID model.GameHashID, userAgent, richPresence string, preserve bool) (*model.PlaySession, Outcome, error) {
	user, err := t.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	game, err := t.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, "", err
	}

	if richPresence == "" {
		richPresence = "Playing " + game.Title
	}

	now := t.clock.Now()

	sess, err := t.storage.LatestSession(ctx, userID, gameID)
	if err != nil && !errors.Is(err, model.ErrSessionNotFound) {
		return nil, "", err
	}

	outcome := OutcomeExtended
	if sess == nil || now.Sub(sess.LastActiveAt) >= InactivityWindow {
		sess = &model.PlaySession{
			ID:           model.SessionID(uuid.NewString()),
			UserID:       userID,
			GameID:       gameID,
			GameHashID:   gameHashID,
			Duration:     1,
			RichPresence: richPresence,
			UserAgent:    userAgent,
			StartedAt:    now,
			LastActiveAt: now,
		}
		outcome = OutcomeStarted
	} else {
		elapsed := int(now.Sub(sess.LastActiveAt).Minutes())
		sess.Duration += elapsed
		if !preserve {
			sess.GameHashID = gameHashID
			sess.RichPresence = richPresence
			sess.UserAgent = userAgent
		}
		sess.LastActiveAt = now
	}

	if err := t.storage.SaveSession(ctx, sess); err != nil {
		return nil, "", err
	}

	// Keep the user's "currently playing" fields in line with the session
	// just touched.
	user.LastGameID = gameID
	user.RichPresence = sess.RichPresence
	user.UpdatedAt = now
	if err := t.storage.SaveUser(ctx, user); err != nil {
		return nil, "", err
	}

	t.logger.Info("session activity",
		slog.String("user_id", string(userID)),
		slog.String("game_id", string(gameID)),
		slog.String("outcome", string(outcome)),
		slog.Int("duration", sess.Duration),
	)

	return sess, outcome, nil
}
