package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/services/award"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// Config holds scheduler settings
type Config struct {
	// Interval between revalidation sweeps
	Interval time.Duration

	// Window is how far back a session's last activity may lie for its
	// (user, game) pair to be swept
	Window time.Duration
}

// DefaultConfig returns default scheduler settings
func DefaultConfig() Config {
	return Config{
		Interval: 5 * time.Minute,
		Window:   15 * time.Minute,
	}
}

// Scheduler periodically re-runs badge revalidation for players with recently
// active sessions, catching up on eligibility changes made outside the unlock
// path (set revisions, event tier changes).
type Scheduler struct {
	scheduler gocron.Scheduler
	storage   storage.Storage
	award     *award.Service
	clock     clock.Clock
	logger    *slog.Logger
	cfg       Config
}

// New creates a new revalidation scheduler
func New(storage storage.Storage, awardService *award.Service, clk clock.Clock, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: sched,
		storage:   storage,
		award:     awardService,
		clock:     clk,
		logger:    logger,
		cfg:       cfg,
	}, nil
}

// Start registers the sweep job and starts the scheduler
func (s *Scheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.cfg.Interval),
		gocron.NewTask(func() {
			s.Sweep(context.Background())
		}),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.logger.Info("revalidation scheduler started",
		slog.Duration("interval", s.cfg.Interval),
		slog.Duration("window", s.cfg.Window),
	)
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// Sweep revalidates every (user, game) pair with session activity inside the
// window. Each pair is visited once per sweep regardless of session count.
func (s *Scheduler) Sweep(ctx context.Context) {
	since := s.clock.Now().Add(-s.cfg.Window)
	sessions, err := s.storage.ListSessionsActiveSince(ctx, since)
	if err != nil {
		s.logger.Error("revalidation sweep failed to list sessions", slog.String("error", err.Error()))
		return
	}

	type pair struct {
		userID model.UserID
		gameID model.GameID
	}
	seen := make(map[pair]bool)

	for _, sess := range sessions {
		p := pair{sess.UserID, sess.GameID}
		if seen[p] {
			continue
		}
		seen[p] = true

		if _, err := s.award.Revalidate(ctx, p.userID, p.gameID); err != nil {
			s.logger.Error("sweep revalidation failed",
				slog.String("user_id", string(p.userID)),
				slog.String("game_id", string(p.gameID)),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Debug("revalidation sweep complete", slog.Int("pairs", len(seen)))
}
