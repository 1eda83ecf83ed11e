package award

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/dispatch"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// RecentWindow is how far back a beaten/mastery timestamp may lie and still
// trigger a site-wide "first hardcore" broadcast.
const RecentWindow = 10 * time.Minute

// Snapshot is everything a revalidation pass reads. It is captured once up
// front; evaluation never goes back to storage.
type Snapshot struct {
	Progress *model.GameProgress
	Ledger   []*model.Badge
	Game     *model.Game

	// Event is the award ladder for event-kind games. Nil for standard
	// games and for legacy events that predate ladder definitions.
	Event *model.Event

	Now time.Time
}

// Plan is the complete outcome of a revalidation pass: an ordered list of
// ledger mutations and the domain signals accompanying them. An empty plan
// means eligibility already matches the ledger.
type Plan struct {
	Mutations []model.BadgeMutation
	Signals   []model.Signal
}

// Empty reports whether the plan requires no changes
func (p Plan) Empty() bool {
	return len(p.Mutations) == 0 && len(p.Signals) == 0
}

// Service revalidates which badges a player should hold for a game and keeps
// the ledger in line with the progress read model
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	sink    dispatch.Sink
	logger  *slog.Logger
}

// NewService creates a new badge eligibility service
func NewService(storage storage.Storage, clock clock.Clock, sink dispatch.Sink, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		sink:    sink,
		logger:  logger,
	}
}

// Revalidate loads a snapshot for (user, game), evaluates badge eligibility,
// applies the resulting mutations, and dispatches the emitted signals in
// order. Callers must serialize invocations per (user, game); the pass itself
// holds no locks. Re-running on an unchanged snapshot is a no-op.
func (s *Service) Revalidate(ctx context.Context, userID model.UserID, gameID model.GameID) (Plan, error) {
	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		return Plan{}, err
	}

	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return Plan{}, err
	}

	progress, err := s.storage.GetProgress(ctx, userID, gameID)
	if err != nil {
		return Plan{}, err
	}

	ledger, err := s.storage.ListBadgesForUser(ctx, userID)
	if err != nil {
		return Plan{}, err
	}

	var event *model.Event
	if game.IsEvent() {
		event, err = s.storage.GetEventForGame(ctx, gameID)
		if err != nil && !errors.Is(err, model.ErrEventNotFound) {
			return Plan{}, err
		}
	}

	plan := s.Evaluate(Snapshot{
		Progress: progress,
		Ledger:   ledger,
		Game:     game,
		Event:    event,
		Now:      s.clock.Now(),
	})

	if plan.Empty() {
		return plan, nil
	}

	if err := s.apply(ctx, userID, ledger, plan); err != nil {
		return Plan{}, err
	}

	for _, sig := range plan.Signals {
		s.sink.Dispatch(ctx, sig)
	}

	s.logger.Info("badge eligibility revalidated",
		slog.String("user_id", string(userID)),
		slog.String("game_id", string(gameID)),
		slog.Int("mutations", len(plan.Mutations)),
	)

	return plan, nil
}

// Evaluate computes the mutations and signals needed to reconcile the badge
// ledger with the progress snapshot. It is a pure function of the snapshot:
// no storage access, no side effects.
func (s *Service) Evaluate(snap Snapshot) Plan {
	b := &planBuilder{userID: snap.Progress.UserID}

	if snap.Game.IsEvent() {
		if snap.Event != nil {
			s.evaluateEvent(b, snap)
		} else {
			// Legacy event without a ladder: fall back to treating it
			// as a mastery set.
			s.evaluateMastery(b, snap, model.SubjectID(snap.Game.ID))
		}
	} else {
		subject := model.SubjectID(snap.Game.ID)
		s.evaluateBeaten(b, snap, subject)
		s.evaluateMastery(b, snap, subject)
	}

	return b.plan
}

func (s *Service) evaluateBeaten(b *planBuilder, snap Snapshot, subject model.SubjectID) {
	progress := snap.Progress
	soft := findBadge(snap.Ledger, model.BadgeGameBeaten, subject, model.VariantSoftcore)
	hard := findBadge(snap.Ledger, model.BadgeGameBeaten, subject, model.VariantHardcore)

	// Absence of the beaten timestamp is an explicit signal the condition
	// no longer holds; retract without further heuristics.
	if progress.BeatenAt == nil && soft != nil {
		b.retract(soft, true)
		soft = nil
	}
	if progress.BeatenHardcoreAt == nil && hard != nil {
		b.retract(hard, true)
		hard = nil
	}

	if progress.BeatenHardcoreAt == nil && progress.BeatenAt != nil && soft == nil {
		b.award(model.BadgeGameBeaten, subject, model.VariantSoftcore, *progress.BeatenAt)
		b.signal(model.Signal{
			Type:      model.SignalGameBeaten,
			UserID:    b.userID,
			SubjectID: subject,
			Hardcore:  false,
			Timestamp: *progress.BeatenAt,
		})
	}

	if progress.BeatenHardcoreAt != nil && hard == nil {
		// Hardcore supersedes softcore for the same subject. The
		// supersede delete is silent: the badge is replaced, not lost.
		if soft != nil {
			b.retract(soft, false)
			soft = nil
		}

		b.award(model.BadgeGameBeaten, subject, model.VariantHardcore, *progress.BeatenHardcoreAt)
		b.signal(model.Signal{
			Type:      model.SignalGameBeaten,
			UserID:    b.userID,
			SubjectID: subject,
			Hardcore:  true,
			Timestamp: *progress.BeatenHardcoreAt,
		})

		if withinRecentWindow(snap.Now, *progress.BeatenHardcoreAt) {
			b.signal(model.Signal{
				Type:      model.SignalFirstHardcoreBeaten,
				UserID:    b.userID,
				SubjectID: subject,
				Timestamp: snap.Now,
			})
		}
	}
}

func (s *Service) evaluateMastery(b *planBuilder, snap Snapshot, subject model.SubjectID) {
	progress := snap.Progress

	// Sets below the minimum achievement count are not evaluated at all:
	// no awards, no retractions.
	if progress.AchievementsTotal < model.MinimumMasteryCount {
		return
	}

	soft := findBadge(snap.Ledger, model.BadgeMastery, subject, model.VariantSoftcore)
	hard := findBadge(snap.Ledger, model.BadgeMastery, subject, model.VariantHardcore)

	if progress.CompletedAt == nil && soft != nil {
		// If the user still holds at least one unlock, assume the set
		// was revised and keep the badge. They can reset an
		// achievement to get rid of it.
		if progress.AchievementsUnlocked == 0 && progress.AchievementsTotal > 0 {
			b.retract(soft, true)
			soft = nil
		}
	}

	if progress.CompletedHardcoreAt == nil && hard != nil {
		// No unlocks at all for a non-empty set means a full reset;
		// any remaining unlock (soft or hard) is a revision signal.
		if progress.AchievementsUnlocked == 0 && progress.AchievementsUnlockedHardcore == 0 && progress.AchievementsTotal > 0 {
			b.retract(hard, true)
			hard = nil
		}
	}

	if progress.CompletedHardcoreAt == nil && progress.CompletedAt != nil && soft == nil {
		b.award(model.BadgeMastery, subject, model.VariantSoftcore, *progress.CompletedAt)
		b.signal(model.Signal{
			Type:      model.SignalGameCompleted,
			UserID:    b.userID,
			SubjectID: subject,
			Hardcore:  false,
			Timestamp: *progress.CompletedAt,
		})
	}

	if progress.CompletedHardcoreAt != nil && hard == nil {
		if soft != nil {
			b.retract(soft, false)
			soft = nil
		}

		b.award(model.BadgeMastery, subject, model.VariantHardcore, *progress.CompletedHardcoreAt)
		b.signal(model.Signal{
			Type:      model.SignalGameCompleted,
			UserID:    b.userID,
			SubjectID: subject,
			Hardcore:  true,
			Timestamp: *progress.CompletedHardcoreAt,
		})

		if withinRecentWindow(snap.Now, *progress.CompletedHardcoreAt) {
			b.signal(model.Signal{
				Type:      model.SignalFirstHardcoreMastery,
				UserID:    b.userID,
				SubjectID: subject,
				Timestamp: snap.Now,
			})
		}

		// A new hardcore mastery changes the game's top-achievers
		// standing.
		b.signal(model.Signal{
			Type:      model.SignalLeaderboardCacheInvalidate,
			UserID:    b.userID,
			SubjectID: subject,
			Timestamp: snap.Now,
		})
	}
}

func (s *Service) evaluateEvent(b *planBuilder, snap Snapshot) {
	subject := model.SubjectID(snap.Event.ID)
	expectedTier := ResolveTier(snap.Event.Tiers, snap.Progress, snap.Game.AchievementsPublished)

	existing := findEventBadge(snap.Ledger, subject)
	if existing != nil {
		// Never downgrade an event badge due to resetting; only a
		// strictly higher tier is applied.
		if existing.Variant >= expectedTier {
			return
		}

		b.upgrade(subject, expectedTier, snap.Now)
		return
	}

	if expectedTier == NoTier {
		return
	}

	b.award(model.BadgeEvent, subject, expectedTier, snap.Now)
}

// apply writes the plan's mutations to the badge ledger. The ledger slice is
// the one the plan was computed from; it is used to resolve mutation targets
// to stored badge rows.
func (s *Service) apply(ctx context.Context, userID model.UserID, ledger []*model.Badge, plan Plan) error {
	displayOrder := nextDisplayOrder(ledger)

	for _, m := range plan.Mutations {
		switch m.Op {
		case model.MutationAward:
			badge := &model.Badge{
				ID:           uuid.NewString(),
				OwnerID:      userID,
				Type:         m.Type,
				SubjectID:    m.SubjectID,
				Variant:      m.Variant,
				AwardedAt:    m.Timestamp,
				DisplayOrder: displayOrder,
			}
			displayOrder++
			if err := s.storage.SaveBadge(ctx, badge); err != nil {
				return err
			}

		case model.MutationUpgradeTier:
			badge := findEventBadge(ledger, m.SubjectID)
			if badge == nil {
				return model.ErrBadgeNotFound
			}
			badge.Variant = m.Variant
			badge.AwardedAt = m.Timestamp
			if err := s.storage.SaveBadge(ctx, badge); err != nil {
				return err
			}

		case model.MutationRetract:
			badge := findBadge(ledger, m.Type, m.SubjectID, m.Variant)
			if badge == nil {
				continue
			}
			if err := s.storage.DeleteBadge(ctx, badge.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

// planBuilder accumulates mutations and signals in emission order
type planBuilder struct {
	userID model.UserID
	plan   Plan
}

func (b *planBuilder) award(badgeType model.BadgeType, subject model.SubjectID, variant int, at time.Time) {
	b.plan.Mutations = append(b.plan.Mutations, model.BadgeMutation{
		Op:        model.MutationAward,
		Type:      badgeType,
		SubjectID: subject,
		Variant:   variant,
		Timestamp: at,
	})
	b.signal(model.Signal{
		Type:      model.SignalBadgeAwarded,
		UserID:    b.userID,
		SubjectID: subject,
		BadgeType: badgeType,
		Variant:   variant,
		Timestamp: at,
	})
}

func (b *planBuilder) upgrade(subject model.SubjectID, newTier int, at time.Time) {
	b.plan.Mutations = append(b.plan.Mutations, model.BadgeMutation{
		Op:        model.MutationUpgradeTier,
		Type:      model.BadgeEvent,
		SubjectID: subject,
		Variant:   newTier,
		Timestamp: at,
	})
	b.signal(model.Signal{
		Type:      model.SignalBadgeAwarded,
		UserID:    b.userID,
		SubjectID: subject,
		BadgeType: model.BadgeEvent,
		Variant:   newTier,
		Timestamp: at,
	})
}

func (b *planBuilder) retract(badge *model.Badge, lost bool) {
	b.plan.Mutations = append(b.plan.Mutations, model.BadgeMutation{
		Op:        model.MutationRetract,
		Type:      badge.Type,
		SubjectID: badge.SubjectID,
		Variant:   badge.Variant,
	})
	if lost {
		b.signal(model.Signal{
			Type:      model.SignalBadgeLost,
			UserID:    b.userID,
			SubjectID: badge.SubjectID,
			BadgeType: badge.Type,
			Variant:   badge.Variant,
		})
	}
}

func (b *planBuilder) signal(sig model.Signal) {
	b.plan.Signals = append(b.plan.Signals, sig)
}

func findBadge(ledger []*model.Badge, badgeType model.BadgeType, subject model.SubjectID, variant int) *model.Badge {
	for _, badge := range ledger {
		if badge.Type == badgeType && badge.SubjectID == subject && badge.Variant == variant {
			return badge
		}
	}
	return nil
}

// findEventBadge matches on (type, subject) only: event badge tiers mutate in
// place and are never duplicated per tier.
func findEventBadge(ledger []*model.Badge, subject model.SubjectID) *model.Badge {
	for _, badge := range ledger {
		if badge.Type == model.BadgeEvent && badge.SubjectID == subject {
			return badge
		}
	}
	return nil
}

func nextDisplayOrder(ledger []*model.Badge) int {
	next := 1
	for _, badge := range ledger {
		if badge.DisplayOrder >= next {
			next = badge.DisplayOrder + 1
		}
	}
	return next
}

func withinRecentWindow(now, t time.Time) bool {
	return !t.Before(now.Add(-RecentWindow))
}
