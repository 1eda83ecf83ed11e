package award

import (
	"context"
	"log/slog"
	"time"

	"github.com/playtrackhq/playtrack/internal/model"
)

// EvaluateDeveloperYield computes the plan for a developer's yield statistic
// (total unlocks granted or points granted by their achievements) moving from
// oldValue to newValue. A badge is awarded for the highest threshold newly
// crossed; already-held tiers are left alone. Pure, like Evaluate.
func (s *Service) EvaluateDeveloperYield(userID model.UserID, ledger []*model.Badge, kind model.BadgeType, oldValue, newValue int, now time.Time) Plan {
	b := &planBuilder{userID: userID}

	tier, ok := model.NewBadgeTier(kind, oldValue, newValue)
	if !ok {
		return b.plan
	}

	// Developer yield badges have no subject; identity is (owner, kind, tier).
	if findBadge(ledger, kind, "", tier) != nil {
		return b.plan
	}

	b.award(kind, "", tier, now)
	return b.plan
}

// RevalidateDeveloperYield applies EvaluateDeveloperYield against storage and
// dispatches the resulting signals.
func (s *Service) RevalidateDeveloperYield(ctx context.Context, userID model.UserID, kind model.BadgeType, oldValue, newValue int) (Plan, error) {
	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		return Plan{}, err
	}

	ledger, err := s.storage.ListBadgesForUser(ctx, userID)
	if err != nil {
		return Plan{}, err
	}

	plan := s.EvaluateDeveloperYield(userID, ledger, kind, oldValue, newValue, s.clock.Now())
	if plan.Empty() {
		return plan, nil
	}

	if err := s.apply(ctx, userID, ledger, plan); err != nil {
		return Plan{}, err
	}

	for _, sig := range plan.Signals {
		s.sink.Dispatch(ctx, sig)
	}

	s.logger.Info("developer yield revalidated",
		slog.String("user_id", string(userID)),
		slog.String("badge_type", string(kind)),
		slog.Int("new_value", newValue),
	)

	return plan, nil
}
