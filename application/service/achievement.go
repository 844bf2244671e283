package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stridelabs/stride/domain/achievement"
	"github.com/stridelabs/stride/domain/event"
	"github.com/stridelabs/stride/infrastructure/provider"
)

// saveRetries bounds reload-and-retry on concurrent progress updates.
const saveRetries = 3

// Achievements walks the achievement definitions on every completed
// workout summary, advancing per-user progress and unlocking tiers in
// order.
type Achievements struct {
	definitions achievement.DefinitionStore
	progress    achievement.ProgressStore
	users       *Users
	chat        provider.TextGenerator
	bus         event.Publisher
	logger      *slog.Logger
}

// NewAchievements creates an Achievements service.
func NewAchievements(
	definitions achievement.DefinitionStore,
	progress achievement.ProgressStore,
	users *Users,
	chat provider.TextGenerator,
	bus event.Publisher,
	logger *slog.Logger,
) *Achievements {
	if logger == nil {
		logger = slog.Default()
	}
	return &Achievements{
		definitions: definitions,
		progress:    progress,
		users:       users,
		chat:        chat,
		bus:         bus,
		logger:      logger,
	}
}

// Register subscribes the service to SummaryCompleted events.
func (s *Achievements) Register(bus *event.Bus) event.UnsubscribeFunc {
	return bus.Subscribe(event.TypeSummaryCompleted, func(ctx context.Context, e event.Event) {
		completed, ok := e.(event.SummaryCompleted)
		if !ok {
			return
		}
		if err := s.HandleSummaryCompleted(ctx, completed); err != nil {
			s.logger.Error("achievement processing failed",
				"owner_id", completed.OwnerID, "error", err)
		}
	})
}

// HandleSummaryCompleted advances every active achievement for the owner
// of a completed summary. One failing achievement does not stop the rest.
func (s *Achievements) HandleSummaryCompleted(ctx context.Context, e event.SummaryCompleted) error {
	definitions, err := s.definitions.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list achievements: %w", err)
	}

	var firstErr error
	for _, def := range definitions {
		if err := s.advance(ctx, e.OwnerID, def); err != nil {
			s.logger.Error("achievement update failed",
				"owner_id", e.OwnerID, "achievement", def.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// advance increments progress for one achievement and unlocks every tier
// whose threshold the new value reaches, in ascending order. The write is
// an optimistic-concurrency save: on version conflict the progress is
// reloaded and the whole step reapplied.
func (s *Achievements) advance(ctx context.Context, ownerID string, def achievement.Definition) error {
	delta := def.ProgressIncrement()
	if delta == 0 {
		return nil
	}

	for attempt := 0; attempt <= saveRetries; attempt++ {
		current, err := s.progress.GetOrCreate(ctx, ownerID, def.ID())
		if err != nil {
			return err
		}

		updated := current.Increment(delta)

		var unlocks []achievement.Unlock
		for _, tier := range def.TiersAfter(updated.CurrentTier()) {
			if updated.Value() < tier.Threshold() {
				break
			}
			now := time.Now()
			message := s.congratulate(ctx, def.Name(), string(tier.Level()))
			updated = updated.Advance(tier.Level(), now, message)
			unlocks = append(unlocks, achievement.NewUnlock(tier.Level(), now, message))
		}

		if _, err := s.progress.Save(ctx, updated); err != nil {
			if errors.Is(err, achievement.ErrVersionConflict) {
				continue
			}
			return err
		}

		// Side effects fire only after the save wins, so a retried
		// conflict never double-awards.
		for _, u := range unlocks {
			s.bus.Publish(ctx, event.AchievementUnlocked{
				OwnerID:         ownerID,
				AchievementID:   def.ID(),
				AchievementName: def.Name(),
				Tier:            string(u.Tier()),
				Message:         u.Message(),
				XPAwarded:       def.XPReward(),
				OccurredAt:      u.UnlockedAt(),
			})
			if err := s.users.AwardXP(ctx, ownerID, def.XPReward()); err != nil {
				s.logger.Warn("xp award failed",
					"owner_id", ownerID, "achievement", def.Name(), "error", err)
			}
		}
		return nil
	}
	return fmt.Errorf("achievement %q: %w", def.Name(), achievement.ErrVersionConflict)
}

// congratulate asks the model for a one-line congratulation. Best effort:
// any failure logs and returns an empty message, never blocking the
// unlock.
func (s *Achievements) congratulate(ctx context.Context, name, tier string) string {
	resp, err := s.chat.ChatCompletion(ctx, provider.NewChatCompletionRequest(
		provider.CongratulationMessages(name, tier),
		provider.WithMaxTokens(60),
	))
	if err != nil {
		s.logger.Warn("congratulation message generation failed",
			"achievement", name, "tier", tier, "error", err)
		return ""
	}
	return resp.Content()
}

// ListDefinitions returns all active achievement definitions.
func (s *Achievements) ListDefinitions(ctx context.Context) ([]achievement.Definition, error) {
	return s.definitions.ListActive(ctx)
}

// ProgressFor returns the caller's progress records.
func (s *Achievements) ProgressFor(ctx context.Context, ownerID string) ([]achievement.Progress, error) {
	return s.progress.ListByOwner(ctx, ownerID)
}
