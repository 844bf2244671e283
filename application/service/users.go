package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stridelabs/stride/domain/event"
	"github.com/stridelabs/stride/domain/user"
)

// Users manages experience points and levels.
type Users struct {
	store  user.Store
	bus    event.Publisher
	logger *slog.Logger
}

// NewUsers creates a Users service.
func NewUsers(store user.Store, bus event.Publisher, logger *slog.Logger) *Users {
	if logger == nil {
		logger = slog.Default()
	}
	return &Users{store: store, bus: bus, logger: logger}
}

// AwardXP adds XP to a user and publishes XPEarned. Awarding to an
// unknown user is a silent no-op, not an error.
func (s *Users) AwardXP(ctx context.Context, ownerID string, amount int64) error {
	stats, err := s.store.GetStats(ctx, ownerID)
	if errors.Is(err, user.ErrNotFound) {
		s.logger.Debug("xp award skipped for unknown user", "owner_id", ownerID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user stats: %w", err)
	}

	updated := stats.Award(amount)
	if err := s.store.SaveStats(ctx, updated); err != nil {
		return fmt.Errorf("save user stats: %w", err)
	}

	s.bus.Publish(ctx, event.XPEarned{
		OwnerID:    ownerID,
		Amount:     amount,
		TotalXP:    updated.TotalXP(),
		Level:      updated.Level(),
		OccurredAt: time.Now(),
	})
	return nil
}

// Stats returns a user's XP snapshot.
func (s *Users) Stats(ctx context.Context, ownerID string) (user.Stats, error) {
	return s.store.GetStats(ctx, ownerID)
}
