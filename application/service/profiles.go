package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stridelabs/stride/domain/achievement"
	"github.com/stridelabs/stride/domain/profile"
	"github.com/stridelabs/stride/domain/user"
)

// AggregatedProfile is the read-time join of a user's profile, progress
// and XP snapshot.
type AggregatedProfile struct {
	Profile  profile.Profile
	Progress []achievement.Progress
	TotalXP  int64
	Level    int64
}

// Profiles serves and updates user profiles.
type Profiles struct {
	profiles profile.Store
	progress achievement.ProgressStore
	users    user.Store
	logger   *slog.Logger
}

// NewProfiles creates a Profiles service.
func NewProfiles(profiles profile.Store, progress achievement.ProgressStore, users user.Store, logger *slog.Logger) *Profiles {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiles{
		profiles: profiles,
		progress: progress,
		users:    users,
		logger:   logger,
	}
}

// Get returns the aggregated view for one user. A user without a stored
// profile gets database.ErrNotFound; XP defaults to level 1 with zero
// total when no stats row exists yet.
func (s *Profiles) Get(ctx context.Context, ownerID string) (AggregatedProfile, error) {
	p, err := s.profiles.Get(ctx, ownerID)
	if err != nil {
		return AggregatedProfile{}, fmt.Errorf("load profile: %w", err)
	}

	progress, err := s.progress.ListByOwner(ctx, ownerID)
	if err != nil {
		return AggregatedProfile{}, err
	}

	stats, err := s.users.GetStats(ctx, ownerID)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return AggregatedProfile{}, err
	}
	if errors.Is(err, user.ErrNotFound) {
		stats = user.NewStats(ownerID)
	}

	return AggregatedProfile{
		Profile:  p,
		Progress: progress,
		TotalXP:  stats.TotalXP(),
		Level:    stats.Level(),
	}, nil
}

// Update upserts the user's profile, bumping its version.
func (s *Profiles) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	return s.profiles.Upsert(ctx, p)
}
