package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride/domain/profile"
	"github.com/stridelabs/stride/internal/database"
)

func TestProfiles_Get_NotFoundWithoutProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfiles(env.profiles, env.progress, env.users, nil)

	_, err := svc.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestProfiles_Get_AggregatesStatsAndProgress(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfiles(env.profiles, env.progress, env.users, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, profile.NewProfile("u1", "Marathon prep", nil, profile.Biometrics{}))
	require.NoError(t, err)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Marathon prep", got.Profile.SummaryText())
	require.Equal(t, int64(1), got.Profile.Version())

	// No stats row yet: XP defaults to zero at level 1.
	require.Equal(t, int64(0), got.TotalXP)
	require.Equal(t, int64(1), got.Level)
}
