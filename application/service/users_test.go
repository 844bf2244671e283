package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride/domain/event"
)

func TestUsers_AwardXP(t *testing.T) {
	env := newTestEnv(t)
	recorder := recordEvents(env.bus)
	svc := NewUsers(env.users, env.bus, nil)
	ctx := context.Background()

	require.NoError(t, env.users.EnsureExists(ctx, "u1"))
	require.NoError(t, svc.AwardXP(ctx, "u1", 950))

	stats, err := svc.Stats(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(950), stats.TotalXP())
	require.Equal(t, int64(1), stats.Level())

	// Crossing 1000 total XP moves the user to level 2.
	require.NoError(t, svc.AwardXP(ctx, "u1", 100))
	stats, err = svc.Stats(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(1050), stats.TotalXP())
	require.Equal(t, int64(2), stats.Level())

	earned := recorder.ofType(event.TypeXPEarned)
	require.Len(t, earned, 2)
	last := earned[1].(event.XPEarned)
	require.Equal(t, int64(100), last.Amount)
	require.Equal(t, int64(1050), last.TotalXP)
	require.Equal(t, int64(2), last.Level)
}

func TestUsers_AwardXP_UnknownUserNoOp(t *testing.T) {
	env := newTestEnv(t)
	recorder := recordEvents(env.bus)
	svc := NewUsers(env.users, env.bus, nil)

	require.NoError(t, svc.AwardXP(context.Background(), "nobody", 100))
	require.Empty(t, recorder.ofType(event.TypeXPEarned))
}
