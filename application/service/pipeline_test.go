package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride/domain/achievement"
	"github.com/stridelabs/stride/domain/event"
	"github.com/stridelabs/stride/domain/workout"
)

// TestPipeline_FirstWorkoutUnlocksBronze runs the full chain on a
// synchronous bus: recording a workout generates a summary, which drives
// the achievement engine, which awards XP.
func TestPipeline_FirstWorkoutUnlocksBronze(t *testing.T) {
	env := newTestEnv(t)
	recorder := recordEvents(env.bus)
	ctx := context.Background()

	def := seedAchievement(t, env, "First Steps", achievement.TypeCumulative, 100,
		achievement.NewTier(achievement.TierBronze, 1),
		achievement.NewTier(achievement.TierSilver, 10),
	)

	users := NewUsers(env.users, env.bus, nil)
	workouts := NewWorkouts(env.workouts, env.summaries, env.users, env.bus, nil)
	summaries := newSummariesService(env)
	achievements := NewAchievements(env.achievements, env.progress, users, env.chat, env.bus, nil)
	summaries.Register(env.bus)
	achievements.Register(env.bus)

	env.chat.queue(
		`{"summaryText":"A strong first workout."}`,
		"Congratulations on your first workout!",
	)

	recorded, err := workouts.Record(ctx, workout.NewWorkout("u1", "First ever", "Full body", nil, time.Now()))
	require.NoError(t, err)

	// Summary completed and indexed.
	s, err := env.summaries.FindByWorkout(ctx, recorded.ID())
	require.NoError(t, err)
	require.Equal(t, workout.StatusCompleted, s.Status())

	// First-ever completion lands exactly on the bronze threshold.
	p, err := env.progress.GetOrCreate(ctx, "u1", def.ID())
	require.NoError(t, err)
	require.Equal(t, achievement.TierBronze, p.CurrentTier())
	require.Equal(t, int64(1), p.Value())
	require.Len(t, p.History(), 1)
	require.Equal(t, "Congratulations on your first workout!", p.History()[0].Message())

	unlocks := recorder.ofType(event.TypeAchievementUnlocked)
	require.Len(t, unlocks, 1)
	require.Equal(t, "bronze", unlocks[0].(event.AchievementUnlocked).Tier)

	stats, err := env.users.GetStats(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(100), stats.TotalXP())
}
