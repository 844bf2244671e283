package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBus_SynchronousDispatch(t *testing.T) {
	bus := NewBus(WithSynchronousDispatch())

	var got []Event
	bus.Subscribe(TypeWorkoutCreated, func(_ context.Context, e Event) {
		got = append(got, e)
	})

	bus.Publish(context.Background(), WorkoutCreated{OwnerID: "u1", WorkoutID: "w1"})
	require.Len(t, got, 1)
	require.Equal(t, TypeWorkoutCreated, got[0].EventType())
	require.Equal(t, "u1", got[0].Owner())
}

func TestBus_TypeFiltering(t *testing.T) {
	bus := NewBus(WithSynchronousDispatch())

	var workouts, xp int
	bus.Subscribe(TypeWorkoutCreated, func(_ context.Context, _ Event) { workouts++ })
	bus.Subscribe(TypeXPEarned, func(_ context.Context, _ Event) { xp++ })

	bus.Publish(context.Background(), WorkoutCreated{OwnerID: "u1"})
	bus.Publish(context.Background(), XPEarned{OwnerID: "u1", Amount: 50})

	require.Equal(t, 1, workouts)
	require.Equal(t, 1, xp)
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(WithSynchronousDispatch())

	var count int
	bus.SubscribeAll(func(_ context.Context, _ Event) { count++ })

	bus.Publish(context.Background(), WorkoutCreated{OwnerID: "u1"})
	bus.Publish(context.Background(), AchievementUnlocked{OwnerID: "u1", Tier: "bronze"})
	require.Equal(t, 2, count)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(WithSynchronousDispatch())

	var count int
	unsub := bus.Subscribe(TypeWorkoutCreated, func(_ context.Context, _ Event) { count++ })

	bus.Publish(context.Background(), WorkoutCreated{OwnerID: "u1"})
	unsub()
	unsub() // safe to call twice
	bus.Publish(context.Background(), WorkoutCreated{OwnerID: "u1"})

	require.Equal(t, 1, count)
}

func TestBus_AsyncDispatch(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var got []string
	bus.Subscribe(TypeSummaryCompleted, func(_ context.Context, e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.Owner())
	})

	bus.Publish(context.Background(), SummaryCompleted{OwnerID: "u1", OccurredAt: time.Now()})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"u1"}, got)
}
