package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stridelabs/stride/domain/event"
	"github.com/stridelabs/stride/domain/user"
	"github.com/stridelabs/stride/domain/workout"
)

// Workouts records user workouts and kicks off the summary pipeline.
type Workouts struct {
	workouts  workout.Store
	summaries workout.SummaryStore
	users     user.Store
	bus       event.Publisher
	logger    *slog.Logger
}

// NewWorkouts creates a Workouts service.
func NewWorkouts(workouts workout.Store, summaries workout.SummaryStore, users user.Store, bus event.Publisher, logger *slog.Logger) *Workouts {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workouts{
		workouts:  workouts,
		summaries: summaries,
		users:     users,
		bus:       bus,
		logger:    logger,
	}
}

// Record persists a workout, makes sure the owner has a user record for
// later XP awards, and publishes WorkoutCreated.
func (s *Workouts) Record(ctx context.Context, w workout.Workout) (workout.Workout, error) {
	if err := s.users.EnsureExists(ctx, w.OwnerID()); err != nil {
		return workout.Workout{}, err
	}

	created, err := s.workouts.Create(ctx, w)
	if err != nil {
		return workout.Workout{}, fmt.Errorf("record workout: %w", err)
	}

	s.logger.Info("workout recorded", "workout_id", created.ID(), "owner_id", created.OwnerID())
	s.bus.Publish(ctx, event.WorkoutCreated{
		OwnerID:    created.OwnerID(),
		WorkoutID:  created.ID(),
		OccurredAt: time.Now(),
	})
	return created, nil
}

// SummaryByWorkout returns the summary generated for a workout.
func (s *Workouts) SummaryByWorkout(ctx context.Context, workoutID string) (workout.Summary, error) {
	return s.summaries.FindByWorkout(ctx, workoutID)
}
