package workout

import "context"

// Store defines persistence operations for workouts.
type Store interface {
	// Create persists a new workout.
	Create(ctx context.Context, w Workout) (Workout, error)

	// FindByID returns the workout with the given id.
	FindByID(ctx context.Context, id string) (Workout, error)

	// FindByOwner returns all workouts owned by the given user.
	FindByOwner(ctx context.Context, ownerID string) ([]Workout, error)
}

// SummaryStore defines persistence operations for workout summaries.
// At most one summary exists per workout.
type SummaryStore interface {
	// Create persists a new pending summary.
	Create(ctx context.Context, workoutID, ownerID string) (Summary, error)

	// MarkCompleted transitions a summary to completed with its generated
	// content. The caller is responsible for publishing the summary-completed
	// event afterwards; the store only mutates state.
	MarkCompleted(ctx context.Context, id, text string, facts Facts) (Summary, error)

	// MarkFailed transitions a summary to the terminal failed state.
	// No downstream signal is emitted for failed summaries.
	MarkFailed(ctx context.Context, id string) (Summary, error)

	// FindByID returns the summary with the given id.
	FindByID(ctx context.Context, id string) (Summary, error)

	// FindByOwner returns all summaries owned by the given user.
	FindByOwner(ctx context.Context, ownerID string) ([]Summary, error)

	// FindByWorkout returns the summary for the given workout.
	FindByWorkout(ctx context.Context, workoutID string) (Summary, error)

	// DeleteByWorkout removes the summary for the given workout.
	DeleteByWorkout(ctx context.Context, workoutID string) error
}
