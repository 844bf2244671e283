package workout

import "time"

// Exercise is one structured entry within a workout.
type Exercise struct {
	Name            string   `json:"name"`
	Sets            *int     `json:"sets,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	WeightKg        *float64 `json:"weightKg,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	DistanceKm      *float64 `json:"distanceKm,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// Workout is a user-posted training session. The summary pipeline treats
// it as read-only input.
type Workout struct {
	id          string
	ownerID     string
	title       string
	description string
	exercises   []Exercise
	performedAt time.Time
	createdAt   time.Time
}

// NewWorkout creates a workout for new instances (not yet persisted).
func NewWorkout(ownerID, title, description string, exercises []Exercise, performedAt time.Time) Workout {
	ex := make([]Exercise, len(exercises))
	copy(ex, exercises)
	return Workout{
		ownerID:     ownerID,
		title:       title,
		description: description,
		exercises:   ex,
		performedAt: performedAt,
		createdAt:   time.Now(),
	}
}

// RestoreWorkout reconstructs a persisted workout.
func RestoreWorkout(id, ownerID, title, description string, exercises []Exercise, performedAt, createdAt time.Time) Workout {
	w := NewWorkout(ownerID, title, description, exercises, performedAt)
	w.id = id
	w.createdAt = createdAt
	return w
}

// ID returns the workout identifier.
func (w Workout) ID() string { return w.id }

// OwnerID returns the owning user id.
func (w Workout) OwnerID() string { return w.ownerID }

// Title returns the workout title.
func (w Workout) Title() string { return w.title }

// Description returns the free-form description.
func (w Workout) Description() string { return w.description }

// Exercises returns the structured exercise list (copy).
func (w Workout) Exercises() []Exercise {
	result := make([]Exercise, len(w.exercises))
	copy(result, w.exercises)
	return result
}

// PerformedAt returns when the workout took place.
func (w Workout) PerformedAt() time.Time { return w.performedAt }

// CreatedAt returns the creation time.
func (w Workout) CreatedAt() time.Time { return w.createdAt }
