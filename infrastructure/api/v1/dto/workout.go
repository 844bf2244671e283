package dto

import (
	"time"

	"github.com/stridelabs/stride/domain/workout"
)

// RecordWorkoutRequest is the body of POST /api/v1/workouts.
type RecordWorkoutRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Exercises   []workout.Exercise `json:"exercises,omitempty"`
	PerformedAt *time.Time         `json:"performed_at,omitempty"`
}

// WorkoutResponse represents a recorded workout.
type WorkoutResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Exercises   []workout.Exercise `json:"exercises,omitempty"`
	PerformedAt time.Time          `json:"performed_at"`
	CreatedAt   time.Time          `json:"created_at"`
}

// SummaryResponse represents a workout summary.
type SummaryResponse struct {
	ID        string        `json:"id"`
	WorkoutID string        `json:"workout_id"`
	Status    string        `json:"status"`
	Text      string        `json:"text,omitempty"`
	Facts     workout.Facts `json:"facts,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
