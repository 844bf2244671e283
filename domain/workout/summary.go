// Package workout provides domain types for workouts and their
// AI-generated summaries.
package workout

import "time"

// SummaryStatus represents the lifecycle state of a workout summary.
type SummaryStatus string

// Summary status constants. A summary is created pending and transitions to
// completed or failed exactly once; failed is terminal.
const (
	StatusPending   SummaryStatus = "pending"
	StatusCompleted SummaryStatus = "completed"
	StatusFailed    SummaryStatus = "failed"
)

// Facts holds the structured facts extracted from a workout summary.
// Known keys are typed; anything else the model produced lands in Extra.
type Facts struct {
	Volume          string         `json:"volume,omitempty"`
	Intensity       string         `json:"intensity,omitempty"`
	FocusPoints     []string       `json:"focusPoints,omitempty"`
	Calories        *int           `json:"calories,omitempty"`
	DurationMinutes *int           `json:"durationMinutes,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// IsZero reports whether no fact fields are populated.
func (f Facts) IsZero() bool {
	return f.Volume == "" && f.Intensity == "" && len(f.FocusPoints) == 0 &&
		f.Calories == nil && f.DurationMinutes == nil && len(f.Extra) == 0
}

// Summary is an AI-generated summary of a single workout.
type Summary struct {
	id        string
	workoutID string
	ownerID   string
	status    SummaryStatus
	text      string
	facts     Facts
	createdAt time.Time
	updatedAt time.Time
}

// NewSummary creates a pending summary for a workout (not yet persisted).
func NewSummary(workoutID, ownerID string) Summary {
	now := time.Now()
	return Summary{
		workoutID: workoutID,
		ownerID:   ownerID,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreSummary reconstructs a persisted summary.
func RestoreSummary(id, workoutID, ownerID string, status SummaryStatus, text string, facts Facts, createdAt, updatedAt time.Time) Summary {
	return Summary{
		id:        id,
		workoutID: workoutID,
		ownerID:   ownerID,
		status:    status,
		text:      text,
		facts:     facts,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the summary identifier.
func (s Summary) ID() string { return s.id }

// WorkoutID returns the workout this summary describes.
func (s Summary) WorkoutID() string { return s.workoutID }

// OwnerID returns the owning user id.
func (s Summary) OwnerID() string { return s.ownerID }

// Status returns the lifecycle status.
func (s Summary) Status() SummaryStatus { return s.status }

// Text returns the generated summary text.
func (s Summary) Text() string { return s.text }

// Facts returns the structured summary facts.
func (s Summary) Facts() Facts { return s.facts }

// CreatedAt returns the creation time.
func (s Summary) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the last update time.
func (s Summary) UpdatedAt() time.Time { return s.updatedAt }
