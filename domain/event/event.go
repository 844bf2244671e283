// Package event provides the in-process event bus that connects workout
// ingestion to summary generation, achievement processing, and client
// notifications. The bus is an explicit dependency injected into the
// services that use it, never a package-level singleton.
package event

import "time"

// Type identifies a kind of domain event.
type Type string

// Event types.
const (
	TypeWorkoutCreated      Type = "workout.created"
	TypeSummaryCompleted    Type = "summary.completed"
	TypeAchievementUnlocked Type = "achievement.unlocked"
	TypeXPEarned            Type = "xp.earned"
)

// Event is a domain event carried by the bus.
type Event interface {
	// EventType returns the event's type.
	EventType() Type
	// Owner returns the id of the user the event concerns.
	Owner() string
}

// WorkoutCreated fires when a workout has been persisted.
type WorkoutCreated struct {
	OwnerID    string
	WorkoutID  string
	OccurredAt time.Time
}

// EventType implements Event.
func (e WorkoutCreated) EventType() Type { return TypeWorkoutCreated }

// Owner implements Event.
func (e WorkoutCreated) Owner() string { return e.OwnerID }

// SummaryCompleted fires when a workout summary has been generated and
// indexed.
type SummaryCompleted struct {
	OwnerID    string
	WorkoutID  string
	SummaryID  string
	OccurredAt time.Time
}

// EventType implements Event.
func (e SummaryCompleted) EventType() Type { return TypeSummaryCompleted }

// Owner implements Event.
func (e SummaryCompleted) Owner() string { return e.OwnerID }

// AchievementUnlocked fires once per tier crossed, in ascending tier
// order.
type AchievementUnlocked struct {
	OwnerID         string
	AchievementID   string
	AchievementName string
	Tier            string
	Message         string
	XPAwarded       int64
	OccurredAt      time.Time
}

// EventType implements Event.
func (e AchievementUnlocked) EventType() Type { return TypeAchievementUnlocked }

// Owner implements Event.
func (e AchievementUnlocked) Owner() string { return e.OwnerID }

// XPEarned fires when a user's XP total changes.
type XPEarned struct {
	OwnerID    string
	Amount     int64
	TotalXP    int64
	Level      int64
	OccurredAt time.Time
}

// EventType implements Event.
func (e XPEarned) EventType() Type { return TypeXPEarned }

// Owner implements Event.
func (e XPEarned) Owner() string { return e.OwnerID }
