// Package profile provides the user fitness profile and its coach-facing
// context rendering.
package profile

import (
	"context"
	"time"
)

// Biometrics holds the structured body and performance metrics of a user.
// All fields are optional; nil means not recorded.
type Biometrics struct {
	HeightCm        *float64           `json:"heightCm,omitempty"`
	WeightKg        *float64           `json:"weightKg,omitempty"`
	Age             *int               `json:"age,omitempty"`
	Sex             *string            `json:"sex,omitempty"`
	BodyFatPct      *float64           `json:"bodyFatPct,omitempty"`
	VO2Max          *float64           `json:"vo2Max,omitempty"`
	OneRepMaxKg     map[string]float64 `json:"oneRepMaxKg,omitempty"`
	WorkoutsPerWeek *int               `json:"workoutsPerWeek,omitempty"`
}

// IsZero reports whether no biometric field is recorded.
func (b Biometrics) IsZero() bool {
	return b.HeightCm == nil && b.WeightKg == nil && b.Age == nil && b.Sex == nil &&
		b.BodyFatPct == nil && b.VO2Max == nil && len(b.OneRepMaxKg) == 0 &&
		b.WorkoutsPerWeek == nil
}

// Profile is the per-user fitness profile. One profile exists per user,
// enforced by upsert-by-owner semantics; version increments on every upsert.
type Profile struct {
	ownerID     string
	summaryText string
	summaryJSON map[string]any
	biometrics  Biometrics
	version     int64
	updatedAt   time.Time
}

// NewProfile creates a profile for new instances (not yet persisted).
func NewProfile(ownerID, summaryText string, summaryJSON map[string]any, biometrics Biometrics) Profile {
	return Profile{
		ownerID:     ownerID,
		summaryText: summaryText,
		summaryJSON: summaryJSON,
		biometrics:  biometrics,
		version:     1,
		updatedAt:   time.Now(),
	}
}

// RestoreProfile reconstructs a persisted profile.
func RestoreProfile(ownerID, summaryText string, summaryJSON map[string]any, biometrics Biometrics, version int64, updatedAt time.Time) Profile {
	return Profile{
		ownerID:     ownerID,
		summaryText: summaryText,
		summaryJSON: summaryJSON,
		biometrics:  biometrics,
		version:     version,
		updatedAt:   updatedAt,
	}
}

// OwnerID returns the owning user id.
func (p Profile) OwnerID() string { return p.ownerID }

// SummaryText returns the free-text profile summary.
func (p Profile) SummaryText() string { return p.summaryText }

// SummaryJSON returns the structured profile facts.
func (p Profile) SummaryJSON() map[string]any { return p.summaryJSON }

// Biometrics returns the recorded biometrics.
func (p Profile) Biometrics() Biometrics { return p.biometrics }

// Version returns the monotonic profile version.
func (p Profile) Version() int64 { return p.version }

// UpdatedAt returns the last update time.
func (p Profile) UpdatedAt() time.Time { return p.updatedAt }

// Store defines persistence operations for profiles.
type Store interface {
	// Upsert creates or fully replaces the profile for its owner, bumping
	// the version counter. The returned profile carries the new version.
	Upsert(ctx context.Context, p Profile) (Profile, error)

	// Get returns the profile for the given owner.
	Get(ctx context.Context, ownerID string) (Profile, error)
}
