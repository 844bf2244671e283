// Package persistence provides database storage implementations.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Float64Slice is a custom type for JSON serialization of []float64.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// WorkoutModel is the GORM model for workouts.
type WorkoutModel struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	OwnerID       string    `gorm:"index;type:varchar(36);not null"`
	Title         string    `gorm:"type:varchar(255)"`
	Description   string    `gorm:"type:text"`
	ExercisesJSON string    `gorm:"column:exercises;type:json"`
	PerformedAt   time.Time `gorm:"index"`
	CreatedAt     time.Time
}

// TableName overrides the GORM table name.
func (WorkoutModel) TableName() string { return "workouts" }

// SummaryModel is the GORM model for workout summaries. At most one
// summary exists per workout.
type SummaryModel struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	WorkoutID string `gorm:"uniqueIndex;type:varchar(36);not null"`
	OwnerID   string `gorm:"index;type:varchar(36);not null"`
	Status    string `gorm:"type:varchar(16);not null"`
	Text      string `gorm:"type:text"`
	FactsJSON string `gorm:"column:facts;type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM table name.
func (SummaryModel) TableName() string { return "workout_summaries" }

// EmbeddingModel is the GORM model for stored embedding vectors. The
// (reference_kind, reference_id) pair is unique: re-indexing a summary
// replaces its vector.
type EmbeddingModel struct {
	ID            string       `gorm:"primaryKey;type:varchar(36)"`
	OwnerID       string       `gorm:"index;type:varchar(36);not null"`
	ReferenceKind string       `gorm:"uniqueIndex:idx_embeddings_reference;type:varchar(32);not null"`
	ReferenceID   string       `gorm:"uniqueIndex:idx_embeddings_reference;type:varchar(36);not null"`
	Embedding     Float64Slice `gorm:"type:json;not null"`
	SourceText    string       `gorm:"type:text"`
	CreatedAt     time.Time
}

// TableName overrides the GORM table name.
func (EmbeddingModel) TableName() string { return "embeddings" }

// ProfileModel is the GORM model for user profiles. One row per owner.
type ProfileModel struct {
	OwnerID        string `gorm:"primaryKey;type:varchar(36)"`
	SummaryText    string `gorm:"type:text"`
	SummaryJSON    string `gorm:"column:summary_json;type:json"`
	BiometricsJSON string `gorm:"column:biometrics;type:json"`
	Version        int64  `gorm:"not null;default:0"`
	UpdatedAt      time.Time
}

// TableName overrides the GORM table name.
func (ProfileModel) TableName() string { return "user_profiles" }

// AchievementModel is the GORM model for achievement definitions.
type AchievementModel struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Name        string `gorm:"uniqueIndex;type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(64)"`
	Type        string `gorm:"type:varchar(32);not null"`
	TiersJSON   string `gorm:"column:tiers;type:json"`
	Icon        string `gorm:"type:varchar(64)"`
	XPReward    int64  `gorm:"not null;default:0"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
}

// TableName overrides the GORM table name.
func (AchievementModel) TableName() string { return "achievements" }

// ProgressModel is the GORM model for per-user achievement progress.
// Version implements optimistic concurrency: updates carry a WHERE on the
// previous version.
type ProgressModel struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	OwnerID       string `gorm:"uniqueIndex:idx_progress_owner_achievement;type:varchar(36);not null"`
	AchievementID string `gorm:"uniqueIndex:idx_progress_owner_achievement;type:varchar(36);not null"`
	CurrentTier   string `gorm:"type:varchar(16);not null"`
	ProgressValue int64  `gorm:"not null;default:0"`
	UnlockedAt    *time.Time
	HistoryJSON   string `gorm:"column:history;type:json"`
	Version       int64  `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the GORM table name.
func (ProgressModel) TableName() string { return "achievement_progress" }

// UserModel is the GORM model for users and their XP totals.
type UserModel struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	TotalXP   int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM table name.
func (UserModel) TableName() string { return "users" }
