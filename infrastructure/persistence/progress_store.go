package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stridelabs/stride/domain/achievement"
	"github.com/stridelabs/stride/domain/store"
	"github.com/stridelabs/stride/internal/database"
)

// ProgressStore implements achievement.ProgressStore with optimistic
// version checks on Save.
type ProgressStore struct {
	database.Repository[achievement.Progress, ProgressModel]
}

// NewProgressStore creates a ProgressStore.
func NewProgressStore(db database.Database) *ProgressStore {
	return &ProgressStore{
		Repository: database.NewRepository[achievement.Progress, ProgressModel](db, ProgressMapper{}, "progress"),
	}
}

// GetOrCreate returns the progress record for the pair, lazily creating
// the initial record.
func (s *ProgressStore) GetOrCreate(ctx context.Context, ownerID, achievementID string) (achievement.Progress, error) {
	model := ProgressModel{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		AchievementID: achievementID,
		CurrentTier:   string(achievement.TierNone),
	}
	// DoNothing keeps an existing row; a concurrent first-touch loses the
	// insert race harmlessly and reads the winner's row below.
	err := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&model).Error
	if err != nil {
		return achievement.Progress{}, fmt.Errorf("create progress: %w", err)
	}

	return s.get(ctx, ownerID, achievementID)
}

// Save persists a progress record only if the stored version still
// matches, bumping it by one. Returns achievement.ErrVersionConflict when
// a concurrent writer got there first.
func (s *ProgressStore) Save(ctx context.Context, p achievement.Progress) (achievement.Progress, error) {
	model := s.Mapper().ToModel(p)

	result := s.DB(ctx).Model(&ProgressModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]any{
			"current_tier":   model.CurrentTier,
			"progress_value": model.ProgressValue,
			"unlocked_at":    model.UnlockedAt,
			"history":        model.HistoryJSON,
			"version":        model.Version + 1,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return achievement.Progress{}, fmt.Errorf("save progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return achievement.Progress{}, achievement.ErrVersionConflict
	}

	return s.get(ctx, p.OwnerID(), p.AchievementID())
}

// ListByOwner returns all progress records for the given user.
func (s *ProgressStore) ListByOwner(ctx context.Context, ownerID string) ([]achievement.Progress, error) {
	return s.Find(ctx, store.WithOwnerID(ownerID), store.WithOrderAsc("created_at"))
}

func (s *ProgressStore) get(ctx context.Context, ownerID, achievementID string) (achievement.Progress, error) {
	var model ProgressModel
	result := s.DB(ctx).
		Where("owner_id = ? AND achievement_id = ?", ownerID, achievementID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return achievement.Progress{}, fmt.Errorf("%w: progress %s/%s", database.ErrNotFound, ownerID, achievementID)
		}
		return achievement.Progress{}, fmt.Errorf("get progress: %w", result.Error)
	}
	return s.Mapper().ToDomain(model), nil
}

var _ achievement.ProgressStore = (*ProgressStore)(nil)
