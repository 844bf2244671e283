package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/stridelabs/stride/domain/store"
	"github.com/stridelabs/stride/domain/user"
	"github.com/stridelabs/stride/internal/database"
)

// UserStore implements user.Store.
type UserStore struct {
	database.Repository[user.Stats, UserModel]
}

// NewUserStore creates a UserStore.
func NewUserStore(db database.Database) *UserStore {
	return &UserStore{
		Repository: database.NewRepository[user.Stats, UserModel](db, UserMapper{}, "user"),
	}
}

// Exists reports whether a user record exists.
func (s *UserStore) Exists(ctx context.Context, ownerID string) (bool, error) {
	return s.Repository.Exists(ctx, store.WithID(ownerID))
}

// EnsureExists creates the user record if absent.
func (s *UserStore) EnsureExists(ctx context.Context, ownerID string) error {
	model := UserModel{ID: ownerID}
	err := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", ownerID, err)
	}
	return nil
}

// GetStats returns the stats for a user.
func (s *UserStore) GetStats(ctx context.Context, ownerID string) (user.Stats, error) {
	stats, err := s.FindOne(ctx, store.WithID(ownerID))
	if errors.Is(err, database.ErrNotFound) {
		return user.Stats{}, fmt.Errorf("%w: %s", user.ErrNotFound, ownerID)
	}
	if err != nil {
		return user.Stats{}, err
	}
	return stats, nil
}

// SaveStats persists a stats record.
func (s *UserStore) SaveStats(ctx context.Context, stats user.Stats) error {
	result := s.DB(ctx).Model(&UserModel{}).
		Where("id = ?", stats.OwnerID()).
		Updates(map[string]any{
			"total_xp":   stats.TotalXP(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("save user stats: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", user.ErrNotFound, stats.OwnerID())
	}
	return nil
}

var _ user.Store = (*UserStore)(nil)
