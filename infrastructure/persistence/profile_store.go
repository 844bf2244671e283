package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stridelabs/stride/domain/profile"
	"github.com/stridelabs/stride/internal/database"
)

// ProfileStore implements profile.Store with upsert-by-owner semantics.
type ProfileStore struct {
	database.Repository[profile.Profile, ProfileModel]
}

// NewProfileStore creates a ProfileStore.
func NewProfileStore(db database.Database) *ProfileStore {
	return &ProfileStore{
		Repository: database.NewRepository[profile.Profile, ProfileModel](db, ProfileMapper{}, "profile"),
	}
}

// Upsert creates or fully replaces the owner's profile. The version
// counter increments on every update; a fresh profile starts at 1.
func (s *ProfileStore) Upsert(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	model := s.Mapper().ToModel(p)
	model.Version = 1
	model.UpdatedAt = time.Now()

	err := s.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"summary_text": model.SummaryText,
			"summary_json": model.SummaryJSON,
			"biometrics":   model.BiometricsJSON,
			"version":      gorm.Expr("user_profiles.version + 1"),
			"updated_at":   model.UpdatedAt,
		}),
	}).Create(&model).Error
	if err != nil {
		return profile.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}

	return s.Get(ctx, p.OwnerID())
}

// Get returns the profile for the given owner.
func (s *ProfileStore) Get(ctx context.Context, ownerID string) (profile.Profile, error) {
	var model ProfileModel
	result := s.DB(ctx).Where("owner_id = ?", ownerID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return profile.Profile{}, fmt.Errorf("%w: profile for %s", database.ErrNotFound, ownerID)
		}
		return profile.Profile{}, fmt.Errorf("get profile: %w", result.Error)
	}
	return s.Mapper().ToDomain(model), nil
}

var _ profile.Store = (*ProfileStore)(nil)
