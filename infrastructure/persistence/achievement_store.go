package persistence

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm/clause"

	"github.com/stridelabs/stride/domain/achievement"
	"github.com/stridelabs/stride/domain/store"
	"github.com/stridelabs/stride/internal/database"
)

// AchievementStore implements achievement.DefinitionStore.
type AchievementStore struct {
	database.Repository[achievement.Definition, AchievementModel]
}

// NewAchievementStore creates an AchievementStore.
func NewAchievementStore(db database.Database) *AchievementStore {
	return &AchievementStore{
		Repository: database.NewRepository[achievement.Definition, AchievementModel](db, AchievementMapper{}, "achievement"),
	}
}

// ListActive returns all active definitions.
func (s *AchievementStore) ListActive(ctx context.Context) ([]achievement.Definition, error) {
	return s.Find(ctx, store.WithCondition("is_active", true), store.WithOrderAsc("name"))
}

// FindByName returns the definition with the given unique name.
func (s *AchievementStore) FindByName(ctx context.Context, name string) (achievement.Definition, error) {
	return s.FindOne(ctx, store.WithCondition("name", name))
}

// Seed inserts or updates definitions by name. Existing rows keep their
// ids so progress records stay attached across reseeds.
func (s *AchievementStore) Seed(ctx context.Context, definitions []achievement.Definition) error {
	for _, d := range definitions {
		model := s.Mapper().ToModel(d)
		if model.ID == "" {
			model.ID = uuid.NewString()
		}
		err := s.DB(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"description", "category", "type", "tiers", "icon", "xp_reward", "is_active",
			}),
		}).Create(&model).Error
		if err != nil {
			return fmt.Errorf("seed achievement %q: %w", d.Name(), err)
		}
	}
	return nil
}

var _ achievement.DefinitionStore = (*AchievementStore)(nil)

// seedFile is the YAML shape of an achievements seed file.
type seedFile struct {
	Achievements []seedAchievement `yaml:"achievements"`
}

type seedAchievement struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Category    string     `yaml:"category"`
	Type        string     `yaml:"type"`
	Icon        string     `yaml:"icon"`
	XPReward    int64      `yaml:"xpReward"`
	Tiers       []seedTier `yaml:"tiers"`
}

type seedTier struct {
	Level     string `yaml:"level"`
	Threshold int64  `yaml:"threshold"`
}

// LoadSeedFile parses an achievements YAML file into definitions.
func LoadSeedFile(path string) ([]achievement.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read achievements seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed parses achievements seed YAML.
func ParseSeed(raw []byte) ([]achievement.Definition, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse achievements seed: %w", err)
	}

	definitions := make([]achievement.Definition, 0, len(file.Achievements))
	for _, a := range file.Achievements {
		if a.Name == "" {
			return nil, fmt.Errorf("achievements seed: entry with empty name")
		}
		tiers := make([]achievement.Tier, len(a.Tiers))
		for i, t := range a.Tiers {
			tiers[i] = achievement.NewTier(achievement.TierLevel(t.Level), t.Threshold)
		}
		definitions = append(definitions, achievement.NewDefinition(
			a.Name, a.Description, a.Category,
			achievement.Type(a.Type), tiers, a.Icon, a.XPReward,
		))
	}
	return definitions, nil
}
