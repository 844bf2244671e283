package persistence

import (
	"github.com/stridelabs/stride/internal/database"
)

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(allModels()...)
}

// allModels returns every GORM model that AutoMigrate manages.
func allModels() []interface{} {
	return []interface{}{
		&WorkoutModel{},
		&SummaryModel{},
		&EmbeddingModel{},
		&ProfileModel{},
		&AchievementModel{},
		&ProgressModel{},
		&UserModel{},
	}
}
