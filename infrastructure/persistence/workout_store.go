package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stridelabs/stride/domain/store"
	"github.com/stridelabs/stride/domain/workout"
	"github.com/stridelabs/stride/internal/database"
)

// WorkoutStore implements workout.Store.
type WorkoutStore struct {
	database.Repository[workout.Workout, WorkoutModel]
}

// NewWorkoutStore creates a WorkoutStore.
func NewWorkoutStore(db database.Database) *WorkoutStore {
	return &WorkoutStore{
		Repository: database.NewRepository[workout.Workout, WorkoutModel](db, WorkoutMapper{}, "workout"),
	}
}

// Create persists a new workout.
func (s *WorkoutStore) Create(ctx context.Context, w workout.Workout) (workout.Workout, error) {
	model := s.Mapper().ToModel(w)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	if err := s.DB(ctx).Create(&model).Error; err != nil {
		return workout.Workout{}, fmt.Errorf("create workout: %w", err)
	}
	return s.Mapper().ToDomain(model), nil
}

// FindByID returns the workout with the given id.
func (s *WorkoutStore) FindByID(ctx context.Context, id string) (workout.Workout, error) {
	return s.FindOne(ctx, store.WithID(id))
}

// FindByOwner returns all workouts owned by the given user, newest first.
func (s *WorkoutStore) FindByOwner(ctx context.Context, ownerID string) ([]workout.Workout, error) {
	return s.Find(ctx, store.WithOwnerID(ownerID), store.WithOrderDesc("performed_at"))
}

var _ workout.Store = (*WorkoutStore)(nil)
