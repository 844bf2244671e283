package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stridelabs/stride/domain/store"
	"github.com/stridelabs/stride/domain/workout"
	"github.com/stridelabs/stride/internal/database"
)

// SummaryStore implements workout.SummaryStore. Status transitions are
// guarded in SQL: a summary leaves pending exactly once.
type SummaryStore struct {
	database.Repository[workout.Summary, SummaryModel]
}

// NewSummaryStore creates a SummaryStore.
func NewSummaryStore(db database.Database) *SummaryStore {
	return &SummaryStore{
		Repository: database.NewRepository[workout.Summary, SummaryModel](db, SummaryMapper{}, "summary"),
	}
}

// Create persists a new pending summary.
func (s *SummaryStore) Create(ctx context.Context, workoutID, ownerID string) (workout.Summary, error) {
	model := s.Mapper().ToModel(workout.NewSummary(workoutID, ownerID))
	model.ID = uuid.NewString()
	if err := s.DB(ctx).Create(&model).Error; err != nil {
		return workout.Summary{}, fmt.Errorf("create summary: %w", err)
	}
	return s.Mapper().ToDomain(model), nil
}

// MarkCompleted transitions a pending summary to completed with its
// generated content.
func (s *SummaryStore) MarkCompleted(ctx context.Context, id, text string, facts workout.Facts) (workout.Summary, error) {
	factsJSON := ""
	if !facts.IsZero() {
		factsJSON = marshalJSON(facts)
	}
	return s.transition(ctx, id, workout.StatusCompleted, map[string]any{
		"status":     string(workout.StatusCompleted),
		"text":       text,
		"facts":      factsJSON,
		"updated_at": time.Now(),
	})
}

// MarkFailed transitions a pending summary to the terminal failed state.
func (s *SummaryStore) MarkFailed(ctx context.Context, id string) (workout.Summary, error) {
	return s.transition(ctx, id, workout.StatusFailed, map[string]any{
		"status":     string(workout.StatusFailed),
		"updated_at": time.Now(),
	})
}

// transition applies a status change guarded on the pending state, so a
// summary can never be completed or failed twice.
func (s *SummaryStore) transition(ctx context.Context, id string, to workout.SummaryStatus, updates map[string]any) (workout.Summary, error) {
	result := s.DB(ctx).Model(&SummaryModel{}).
		Where("id = ? AND status = ?", id, string(workout.StatusPending)).
		Updates(updates)
	if result.Error != nil {
		return workout.Summary{}, fmt.Errorf("mark summary %s: %w", to, result.Error)
	}
	if result.RowsAffected == 0 {
		return workout.Summary{}, fmt.Errorf("%w: pending summary %s", database.ErrNotFound, id)
	}
	return s.FindByID(ctx, id)
}

// FindByID returns the summary with the given id.
func (s *SummaryStore) FindByID(ctx context.Context, id string) (workout.Summary, error) {
	return s.FindOne(ctx, store.WithID(id))
}

// FindByOwner returns all summaries owned by the given user, newest first.
func (s *SummaryStore) FindByOwner(ctx context.Context, ownerID string) ([]workout.Summary, error) {
	return s.Find(ctx, store.WithOwnerID(ownerID), store.WithOrderDesc("created_at"))
}

// FindByWorkout returns the summary for the given workout.
func (s *SummaryStore) FindByWorkout(ctx context.Context, workoutID string) (workout.Summary, error) {
	return s.FindOne(ctx, store.WithCondition("workout_id", workoutID))
}

// DeleteByWorkout removes the summary for the given workout.
func (s *SummaryStore) DeleteByWorkout(ctx context.Context, workoutID string) error {
	return s.DeleteBy(ctx, store.WithCondition("workout_id", workoutID))
}

var _ workout.SummaryStore = (*SummaryStore)(nil)
