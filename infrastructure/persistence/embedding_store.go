package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stridelabs/stride/domain/store"
	"github.com/stridelabs/stride/domain/vector"
	"github.com/stridelabs/stride/internal/database"
)

// EmbeddingStore implements vector.Store on the relational database.
// Vectors are stored as JSON; similarity search loads the owner's records
// and ranks them in memory by dot product.
type EmbeddingStore struct {
	database.Repository[vector.Record, EmbeddingModel]
}

// NewEmbeddingStore creates an EmbeddingStore.
func NewEmbeddingStore(db database.Database) *EmbeddingStore {
	return &EmbeddingStore{
		Repository: database.NewRepository[vector.Record, EmbeddingModel](db, EmbeddingMapper{}, "embedding"),
	}
}

// Put inserts a new embedding record.
func (s *EmbeddingStore) Put(ctx context.Context, record vector.Record) (vector.Record, error) {
	model := s.Mapper().ToModel(record)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	if err := s.DB(ctx).Create(&model).Error; err != nil {
		return vector.Record{}, fmt.Errorf("create embedding: %w", err)
	}
	return s.Mapper().ToDomain(model), nil
}

// Replace overwrites the vector and source text of the record matched by
// reference.
func (s *EmbeddingStore) Replace(ctx context.Context, kind vector.ReferenceKind, referenceID string, embedding []float64, sourceText string) (vector.Record, error) {
	result := s.DB(ctx).Model(&EmbeddingModel{}).
		Where("reference_kind = ? AND reference_id = ?", string(kind), referenceID).
		Updates(map[string]any{
			"embedding":   Float64Slice(embedding),
			"source_text": sourceText,
		})
	if result.Error != nil {
		return vector.Record{}, fmt.Errorf("replace embedding: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return vector.Record{}, fmt.Errorf("%w: embedding for %s/%s", database.ErrNotFound, kind, referenceID)
	}
	return s.FindOne(ctx, withReference(kind, referenceID)...)
}

// ListByOwner returns all records owned by the given user, oldest first.
func (s *EmbeddingStore) ListByOwner(ctx context.Context, ownerID string) ([]vector.Record, error) {
	return s.Find(ctx, store.WithOwnerID(ownerID), store.WithOrderAsc("created_at"))
}

// ListByReference returns records attached to the given reference.
func (s *EmbeddingStore) ListByReference(ctx context.Context, kind vector.ReferenceKind, referenceID string) ([]vector.Record, error) {
	return s.Find(ctx, withReference(kind, referenceID)...)
}

// FindSimilar ranks the owner's records by dot product against the query
// vector. The scan is linear over the owner's records; insertion order
// breaks score ties.
func (s *EmbeddingStore) FindSimilar(ctx context.Context, query []float64, ownerID string, limit int) ([]vector.Match, error) {
	candidates, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return vector.TopKByDotProduct(query, candidates, limit), nil
}

// DeleteByReference removes records attached to the given reference.
func (s *EmbeddingStore) DeleteByReference(ctx context.Context, kind vector.ReferenceKind, referenceID string) error {
	return s.DeleteBy(ctx, withReference(kind, referenceID)...)
}

func withReference(kind vector.ReferenceKind, referenceID string) []store.Option {
	return []store.Option{
		store.WithCondition("reference_kind", string(kind)),
		store.WithCondition("reference_id", referenceID),
	}
}

var _ vector.Store = (*EmbeddingStore)(nil)
