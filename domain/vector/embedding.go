// Package vector provides domain types for per-user embedding storage and
// similarity ranking.
package vector

import "time"

// ReferenceKind identifies the entity an embedding was generated from.
type ReferenceKind string

// Reference kind constants.
const (
	ReferenceWorkoutSummary ReferenceKind = "workout_summary"
	ReferenceWorkout        ReferenceKind = "workout"
)

// Record is a stored embedding with its reference metadata.
// Immutable once persisted except for a full replace-on-update keyed by
// (referenceKind, referenceID).
type Record struct {
	id            string
	ownerID       string
	referenceKind ReferenceKind
	referenceID   string
	embedding     []float64
	sourceText    string
	createdAt     time.Time
}

// NewRecord creates a record for new instances (not yet persisted).
func NewRecord(ownerID string, kind ReferenceKind, referenceID string, embedding []float64, sourceText string) Record {
	vec := make([]float64, len(embedding))
	copy(vec, embedding)
	return Record{
		ownerID:       ownerID,
		referenceKind: kind,
		referenceID:   referenceID,
		embedding:     vec,
		sourceText:    sourceText,
		createdAt:     time.Now(),
	}
}

// RestoreRecord reconstructs a persisted record.
func RestoreRecord(id, ownerID string, kind ReferenceKind, referenceID string, embedding []float64, sourceText string, createdAt time.Time) Record {
	r := NewRecord(ownerID, kind, referenceID, embedding, sourceText)
	r.id = id
	r.createdAt = createdAt
	return r
}

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// OwnerID returns the owning user id.
func (r Record) OwnerID() string { return r.ownerID }

// ReferenceKind returns the referenced entity kind.
func (r Record) ReferenceKind() ReferenceKind { return r.referenceKind }

// ReferenceID returns the referenced entity id.
func (r Record) ReferenceID() string { return r.referenceID }

// Embedding returns the embedding vector (copy).
func (r Record) Embedding() []float64 {
	result := make([]float64, len(r.embedding))
	copy(result, r.embedding)
	return result
}

// SourceText returns the text the embedding was generated from.
func (r Record) SourceText() string { return r.sourceText }

// CreatedAt returns the creation time.
func (r Record) CreatedAt() time.Time { return r.createdAt }
