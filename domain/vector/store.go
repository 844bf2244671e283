package vector

import "context"

// Store defines persistence operations for embedding records.
type Store interface {
	// Put inserts a new embedding record.
	Put(ctx context.Context, record Record) (Record, error)

	// Replace overwrites the vector and source text of the record matched by
	// reference. Returns ErrNotFound from the persistence layer when no such
	// record exists.
	Replace(ctx context.Context, kind ReferenceKind, referenceID string, embedding []float64, sourceText string) (Record, error)

	// ListByOwner returns all records owned by the given user.
	ListByOwner(ctx context.Context, ownerID string) ([]Record, error)

	// ListByReference returns records attached to the given reference.
	ListByReference(ctx context.Context, kind ReferenceKind, referenceID string) ([]Record, error)

	// FindSimilar ranks the owner's records by dot product against the query
	// vector and returns the top limit matches. Returns an empty slice when
	// the owner has no records.
	FindSimilar(ctx context.Context, query []float64, ownerID string, limit int) ([]Match, error)

	// DeleteByReference removes records attached to the given reference.
	DeleteByReference(ctx context.Context, kind ReferenceKind, referenceID string) error
}
