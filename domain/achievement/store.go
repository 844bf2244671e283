package achievement

import (
	"context"
	"errors"
)

// ErrVersionConflict indicates a concurrent writer updated the progress
// record first. Callers reload and reapply.
var ErrVersionConflict = errors.New("progress version conflict")

// DefinitionStore defines persistence operations for achievement definitions.
type DefinitionStore interface {
	// ListActive returns all active definitions.
	ListActive(ctx context.Context) ([]Definition, error)

	// FindByName returns the definition with the given unique name.
	FindByName(ctx context.Context, name string) (Definition, error)

	// Seed inserts or updates definitions by name.
	Seed(ctx context.Context, definitions []Definition) error
}

// ProgressStore defines persistence operations for per-user progress records.
type ProgressStore interface {
	// GetOrCreate returns the progress record for the pair, lazily creating
	// the initial record (tier none, zero progress) when absent.
	GetOrCreate(ctx context.Context, ownerID, achievementID string) (Progress, error)

	// Save persists a progress record using optimistic concurrency: the
	// write succeeds only if the stored version still matches, otherwise
	// ErrVersionConflict is returned.
	Save(ctx context.Context, p Progress) (Progress, error)

	// ListByOwner returns all progress records for the given user.
	ListByOwner(ctx context.Context, ownerID string) ([]Progress, error)
}
