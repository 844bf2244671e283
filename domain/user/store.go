package user

import (
	"context"
	"errors"
)

// ErrNotFound indicates the user has no record.
var ErrNotFound = errors.New("user not found")

// Store defines persistence operations for user records and their stats.
type Store interface {
	// Exists reports whether a user record exists.
	Exists(ctx context.Context, ownerID string) (bool, error)

	// EnsureExists creates the user record if absent.
	EnsureExists(ctx context.Context, ownerID string) error

	// GetStats returns the stats for a user, or ErrNotFound.
	GetStats(ctx context.Context, ownerID string) (Stats, error)

	// SaveStats persists a stats record.
	SaveStats(ctx context.Context, s Stats) error
}
