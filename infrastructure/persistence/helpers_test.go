package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride/internal/database"
)

// newTestDB opens a fresh sqlite database in a temp dir and migrates all
// models.
func newTestDB(t *testing.T) database.Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDatabase(context.Background(), "sqlite:///"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}
