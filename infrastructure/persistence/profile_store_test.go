package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride/domain/profile"
	"github.com/stridelabs/stride/internal/database"
)

func TestProfileStore_UpsertBumpsVersion(t *testing.T) {
	db := newTestDB(t)
	s := NewProfileStore(db)
	ctx := context.Background()

	p1, err := s.Upsert(ctx, profile.NewProfile("u1", "Runner", nil, profile.Biometrics{}))
	require.NoError(t, err)
	require.Equal(t, int64(1), p1.Version())
	require.Equal(t, "Runner", p1.SummaryText())

	age := 30
	p2, err := s.Upsert(ctx, profile.NewProfile("u1", "Distance runner", map[string]any{"goal": "marathon"}, profile.Biometrics{Age: &age}))
	require.NoError(t, err)
	require.Equal(t, int64(2), p2.Version())
	require.Equal(t, "Distance runner", p2.SummaryText())
	require.Equal(t, "marathon", p2.SummaryJSON()["goal"])
	require.Equal(t, 30, *p2.Biometrics().Age)

	p3, err := s.Upsert(ctx, profile.NewProfile("u1", "Distance runner", nil, profile.Biometrics{}))
	require.NoError(t, err)
	require.Equal(t, int64(3), p3.Version())
}

func TestProfileStore_OneProfilePerOwner(t *testing.T) {
	db := newTestDB(t)
	s := NewProfileStore(db)
	ctx := context.Background()

	_, err := s.Upsert(ctx, profile.NewProfile("u1", "a", nil, profile.Biometrics{}))
	require.NoError(t, err)
	_, err = s.Upsert(ctx, profile.NewProfile("u1", "b", nil, profile.Biometrics{}))
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Session(ctx).Model(&ProfileModel{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestProfileStore_GetMissing(t *testing.T) {
	db := newTestDB(t)
	s := NewProfileStore(db)

	_, err := s.Get(context.Background(), "nobody")
	require.ErrorIs(t, err, database.ErrNotFound)
}
