package membership

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/membership"
)

func TestSQLiteStore_CreateListCount(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.MigrateDB(db, ":memory:"))
	s := NewSQLiteStore(db)
	ctx := context.Background()

	first := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Create(ctx, domain.Application{
		ID: "a1", Name: "Ola", Email: "ola@example.no", Location: "Bergen",
		AgeGroup: domain.AgeGroup18To25, CreatedAt: first,
	}))
	require.NoError(t, s.Create(ctx, domain.Application{
		ID: "a2", Name: "Kari", Email: "kari@example.no", Phone: "90000000", Location: "Voss",
		AgeGroup: domain.AgeGroup41To60, Motivation: "Spiller trommer", CreatedAt: first.Add(time.Hour),
	}))

	apps, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "a2", apps[0].ID)
	assert.Equal(t, "Spiller trommer", apps[0].Motivation)
	assert.Equal(t, "", apps[1].Phone)
	assert.True(t, apps[1].CreatedAt.Equal(first))

	page, err := s.List(ctx, ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a1", page[0].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
