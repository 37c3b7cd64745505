package account

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/account"
)

func TestSQLiteStore_SaveLookupLockout(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.MigrateDB(db, ":memory:"))
	s := NewSQLiteStore(db)
	ctx := context.Background()

	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	acct := domain.Account{ID: "a1", Email: "Styret@Musikklubben.no", PasswordHash: "hash", Role: domain.RoleAdmin, CreatedAt: created}
	require.NoError(t, s.Save(ctx, acct))

	got, err := s.GetByEmail(ctx, "styret@musikklubben.no")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.True(t, got.LockedUntil.IsZero())

	lock := created.Add(15 * time.Minute)
	acct.FailedLogins = 5
	acct.LockedUntil = lock
	require.NoError(t, s.Save(ctx, acct))

	got, err = s.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.FailedLogins)
	assert.True(t, got.LockedUntil.Equal(lock))
	assert.True(t, got.CreatedAt.Equal(created))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetByEmail(ctx, "nobody@example.no")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
