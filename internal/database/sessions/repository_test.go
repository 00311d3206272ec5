package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/authcore/internal/entities"
)

func setupTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	repo, err := NewSQLiteRepository(sqlDB)
	require.NoError(t, err)
	return repo
}

// failingStore is an scs.Store whose operations always fail.
type failingStore struct{ err error }

func (f failingStore) Find(string) ([]byte, bool, error)     { return nil, false, f.err }
func (f failingStore) Commit(string, []byte, time.Time) error { return f.err }
func (f failingStore) Delete(string) error                    { return f.err }

func TestRepository_InsertAndFind(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err := repo.Insert(ctx, entities.SessionRecord{
		SessionID: "session-1",
		UserID:    "user-1",
		CreatedAt: created,
	})
	require.NoError(t, err)

	rec, err := repo.FindBySessionID(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", rec.SessionID)
	assert.Equal(t, "user-1", rec.UserID)
	assert.True(t, created.Equal(rec.CreatedAt), "created_at = %v, want %v", rec.CreatedAt, created)
}

func TestRepository_FindMissing(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := repo.FindBySessionID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_InsertReplaces(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, entities.SessionRecord{SessionID: "s", UserID: "a", CreatedAt: time.Now()}))
	require.NoError(t, repo.Insert(ctx, entities.SessionRecord{SessionID: "s", UserID: "b", CreatedAt: time.Now()}))

	rec, err := repo.FindBySessionID(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "b", rec.UserID)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, entities.SessionRecord{SessionID: "s", UserID: "u", CreatedAt: time.Now()}))
	require.NoError(t, repo.Delete(ctx, "s"))

	_, err := repo.FindBySessionID(ctx, "s")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, repo.Delete(ctx, "s"))
}

func TestRepository_SharedStore(t *testing.T) {
	first := setupTestRepository(t)
	second := NewRepository(first.store)
	ctx := context.Background()

	require.NoError(t, first.Insert(ctx, entities.SessionRecord{SessionID: "s", UserID: "u", CreatedAt: time.Now()}))

	rec, err := second.FindBySessionID(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "u", rec.UserID)
}

func TestRepository_StoreErrors(t *testing.T) {
	storeErr := errors.New("disk on fire")
	repo := NewRepository(failingStore{err: storeErr})
	ctx := context.Background()

	err := repo.Insert(ctx, entities.SessionRecord{SessionID: "s", UserID: "u", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, storeErr)

	_, err = repo.FindBySessionID(ctx, "s")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "s"), storeErr)
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := NewRepository(failingStore{err: errors.New("unreachable")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindBySessionID(ctx, "s")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepository_NoCleanupGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo, err := NewSQLiteRepository(sqlDB)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), entities.SessionRecord{SessionID: "s", UserID: "u", CreatedAt: time.Now()}))

	require.NoError(t, sqlDB.Close())
}
