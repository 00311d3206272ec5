package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/authcore/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entities.User{}))

	return NewRepository(db)
}

func TestRepository_Insert(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	user, err := repo.Insert(ctx, "test@example.com", []byte("hashed"))

	require.NoError(t, err)
	assert.Len(t, user.ID, 26) // ULID string
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, []byte("hashed"), user.HashedPassword)
	assert.Nil(t, user.SessionID)
	assert.Nil(t, user.ResetToken)
}

func TestRepository_Insert_DuplicateEmail(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "test@example.com", []byte("hashed"))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, "test@example.com", []byte("other"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRepository_FindOne(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, "test@example.com", []byte("hashed"))
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		user, err := repo.FindOne(ctx, map[string]any{"email": "test@example.com"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("by id", func(t *testing.T) {
		user, err := repo.FindOne(ctx, map[string]any{"id": created.ID})
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("by several attributes", func(t *testing.T) {
		user, err := repo.FindOne(ctx, map[string]any{"id": created.ID, "email": "test@example.com"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindOne(ctx, map[string]any{"email": "nobody@example.com"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown attribute", func(t *testing.T) {
		_, err := repo.FindOne(ctx, map[string]any{"username": "test"})
		assert.ErrorIs(t, err, ErrInvalidAttribute)
	})

	t.Run("empty filter", func(t *testing.T) {
		_, err := repo.FindOne(ctx, map[string]any{})
		assert.ErrorIs(t, err, ErrInvalidAttribute)
	})
}

func TestRepository_Update(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, "test@example.com", []byte("hashed"))
	require.NoError(t, err)

	err = repo.Update(ctx, created.ID, map[string]any{"session_id": "abc", "reset_token": "def"})
	require.NoError(t, err)

	user, err := repo.FindOne(ctx, map[string]any{"session_id": "abc"})
	require.NoError(t, err)
	require.NotNil(t, user.SessionID)
	require.NotNil(t, user.ResetToken)
	assert.Equal(t, "abc", *user.SessionID)
	assert.Equal(t, "def", *user.ResetToken)

	// Clearing one nullable field leaves the other untouched.
	err = repo.Update(ctx, created.ID, map[string]any{"session_id": nil})
	require.NoError(t, err)

	user, err = repo.FindOne(ctx, map[string]any{"id": created.ID})
	require.NoError(t, err)
	assert.Nil(t, user.SessionID)
	require.NotNil(t, user.ResetToken)
	assert.Equal(t, "def", *user.ResetToken)

	_, err = repo.FindOne(ctx, map[string]any{"session_id": "abc"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Update_Errors(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, "test@example.com", []byte("hashed"))
	require.NoError(t, err)

	err = repo.Update(ctx, created.ID, map[string]any{"role": "admin"})
	assert.ErrorIs(t, err, ErrInvalidAttribute)

	err = repo.Update(ctx, created.ID, map[string]any{"id": "other"})
	assert.ErrorIs(t, err, ErrInvalidAttribute)

	err = repo.Update(ctx, "01HZY0000000000000000000ZZ", map[string]any{"session_id": "abc"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_AllAndCount(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.Insert(ctx, "a@example.com", []byte("h1"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, "b@example.com", []byte("h2"))
	require.NoError(t, err)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
