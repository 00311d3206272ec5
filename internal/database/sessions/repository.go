// Package sessions persists session records through an scs.Store.
//
// The store's own expiry column is set far in the future and no cleanup
// goroutine is started: session lifetime is a read-time decision made by the
// caller against the persisted creation time.
//
// # Usage
//
//	repo, err := sessions.NewSQLiteRepository(sqlDB)
//	err = repo.Insert(ctx, entities.SessionRecord{SessionID: id, UserID: uid, CreatedAt: now})
//	rec, err := repo.FindBySessionID(ctx, id)
package sessions

import (
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/samber/oops"

	"github.com/mrlokans/authcore/internal/entities"
)

// Keys of the encoded session values.
const (
	keyUserID    = "user_id"
	keyCreatedAt = "created_at"
)

// ErrNotFound is returned when no record exists for a session id.
var ErrNotFound = errors.New("session not found")

// storeExpiry keeps records visible to the store indefinitely.
var storeExpiry = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

func init() {
	gob.Register(time.Time{})
}

// Repository stores session records in an scs.Store.
type Repository struct {
	store scs.Store
	codec scs.Codec
}

// NewRepository wraps an existing store.
func NewRepository(store scs.Store) *Repository {
	return &Repository{
		store: store,
		codec: scs.GobCodec{},
	}
}

// NewSQLiteRepository creates the sessions table if needed and returns a
// repository backed by sqlite3store with background cleanup disabled.
func NewSQLiteRepository(sqlDB *sql.DB) (*Repository, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, oops.Code("SESSION_SCHEMA_FAILED").Wrap(err)
	}

	return NewRepository(sqlite3store.NewWithCleanupInterval(sqlDB, 0)), nil
}

// Insert writes rec, replacing any record with the same session id.
func (r *Repository) Insert(ctx context.Context, rec entities.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.codec.Encode(storeExpiry, map[string]interface{}{
		keyUserID:    rec.UserID,
		keyCreatedAt: rec.CreatedAt,
	})
	if err != nil {
		return oops.Code("SESSION_ENCODE_FAILED").With("user_id", rec.UserID).Wrap(err)
	}

	if err := r.store.Commit(rec.SessionID, data, storeExpiry); err != nil {
		return oops.Code("SESSION_COMMIT_FAILED").With("user_id", rec.UserID).Wrap(err)
	}
	return nil
}

// FindBySessionID loads the record for sessionID or returns ErrNotFound.
func (r *Repository) FindBySessionID(ctx context.Context, sessionID string) (*entities.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, found, err := r.store.Find(sessionID)
	if err != nil {
		return nil, oops.Code("SESSION_FIND_FAILED").Wrap(err)
	}
	if !found {
		return nil, ErrNotFound
	}

	_, values, err := r.codec.Decode(data)
	if err != nil {
		return nil, oops.Code("SESSION_DECODE_FAILED").Wrap(err)
	}

	userID, _ := values[keyUserID].(string)
	createdAt, _ := values[keyCreatedAt].(time.Time)
	if userID == "" {
		return nil, oops.Code("SESSION_DECODE_FAILED").Errorf("record has no user id")
	}

	return &entities.SessionRecord{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

// Delete removes the record for sessionID. Deleting a missing record is not an error.
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.Delete(sessionID); err != nil {
		return oops.Code("SESSION_DELETE_FAILED").Wrap(err)
	}
	return nil
}
