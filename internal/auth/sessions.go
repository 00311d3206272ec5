package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mrlokans/authcore/internal/config"
	"github.com/mrlokans/authcore/internal/database/sessions"
	"github.com/mrlokans/authcore/internal/entities"
)

// SessionBackend persists session records outside the process.
type SessionBackend interface {
	Insert(ctx context.Context, rec entities.SessionRecord) error
	// FindBySessionID returns sessions.ErrNotFound for unknown ids.
	FindBySessionID(ctx context.Context, sessionID string) (*entities.SessionRecord, error)
	Delete(ctx context.Context, sessionID string) error
}

var _ SessionBackend = (*sessions.Repository)(nil)

// SessionPolicy configures lifetime and persistence of a SessionAuth.
type SessionPolicy struct {
	// Duration bounds the session lifetime. Zero or negative never expires.
	Duration time.Duration
	// Backend, when set, replaces the in-memory store for both writes
	// and reads.
	Backend SessionBackend
	// Now defaults to time.Now.
	Now func() time.Time
}

// SessionAuth resolves users from a session cookie.
//
// Expiry is checked when a session is read; nothing is swept in the
// background, so expired records remain in the store until destroyed.
type SessionAuth struct {
	*Base
	users  UserDirectory
	store  *MemoryStore
	policy SessionPolicy
}

// NewSessionAuth creates a session strategy. A nil store gets a fresh
// MemoryStore.
func NewSessionAuth(cookieName string, directory UserDirectory, store *MemoryStore, policy SessionPolicy) *SessionAuth {
	if store == nil {
		store = NewMemoryStore()
	}
	if policy.Now == nil {
		policy.Now = time.Now
	}
	return &SessionAuth{
		Base:   NewBase(cookieName),
		users:  directory,
		store:  store,
		policy: policy,
	}
}

func (a *SessionAuth) Name() string {
	switch {
	case a.policy.Backend != nil:
		return string(config.AuthTypeSessionDB)
	case a.policy.Duration > 0:
		return string(config.AuthTypeSessionExpiry)
	default:
		return string(config.AuthTypeSession)
	}
}

// Duration returns the configured session lifetime.
func (a *SessionAuth) Duration() time.Duration {
	return a.policy.Duration
}

// CreateSession issues a new session id for userID.
func (a *SessionAuth) CreateSession(ctx context.Context, userID string) (string, bool) {
	if userID == "" {
		return "", false
	}

	sessionID, err := generateUUID()
	if err != nil {
		slog.Error("failed to generate session id", "error", err)
		return "", false
	}

	rec := entities.SessionRecord{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: a.policy.Now(),
	}
	if a.policy.Backend != nil {
		if err := a.policy.Backend.Insert(ctx, rec); err != nil {
			slog.Debug("failed to persist session", "strategy", a.Name(), "error", err)
			return "", false
		}
	} else {
		a.store.Put(rec)
	}

	recordSessionCreated(a.Name())
	return sessionID, true
}

// lookup finds a live record for sessionID. result is a metrics label.
func (a *SessionAuth) lookup(ctx context.Context, sessionID string) (rec entities.SessionRecord, result string) {
	if sessionID == "" {
		return rec, ResultMissing
	}

	if a.policy.Backend != nil {
		found, err := a.policy.Backend.FindBySessionID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, sessions.ErrNotFound) {
				return rec, ResultMissing
			}
			slog.Debug("session lookup failed", "strategy", a.Name(), "error", err)
			return rec, ResultError
		}
		rec = *found
	} else {
		var ok bool
		if rec, ok = a.store.Get(sessionID); !ok {
			return rec, ResultMissing
		}
	}

	if rec.ExpiredAt(a.policy.Duration, a.policy.Now()) {
		return rec, ResultExpired
	}
	return rec, ResultOK
}

// UserIDForSessionID returns the user bound to a live session.
func (a *SessionAuth) UserIDForSessionID(ctx context.Context, sessionID string) (string, bool) {
	rec, result := a.lookup(ctx, sessionID)
	recordSessionResolution(a.Name(), result)
	if result != ResultOK {
		return "", false
	}
	return rec.UserID, true
}

func (a *SessionAuth) CurrentUser(r *http.Request) *entities.User {
	if r == nil || a.users == nil {
		return nil
	}
	userID, ok := a.UserIDForSessionID(r.Context(), a.SessionCookie(r))
	if !ok {
		return nil
	}
	user, err := a.users.FindOne(r.Context(), map[string]any{"id": userID})
	if err != nil {
		slog.Debug("session user lookup failed", "strategy", a.Name(), "error", err)
		return nil
	}
	return user
}

// DestroySession ends the session named by the request cookie.
func (a *SessionAuth) DestroySession(r *http.Request) bool {
	if r == nil {
		return false
	}
	return a.DestroySessionID(r.Context(), a.SessionCookie(r))
}

// DestroySessionID removes a live session and reports whether it did.
// Unknown and expired ids are left alone.
func (a *SessionAuth) DestroySessionID(ctx context.Context, sessionID string) bool {
	if _, result := a.lookup(ctx, sessionID); result != ResultOK {
		return false
	}

	if a.policy.Backend != nil {
		if err := a.policy.Backend.Delete(ctx, sessionID); err != nil {
			slog.Debug("failed to delete persisted session", "strategy", a.Name(), "error", err)
			return false
		}
		return true
	}
	return a.store.Delete(sessionID)
}
