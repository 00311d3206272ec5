package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mrlokans/authcore/internal/config"
	"github.com/mrlokans/authcore/internal/database/users"
	"github.com/mrlokans/authcore/internal/entities"
)

// UserDirectory looks up and updates users by attribute.
type UserDirectory interface {
	FindOne(ctx context.Context, filter map[string]any) (*entities.User, error)
	Insert(ctx context.Context, email string, hashedPassword []byte) (*entities.User, error)
	Update(ctx context.Context, id string, diff map[string]any) error
}

var _ UserDirectory = (*users.Repository)(nil)

// Strategy resolves the identity behind an inbound request.
//
// Implementations never return errors: anything that prevents a user from
// being resolved (missing header, bad encoding, unknown session, storage
// failure) yields a nil user.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	// RequireAuth reports whether path needs authentication given the
	// excluded glob patterns.
	RequireAuth(path string, excluded []string) bool
	// AuthorizationHeader returns the raw Authorization header, or "".
	AuthorizationHeader(r *http.Request) string
	// SessionCookie returns the session cookie value, or "".
	SessionCookie(r *http.Request) string
	// CurrentUser returns the authenticated user, or nil.
	CurrentUser(r *http.Request) *entities.User
}

// Base is the strategy every other one builds on. It extracts credentials
// but never resolves a user.
type Base struct {
	cookieName string
}

// NewBase returns the no-op strategy reading sessions from cookieName.
func NewBase(cookieName string) *Base {
	return &Base{cookieName: cookieName}
}

func (b *Base) Name() string { return string(config.AuthTypeBase) }

func (b *Base) RequireAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}
	return NewExcludedPaths(excluded...).RequiresAuth(path)
}

func (b *Base) AuthorizationHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Authorization")
}

func (b *Base) SessionCookie(r *http.Request) string {
	if r == nil || b.cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(b.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (b *Base) CurrentUser(*http.Request) *entities.User {
	return nil
}

// CookieName returns the name of the session cookie.
func (b *Base) CookieName() string {
	return b.cookieName
}

// NewStrategy builds the strategy selected by cfg.Type. It returns nil for
// AuthTypeNone, meaning requests are not checked at all. backend is only
// used by AuthTypeSessionDB and must be non-nil for it.
func NewStrategy(cfg config.Auth, directory UserDirectory, hasher CredentialHasher, backend SessionBackend) (Strategy, error) {
	switch cfg.Type {
	case config.AuthTypeNone, "":
		return nil, nil
	case config.AuthTypeBase:
		return NewBase(cfg.SessionName), nil
	case config.AuthTypeBasic:
		return NewBasicAuth(cfg.SessionName, directory, hasher), nil
	case config.AuthTypeSession:
		return NewSessionAuth(cfg.SessionName, directory, NewMemoryStore(), SessionPolicy{}), nil
	case config.AuthTypeSessionExpiry:
		return NewSessionAuth(cfg.SessionName, directory, NewMemoryStore(), SessionPolicy{
			Duration: cfg.SessionDuration,
		}), nil
	case config.AuthTypeSessionDB:
		if backend == nil {
			return nil, fmt.Errorf("auth type %q requires a session backend", cfg.Type)
		}
		return NewSessionAuth(cfg.SessionName, directory, NewMemoryStore(), SessionPolicy{
			Duration: cfg.SessionDuration,
			Backend:  backend,
		}), nil
	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Type)
	}
}
