package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/authcore/internal/config"
	"github.com/mrlokans/authcore/internal/database/users"
	"github.com/mrlokans/authcore/internal/entities"
)

const basicPrefix = "Basic "

// BasicAuth authenticates every request from an
// "Authorization: Basic <base64(email:password)>" header.
type BasicAuth struct {
	*Base
	users  UserDirectory
	hasher CredentialHasher
}

// NewBasicAuth creates a BasicAuth strategy.
func NewBasicAuth(cookieName string, directory UserDirectory, hasher CredentialHasher) *BasicAuth {
	return &BasicAuth{
		Base:   NewBase(cookieName),
		users:  directory,
		hasher: hasher,
	}
}

func (a *BasicAuth) Name() string { return string(config.AuthTypeBasic) }

// ExtractBase64AuthorizationHeader returns the part after "Basic ", or ""
// if the header does not carry that exact prefix.
func (a *BasicAuth) ExtractBase64AuthorizationHeader(header string) string {
	if !strings.HasPrefix(header, basicPrefix) {
		return ""
	}
	return header[len(basicPrefix):]
}

// DecodeBase64AuthorizationHeader decodes the credentials, returning "" when
// the value is not standard base64 or does not decode to UTF-8.
func (a *BasicAuth) DecodeBase64AuthorizationHeader(encoded string) string {
	if encoded == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || !utf8.Valid(raw) {
		return ""
	}
	return string(raw)
}

// ExtractUserCredentials splits decoded credentials on the first colon.
// ok is false when there is no colon.
func (a *BasicAuth) ExtractUserCredentials(decoded string) (email, password string, ok bool) {
	email, password, ok = strings.Cut(decoded, ":")
	if !ok {
		return "", "", false
	}
	return email, password, true
}

// UserObjectFromCredentials returns the user owning email if password
// verifies against its stored hash.
func (a *BasicAuth) UserObjectFromCredentials(ctx context.Context, email, password string) *entities.User {
	if email == "" || a.users == nil {
		return nil
	}
	user, err := a.users.FindOne(ctx, map[string]any{"email": email})
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			slog.Debug("basic auth user lookup failed", "error", err)
		}
		recordLogin(false)
		return nil
	}
	if !a.hasher.Verify(user.HashedPassword, password) {
		recordLogin(false)
		return nil
	}
	recordLogin(true)
	return user
}

func (a *BasicAuth) CurrentUser(r *http.Request) *entities.User {
	encoded := a.ExtractBase64AuthorizationHeader(a.AuthorizationHeader(r))
	decoded := a.DecodeBase64AuthorizationHeader(encoded)
	email, password, ok := a.ExtractUserCredentials(decoded)
	if !ok {
		return nil
	}
	return a.UserObjectFromCredentials(r.Context(), email, password)
}
