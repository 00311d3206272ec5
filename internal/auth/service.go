package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrlokans/authcore/internal/database/users"
	"github.com/mrlokans/authcore/internal/entities"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRequired      = errors.New("email is required")
)

// serviceStrategy labels metrics and events of the single-session service.
const serviceStrategy = "service"

// Service manages the account lifecycle: registration, password login,
// one active session per user, and password reset.
type Service struct {
	users  UserDirectory
	hasher CredentialHasher
}

// NewService creates a new authentication service.
func NewService(directory UserDirectory, hasher CredentialHasher) *Service {
	return &Service{
		users:  directory,
		hasher: hasher,
	}
}

// findUser wraps a single-attribute lookup, mapping a miss to (nil, nil).
func (s *Service) findUser(ctx context.Context, key string, value any) (*entities.User, error) {
	user, err := s.users.FindOne(ctx, map[string]any{key: value})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// RegisterUser creates a user with a hashed password.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*entities.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	existing, err := s.findUser(ctx, "email", email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Insert(ctx, email, hashed)
	if err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, users.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ValidLogin reports whether password matches the user's stored hash.
// Unknown users and wrong passwords are indistinguishable.
func (s *Service) ValidLogin(ctx context.Context, email, password string) bool {
	if email == "" {
		return false
	}
	user, err := s.findUser(ctx, "email", email)
	if err != nil {
		slog.Debug("login lookup failed", "error", err)
	}
	ok := user != nil && s.hasher.Verify(user.HashedPassword, password)
	recordLogin(ok)
	return ok
}

// CreateSession stores a new session id on the user, replacing any
// previous one.
func (s *Service) CreateSession(ctx context.Context, email string) (string, bool) {
	if email == "" {
		return "", false
	}
	user, err := s.findUser(ctx, "email", email)
	if err != nil {
		slog.Debug("session user lookup failed", "error", err)
		return "", false
	}
	if user == nil {
		return "", false
	}

	sessionID, err := generateUUID()
	if err != nil {
		slog.Error("failed to generate session id", "error", err)
		return "", false
	}
	if err := s.users.Update(ctx, user.ID, map[string]any{"session_id": sessionID}); err != nil {
		slog.Debug("failed to store session id", "user_id", user.ID, "error", err)
		return "", false
	}

	recordSessionCreated(serviceStrategy)
	return sessionID, true
}

// GetUserFromSessionID returns the user currently holding sessionID.
func (s *Service) GetUserFromSessionID(ctx context.Context, sessionID string) (*entities.User, bool) {
	if sessionID == "" {
		recordSessionResolution(serviceStrategy, ResultMissing)
		return nil, false
	}
	user, err := s.findUser(ctx, "session_id", sessionID)
	switch {
	case err != nil:
		slog.Debug("session lookup failed", "error", err)
		recordSessionResolution(serviceStrategy, ResultError)
		return nil, false
	case user == nil:
		recordSessionResolution(serviceStrategy, ResultMissing)
		return nil, false
	}
	recordSessionResolution(serviceStrategy, ResultOK)
	return user, true
}

// DestroySession clears the user's session id. Unknown users are ignored.
func (s *Service) DestroySession(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	err := s.users.Update(ctx, userID, map[string]any{"session_id": nil})
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		slog.Debug("failed to clear session id", "user_id", userID, "error", err)
	}
}

// GetResetPasswordToken issues a single-use reset token for email.
func (s *Service) GetResetPasswordToken(ctx context.Context, email string) (string, error) {
	if email == "" {
		recordPasswordReset(StageIssue, ResultMissing)
		return "", ErrUserNotFound
	}
	user, err := s.findUser(ctx, "email", email)
	if err != nil {
		recordPasswordReset(StageIssue, ResultError)
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		recordPasswordReset(StageIssue, ResultMissing)
		return "", ErrUserNotFound
	}

	token, err := generateUUID()
	if err != nil {
		recordPasswordReset(StageIssue, ResultError)
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.users.Update(ctx, user.ID, map[string]any{"reset_token": token}); err != nil {
		recordPasswordReset(StageIssue, ResultError)
		return "", fmt.Errorf("failed to save reset token: %w", err)
	}

	recordPasswordReset(StageIssue, ResultOK)
	return token, nil
}

// UpdatePassword redeems resetToken, replacing the password hash and
// clearing the token in one update.
func (s *Service) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	if !isUUID(resetToken) {
		recordPasswordReset(StageRedeem, ResultRejected)
		return ErrInvalidToken
	}
	if newPassword == "" {
		recordPasswordReset(StageRedeem, ResultRejected)
		return ErrPasswordRequired
	}

	user, err := s.findUser(ctx, "reset_token", resetToken)
	if err != nil {
		recordPasswordReset(StageRedeem, ResultError)
		return fmt.Errorf("failed to find reset token: %w", err)
	}
	if user == nil {
		recordPasswordReset(StageRedeem, ResultMissing)
		return ErrInvalidToken
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		recordPasswordReset(StageRedeem, ResultError)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.users.Update(ctx, user.ID, map[string]any{
		"hashed_password": hashed,
		"reset_token":     nil,
	})
	if err != nil {
		recordPasswordReset(StageRedeem, ResultError)
		return fmt.Errorf("failed to update password: %w", err)
	}

	recordPasswordReset(StageRedeem, ResultOK)
	return nil
}
