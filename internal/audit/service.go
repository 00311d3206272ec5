// Package audit records the authentication audit trail: registrations,
// logins, logouts and password resets, with the client address and the
// outcome.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/mrlokans/authcore/internal/database/audit"
	"github.com/mrlokans/authcore/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	now  func() time.Time
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuthEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}
	return s.repo.LogEvent(ctx, event)
}

// LogAuth records an authentication event. A non-nil err marks it failed.
// Write failures are logged and otherwise ignored so the request that
// triggered the event is unaffected.
func (s *Service) LogAuth(ctx context.Context, userID, strategy string, action entities.AuthAction, ipAddr, userAgent string, err error) {
	event := &entities.AuthEvent{
		UserID:    userID,
		Action:    action,
		Strategy:  strategy,
		IPAddress: truncate(ipAddr, 45),
		UserAgent: truncate(userAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	if logErr := s.Log(ctx, event); logErr != nil {
		slog.Warn("failed to log audit event", "action", action, "error", logErr)
	}
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, userID string, limit, offset int) ([]entities.AuthEvent, int64, error) {
	return s.repo.Events(ctx, userID, limit, offset)
}

// GetEventsByAction retrieves audit events filtered by action.
func (s *Service) GetEventsByAction(ctx context.Context, action entities.AuthAction, userID string, limit, offset int) ([]entities.AuthEvent, int64, error) {
	return s.repo.EventsByAction(ctx, action, userID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
