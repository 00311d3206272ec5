package audit

import (
	"context"
	"time"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"github.com/mrlokans/authcore/internal/entities"
)

// DefaultLimit is the page size used when the caller passes none.
const DefaultLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuthEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return oops.Code("AUDIT_WRITE_FAILED").With("action", event.Action).Wrap(err)
	}
	return nil
}

// Events retrieves paginated events, most recent first. An empty userID
// matches every user.
func (r *Repository) Events(ctx context.Context, userID string, limit, offset int) ([]entities.AuthEvent, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.AuthEvent{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	return r.page(query, limit, offset)
}

// EventsByAction retrieves paginated events of one action.
func (r *Repository) EventsByAction(ctx context.Context, action entities.AuthAction, userID string, limit, offset int) ([]entities.AuthEvent, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.AuthEvent{}).Where("action = ?", action)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	return r.page(query, limit, offset)
}

func (r *Repository) page(query *gorm.DB, limit, offset int) ([]entities.AuthEvent, int64, error) {
	var events []entities.AuthEvent
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, oops.Code("AUDIT_READ_FAILED").Wrap(err)
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&events).Error
	if err != nil {
		return nil, 0, oops.Code("AUDIT_READ_FAILED").Wrap(err)
	}
	return events, total, nil
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuthEvent{})
	if result.Error != nil {
		return 0, oops.Code("AUDIT_DELETE_FAILED").With("older_than", olderThan).Wrap(result.Error)
	}
	return result.RowsAffected, nil
}
