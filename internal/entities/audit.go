package entities

import "time"

type AuthAction string

const (
	AuthActionRegister    AuthAction = "register"
	AuthActionLogin       AuthAction = "login"
	AuthActionLogout      AuthAction = "logout"
	AuthActionResetIssue  AuthAction = "reset_token_issue"
	AuthActionResetRedeem AuthAction = "password_reset"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuthEvent is one entry of the authentication audit trail. Emails and
// credentials are never stored; UserID is empty when no user resolved.
type AuthEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    string      `gorm:"index;size:26" json:"user_id,omitempty"`
	Action    AuthAction  `gorm:"index;size:50" json:"action"`
	Strategy  string      `gorm:"size:50" json:"strategy"` // "service" or the AUTH_TYPE name
	IPAddress string      `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string      `gorm:"size:500" json:"user_agent,omitempty"`
	Status    AuditStatus `gorm:"size:20" json:"status"`
	ErrorMsg  string      `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
}

func (AuthEvent) TableName() string {
	return "auth_events"
}
