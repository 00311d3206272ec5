package entities

import "time"

// SessionRecord binds a session id to its owner.
type SessionRecord struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiredAt reports whether the record is past its lifetime at now.
// A non-positive duration never expires.
func (s SessionRecord) ExpiredAt(duration time.Duration, now time.Time) bool {
	if duration <= 0 {
		return false
	}
	return s.CreatedAt.Add(duration).Before(now)
}
