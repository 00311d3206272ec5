package entities

import (
	"time"
)

// User is an account that can authenticate against the service.
// SessionID and ResetToken are nullable; nil means "not set".
type User struct {
	ID             string    `gorm:"primaryKey;size:26" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:250;not null" json:"email"`
	HashedPassword []byte    `gorm:"not null" json:"-"`
	SessionID      *string   `gorm:"index;size:250" json:"-"`
	ResetToken     *string   `gorm:"index;size:250" json:"-"`
	FirstName      string    `gorm:"size:250" json:"first_name,omitempty"`
	LastName       string    `gorm:"size:250" json:"last_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisplayName returns a human readable name, falling back to the email.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// UserAttributes lists the column names that may be used to filter or
// update users. Anything else is a programming error.
var UserAttributes = map[string]bool{
	"id":              true,
	"email":           true,
	"hashed_password": true,
	"session_id":      true,
	"reset_token":     true,
	"first_name":      true,
	"last_name":       true,
}
