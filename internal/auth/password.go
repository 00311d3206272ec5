package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is bcrypt's input limit in bytes.
const MaxPasswordLength = 72

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
	ErrPasswordRequired = errors.New("password is required")
)

// CredentialHasher is a one-way hash with verification.
type CredentialHasher interface {
	Hash(password string) ([]byte, error)
	Verify(hash []byte, password string) bool
}

// BcryptHasher implements CredentialHasher with bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using cost, clamped to bcrypt's valid range.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost <= 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) ([]byte, error) {
	return HashPassword(password, h.Cost)
}

func (h *BcryptHasher) Verify(hash []byte, password string) bool {
	return CheckPassword(password, hash) == nil
}

// HashPassword creates a salted bcrypt hash of the password.
func HashPassword(password string, cost int) ([]byte, error) {
	// bcrypt has a 72-byte limit
	if len(password) > MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

// CheckPassword compares a password with its hash.
func CheckPassword(password string, hash []byte) error {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}

// generateUUID returns a random UUIDv4 string, used for session ids and
// reset tokens.
func generateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// isUUID reports whether token is a UUID in the hyphenated 36-character
// form. uuid.Parse also takes urn, braced and bare-hex forms.
func isUUID(token string) bool {
	if len(token) != 36 {
		return false
	}
	_, err := uuid.Parse(token)
	return err == nil
}
