package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		cost     int
		wantErr  error
	}{
		{
			name:     "valid password",
			password: "validpassword123",
			cost:     bcrypt.MinCost,
			wantErr:  nil,
		},
		{
			name:     "short password is accepted",
			password: "pw",
			cost:     bcrypt.MinCost,
			wantErr:  nil,
		},
		{
			name:     "password too long",
			password: strings.Repeat("a", 73),
			cost:     bcrypt.MinCost,
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "password at maximum length",
			password: strings.Repeat("a", 72),
			cost:     bcrypt.MinCost,
			wantErr:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, tt.cost)
			if err != tt.wantErr {
				t.Errorf("HashPassword() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr == nil && len(hash) == 0 {
				t.Error("HashPassword() returned empty hash for valid password")
			}
			if tt.wantErr == nil && string(hash) == tt.password {
				t.Error("HashPassword() returned the plaintext")
			}
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("same-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if string(first) == string(second) {
		t.Error("two hashes of the same password should differ")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "correct password",
			password: password,
			wantErr:  nil,
		},
		{
			name:     "incorrect password",
			password: "wrongpassword",
			wantErr:  ErrInvalidPassword,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.password, hash)
			if err != tt.wantErr {
				t.Errorf("CheckPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !h.Verify(hash, "hunter2") {
		t.Error("Verify() = false for the right password")
	}
	if h.Verify(hash, "hunter3") {
		t.Error("Verify() = true for the wrong password")
	}
	if h.Verify([]byte("not a bcrypt hash"), "hunter2") {
		t.Error("Verify() = true for a malformed hash")
	}
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{-1, bcrypt.DefaultCost},
		{1, bcrypt.MinCost},
		{bcrypt.MaxCost + 1, bcrypt.MaxCost},
		{11, 11},
	}
	for _, tt := range tests {
		if got := NewBcryptHasher(tt.in).Cost; got != tt.want {
			t.Errorf("NewBcryptHasher(%d).Cost = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGenerateUUID(t *testing.T) {
	first, err := generateUUID()
	if err != nil {
		t.Fatalf("generateUUID() error = %v", err)
	}
	second, err := generateUUID()
	if err != nil {
		t.Fatalf("generateUUID() error = %v", err)
	}

	if len(first) != 36 {
		t.Errorf("len = %d, want 36", len(first))
	}
	if first == second {
		t.Error("generated ids should be unique")
	}
	if !isUUID(first) {
		t.Errorf("isUUID(%q) = false", first)
	}
	for _, bad := range []string{
		"", "not-a-uuid", "1234", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz",
		"urn:uuid:" + first,
		"{" + first + "}",
		strings.ReplaceAll(first, "-", ""),
	} {
		if isUUID(bad) {
			t.Errorf("isUUID(%q) = true", bad)
		}
	}
}
