package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password accepted for API users.
const MinPasswordLen = 8

var (
	ErrWeakPassword = errors.New("security: password too short")
	ErrUnknownRole  = errors.New("security: role must be admin or viewer")
)

func HashPassword(pw string) (string, error) {
	if len(pw) < MinPasswordLen {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// ValidateRole accepts the two roles the API distinguishes.
func ValidateRole(role string) error {
	switch role {
	case "admin", "viewer":
		return nil
	}
	return ErrUnknownRole
}

// NewToken returns n random bytes, URL-safe encoded.
func NewToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
