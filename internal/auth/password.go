package auth

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced on every password set through the API.
const MinPasswordLength = 8

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// PasswordAcceptable reports whether plain meets the length rule.
// bcrypt only reads the first 72 bytes, so longer input is refused.
func PasswordAcceptable(plain string) bool {
	n := utf8.RuneCountInString(plain)
	return n >= MinPasswordLength && len(plain) <= 72 && strings.TrimSpace(plain) != ""
}

// InitialPassword derives the first password for an account created by a
// recruiter: the local part of the email, padded when too short.
func InitialPassword(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if utf8.RuneCountInString(local) >= MinPasswordLength {
		return local
	}
	return local + strings.Repeat("0", MinPasswordLength-utf8.RuneCountInString(local))
}

// RandomToken returns a hex string of n random bytes.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
