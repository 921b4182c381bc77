package helpers

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes the plain text password using bcrypt. Each call embeds
// a fresh random salt, so two hashes of the same password differ.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt hash with a plain password. It returns
// false, never an error, for empty input on either side.
func CheckPassword(hash, plain string) bool {
	if hash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsHashed reports whether s already looks like a bcrypt digest.
func IsHashed(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// EnsureHashed hashes raw only when it is present and not already a digest.
// With an empty or already-hashed raw value it returns current unchanged, so
// unrelated record updates never double-hash a stored value.
func EnsureHashed(current, raw string) (string, error) {
	if raw == "" || IsHashed(raw) {
		return current, nil
	}
	return HashPassword(raw)
}
