package helpers

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
)

// DefaultOTPAlphabet uses uppercase letters for unambiguous display.
const DefaultOTPAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOTP returns a code of n characters drawn uniformly at random from
// alphabet. Each character is an independent crypto/rand draw, so there is
// no modulo bias.
func GenerateOTP(alphabet string, n int) (string, error) {
	if alphabet == "" {
		alphabet = DefaultOTPAlphabet
	}
	if n <= 0 {
		return "", errors.New("otp length must be positive")
	}
	max := big.NewInt(int64(len(alphabet)))
	code := make([]byte, n)
	for i := range code {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[idx.Int64()]
	}
	return string(code), nil
}

// MatchOTP performs an exact, case-sensitive, constant-time comparison.
// An empty stored code never matches; a consumed challenge cannot succeed
// twice.
func MatchOTP(submitted, stored string) bool {
	if submitted == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
