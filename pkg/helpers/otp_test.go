package helpers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventnest/identity-service/pkg/helpers"
)

func TestGenerateOTP(t *testing.T) {
	t.Run("length and alphabet", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			code, err := helpers.GenerateOTP(helpers.DefaultOTPAlphabet, 6)
			require.NoError(t, err)
			require.Len(t, code, 6)
			for _, r := range code {
				require.True(t, strings.ContainsRune(helpers.DefaultOTPAlphabet, r),
					"character %q outside alphabet", r)
			}
		}
	})

	t.Run("empty alphabet falls back to default", func(t *testing.T) {
		code, err := helpers.GenerateOTP("", 6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
	})

	t.Run("non-positive length rejected", func(t *testing.T) {
		_, err := helpers.GenerateOTP(helpers.DefaultOTPAlphabet, 0)
		assert.Error(t, err)
	})

	t.Run("codes vary", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			code, err := helpers.GenerateOTP(helpers.DefaultOTPAlphabet, 6)
			require.NoError(t, err)
			seen[code] = true
		}
		assert.Greater(t, len(seen), 1, "fifty draws should not all collide")
	})
}

func TestMatchOTP(t *testing.T) {
	assert.True(t, helpers.MatchOTP("A1B2C3", "A1B2C3"))
	assert.False(t, helpers.MatchOTP("a1b2c3", "A1B2C3"), "comparison is case sensitive")
	assert.False(t, helpers.MatchOTP("A1B2C4", "A1B2C3"))
	assert.False(t, helpers.MatchOTP("", "A1B2C3"))
	assert.False(t, helpers.MatchOTP("A1B2C3", ""))
	assert.False(t, helpers.MatchOTP("", ""))
}
