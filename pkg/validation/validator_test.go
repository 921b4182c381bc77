package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventnest/identity-service/pkg/validation"
)

func TestNormalizeMobile(t *testing.T) {
	cases := map[string]string{
		"9876543210":      "9876543210",
		" 98765-43210 ":   "9876543210",
		"+91 98765 43210": "919876543210",
		"abc":             "",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, validation.NormalizeMobile(in), "input %q", in)
	}
}

func TestValidMobile(t *testing.T) {
	assert.True(t, validation.ValidMobile("9876543210"))
	assert.True(t, validation.ValidMobile("6000000000"))
	assert.True(t, validation.ValidMobile(" 98765-43210 "), "punctuation is stripped before the check")

	assert.False(t, validation.ValidMobile("5876543210"), "must start with 6-9")
	assert.False(t, validation.ValidMobile("987654321"), "too short")
	assert.False(t, validation.ValidMobile("98765432100"), "too long")
	assert.False(t, validation.ValidMobile(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@test.com", validation.NormalizeEmail(" Asha@Test.COM "))
	assert.Equal(t, "a@b.co", validation.NormalizeEmail("a@b.co"))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, validation.ValidEmail("asha@test.com"))
	assert.True(t, validation.ValidEmail("a.b+c@sub.example.org"))

	assert.False(t, validation.ValidEmail("no-at-sign"))
	assert.False(t, validation.ValidEmail("a@b"), "domain must carry a dot")
	assert.False(t, validation.ValidEmail("a b@test.com"))
	assert.False(t, validation.ValidEmail(""))
}
