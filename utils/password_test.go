package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("admin123")
	assert.NoError(t, err)
	assert.NotEqual(t, "admin123", hashed)

	assert.True(t, VerifyPassword(hashed, "admin123"))
	assert.False(t, VerifyPassword(hashed, "admin124"))
	assert.False(t, VerifyPassword(hashed, ""))
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	first, err := HashPassword("admin123")
	assert.NoError(t, err)
	second, err := HashPassword("admin123")
	assert.NoError(t, err)

	// Salt acak -> hash berbeda walau password sama
	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "admin123"))
	assert.True(t, VerifyPassword(second, "admin123"))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-base64!!", "admin123"))
	assert.False(t, VerifyPassword("", "admin123"))
}
