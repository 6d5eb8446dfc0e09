package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecureString(t *testing.T) {
	s, err := GenerateSecureString(16)
	assert.NoError(t, err)
	assert.Len(t, s, 16)

	for _, c := range s {
		assert.Contains(t, alphanumeric, string(c))
	}

	// Two draws should not collide
	s2, err := GenerateSecureString(16)
	assert.NoError(t, err)
	assert.NotEqual(t, s, s2)
}

func TestGenerateSecureString_Lengths(t *testing.T) {
	for _, n := range []int{1, 8, 64} {
		s, err := GenerateSecureString(n)
		assert.NoError(t, err)
		assert.Len(t, s, n)
	}

	_, err := GenerateSecureString(0)
	assert.Error(t, err)
}

func TestGenerateSalt(t *testing.T) {
	salt, err := GenerateSalt()
	assert.NoError(t, err)
	assert.Len(t, salt, 32) // 16 bytes hex-encoded

	salt2, _ := GenerateSalt()
	assert.NotEqual(t, salt, salt2)
}
