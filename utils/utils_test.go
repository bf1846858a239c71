package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("S3cret", hash))
	assert.False(t, CheckPasswordHash("s3cret", "not-a-hash"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Real Madrid", NormalizeName("  Real \t Madrid \n"))
	assert.Empty(t, NormalizeName("   "))
}
