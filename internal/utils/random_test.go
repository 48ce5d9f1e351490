package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := GenerateOTP()
		assert.Len(t, otp, 6)

		n, err := strconv.Atoi(otp)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestRandomPassword(t *testing.T) {
	p1 := RandomPassword(12)
	p2 := RandomPassword(12)
	assert.Len(t, p1, 12)
	assert.NotEqual(t, p1, p2)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("P@ss1")
	assert.NoError(t, err)
	assert.NotEqual(t, "P@ss1", hash)

	assert.True(t, CheckPasswordHash("P@ss1", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
