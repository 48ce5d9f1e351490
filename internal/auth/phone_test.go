package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("ann@example.com"))
	assert.True(t, IsEmail("a.b+c@sub.example.co"))
	assert.False(t, IsEmail("0701234567"))
	assert.False(t, IsEmail("ann@example"))
	assert.False(t, IsEmail("ann example@x.com"))
}

func TestPhoneCandidates(t *testing.T) {
	t.Run("local format expands to international forms", func(t *testing.T) {
		got := PhoneCandidates("0701234567", "256")
		assert.Equal(t, []string{"0701234567", "+256701234567", "256701234567"}, got)
	})

	t.Run("international format with plus collapses to local", func(t *testing.T) {
		got := PhoneCandidates("+256701234567", "256")
		assert.Equal(t, []string{"+256701234567", "0701234567"}, got)
	})

	t.Run("international format without plus collapses to local", func(t *testing.T) {
		got := PhoneCandidates("256701234567", "256")
		assert.Equal(t, []string{"256701234567", "0701234567"}, got)
	})

	t.Run("unrecognized formats are probed as-is", func(t *testing.T) {
		got := PhoneCandidates("12345", "256")
		assert.Equal(t, []string{"12345"}, got)
	})
}
