package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashOperatorPassword(t *testing.T) {
	hash, err := HashOperatorPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, OperatorPasswordMatches("hunter2", hash))
	assert.False(t, OperatorPasswordMatches("hunter3", hash))
}

func TestHashOperatorPassword_Rejects(t *testing.T) {
	_, err := HashOperatorPassword("")
	assert.ErrorIs(t, err, ErrEmptyOperatorPassword)

	_, err = HashOperatorPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrOperatorPasswordTooLong)
}

func TestOperatorPasswordMatches_BadHash(t *testing.T) {
	assert.False(t, OperatorPasswordMatches("anything", ""))
	assert.False(t, OperatorPasswordMatches("anything", "not-a-bcrypt-hash"))
}
