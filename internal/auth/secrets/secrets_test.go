package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "nirvachan/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct-horse-battery")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, Verify("correct-horse-battery", hash))

	err = Verify("wrong-horse", hash)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	_, err := Hash("")
	assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	// bcrypt caps input at 72 bytes.
	_, err := Hash(strings.Repeat("a", 100))
	assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("same-password")
	require.NoError(t, err)
	second, err := Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
