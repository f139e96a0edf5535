package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "nirvachan/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "nirvachan-test")

	token, jti, err := svc.Generate(42, "voter", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "voter", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "nirvachan-test", claims.Issuer)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer := NewService("key-one", "nirvachan-test")
	verifier := NewService("key-two", "nirvachan-test")

	token, _, err := issuer.Generate(1, "voter", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewService("test-signing-key", "nirvachan-test")

	token, _, err := svc.Generate(1, "voter", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-signing-key", "nirvachan-test")

	_, err := svc.Validate("not-a-token")
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestEachTokenGetsUniqueJTI(t *testing.T) {
	svc := NewService("test-signing-key", "nirvachan-test")

	_, first, err := svc.Generate(1, "voter", time.Hour)
	require.NoError(t, err)
	_, second, err := svc.Generate(1, "voter", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
