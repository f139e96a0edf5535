package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	trl := NewInMemoryTRL()

	revoked, err := trl.IsRevoked(ctx, "unknown-jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, trl.Revoke(ctx, "jti-1", time.Hour))
	revoked, err = trl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	trl := NewInMemoryTRL(WithClock(func() time.Time { return now }))

	require.NoError(t, trl.Revoke(ctx, "jti-1", time.Minute))

	now = now.Add(2 * time.Minute)
	revoked, err := trl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "expired revocation should fall away")
}

func TestNonPositiveTTLIsNoop(t *testing.T) {
	ctx := context.Background()
	trl := NewInMemoryTRL()

	require.NoError(t, trl.Revoke(ctx, "jti-1", -time.Minute))
	revoked, err := trl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
