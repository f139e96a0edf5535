//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nirvachan/internal/auth/store/revocation"
	"nirvachan/pkg/testutil/containers"
)

type RedisTRLSuite struct {
	suite.Suite
	rc  *containers.RedisContainer
	trl *revocation.RedisTRL
}

func TestRedisTRLSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisTRLSuite))
}

func (s *RedisTRLSuite) SetupSuite() {
	s.rc = containers.NewRedisContainer(s.T())
	s.trl = revocation.NewRedisTRL(s.rc.Client)
}

func (s *RedisTRLSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(context.Background()))
}

func (s *RedisTRLSuite) TestRevokeAndCheck() {
	ctx := context.Background()

	revoked, err := s.trl.IsRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.trl.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = s.trl.IsRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)
}

// Redis owns expiry; once the TTL lapses the token is treated as live again,
// which is fine because by then the JWT itself has expired.
func (s *RedisTRLSuite) TestRevocationExpiresWithTTL() {
	ctx := context.Background()
	s.Require().NoError(s.trl.Revoke(ctx, "jti-ttl", 100*time.Millisecond))

	s.Require().Eventually(func() bool {
		revoked, err := s.trl.IsRevoked(ctx, "jti-ttl")
		return err == nil && !revoked
	}, 2*time.Second, 50*time.Millisecond)
}
