//go:build integration

package precheck_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/precheck"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/testutil/containers"
)

type MailboxCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *precheck.MailboxCache
}

func TestMailboxCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MailboxCacheSuite))
}

func (s *MailboxCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = precheck.NewMailboxCache(s.redis.Client, 5*time.Minute, nil)
}

func (s *MailboxCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *MailboxCacheSuite) TestRoundTrip() {
	ctx := context.Background()

	s.cache.Store(ctx, "2281", []domain.MailboxStatus{
		{PartyID: "party-1", Reachable: true},
		{PartyID: "party-2", Reachable: false},
	})

	hits, missing := s.cache.Lookup(ctx, "2281", []string{"party-1", "party-2", "party-3"})
	s.Equal(map[string]bool{"party-1": true, "party-2": false}, hits)
	s.Equal([]string{"party-3"}, missing)
}

func (s *MailboxCacheSuite) TestMunicipalityIsolation() {
	ctx := context.Background()

	s.cache.Store(ctx, "2281", []domain.MailboxStatus{{PartyID: "party-1", Reachable: true}})

	hits, missing := s.cache.Lookup(ctx, "0180", []string{"party-1"})
	s.Empty(hits)
	s.Equal([]string{"party-1"}, missing)
}

func (s *MailboxCacheSuite) TestNilCacheDegradesToAllMisses() {
	var nilCache *precheck.MailboxCache

	hits, missing := nilCache.Lookup(context.Background(), "2281", []string{"party-1"})
	s.Empty(hits)
	s.Equal([]string{"party-1"}, missing)
}
