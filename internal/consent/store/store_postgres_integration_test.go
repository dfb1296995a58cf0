//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"privacygate/internal/consent/models"
	"privacygate/internal/consent/store"
	"privacygate/internal/sentinel"
	"privacygate/pkg/testutil"
	"privacygate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateModuleTables(context.Background()))
}

func (s *PostgresStoreSuite) TestAppendAndListNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := 0; i < 3; i++ {
		grant := testutil.NewGrantBuilder().At(base.Add(time.Duration(i) * time.Minute)).Build()
		s.Require().NoError(s.store.Append(ctx, grant))
	}

	grants, err := s.store.ListByUser(ctx, testutil.TestIDs.UserID1)
	s.Require().NoError(err)
	s.Require().Len(grants, 3)
	s.True(grants[0].CreatedAt.After(grants[1].CreatedAt))
	s.True(grants[1].CreatedAt.After(grants[2].CreatedAt))
}

func (s *PostgresStoreSuite) TestLatestForScopeLatestRowWins() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	granted := testutil.NewGrantBuilder().
		WithScopes(models.ScopeAnalytics, models.ScopeLLMProcessing).
		At(base).
		Build()
	s.Require().NoError(s.store.Append(ctx, granted))

	revoked := testutil.NewGrantBuilder().
		WithScopes(models.ScopeAnalytics).
		Revoked().
		At(base.Add(time.Minute)).
		Build()
	s.Require().NoError(s.store.Append(ctx, revoked))

	latest, err := s.store.LatestForScope(ctx, testutil.TestIDs.UserID1, models.ScopeAnalytics)
	s.Require().NoError(err)
	s.False(latest.Granted)

	// The revocation named only ANALYTICS, so LLM_PROCESSING still resolves
	// to the earlier granted row.
	latest, err = s.store.LatestForScope(ctx, testutil.TestIDs.UserID1, models.ScopeLLMProcessing)
	s.Require().NoError(err)
	s.True(latest.Granted)
}

func (s *PostgresStoreSuite) TestLatestForScopeNotFound() {
	_, err := s.store.LatestForScope(context.Background(), testutil.TestIDs.UserID1, models.ScopeOutreachEmail)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRoundTripFields() {
	ctx := context.Background()

	grant := testutil.NewGrantBuilder().Build()
	grant.IPHash = "b5f1c3"
	grant.UserAgent = "Mozilla/5.0"
	s.Require().NoError(s.store.Append(ctx, grant))

	grants, err := s.store.ListByUser(ctx, grant.UserID)
	s.Require().NoError(err)
	s.Require().Len(grants, 1)

	got := grants[0]
	s.Equal(grant.ID, got.ID)
	s.Equal(grant.Scopes, got.Scopes)
	s.Equal("EU", got.Region)
	s.Equal("2025-01", got.PolicyVersion)
	s.Equal("b5f1c3", got.IPHash)
	s.Equal("Mozilla/5.0", got.UserAgent)
	s.WithinDuration(grant.CreatedAt, got.CreatedAt, time.Millisecond)
}

// The ledger is append-only, so concurrent appends never conflict.
func (s *PostgresStoreSuite) TestConcurrentAppends() {
	ctx := context.Background()

	result := testutil.RunConcurrent(50, func(_ int) error {
		return s.store.Append(ctx, testutil.NewGrantBuilder().Build())
	})
	s.Equal(int32(50), result.Successes)

	grants, err := s.store.ListByUser(ctx, testutil.TestIDs.UserID1)
	s.Require().NoError(err)
	s.Len(grants, 50)
}

func (s *PostgresStoreSuite) TestDeleteByUser() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.Append(ctx, testutil.NewGrantBuilder().Build()))
	}
	other := testutil.NewGrantBuilder().WithUser(testutil.TestIDs.UserID2).Build()
	s.Require().NoError(s.store.Append(ctx, other))

	count, err := s.store.DeleteByUser(ctx, testutil.TestIDs.UserID1)
	s.Require().NoError(err)
	s.Equal(int64(3), count)

	grants, err := s.store.ListByUser(ctx, testutil.TestIDs.UserID2)
	s.Require().NoError(err)
	s.Len(grants, 1)
}
