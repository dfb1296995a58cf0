//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"privacygate/internal/proclog/models"
	"privacygate/internal/proclog/store"
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

func (s *PostgresStoreSuite) appendAt(entry *models.Entry, at time.Time) {
	entry.CreatedAt = at
	s.Require().NoError(s.store.Append(context.Background(), entry))
}

func (s *PostgresStoreSuite) TestListByUserNewestFirstWithLimit() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := 0; i < 3; i++ {
		entry := testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionExternalLLMCall)
		s.appendAt(entry, base.Add(time.Duration(i)*time.Minute))
	}

	entries, err := s.store.ListByUser(ctx, testutil.TestIDs.UserID1, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.True(entries[0].CreatedAt.After(entries[1].CreatedAt))
	s.WithinDuration(base.Add(2*time.Minute), entries[0].CreatedAt, time.Millisecond)
}

func (s *PostgresStoreSuite) TestListByActionAcrossUsers() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionVaultAccess), base)
	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID2, models.ActionVaultAccess), base.Add(time.Minute))
	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionExternalLLMCall), base.Add(2*time.Minute))

	entries, err := s.store.ListByAction(ctx, models.ActionVaultAccess, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(testutil.TestIDs.UserID2, entries[0].UserID)
}

func (s *PostgresStoreSuite) TestCountByAction() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	// One old row that the Since filter must exclude.
	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionVaultAccess), base.Add(-48*time.Hour))
	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionVaultAccess), base)
	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionExternalLLMCall), base)
	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID2, models.ActionVaultAccess), base)

	counts, err := s.store.CountByAction(ctx, models.StatsFilter{Since: base.Add(-time.Hour)})
	s.Require().NoError(err)
	s.Equal(int64(2), counts[models.ActionVaultAccess])
	s.Equal(int64(1), counts[models.ActionExternalLLMCall])

	userID := testutil.TestIDs.UserID2
	counts, err = s.store.CountByAction(ctx, models.StatsFilter{Since: base.Add(-time.Hour), UserID: &userID})
	s.Require().NoError(err)
	s.Equal(int64(1), counts[models.ActionVaultAccess])
	s.NotContains(counts, models.ActionExternalLLMCall)
}

func (s *PostgresStoreSuite) TestMetadataAndSubjectRoundTrip() {
	ctx := context.Background()

	subject := testutil.TestIDs.UserID2
	entry := testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionSubjectErasure)
	entry.SubjectID = &subject
	entry.ConsentVersion = "2025-01"
	entry.Metadata = map[string]any{"provider": "openai", "items": float64(3)}
	s.Require().NoError(s.store.Append(ctx, entry))

	entries, err := s.store.ListByUser(ctx, testutil.TestIDs.UserID1, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	got := entries[0]
	s.Require().NotNil(got.SubjectID)
	s.Equal(subject, *got.SubjectID)
	s.Equal("2025-01", got.ConsentVersion)
	s.Equal(entry.ScopesUsed, got.ScopesUsed)
	s.Equal(entry.Metadata, got.Metadata)
}

func (s *PostgresStoreSuite) TestDeleteByUser() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionVaultAccess), base)
	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID1, models.ActionExternalLLMCall), base)
	s.appendAt(testutil.NewTestEntry(testutil.TestIDs.UserID2, models.ActionVaultAccess), base)

	count, err := s.store.DeleteByUser(ctx, testutil.TestIDs.UserID1)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	entries, err := s.store.ListByUser(ctx, testutil.TestIDs.UserID2, 10)
	s.Require().NoError(err)
	s.Len(entries, 1)
}
