package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privacygate/internal/consent/models"
	"privacygate/internal/sentinel"
	id "privacygate/pkg/domain"
)

func mustGrant(t *testing.T, userID id.UserID, scopes []models.Scope, granted bool, at time.Time) *models.Grant {
	t.Helper()
	grant, err := models.NewGrant(id.NewGrantID(), userID, scopes, granted, at)
	require.NoError(t, err)
	return grant
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("latest row containing the scope wins", func(t *testing.T) {
		s := NewMemory()
		userID := id.UserID(uuid.New())

		require.NoError(t, s.Append(ctx, mustGrant(t, userID,
			[]models.Scope{models.ScopeLLMProcessing, models.ScopeAnalytics}, true, base)))
		require.NoError(t, s.Append(ctx, mustGrant(t, userID,
			[]models.Scope{models.ScopeLLMProcessing}, false, base.Add(time.Minute))))

		got, err := s.LatestForScope(ctx, userID, models.ScopeLLMProcessing)
		require.NoError(t, err)
		assert.False(t, got.Granted)

		// The analytics scope is untouched by the narrower revocation.
		got, err = s.LatestForScope(ctx, userID, models.ScopeAnalytics)
		require.NoError(t, err)
		assert.True(t, got.Granted)
	})

	t.Run("no row for scope returns ErrNotFound", func(t *testing.T) {
		s := NewMemory()
		userID := id.UserID(uuid.New())
		require.NoError(t, s.Append(ctx, mustGrant(t, userID,
			[]models.Scope{models.ScopeAnalytics}, true, base)))

		_, err := s.LatestForScope(ctx, userID, models.ScopeOutreachEmail)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		_, err = s.LatestForScope(ctx, id.UserID(uuid.New()), models.ScopeAnalytics)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("append copies the row", func(t *testing.T) {
		s := NewMemory()
		userID := id.UserID(uuid.New())
		grant := mustGrant(t, userID, []models.Scope{models.ScopeAnalytics}, true, base)
		require.NoError(t, s.Append(ctx, grant))

		// Mutating the caller's copy must not reach the ledger.
		grant.Granted = false
		grant.Scopes[0] = models.ScopeOffshoreStorage

		got, err := s.LatestForScope(ctx, userID, models.ScopeAnalytics)
		require.NoError(t, err)
		assert.True(t, got.Granted)
	})

	t.Run("list returns newest first", func(t *testing.T) {
		s := NewMemory()
		userID := id.UserID(uuid.New())
		for i := 0; i < 3; i++ {
			require.NoError(t, s.Append(ctx, mustGrant(t, userID,
				[]models.Scope{models.ScopeAnalytics}, i%2 == 0, base.Add(time.Duration(i)*time.Minute))))
		}

		grants, err := s.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, grants, 3)
		assert.True(t, grants[0].CreatedAt.After(grants[1].CreatedAt))
		assert.True(t, grants[1].CreatedAt.After(grants[2].CreatedAt))
	})

	t.Run("delete by user reports the row count", func(t *testing.T) {
		s := NewMemory()
		userID := id.UserID(uuid.New())
		other := id.UserID(uuid.New())
		require.NoError(t, s.Append(ctx, mustGrant(t, userID, []models.Scope{models.ScopeAnalytics}, true, base)))
		require.NoError(t, s.Append(ctx, mustGrant(t, userID, []models.Scope{models.ScopeAnalytics}, false, base.Add(time.Second))))
		require.NoError(t, s.Append(ctx, mustGrant(t, other, []models.Scope{models.ScopeAnalytics}, true, base)))

		count, err := s.DeleteByUser(ctx, userID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		grants, err := s.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, grants)

		grants, err = s.ListByUser(ctx, other)
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})
}
