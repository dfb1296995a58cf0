package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"privacygate/internal/consent/cache"
	"privacygate/internal/consent/models"
	"privacygate/internal/consent/service/mocks"
	"privacygate/internal/consent/store"
	"privacygate/internal/events"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	"privacygate/pkg/requestcontext"
)

const (
	testPolicyVersion = "2025-01"
	testRegion        = "IN"
)

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	cache   *cache.Memory
	service *Service
	userID  id.UserID
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	s.cache = cache.NewMemory()
	s.service = NewService(
		s.store,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testPolicyVersion,
		testRegion,
		WithCache(s.cache),
	)
	s.userID = id.UserID(uuid.New())
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func TestConsentChangeEventsPublished(t *testing.T) {
	sink := events.NewMemorySink()
	svc := NewService(
		store.NewMemory(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testPolicyVersion,
		testRegion,
		WithEvents(events.NewPublisher(sink)),
	)
	userID := id.UserID(uuid.New())
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.RecordGrant(ctxAt(at), userID, []models.Scope{models.ScopeAnalytics}, true)
	require.NoError(t, err)
	_, err = svc.RecordGrant(ctxAt(at.Add(time.Minute)), userID, []models.Scope{models.ScopeAnalytics}, false)
	require.NoError(t, err)

	published := sink.Events()
	require.Len(t, published, 2)
	assert.Equal(t, events.ActionConsentGranted, published[0].Action)
	assert.Equal(t, events.ActionConsentRevoked, published[1].Action)
	assert.Equal(t, []string{"ANALYTICS"}, published[1].Scopes)
	assert.Equal(t, userID, published[1].UserID)
}

// ctxAt pins the request-scoped clock so append ordering is deterministic.
func ctxAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *ServiceSuite) TestConsentMonotonicity() {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	scope := models.ScopeLLMProcessing

	// Grant.
	_, err := s.service.RecordGrant(ctxAt(base), s.userID, []models.Scope{scope}, true)
	s.Require().NoError(err)

	status, err := s.service.HasConsent(context.Background(), s.userID, scope)
	s.Require().NoError(err)
	s.True(status.Granted)
	s.Equal(testPolicyVersion, status.PolicyVersion)
	s.Equal(testRegion, status.Region)

	// Revoke: a newer row with granted=false, never a mutation.
	_, err = s.service.RecordGrant(ctxAt(base.Add(time.Minute)), s.userID, []models.Scope{scope}, false)
	s.Require().NoError(err)

	status, err = s.service.HasConsent(context.Background(), s.userID, scope)
	s.Require().NoError(err)
	s.False(status.Granted)
	s.Empty(status.PolicyVersion, "version is only reported for granted consent")

	// Both rows survive in history, unmutated, newest first.
	history, err := s.service.History(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.False(history[0].Granted)
	s.True(history[1].Granted)
	s.Equal(base, history[1].CreatedAt)
}

func (s *ServiceSuite) TestHasConsentUnknownUser() {
	status, err := s.service.HasConsent(context.Background(), s.userID, models.ScopeAnalytics)
	s.Require().NoError(err)
	s.False(status.Granted)
	s.Empty(status.PolicyVersion)
	s.Empty(status.Region)
}

func (s *ServiceSuite) TestScopeAggregation() {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := s.service.RecordGrant(ctxAt(base), s.userID, []models.Scope{models.ScopeLLMProcessing}, true)
	s.Require().NoError(err)

	result, err := s.service.HasConsentForScopes(context.Background(), s.userID,
		[]models.Scope{models.ScopeLLMProcessing, models.ScopeOutreachEmail})
	s.Require().NoError(err)
	s.False(result.Granted)
	s.Equal([]models.Scope{models.ScopeOutreachEmail}, result.Missing)

	_, err = s.service.RecordGrant(ctxAt(base.Add(time.Minute)), s.userID, []models.Scope{models.ScopeOutreachEmail}, true)
	s.Require().NoError(err)

	result, err = s.service.HasConsentForScopes(context.Background(), s.userID,
		[]models.Scope{models.ScopeLLMProcessing, models.ScopeOutreachEmail})
	s.Require().NoError(err)
	s.True(result.Granted)
	s.Empty(result.Missing)
}

func (s *ServiceSuite) TestMultiScopeGrantCoversEachScope() {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	scopes := []models.Scope{models.ScopeCalendarEvents, models.ScopeAnalytics}
	_, err := s.service.RecordGrant(ctxAt(base), s.userID, scopes, true)
	s.Require().NoError(err)

	for _, scope := range scopes {
		status, err := s.service.HasConsent(context.Background(), s.userID, scope)
		s.Require().NoError(err)
		s.True(status.Granted, "scope %s", scope)
	}
}

func (s *ServiceSuite) TestCacheInvalidatedOnWrite() {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	scope := models.ScopeOffshoreStorage

	// Prime the cache with a negative answer.
	status, err := s.service.HasConsent(context.Background(), s.userID, scope)
	s.Require().NoError(err)
	s.False(status.Granted)
	_, cached := s.cache.Get(context.Background(), s.userID, scope)
	s.True(cached)

	// The write must evict, and the next check must see the grant.
	_, err = s.service.RecordGrant(ctxAt(base), s.userID, []models.Scope{scope}, true)
	s.Require().NoError(err)

	status, err = s.service.HasConsent(context.Background(), s.userID, scope)
	s.Require().NoError(err)
	s.True(status.Granted)
}

func (s *ServiceSuite) TestRecordGrantCapturesClientEvidence() {
	ctx := requestcontext.WithClientMetadata(ctxAt(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
		"203.0.113.9",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	grant, err := s.service.RecordGrant(ctx, s.userID, []models.Scope{models.ScopeAnalytics}, true)
	s.Require().NoError(err)

	s.NotEmpty(grant.IPHash)
	s.NotContains(grant.IPHash, "203.0.113", "raw IP must not be stored")
	s.Equal("chrome/120 windows desktop", grant.UserAgent)
}

func (s *ServiceSuite) TestValidationErrors() {
	s.Run("nil user id returns CodeUnauthorized", func() {
		_, err := s.service.RecordGrant(context.Background(), id.UserID{}, []models.Scope{models.ScopeAnalytics}, true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty scopes returns CodeBadRequest", func() {
		_, err := s.service.RecordGrant(context.Background(), s.userID, nil, true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown scope returns CodeBadRequest", func() {
		_, err := s.service.RecordGrant(context.Background(), s.userID, []models.Scope{"TELEPATHY"}, true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("nil user consent check returns CodeUnauthorized without bypass build", func() {
		_, err := s.service.HasConsent(context.Background(), id.UserID{}, models.ScopeAnalytics)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestDeleteByUser() {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := s.service.RecordGrant(ctxAt(base), s.userID, []models.Scope{models.ScopeAnalytics}, true)
	s.Require().NoError(err)
	_, err = s.service.RecordGrant(ctxAt(base.Add(time.Second)), s.userID, []models.Scope{models.ScopeAnalytics}, false)
	s.Require().NoError(err)

	count, err := s.service.DeleteByUser(context.Background(), s.userID)
	s.Require().NoError(err)
	s.EqualValues(2, count)

	history, err := s.service.History(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Empty(history)
}

// Error propagation across the store boundary, verified with a mocked store.
func TestStoreErrorPropagation(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockStore(ctrl)
	svc := NewService(mockStore, slog.New(slog.NewTextHandler(io.Discard, nil)), testPolicyVersion, testRegion)
	userID := id.UserID(uuid.New())

	t.Run("append failure wraps as persistence error", func(t *testing.T) {
		mockStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
		_, err := svc.RecordGrant(context.Background(), userID, []models.Scope{models.ScopeAnalytics}, true)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePersistence))
	})

	t.Run("read failure wraps as persistence error", func(t *testing.T) {
		mockStore.EXPECT().LatestForScope(gomock.Any(), userID, models.ScopeAnalytics).Return(nil, errors.New("connection reset"))
		_, err := svc.HasConsent(context.Background(), userID, models.ScopeAnalytics)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePersistence))
	})

	t.Run("one failing scope fails the aggregate check", func(t *testing.T) {
		mockStore.EXPECT().LatestForScope(gomock.Any(), userID, gomock.Any()).Return(nil, errors.New("connection reset")).MinTimes(1).MaxTimes(2)
		_, err := svc.HasConsentForScopes(context.Background(), userID,
			[]models.Scope{models.ScopeAnalytics, models.ScopeOutreachEmail})
		require.Error(t, err)
	})
}

func TestMinimizeUserAgent(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{
			"desktop chrome",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"chrome/120 windows desktop",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, minimizeUserAgent(tc.in))
		})
	}
}
