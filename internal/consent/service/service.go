package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mssola/useragent"
	"golang.org/x/sync/errgroup"

	"privacygate/internal/consent/cache"
	"privacygate/internal/consent/metrics"
	"privacygate/internal/consent/models"
	"privacygate/internal/events"
	"privacygate/internal/platform/privacy"
	"privacygate/internal/sentinel"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	psync "privacygate/pkg/platform/sync"
	"privacygate/pkg/requestcontext"
)

// Store defines the persistence interface for consent grants.
// Error Contract:
// - LatestForScope returns sentinel.ErrNotFound when no row mentions the scope
// - Other methods return nil on success or wrapped errors on failure
type Store interface {
	Append(ctx context.Context, grant *models.Grant) error
	LatestForScope(ctx context.Context, userID id.UserID, scope models.Scope) (*models.Grant, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Grant, error)
	DeleteByUser(ctx context.Context, userID id.UserID) (int64, error)
}

type Option func(*Service)

// Service is the consent ledger. It appends immutable grant rows and answers
// per-scope consent questions from the most recent row mentioning each scope.
type Service struct {
	store         Store
	cache         cache.Cache
	metrics       *metrics.Metrics
	events        *events.Publisher
	logger        *slog.Logger
	policyVersion string
	defaultRegion string

	// userLocks serializes a user's ledger writes so the cache-invalidate
	// and append of two concurrent decisions cannot interleave.
	userLocks *psync.ShardedMutex
}

func NewService(store Store, logger *slog.Logger, policyVersion, defaultRegion string, opts ...Option) *Service {
	svc := &Service{
		store:         store,
		logger:        logger,
		policyVersion: policyVersion,
		defaultRegion: defaultRegion,
		userLocks:     psync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache enables the read-through consent decision cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithEvents publishes consent changes so downstream systems can react to
// revocations. A nil publisher disables publishing.
func WithEvents(p *events.Publisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// RecordGrant appends one immutable ledger row capturing the user's decision
// for the given scopes. Revocation is the same operation with granted=false;
// nothing is ever updated in place. Client IP and User-Agent are taken from
// the request context, anonymized, and stored as grant evidence.
func (s *Service) RecordGrant(ctx context.Context, userID id.UserID, scopes []models.Scope, granted bool) (*models.Grant, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	if len(scopes) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "scopes array must not be empty")
	}
	for _, scope := range scopes {
		if !scope.IsValid() {
			return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid scope: %s", scope))
		}
	}

	now := requestcontext.Now(ctx)
	grant, err := models.NewGrant(id.NewGrantID(), userID, scopes, granted, now)
	if err != nil {
		return nil, err
	}
	grant.PolicyVersion = s.policyVersion
	grant.Region = s.defaultRegion
	grant.IPHash = privacy.HashIP(requestcontext.ClientIP(ctx))
	grant.UserAgent = minimizeUserAgent(requestcontext.UserAgent(ctx))

	// Invalidate before the append so a concurrent reader can at worst
	// re-read the pre-append state, never serve a stale post-append one.
	s.userLocks.Lock(userID.String())
	s.invalidateCache(ctx, userID)
	err = s.store.Append(ctx, grant)
	s.userLocks.Unlock(userID.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "record consent grant")
	}

	decision := "granted"
	if !granted {
		decision = "revoked"
	}
	s.logger.InfoContext(ctx, "consent grant recorded",
		"user_id", userID,
		"scopes", scopes,
		"decision", decision,
		"policy_version", grant.PolicyVersion,
	)
	if s.metrics != nil {
		s.metrics.IncrementGrantsRecorded(decision)
	}

	action := events.ActionConsentGranted
	if !granted {
		action = events.ActionConsentRevoked
	}
	scopeNames := make([]string, len(scopes))
	for i, scope := range scopes {
		scopeNames[i] = string(scope)
	}
	s.events.Emit(ctx, events.Event{
		Timestamp: now,
		UserID:    userID,
		Action:    action,
		Scopes:    scopeNames,
		RequestID: requestcontext.RequestID(ctx),
	})

	return grant, nil
}

// HasConsent resolves the user's current consent for one scope: the most
// recent ledger row whose scope set contains it decides, and its policy
// version and region ride along when the answer is yes.
func (s *Service) HasConsent(ctx context.Context, userID id.UserID, scope models.Scope) (models.ConsentStatus, error) {
	if devBypassEnabled && userID.IsNil() {
		return models.ConsentStatus{Granted: true, PolicyVersion: s.policyVersion, Region: s.defaultRegion}, nil
	}
	if userID.IsNil() {
		return models.ConsentStatus{}, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	if !scope.IsValid() {
		return models.ConsentStatus{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid scope: %s", scope))
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveCheckLatency(time.Since(start).Seconds())
		}
	}()

	if s.cache != nil {
		if status, ok := s.cache.Get(ctx, userID, scope); ok {
			if s.metrics != nil {
				s.metrics.IncrementCacheHits()
			}
			s.countCheck(scope, status.Granted)
			return status, nil
		}
		if s.metrics != nil {
			s.metrics.IncrementCacheMisses()
		}
	}

	grant, err := s.store.LatestForScope(ctx, userID, scope)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			status := models.ConsentStatus{Granted: false}
			s.cacheStatus(ctx, userID, scope, status)
			s.countCheck(scope, false)
			return status, nil
		}
		return models.ConsentStatus{}, dErrors.Wrap(err, dErrors.CodePersistence, "read consent grant")
	}

	status := models.ConsentStatus{Granted: grant.Granted}
	if grant.Granted {
		status.PolicyVersion = grant.PolicyVersion
		status.Region = grant.Region
	}
	s.cacheStatus(ctx, userID, scope, status)
	s.countCheck(scope, status.Granted)
	return status, nil
}

// HasConsentForScopes evaluates each scope independently and in parallel;
// there is no ordering dependency between scopes. The result carries the full
// list of scopes missing consent so the caller can present one combined
// remediation message instead of failing scope-by-scope.
func (s *Service) HasConsentForScopes(ctx context.Context, userID id.UserID, scopes []models.Scope) (models.ScopesResult, error) {
	if len(scopes) == 0 {
		return models.ScopesResult{}, dErrors.New(dErrors.CodeBadRequest, "scopes array must not be empty")
	}

	var mu sync.Mutex
	missing := make([]models.Scope, 0)

	g, gctx := errgroup.WithContext(ctx)
	for _, scope := range scopes {
		g.Go(func() error {
			status, err := s.HasConsent(gctx, userID, scope)
			if err != nil {
				return err
			}
			if !status.Granted {
				mu.Lock()
				missing = append(missing, scope)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ScopesResult{}, err
	}

	// Stable order for callers and tests: report missing scopes in the
	// order they were requested.
	ordered := make([]models.Scope, 0, len(missing))
	for _, scope := range scopes {
		for _, m := range missing {
			if m == scope {
				ordered = append(ordered, scope)
				break
			}
		}
	}
	return models.ScopesResult{Granted: len(ordered) == 0, Missing: ordered}, nil
}

// History returns every ledger row for the user, newest first. Rows are
// returned exactly as written; the ledger never rewrites history.
func (s *Service) History(ctx context.Context, userID id.UserID) ([]*models.Grant, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	grants, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "list consent grants")
	}
	return grants, nil
}

// Current resolves the user's present standing for every known scope.
func (s *Service) Current(ctx context.Context, userID id.UserID) (map[models.Scope]models.ConsentStatus, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	out := make(map[models.Scope]models.ConsentStatus, len(models.ValidScopes))
	for scope := range models.ValidScopes {
		status, err := s.HasConsent(ctx, userID, scope)
		if err != nil {
			return nil, err
		}
		out[scope] = status
	}
	return out, nil
}

// DeleteByUser removes every ledger row for the user. Reserved for the
// subject-erasure routine; the normal consent path never deletes.
func (s *Service) DeleteByUser(ctx context.Context, userID id.UserID) (int64, error) {
	if userID.IsNil() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	s.userLocks.Lock(userID.String())
	s.invalidateCache(ctx, userID)
	count, err := s.store.DeleteByUser(ctx, userID)
	s.userLocks.Unlock(userID.String())
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodePersistence, "delete consent grants")
	}
	if s.metrics != nil {
		s.metrics.AddGrantsErased(float64(count))
	}
	return count, nil
}

func (s *Service) countCheck(scope models.Scope, granted bool) {
	if s.metrics == nil {
		return
	}
	if granted {
		s.metrics.IncrementChecksPassed(string(scope))
	} else {
		s.metrics.IncrementChecksFailed(string(scope))
	}
}

func (s *Service) cacheStatus(ctx context.Context, userID id.UserID, scope models.Scope, status models.ConsentStatus) {
	if s.cache != nil {
		s.cache.Set(ctx, userID, scope, status)
	}
}

func (s *Service) invalidateCache(ctx context.Context, userID id.UserID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "consent cache invalidation failed",
			"user_id", userID,
			"error", err,
		)
	}
}

// minimizeUserAgent reduces a raw User-Agent header to "browser/major os
// platform" before it is stored. The full header can carry enough entropy to
// fingerprint a device; the minimized form keeps just what a compliance
// review needs.
func minimizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}

	major := "unknown"
	if parts := strings.Split(version, "."); len(parts) > 0 && parts[0] != "" {
		major = parts[0]
	}

	os := strings.ToLower(strings.TrimSpace(ua.OSInfo().Name))
	if os == "" {
		os = "unknown"
	}

	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}

	return fmt.Sprintf("%s/%s %s %s", browser, major, os, platform)
}
