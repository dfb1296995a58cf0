package store

import (
	"context"
	"sort"
	"sync"

	"privacygate/internal/consent/models"
	"privacygate/internal/sentinel"
	id "privacygate/pkg/domain"
)

// InMemoryStore keeps consent grants in memory for tests and local runs.
// It preserves the ledger's append-only semantics: Append copies the row and
// nothing ever mutates stored rows afterwards.
type InMemoryStore struct {
	mu     sync.RWMutex
	grants map[id.UserID][]*models.Grant
}

// NewMemory constructs an empty in-memory consent store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{grants: make(map[id.UserID][]*models.Grant)}
}

func (s *InMemoryStore) Append(_ context.Context, grant *models.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyGrant := *grant
	copyGrant.Scopes = append([]models.Scope(nil), grant.Scopes...)
	s.grants[grant.UserID] = append(s.grants[grant.UserID], &copyGrant)
	return nil
}

func (s *InMemoryStore) LatestForScope(_ context.Context, userID id.UserID, scope models.Scope) (*models.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.Grant
	for _, grant := range s.grants[userID] {
		if !grant.HasScope(scope) {
			continue
		}
		if latest == nil || grant.CreatedAt.After(latest.CreatedAt) {
			latest = grant
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	copyGrant := *latest
	return &copyGrant, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grants := s.grants[userID]
	out := make([]*models.Grant, 0, len(grants))
	for _, grant := range grants {
		copyGrant := *grant
		out = append(out, &copyGrant)
	}
	// Newest first, matching the postgres store's ORDER BY.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) DeleteByUser(_ context.Context, userID id.UserID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := int64(len(s.grants[userID]))
	delete(s.grants, userID)
	return count, nil
}
