// Package cache provides an optional read-through cache for per-scope consent
// decisions. The cache is strictly an optimization: every write path in the
// ledger invalidates the user's entries before the write returns, and any
// cache failure degrades to a store read.
package cache

import (
	"context"
	"sync"
	"time"

	"privacygate/internal/consent/models"
	id "privacygate/pkg/domain"
)

// DefaultTTL bounds staleness if an invalidation is ever lost (e.g. a redis
// failover between the delete and the append).
const DefaultTTL = 5 * time.Minute

// Cache stores resolved consent decisions keyed by user and scope.
// Implementations must treat errors as misses; the ledger never depends on
// the cache for correctness.
type Cache interface {
	Get(ctx context.Context, userID id.UserID, scope models.Scope) (models.ConsentStatus, bool)
	Set(ctx context.Context, userID id.UserID, scope models.Scope, status models.ConsentStatus)
	InvalidateUser(ctx context.Context, userID id.UserID) error
}

// Memory is a process-local Cache for tests and single-node deployments.
type Memory struct {
	mu      sync.RWMutex
	entries map[id.UserID]map[models.Scope]models.ConsentStatus
}

// NewMemory constructs an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[id.UserID]map[models.Scope]models.ConsentStatus)}
}

func (m *Memory) Get(_ context.Context, userID id.UserID, scope models.Scope) (models.ConsentStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.entries[userID][scope]
	return status, ok
}

func (m *Memory) Set(_ context.Context, userID id.UserID, scope models.Scope, status models.ConsentStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scopes, ok := m.entries[userID]
	if !ok {
		scopes = make(map[models.Scope]models.ConsentStatus)
		m.entries[userID] = scopes
	}
	scopes[scope] = status
}

func (m *Memory) InvalidateUser(_ context.Context, userID id.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}
