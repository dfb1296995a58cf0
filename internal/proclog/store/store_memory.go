package store

import (
	"context"
	"sort"
	"sync"

	"privacygate/internal/proclog/models"
	id "privacygate/pkg/domain"
)

// InMemoryStore keeps processing-log entries in memory for tests and local
// runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*models.Entry
}

// NewMemory constructs an empty in-memory processing-log store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyEntry := *entry
	copyEntry.ScopesUsed = append([]string(nil), entry.ScopesUsed...)
	if entry.Metadata != nil {
		md := make(map[string]any, len(entry.Metadata))
		for k, v := range entry.Metadata {
			md[k] = v
		}
		copyEntry.Metadata = md
	}
	s.entries = append(s.entries, &copyEntry)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, limit int) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(e *models.Entry) bool { return e.UserID == userID }), nil
}

func (s *InMemoryStore) ListByAction(_ context.Context, action string, limit int) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(e *models.Entry) bool { return e.Action == action }), nil
}

func (s *InMemoryStore) CountByAction(_ context.Context, filter models.StatsFilter) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, entry := range s.entries {
		if filter.UserID != nil && entry.UserID != *filter.UserID {
			continue
		}
		if !filter.Since.IsZero() && entry.CreatedAt.Before(filter.Since) {
			continue
		}
		counts[entry.Action]++
	}
	return counts, nil
}

func (s *InMemoryStore) DeleteByUser(_ context.Context, userID id.UserID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var removed int64
	for _, entry := range s.entries {
		if entry.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept
	return removed, nil
}

// collect returns matching rows newest first, capped at limit. Callers hold
// the read lock.
func (s *InMemoryStore) collect(limit int, match func(*models.Entry) bool) []*models.Entry {
	out := make([]*models.Entry, 0)
	for _, entry := range s.entries {
		if match(entry) {
			copyEntry := *entry
			out = append(out, &copyEntry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
