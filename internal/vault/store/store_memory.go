package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"privacygate/internal/crypto"
	"privacygate/internal/sentinel"
	"privacygate/internal/vault/models"
	id "privacygate/pkg/domain"
)

// InMemoryStore keeps vault items in memory for tests and local runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[id.VaultItemID]*models.Item
}

// NewMemory constructs an empty in-memory vault store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{items: make(map[id.VaultItemID]*models.Item)}
}

func (s *InMemoryStore) Insert(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[item.ID] = copyItem(item)
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, itemID id.VaultItemID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyItem(item), nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, kind string) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Item, 0)
	for _, item := range s.items {
		if item.UserID != userID {
			continue
		}
		if kind != "" && item.Kind != kind {
			continue
		}
		out = append(out, copyItem(item))
	}
	// Map iteration order is random; newest first matches the postgres store.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) UpdateBlob(_ context.Context, itemID id.VaultItemID, blob *crypto.Blob, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return sentinel.ErrNotFound
	}
	item.Blob = copyBlob(blob)
	item.UpdatedAt = updatedAt
	return nil
}

func (s *InMemoryStore) DeleteByID(_ context.Context, itemID id.VaultItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

func (s *InMemoryStore) DeleteByUser(_ context.Context, userID id.UserID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for itemID, item := range s.items {
		if item.UserID == userID {
			delete(s.items, itemID)
			removed++
		}
	}
	return removed, nil
}

func copyItem(item *models.Item) *models.Item {
	copied := *item
	copied.Blob = copyBlob(item.Blob)
	return &copied
}

func copyBlob(blob *crypto.Blob) *crypto.Blob {
	if blob == nil {
		return nil
	}
	return &crypto.Blob{
		KeyID:          blob.KeyID,
		WrappedDataKey: append([]byte(nil), blob.WrappedDataKey...),
		IV:             append([]byte(nil), blob.IV...),
		Tag:            append([]byte(nil), blob.Tag...),
		Ciphertext:     append([]byte(nil), blob.Ciphertext...),
	}
}
