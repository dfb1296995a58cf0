// Package store persists encrypted vault items.
package store

import (
	"context"
	"time"

	"privacygate/internal/crypto"
	"privacygate/internal/vault/models"
	id "privacygate/pkg/domain"
)

// Store is the persistence boundary for vault items. Implementations return
// sentinel errors from internal/sentinel; the service layer translates them
// into domain errors. Stores only ever see ciphertext.
type Store interface {
	Insert(ctx context.Context, item *models.Item) error

	// GetByID returns sentinel.ErrNotFound when the item does not exist.
	GetByID(ctx context.Context, itemID id.VaultItemID) (*models.Item, error)

	// ListByUser returns the user's items; an empty kind matches all kinds.
	ListByUser(ctx context.Context, userID id.UserID, kind string) ([]*models.Item, error)

	// UpdateBlob replaces an item's encrypted payload. Returns
	// sentinel.ErrNotFound when the item does not exist.
	UpdateBlob(ctx context.Context, itemID id.VaultItemID, blob *crypto.Blob, updatedAt time.Time) error

	// DeleteByID returns sentinel.ErrNotFound when the item does not exist.
	DeleteByID(ctx context.Context, itemID id.VaultItemID) error

	// DeleteByUser removes every item for the user and reports how many
	// were removed.
	DeleteByUser(ctx context.Context, userID id.UserID) (int64, error)
}
