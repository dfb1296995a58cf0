package store

import (
	"context"

	"privacygate/internal/consent/models"
	id "privacygate/pkg/domain"
)

// Store is the persistence interface for the append-only consent ledger.
//
// Error Contract:
// - LatestForScope returns sentinel.ErrNotFound when no row mentions the scope
// - Other methods return nil on success or wrapped errors on failure
// - Append never updates an existing row; concurrent appends never conflict
type Store interface {
	Append(ctx context.Context, grant *models.Grant) error
	LatestForScope(ctx context.Context, userID id.UserID, scope models.Scope) (*models.Grant, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Grant, error)
	DeleteByUser(ctx context.Context, userID id.UserID) (int64, error)
}
