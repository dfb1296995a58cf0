// Package models defines the PII vault domain model. The vault stores
// personal data as independently encrypted items; plaintext exists only in
// memory, inside a request.
package models

import (
	"time"

	"privacygate/internal/crypto"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
)

// Item is one encrypted vault row. The payload is opaque at this layer: only
// the crypto engine can turn Blob back into data.
type Item struct {
	ID        id.VaultItemID
	UserID    id.UserID
	Kind      string
	Blob      *crypto.Blob
	UpdatedAt time.Time
}

// NewItem validates an item before its first insert.
func NewItem(itemID id.VaultItemID, userID id.UserID, kind string, blob *crypto.Blob, updatedAt time.Time) (*Item, error) {
	if itemID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vault item ID required")
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user ID required")
	}
	if kind == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "item kind required")
	}
	if blob == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "encrypted payload required")
	}
	if updatedAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "update time required")
	}
	return &Item{
		ID:        itemID,
		UserID:    userID,
		Kind:      kind,
		Blob:      blob,
		UpdatedAt: updatedAt,
	}, nil
}

// Record is a decrypted item as returned to callers.
type Record struct {
	ID   id.VaultItemID
	Kind string
	Data any
}
