// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "privacygate/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a UserID where a VaultItemID is expected.
type (
	UserID      uuid.UUID
	GrantID     uuid.UUID
	VaultItemID uuid.UUID
	LogEntryID  uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseGrantID(s string) (GrantID, error) {
	id, err := parseUUID(s, "grant ID")
	return GrantID(id), err
}

func ParseVaultItemID(s string) (VaultItemID, error) {
	id, err := parseUUID(s, "vault item ID")
	return VaultItemID(id), err
}

func ParseLogEntryID(s string) (LogEntryID, error) {
	id, err := parseUUID(s, "log entry ID")
	return LogEntryID(id), err
}

// New functions - for freshly created entities.

func NewGrantID() GrantID         { return GrantID(uuid.New()) }
func NewVaultItemID() VaultItemID { return VaultItemID(uuid.New()) }
func NewLogEntryID() LogEntryID   { return LogEntryID(uuid.New()) }

// String methods - for logging and debugging.

func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id GrantID) String() string     { return uuid.UUID(id).String() }
func (id VaultItemID) String() string { return uuid.UUID(id).String() }
func (id LogEntryID) String() string  { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id GrantID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id VaultItemID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id LogEntryID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Nil UUIDs are allowed here; use IsNil() at the service layer for business
// validation so store lookups can return proper "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
