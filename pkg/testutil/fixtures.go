package testutil

import (
	"time"

	"github.com/google/uuid"

	consentmodels "privacygate/internal/consent/models"
	proclogmodels "privacygate/internal/proclog/models"
	id "privacygate/pkg/domain"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	UserID1 id.UserID
	UserID2 id.UserID
	ItemID1 id.VaultItemID
	ItemID2 id.VaultItemID
}{
	UserID1: id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2: id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	ItemID1: id.VaultItemID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	ItemID2: id.VaultItemID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
}

// GrantBuilder provides a fluent interface for building consent ledger rows.
type GrantBuilder struct {
	grant *consentmodels.Grant
}

// NewGrantBuilder creates a GrantBuilder with sensible defaults.
func NewGrantBuilder() *GrantBuilder {
	return &GrantBuilder{
		grant: &consentmodels.Grant{
			ID:            id.NewGrantID(),
			UserID:        TestIDs.UserID1,
			Scopes:        []consentmodels.Scope{consentmodels.ScopeLLMProcessing},
			Granted:       true,
			Region:        "EU",
			PolicyVersion: "2025-01",
			CreatedAt:     time.Now().UTC(),
		},
	}
}

func (b *GrantBuilder) WithUser(userID id.UserID) *GrantBuilder {
	b.grant.UserID = userID
	return b
}

func (b *GrantBuilder) WithScopes(scopes ...consentmodels.Scope) *GrantBuilder {
	b.grant.Scopes = scopes
	return b
}

func (b *GrantBuilder) Revoked() *GrantBuilder {
	b.grant.Granted = false
	return b
}

func (b *GrantBuilder) At(t time.Time) *GrantBuilder {
	b.grant.CreatedAt = t
	return b
}

func (b *GrantBuilder) Build() *consentmodels.Grant {
	grant := *b.grant
	return &grant
}

// NewTestEntry builds a minimal processing-log row for a user.
func NewTestEntry(userID id.UserID, action string) *proclogmodels.Entry {
	return &proclogmodels.Entry{
		ID:          id.NewLogEntryID(),
		UserID:      userID,
		Action:      action,
		LawfulBasis: proclogmodels.BasisConsent,
		ScopesUsed:  []string{string(consentmodels.ScopeLLMProcessing)},
		CreatedAt:   time.Now().UTC(),
	}
}
