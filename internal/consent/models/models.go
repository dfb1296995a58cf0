package models

import (
	"time"

	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
)

// Grant is one immutable row in the consent ledger.
//
// # Append-Only Invariant
//
// Rows are never mutated or deleted on the normal path. Revocation is a new
// row with Granted=false for the same scopes; a user's current consent for a
// scope is decided by the most recent row (by CreatedAt) whose scope set
// contains that scope. Keeping every decision as its own row is what makes
// the ledger usable as audit evidence.
//
// The only delete path is the subject-erasure routine, which removes a user's
// rows wholesale.
type Grant struct {
	ID            id.GrantID
	UserID        id.UserID
	Scopes        []Scope
	Granted       bool
	Region        string
	PolicyVersion string
	IPHash        string
	UserAgent     string
	CreatedAt     time.Time
}

// NewGrant creates a Grant with domain invariant checks.
func NewGrant(grantID id.GrantID, userID id.UserID, scopes []Scope, granted bool, createdAt time.Time) (*Grant, error) {
	if grantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "grant ID required")
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user ID required")
	}
	if len(scopes) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "at least one scope required")
	}
	for _, s := range scopes {
		if !s.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid consent scope")
		}
	}
	if createdAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "creation time required")
	}
	return &Grant{
		ID:        grantID,
		UserID:    userID,
		Scopes:    scopes,
		Granted:   granted,
		CreatedAt: createdAt,
	}, nil
}

// HasScope reports whether the grant's scope set contains s.
func (g Grant) HasScope(s Scope) bool {
	for _, scope := range g.Scopes {
		if scope == s {
			return true
		}
	}
	return false
}

// ConsentStatus is the answer to "does this user currently consent to this
// scope". Version and Region are populated only when Granted is true.
type ConsentStatus struct {
	Granted       bool
	PolicyVersion string
	Region        string
}

// ScopesResult aggregates per-scope checks. Missing lists every scope lacking
// consent so the caller can present one combined remediation message.
type ScopesResult struct {
	Granted bool
	Missing []Scope
}
