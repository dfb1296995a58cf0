// Package models defines the processing-log domain model: one append-only row
// per data-processing activity, recording who, what, on which lawful basis,
// and under which consent version.
package models

import (
	"time"

	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
)

// LawfulBasis names the legal ground a processing activity relies on.
type LawfulBasis string

const (
	BasisConsent            LawfulBasis = "consent"
	BasisLegitimateInterest LawfulBasis = "legitimate_interest"
	BasisContract           LawfulBasis = "contract"
	BasisLegalObligation    LawfulBasis = "legal_obligation"
)

// IsValid reports whether the basis is one of the defined grounds.
func (b LawfulBasis) IsValid() bool {
	switch b {
	case BasisConsent, BasisLegitimateInterest, BasisContract, BasisLegalObligation:
		return true
	}
	return false
}

// Well-known actions written by the policy gate. The action field is an open
// vocabulary; these are the ones emitted from inside this service.
const (
	ActionExternalLLMCall = "external_llm_call"
	ActionVaultAccess     = "vault_access"
	ActionSubjectErasure  = "subject_erasure"
)

// Entry is a single processing-log row. Rows are append-only and are only
// ever removed in bulk by the subject-erasure routine.
type Entry struct {
	ID             id.LogEntryID
	UserID         id.UserID
	Action         string
	LawfulBasis    LawfulBasis
	ConsentVersion string
	ScopesUsed     []string
	// SubjectID identifies the person the activity was about when that is
	// not the acting user (e.g. an operator erasing a subject's data).
	SubjectID *id.UserID
	// Metadata holds free-form context. It is redacted and size-capped by
	// the service before it ever reaches a store.
	Metadata  map[string]any
	CreatedAt time.Time
}

// NewEntry validates the minimal shape of a row before it is persisted.
func NewEntry(entryID id.LogEntryID, userID id.UserID, action string, basis LawfulBasis, createdAt time.Time) (*Entry, error) {
	if entryID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "log entry ID required")
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user ID required")
	}
	if action == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "action required")
	}
	if !basis.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid lawful basis")
	}
	if createdAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "creation time required")
	}
	return &Entry{
		ID:          entryID,
		UserID:      userID,
		Action:      action,
		LawfulBasis: basis,
		CreatedAt:   createdAt,
	}, nil
}

// StatsFilter narrows an aggregation query. A nil UserID aggregates across
// all users; Since bounds the trailing window.
type StatsFilter struct {
	UserID *id.UserID
	Since  time.Time
}
