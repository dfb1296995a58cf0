// Package events publishes privacy lifecycle events for downstream systems.
// Consent changes and erasures must reach dependent services (mailers,
// schedulers, analytics) so they can stop processing a user's data; this
// package is the fan-out point.
package events

import (
	"time"

	id "privacygate/pkg/domain"
)

// Action names carried on the event bus.
const (
	ActionConsentGranted = "consent_granted"
	ActionConsentRevoked = "consent_revoked"
	ActionSubjectErased  = "subject_erased"
	ActionCallRouted     = "external_call_routed"
)

// Event is emitted from domain logic to notify downstream consumers. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    id.UserID `json:"user_id"`
	Action    string    `json:"action"`
	// Scopes affected by a consent change; empty otherwise.
	Scopes []string `json:"scopes,omitempty"`
	// Provider and Decision describe a routed external call.
	Provider  string `json:"provider,omitempty"`
	Decision  string `json:"decision,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
