// Package gate is the policy gate: the single choke point every external
// model call and privacy-sensitive operation passes through. It composes the
// consent ledger, the redaction engine, the region policy and the processing
// log into one guarded path.
package gate

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	consentmodels "privacygate/internal/consent/models"
	"privacygate/internal/events"
	"privacygate/internal/gate/metrics"
	proclogmodels "privacygate/internal/proclog/models"
	proclogservice "privacygate/internal/proclog/service"
	"privacygate/internal/redact"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	"privacygate/pkg/requestcontext"
)

const tracerName = "privacygate/gate"

// ConsentLedger is the slice of the consent service the gate depends on.
type ConsentLedger interface {
	HasConsent(ctx context.Context, userID id.UserID, scope consentmodels.Scope) (consentmodels.ConsentStatus, error)
	HasConsentForScopes(ctx context.Context, userID id.UserID, scopes []consentmodels.Scope) (consentmodels.ScopesResult, error)
	DeleteByUser(ctx context.Context, userID id.UserID) (int64, error)
}

// ProcessingLog is the slice of the processing-log service the gate depends on.
type ProcessingLog interface {
	LogActivity(ctx context.Context, params proclogservice.ActivityParams)
	DeleteByUser(ctx context.Context, userID id.UserID) (int64, error)
}

// Vault is the slice of the vault service the gate depends on.
type Vault interface {
	DeleteAllForUser(ctx context.Context, userID id.UserID) (int64, error)
}

type Option func(*Service)

// Service is the policy gate.
type Service struct {
	consent ConsentLedger
	proclog ProcessingLog
	vault   Vault
	policy  Policy
	metrics *metrics.Metrics
	events  *events.Publisher
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewService(consent ConsentLedger, proclog ProcessingLog, vault Vault, policy Policy, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		consent: consent,
		proclog: proclog,
		vault:   vault,
		policy:  policy,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithEvents publishes routing and erasure events for downstream systems.
// A nil publisher disables publishing.
func WithEvents(p *events.Publisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// ConsentCheck is the outcome of a consent requirement. When OK is false,
// Missing carries every scope the user still has to grant.
type ConsentCheck struct {
	OK      bool
	Version string
	Region  string
	Missing []consentmodels.Scope
}

// RequireConsent verifies the user currently consents to every scope. The
// reported policy version and region come from the ledger when available and
// fall back to the process defaults.
func (s *Service) RequireConsent(ctx context.Context, userID id.UserID, scopes []consentmodels.Scope) (ConsentCheck, error) {
	result, err := s.consent.HasConsentForScopes(ctx, userID, scopes)
	if err != nil {
		return ConsentCheck{}, err
	}
	if !result.Granted {
		return ConsentCheck{OK: false, Missing: result.Missing}, nil
	}

	check := ConsentCheck{OK: true, Version: s.policy.Version, Region: s.policy.DefaultRegion}
	if len(scopes) > 0 {
		status, err := s.consent.HasConsent(ctx, userID, scopes[0])
		if err != nil {
			return ConsentCheck{}, err
		}
		if status.PolicyVersion != "" {
			check.Version = status.PolicyVersion
		}
		if status.Region != "" {
			check.Region = status.Region
		}
	}
	return check, nil
}

// EnforceRegion exposes the policy decision table.
func (s *Service) EnforceRegion(provider, region string) Decision {
	return s.policy.EnforceRegion(provider, region)
}

// RedactForModel scrubs PII from text that is about to cross into an external
// model provider.
func (s *Service) RedactForModel(text string) string {
	return redact.Redact(text)
}

// SanitizeInput deep-redacts an arbitrary nested value before it is logged or
// forwarded.
func (s *Service) SanitizeInput(v any) any {
	return redact.Value(v)
}

// ExternalCall describes one outbound model call to be gated.
type ExternalCall struct {
	Provider string
	// Region of the request; empty means the process default.
	Region  string
	Payload string
	// ExtraScopes are required in addition to LLM processing consent.
	ExtraScopes []consentmodels.Scope
}

// RouteResult is the gate's verdict on an external call. When Blocked is set
// the call must not happen and MissingScopes tells the caller which grants to
// solicit; otherwise Payload carries the redacted text and Decision says
// where to send it.
type RouteResult struct {
	Blocked       bool
	MissingScopes []consentmodels.Scope
	Decision      Decision
	Payload       string
}

// RouteExternalCall runs the full gated path for one outbound model call:
// consent, then region policy, then redaction, then the processing-log entry.
// The redacted payload is unreachable without a passing consent check.
func (s *Service) RouteExternalCall(ctx context.Context, userID id.UserID, call ExternalCall) (RouteResult, error) {
	ctx, span := s.tracer.Start(ctx, "gate.RouteExternalCall",
		trace.WithAttributes(attribute.String("provider", call.Provider)))
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRouteLatency(time.Since(start).Seconds())
		}
	}()

	if call.Provider == "" {
		return RouteResult{}, dErrors.New(dErrors.CodeBadRequest, "provider must not be empty")
	}
	region := call.Region
	if region == "" {
		region = s.policy.DefaultRegion
	}

	scopes := append([]consentmodels.Scope{consentmodels.ScopeLLMProcessing}, call.ExtraScopes...)
	check, err := s.RequireConsent(ctx, userID, scopes)
	if err != nil {
		return RouteResult{}, err
	}
	if !check.OK {
		span.SetAttributes(attribute.Bool("blocked", true))
		s.logger.InfoContext(ctx, "external call blocked for missing consent",
			"user_id", userID,
			"provider", call.Provider,
			"missing_scopes", check.Missing,
		)
		if s.metrics != nil {
			s.metrics.IncrementCallsBlocked()
		}
		return RouteResult{Blocked: true, MissingScopes: check.Missing}, nil
	}

	decision := s.policy.EnforceRegion(call.Provider, region)
	redacted := redact.Redact(call.Payload)
	span.SetAttributes(attribute.String("decision", string(decision)))

	scopeNames := make([]string, len(scopes))
	for i, scope := range scopes {
		scopeNames[i] = string(scope)
	}
	s.proclog.LogActivity(ctx, proclogservice.ActivityParams{
		UserID:         userID,
		Action:         proclogmodels.ActionExternalLLMCall,
		LawfulBasis:    proclogmodels.BasisConsent,
		ConsentVersion: check.Version,
		ScopesUsed:     scopeNames,
		Metadata: map[string]any{
			"provider": call.Provider,
			"region":   region,
			"decision": string(decision),
		},
	})

	s.logger.InfoContext(ctx, "external call routed",
		"user_id", userID,
		"provider", call.Provider,
		"region", region,
		"decision", decision,
	)
	if s.metrics != nil {
		s.metrics.IncrementCallsRouted(call.Provider, string(decision))
	}
	s.events.Emit(ctx, events.Event{
		UserID:    userID,
		Action:    events.ActionCallRouted,
		Provider:  call.Provider,
		Decision:  string(decision),
		RequestID: requestcontext.RequestID(ctx),
	})
	return RouteResult{Decision: decision, Payload: redacted}, nil
}
