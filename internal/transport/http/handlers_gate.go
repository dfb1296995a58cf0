package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	consentmodels "privacygate/internal/consent/models"
	"privacygate/internal/gate"
	"privacygate/internal/transport/http/json"
	"privacygate/internal/transport/http/shared"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	"privacygate/pkg/requestcontext"
	"privacygate/pkg/validation"
)

// GateService is the slice of the policy gate the transport needs.
type GateService interface {
	RouteExternalCall(ctx context.Context, userID id.UserID, call gate.ExternalCall) (gate.RouteResult, error)
	RedactForModel(text string) string
	SanitizeInput(v any) any
	EraseUser(ctx context.Context, subjectID id.UserID) (gate.ErasureReport, error)
}

// GateHandler exposes the policy gate over HTTP.
type GateHandler struct {
	logger *slog.Logger
	gate   GateService
}

func NewGateHandler(gate GateService, logger *slog.Logger) *GateHandler {
	return &GateHandler{logger: logger, gate: gate}
}

func (h *GateHandler) Register(r chi.Router) {
	r.Post("/route", h.handleRoute)
	r.Post("/redact", h.handleRedact)
	r.Delete("/me", h.handleEraseMe)
}

type routeCallRequest struct {
	Provider    string   `json:"provider" validate:"required,notblank,max=64"`
	Region      string   `json:"region" validate:"max=8"`
	Payload     string   `json:"payload"`
	ExtraScopes []string `json:"extra_scopes" validate:"omitempty,dive,notblank"`
}

type routeCallResponse struct {
	Blocked       bool     `json:"blocked"`
	MissingScopes []string `json:"missing_scopes,omitempty"`
	Decision      string   `json:"decision,omitempty"`
	Payload       string   `json:"payload,omitempty"`
}

func (h *GateHandler) handleRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req routeCallRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		shared.WriteError(w, err)
		return
	}
	extras, bad, ok := consentmodels.ParseScopes(req.ExtraScopes)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown consent scope: "+string(bad)))
		return
	}

	result, err := h.gate.RouteExternalCall(ctx, requestcontext.UserID(ctx), gate.ExternalCall{
		Provider:    req.Provider,
		Region:      req.Region,
		Payload:     req.Payload,
		ExtraScopes: extras,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resp := routeCallResponse{
		Blocked:  result.Blocked,
		Decision: string(result.Decision),
		Payload:  result.Payload,
	}
	for _, scope := range result.MissingScopes {
		resp.MissingScopes = append(resp.MissingScopes, string(scope))
	}
	status := http.StatusOK
	if result.Blocked {
		status = http.StatusForbidden
	}
	json.WriteJSON(w, status, resp)
}

type redactRequest struct {
	Text  *string `json:"text"`
	Value any     `json:"value"`
}

func (h *GateHandler) handleRedact(w http.ResponseWriter, r *http.Request) {
	var req redactRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if req.Text == nil && req.Value == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "text or value is required"))
		return
	}

	resp := map[string]any{}
	if req.Text != nil {
		resp["text"] = h.gate.RedactForModel(*req.Text)
	}
	if req.Value != nil {
		resp["value"] = h.gate.SanitizeInput(req.Value)
	}
	json.WriteJSON(w, http.StatusOK, resp)
}

type erasureResponse struct {
	VaultItems  int64 `json:"vault_items"`
	ConsentRows int64 `json:"consent_rows"`
	LogEntries  int64 `json:"log_entries"`
}

func (h *GateHandler) handleEraseMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.gate.EraseUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, erasureResponse{
		VaultItems:  report.VaultItems,
		ConsentRows: report.ConsentRows,
		LogEntries:  report.LogEntries,
	})
}
