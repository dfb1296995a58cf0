package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	consentmodels "privacygate/internal/consent/models"
	"privacygate/internal/transport/http/json"
	"privacygate/internal/transport/http/shared"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	strutil "privacygate/pkg/platform/strings"
	"privacygate/pkg/requestcontext"
	"privacygate/pkg/validation"
)

// ConsentService is the slice of the consent ledger the transport needs.
type ConsentService interface {
	RecordGrant(ctx context.Context, userID id.UserID, scopes []consentmodels.Scope, granted bool) (*consentmodels.Grant, error)
	HasConsentForScopes(ctx context.Context, userID id.UserID, scopes []consentmodels.Scope) (consentmodels.ScopesResult, error)
	Current(ctx context.Context, userID id.UserID) (map[consentmodels.Scope]consentmodels.ConsentStatus, error)
	History(ctx context.Context, userID id.UserID) ([]*consentmodels.Grant, error)
}

// ConsentHandler exposes the consent ledger over HTTP.
type ConsentHandler struct {
	logger  *slog.Logger
	consent ConsentService
}

func NewConsentHandler(consent ConsentService, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{logger: logger, consent: consent}
}

func (h *ConsentHandler) Register(r chi.Router) {
	r.Post("/consent", h.handleRecord)
	r.Post("/consent/revoke", h.handleRevoke)
	r.Post("/consent/check", h.handleCheck)
	r.Get("/consent", h.handleCurrent)
}

type consentRequest struct {
	Scopes []string `json:"scopes" validate:"required,min=1,dive,notblank"`
}

type grantResponse struct {
	GrantID       string   `json:"grant_id"`
	Scopes        []string `json:"scopes"`
	Granted       bool     `json:"granted"`
	PolicyVersion string   `json:"policy_version"`
	Region        string   `json:"region"`
	CreatedAt     string   `json:"created_at"`
}

func (h *ConsentHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, true)
}

func (h *ConsentHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, false)
}

func (h *ConsentHandler) record(w http.ResponseWriter, r *http.Request, granted bool) {
	ctx := r.Context()

	var req consentRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		shared.WriteError(w, err)
		return
	}
	scopes, bad, ok := consentmodels.ParseScopes(strutil.DedupeAndTrim(req.Scopes))
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown consent scope: "+string(bad)))
		return
	}

	grant, err := h.consent.RecordGrant(ctx, requestcontext.UserID(ctx), scopes, granted)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusCreated, toGrantResponse(grant))
}

type checkConsentResponse struct {
	Granted bool     `json:"granted"`
	Missing []string `json:"missing,omitempty"`
}

func (h *ConsentHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req consentRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		shared.WriteError(w, err)
		return
	}
	scopes, bad, ok := consentmodels.ParseScopes(req.Scopes)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown consent scope: "+string(bad)))
		return
	}

	result, err := h.consent.HasConsentForScopes(ctx, requestcontext.UserID(ctx), scopes)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	resp := checkConsentResponse{Granted: result.Granted}
	for _, scope := range result.Missing {
		resp.Missing = append(resp.Missing, string(scope))
	}
	json.WriteJSON(w, http.StatusOK, resp)
}

type scopeStatusResponse struct {
	Scope         string `json:"scope"`
	Granted       bool   `json:"granted"`
	PolicyVersion string `json:"policy_version,omitempty"`
	Region        string `json:"region,omitempty"`
}

func (h *ConsentHandler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	if r.URL.Query().Get("history") == "true" {
		grants, err := h.consent.History(ctx, userID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		out := make([]grantResponse, 0, len(grants))
		for _, grant := range grants {
			out = append(out, toGrantResponse(grant))
		}
		json.WriteJSON(w, http.StatusOK, map[string]any{"history": out})
		return
	}

	current, err := h.consent.Current(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	scopes := make([]string, 0, len(current))
	for scope := range current {
		scopes = append(scopes, string(scope))
	}
	sort.Strings(scopes)

	out := make([]scopeStatusResponse, 0, len(current))
	for _, scope := range scopes {
		status := current[consentmodels.Scope(scope)]
		out = append(out, scopeStatusResponse{
			Scope:         scope,
			Granted:       status.Granted,
			PolicyVersion: status.PolicyVersion,
			Region:        status.Region,
		})
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{"consents": out})
}

func toGrantResponse(grant *consentmodels.Grant) grantResponse {
	scopes := make([]string, len(grant.Scopes))
	for i, scope := range grant.Scopes {
		scopes[i] = string(scope)
	}
	return grantResponse{
		GrantID:       grant.ID.String(),
		Scopes:        scopes,
		Granted:       grant.Granted,
		PolicyVersion: grant.PolicyVersion,
		Region:        grant.Region,
		CreatedAt:     grant.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
