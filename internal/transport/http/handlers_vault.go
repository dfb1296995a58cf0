package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"privacygate/internal/transport/http/json"
	"privacygate/internal/transport/http/shared"
	vaultmodels "privacygate/internal/vault/models"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	"privacygate/pkg/requestcontext"
	"privacygate/pkg/validation"
)

// VaultService is the slice of the PII vault the transport needs.
type VaultService interface {
	Store(ctx context.Context, userID id.UserID, kind string, data any) (id.VaultItemID, error)
	Fetch(ctx context.Context, userID id.UserID, kind string) ([]vaultmodels.Record, error)
	Update(ctx context.Context, userID id.UserID, itemID id.VaultItemID, data any) error
	DeleteItem(ctx context.Context, userID id.UserID, itemID id.VaultItemID) error
	DeleteAllForUser(ctx context.Context, userID id.UserID) (int64, error)
}

// VaultHandler exposes encrypted PII storage over HTTP.
type VaultHandler struct {
	logger *slog.Logger
	vault  VaultService
}

func NewVaultHandler(vault VaultService, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{logger: logger, vault: vault}
}

func (h *VaultHandler) Register(r chi.Router) {
	r.Post("/vault", h.handleStore)
	r.Get("/vault", h.handleFetch)
	r.Put("/vault/{itemID}", h.handleUpdate)
	r.Delete("/vault/{itemID}", h.handleDeleteItem)
	r.Delete("/vault", h.handleDeleteAll)
}

type storeItemRequest struct {
	Kind string `json:"kind" validate:"required,notblank,max=64"`
	Data any    `json:"data" validate:"required"`
}

type storeItemResponse struct {
	ItemID string `json:"item_id"`
}

func (h *VaultHandler) handleStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req storeItemRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	itemID, err := h.vault.Store(ctx, requestcontext.UserID(ctx), req.Kind, req.Data)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusCreated, storeItemResponse{ItemID: itemID.String()})
}

type vaultRecordResponse struct {
	ItemID string `json:"item_id"`
	Kind   string `json:"kind"`
	Data   any    `json:"data"`
}

func (h *VaultHandler) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.vault.Fetch(ctx, requestcontext.UserID(ctx), r.URL.Query().Get("kind"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]vaultRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, vaultRecordResponse{ItemID: rec.ID.String(), Kind: rec.Kind, Data: rec.Data})
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

type updateItemRequest struct {
	Data any `json:"data" validate:"required"`
}

func (h *VaultHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := id.ParseVaultItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateItemRequest
	if err := json.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.vault.Update(ctx, requestcontext.UserID(ctx), itemID, req.Data); err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *VaultHandler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := id.ParseVaultItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.vault.DeleteItem(ctx, requestcontext.UserID(ctx), itemID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VaultHandler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deleted, err := h.vault.DeleteAllForUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
