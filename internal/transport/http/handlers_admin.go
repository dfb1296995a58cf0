package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"privacygate/internal/gate"
	"privacygate/internal/transport/http/json"
	"privacygate/internal/transport/http/shared"
	id "privacygate/pkg/domain"
	"privacygate/pkg/platform/middleware/admin"
	"privacygate/pkg/requestcontext"
)

// AdminService is the operator-facing slice of the gate and processing log.
type AdminService interface {
	EraseUser(ctx context.Context, subjectID id.UserID) (gate.ErasureReport, error)
	AggregateStats(ctx context.Context, userID *id.UserID, windowDays int) (map[string]int64, error)
}

// AdminHandler exposes operator endpoints: subject erasure on behalf of a
// data-subject request, and processing stats across all users.
type AdminHandler struct {
	logger *slog.Logger
	svc    AdminService
}

func NewAdminHandler(svc AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{logger: logger, svc: svc}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Delete("/users/{userID}", h.handleEraseUser)
	r.Get("/logs/stats", h.handleStats)
}

func (h *AdminHandler) handleEraseUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subjectID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// When the operator header carries a user ID, attribute the erasure entry
	// to that operator rather than the subject.
	if actorID, parseErr := id.ParseUserID(admin.GetAdminActorID(ctx)); parseErr == nil {
		ctx = requestcontext.WithUserID(ctx, actorID)
	}

	report, err := h.svc.EraseUser(ctx, subjectID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "subject erased by operator",
		"subject_id", subjectID.String(),
		"actor_id", admin.GetAdminActorID(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	json.WriteJSON(w, http.StatusOK, erasureResponse{
		VaultItems:  report.VaultItems,
		ConsentRows: report.ConsentRows,
		LogEntries:  report.LogEntries,
	})
}

func (h *AdminHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	windowDays, err := intQuery(r, "window_days", defaultStatsWindowDays)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var userFilter *id.UserID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, parseErr := id.ParseUserID(raw)
		if parseErr != nil {
			shared.WriteError(w, parseErr)
			return
		}
		userFilter = &userID
	}

	stats, err := h.svc.AggregateStats(ctx, userFilter, windowDays)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{
		"window_days": windowDays,
		"actions":     stats,
	})
}
