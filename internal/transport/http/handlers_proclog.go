package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	proclogmodels "privacygate/internal/proclog/models"
	"privacygate/internal/transport/http/json"
	"privacygate/internal/transport/http/shared"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	"privacygate/pkg/requestcontext"
)

const defaultStatsWindowDays = 30

// ProcessingLogService is the slice of the processing log the transport needs.
type ProcessingLogService interface {
	QueryByUser(ctx context.Context, userID id.UserID, limit int) ([]*proclogmodels.Entry, error)
	AggregateStats(ctx context.Context, userID *id.UserID, windowDays int) (map[string]int64, error)
}

// ProcessingLogHandler exposes the per-user processing history over HTTP.
type ProcessingLogHandler struct {
	logger  *slog.Logger
	proclog ProcessingLogService
}

func NewProcessingLogHandler(proclog ProcessingLogService, logger *slog.Logger) *ProcessingLogHandler {
	return &ProcessingLogHandler{logger: logger, proclog: proclog}
}

func (h *ProcessingLogHandler) Register(r chi.Router) {
	r.Get("/logs", h.handleList)
	r.Get("/logs/stats", h.handleStats)
}

type logEntryResponse struct {
	EntryID        string         `json:"entry_id"`
	Action         string         `json:"action"`
	LawfulBasis    string         `json:"lawful_basis"`
	ConsentVersion string         `json:"consent_version,omitempty"`
	ScopesUsed     []string       `json:"scopes_used,omitempty"`
	SubjectID      string         `json:"subject_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      string         `json:"created_at"`
}

func (h *ProcessingLogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entries, err := h.proclog.QueryByUser(ctx, requestcontext.UserID(ctx), limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]logEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toLogEntryResponse(entry))
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{"entries": out})
}

func (h *ProcessingLogHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	windowDays, err := intQuery(r, "window_days", defaultStatsWindowDays)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	userID := requestcontext.UserID(ctx)
	stats, err := h.proclog.AggregateStats(ctx, &userID, windowDays)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{
		"window_days": windowDays,
		"actions":     stats,
	})
}

func toLogEntryResponse(entry *proclogmodels.Entry) logEntryResponse {
	resp := logEntryResponse{
		EntryID:        entry.ID.String(),
		Action:         entry.Action,
		LawfulBasis:    string(entry.LawfulBasis),
		ConsentVersion: entry.ConsentVersion,
		ScopesUsed:     entry.ScopesUsed,
		Metadata:       entry.Metadata,
		CreatedAt:      entry.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if entry.SubjectID != nil {
		resp.SubjectID = entry.SubjectID.String()
	}
	return resp
}

func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}
