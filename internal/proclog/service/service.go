// Package service implements the processing log: an append-only record of
// data-processing activity. Writes are best-effort by design — a failure to
// record an activity must never break the user-facing operation it observes.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"privacygate/internal/proclog/metrics"
	"privacygate/internal/proclog/models"
	"privacygate/internal/redact"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	"privacygate/pkg/requestcontext"
)

// MaxMetadataBytes caps the serialized size of an entry's metadata. Oversized
// metadata loses its largest values first, keeping as many distinct keys as
// possible.
const MaxMetadataBytes = 2048

// DefaultQueryLimit applies when a caller passes a non-positive limit.
const DefaultQueryLimit = 100

// Store defines the persistence interface for processing-log entries.
type Store interface {
	Append(ctx context.Context, entry *models.Entry) error
	ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.Entry, error)
	ListByAction(ctx context.Context, action string, limit int) ([]*models.Entry, error)
	CountByAction(ctx context.Context, filter models.StatsFilter) (map[string]int64, error)
	DeleteByUser(ctx context.Context, userID id.UserID) (int64, error)
}

type Option func(*Service)

// Service is the processing log.
type Service struct {
	store   Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{store: store, logger: logger}
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

// ActivityParams describes one processing activity to record.
type ActivityParams struct {
	UserID         id.UserID
	Action         string
	LawfulBasis    models.LawfulBasis
	ConsentVersion string
	ScopesUsed     []string
	SubjectID      *id.UserID
	Metadata       map[string]any
}

// LogActivity records one activity. It never returns an error: validation and
// persistence failures are logged at warn level and counted, and the caller's
// operation proceeds. Metadata is redacted and size-capped before it is
// written.
func (s *Service) LogActivity(ctx context.Context, params ActivityParams) {
	entry, err := models.NewEntry(id.NewLogEntryID(), params.UserID, params.Action, params.LawfulBasis, requestcontext.Now(ctx))
	if err != nil {
		s.swallow(ctx, params.Action, err)
		return
	}
	entry.ConsentVersion = params.ConsentVersion
	entry.ScopesUsed = params.ScopesUsed
	entry.SubjectID = params.SubjectID

	metadata, truncated := capMetadata(redact.Metadata(params.Metadata), MaxMetadataBytes)
	entry.Metadata = metadata
	if truncated {
		s.logger.WarnContext(ctx, "processing-log metadata truncated to fit size cap",
			"action", params.Action,
			"user_id", params.UserID,
		)
		if s.metrics != nil {
			s.metrics.IncrementMetadataTruncated()
		}
	}

	if err := s.store.Append(ctx, entry); err != nil {
		s.swallow(ctx, params.Action, err)
		return
	}
	if s.metrics != nil {
		s.metrics.IncrementEntriesRecorded(entry.Action)
	}
}

// swallow reports a failed write without propagating it.
func (s *Service) swallow(ctx context.Context, action string, err error) {
	s.logger.WarnContext(ctx, "processing-log write failed",
		"action", action,
		"error", err,
	)
	if s.metrics != nil {
		s.metrics.IncrementWriteFailures()
	}
}

// QueryByUser returns the user's entries, newest first.
func (s *Service) QueryByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.Entry, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	entries, err := s.store.ListByUser(ctx, userID, normalizeLimit(limit))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "query processing log by user")
	}
	return entries, nil
}

// QueryByAction returns entries for one action across users, newest first.
func (s *Service) QueryByAction(ctx context.Context, action string, limit int) ([]*models.Entry, error) {
	if action == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "action must not be empty")
	}
	entries, err := s.store.ListByAction(ctx, action, normalizeLimit(limit))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "query processing log by action")
	}
	return entries, nil
}

// AggregateStats counts entries per action over a trailing window of whole
// days. A nil userID aggregates across all users.
func (s *Service) AggregateStats(ctx context.Context, userID *id.UserID, windowDays int) (map[string]int64, error) {
	if windowDays <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "window must be at least one day")
	}
	filter := models.StatsFilter{
		UserID: userID,
		Since:  requestcontext.Now(ctx).Add(-time.Duration(windowDays) * 24 * time.Hour),
	}
	counts, err := s.store.CountByAction(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "aggregate processing-log stats")
	}
	return counts, nil
}

// DeleteByUser removes every entry for the user. It exists solely for the
// subject-erasure routine.
func (s *Service) DeleteByUser(ctx context.Context, userID id.UserID) (int64, error) {
	if userID.IsNil() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	count, err := s.store.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodePersistence, "delete processing-log entries")
	}
	s.logger.InfoContext(ctx, "processing-log entries erased", "user_id", userID, "count", count)
	if s.metrics != nil {
		s.metrics.AddEntriesErased(float64(count))
	}
	return count, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultQueryLimit
	}
	return limit
}

// capMetadata drops whole entries, largest serialized value first, until the
// metadata as a whole fits the byte limit. Reports whether anything was
// dropped. Metadata that cannot be serialized at all is replaced by nil.
func capMetadata(meta map[string]any, limit int) (map[string]any, bool) {
	if len(meta) == 0 {
		return meta, false
	}
	serialized, err := json.Marshal(meta)
	if err != nil {
		return nil, true
	}
	if len(serialized) <= limit {
		return meta, false
	}

	type sized struct {
		key  string
		size int
	}
	remaining := make(map[string]any, len(meta))
	entries := make([]sized, 0, len(meta))
	for k, v := range meta {
		remaining[k] = v
		size := 0
		if b, err := json.Marshal(v); err == nil {
			size = len(b)
		}
		entries = append(entries, sized{key: k, size: size})
	}
	// Largest first; ties broken by key so the result is deterministic.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].size != entries[j].size {
			return entries[i].size > entries[j].size
		}
		return entries[i].key < entries[j].key
	})

	for _, e := range entries {
		delete(remaining, e.key)
		if len(remaining) == 0 {
			return nil, true
		}
		serialized, err := json.Marshal(remaining)
		if err != nil {
			return nil, true
		}
		if len(serialized) <= limit {
			return remaining, true
		}
	}
	return nil, true
}
