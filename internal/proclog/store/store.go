// Package store persists processing-log entries.
package store

import (
	"context"

	"privacygate/internal/proclog/models"
	id "privacygate/pkg/domain"
)

// Store is the persistence boundary for the processing log. Implementations
// return sentinel errors from internal/sentinel; the service layer translates
// them into domain errors.
type Store interface {
	// Append writes one row. Rows are immutable once written.
	Append(ctx context.Context, entry *models.Entry) error

	// ListByUser returns the user's rows, newest first, at most limit.
	ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.Entry, error)

	// ListByAction returns rows for one action across users, newest first,
	// at most limit.
	ListByAction(ctx context.Context, action string, limit int) ([]*models.Entry, error)

	// CountByAction aggregates row counts per action within the filter.
	CountByAction(ctx context.Context, filter models.StatsFilter) (map[string]int64, error)

	// DeleteByUser removes every row for the user and reports how many
	// were removed. Only the subject-erasure routine calls this.
	DeleteByUser(ctx context.Context, userID id.UserID) (int64, error)
}
