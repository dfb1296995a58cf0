package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"privacygate/internal/proclog/models"
	id "privacygate/pkg/domain"
)

// PostgresStore persists processing-log entries in PostgreSQL. The table is
// append-only: INSERT, SELECT and (for subject erasure) DELETE, never UPDATE.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed processing-log store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// scopesUsed travels through the driver as a comma-joined string; metadata as
// a JSONB document. Scope names never contain commas.
const scopeSep = ","

func (s *PostgresStore) Append(ctx context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("processing-log entry is required")
	}
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal processing-log metadata: %w", err)
	}
	var subjectID any
	if entry.SubjectID != nil {
		subjectID = uuid.UUID(*entry.SubjectID)
	}
	query := `
		INSERT INTO processing_logs (id, user_id, action, lawful_basis, consent_version, scopes_used, subject_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, string_to_array($6, ','), $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		uuid.UUID(entry.UserID),
		entry.Action,
		string(entry.LawfulBasis),
		entry.ConsentVersion,
		strings.Join(entry.ScopesUsed, scopeSep),
		subjectID,
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append processing-log entry: %w", err)
	}
	return nil
}

const selectColumns = `id, user_id, action, lawful_basis, consent_version, array_to_string(scopes_used, ','), subject_id, metadata, created_at`

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.Entry, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM processing_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list processing-log entries by user: %w", err)
	}
	return collectEntries(rows)
}

func (s *PostgresStore) ListByAction(ctx context.Context, action string, limit int) ([]*models.Entry, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM processing_logs
		WHERE action = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, action, limit)
	if err != nil {
		return nil, fmt.Errorf("list processing-log entries by action: %w", err)
	}
	return collectEntries(rows)
}

func (s *PostgresStore) CountByAction(ctx context.Context, filter models.StatsFilter) (map[string]int64, error) {
	query := `
		SELECT action, COUNT(*)
		FROM processing_logs
		WHERE created_at >= $1 AND ($2::uuid IS NULL OR user_id = $2)
		GROUP BY action
	`
	var userID any
	if filter.UserID != nil {
		userID = uuid.UUID(*filter.UserID)
	}
	rows, err := s.db.QueryContext(ctx, query, filter.Since, userID)
	if err != nil {
		return nil, fmt.Errorf("count processing-log entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var action string
		var count int64
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("scan processing-log count: %w", err)
		}
		counts[action] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processing-log counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID id.UserID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM processing_logs WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return 0, fmt.Errorf("delete processing-log entries by user: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete processing-log rows: %w", err)
	}
	return count, nil
}

func collectEntries(rows *sql.Rows) ([]*models.Entry, error) {
	defer rows.Close()
	var entries []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan processing-log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processing-log entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (*models.Entry, error) {
	var entry models.Entry
	var entryID, userID uuid.UUID
	var subjectID uuid.NullUUID
	var basis, scopes string
	var metadata []byte
	if err := rows.Scan(&entryID, &userID, &entry.Action, &basis, &entry.ConsentVersion, &scopes, &subjectID, &metadata, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.ID = id.LogEntryID(entryID)
	entry.UserID = id.UserID(userID)
	entry.LawfulBasis = models.LawfulBasis(basis)
	if scopes != "" {
		entry.ScopesUsed = strings.Split(scopes, scopeSep)
	}
	if subjectID.Valid {
		sid := id.UserID(subjectID.UUID)
		entry.SubjectID = &sid
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &entry, nil
}
