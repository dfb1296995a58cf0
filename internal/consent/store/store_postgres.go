package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"privacygate/internal/consent/models"
	"privacygate/internal/sentinel"
	id "privacygate/pkg/domain"
)

// PostgresStore persists consent grants in PostgreSQL. The consents table is
// append-only: this store issues INSERT, SELECT and (for subject erasure)
// DELETE, never UPDATE.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed consent store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Scopes live in a text[] column; they cross the driver boundary as
// comma-joined strings via array_to_string/string_to_array so the store can
// stay on database/sql. Scope names never contain commas.
const scopeSep = ","

func (s *PostgresStore) Append(ctx context.Context, grant *models.Grant) error {
	if grant == nil {
		return fmt.Errorf("consent grant is required")
	}
	query := `
		INSERT INTO consents (id, user_id, policy_version, scopes, region, granted, ip_hash, user_agent, created_at)
		VALUES ($1, $2, $3, string_to_array($4, ','), $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(grant.ID),
		uuid.UUID(grant.UserID),
		grant.PolicyVersion,
		joinScopes(grant.Scopes),
		grant.Region,
		grant.Granted,
		grant.IPHash,
		grant.UserAgent,
		grant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append consent grant: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestForScope(ctx context.Context, userID id.UserID, scope models.Scope) (*models.Grant, error) {
	query := `
		SELECT id, user_id, policy_version, array_to_string(scopes, ','), region, granted, ip_hash, user_agent, created_at
		FROM consents
		WHERE user_id = $1 AND $2 = ANY(scopes)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	grant, err := scanGrant(s.db.QueryRowContext(ctx, query, uuid.UUID(userID), string(scope)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("latest consent for scope: %w", err)
	}
	return grant, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Grant, error) {
	query := `
		SELECT id, user_id, policy_version, array_to_string(scopes, ','), region, granted, ip_hash, user_agent, created_at
		FROM consents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list consent grants: %w", err)
	}
	defer rows.Close()

	var grants []*models.Grant
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent grants: %w", err)
	}
	return grants, nil
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID id.UserID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM consents WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return 0, fmt.Errorf("delete consent grants by user: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete consent grants rows: %w", err)
	}
	return count, nil
}

type grantRow interface {
	Scan(dest ...any) error
}

func scanGrant(row grantRow) (*models.Grant, error) {
	var grant models.Grant
	var grantID, userID uuid.UUID
	var scopes string
	if err := row.Scan(&grantID, &userID, &grant.PolicyVersion, &scopes, &grant.Region, &grant.Granted, &grant.IPHash, &grant.UserAgent, &grant.CreatedAt); err != nil {
		return nil, err
	}
	grant.ID = id.GrantID(grantID)
	grant.UserID = id.UserID(userID)
	grant.Scopes = splitScopes(scopes)
	return &grant, nil
}

func joinScopes(scopes []models.Scope) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	return strings.Join(parts, scopeSep)
}

func splitScopes(joined string) []models.Scope {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, scopeSep)
	scopes := make([]models.Scope, len(parts))
	for i, p := range parts {
		scopes[i] = models.Scope(p)
	}
	return scopes
}
