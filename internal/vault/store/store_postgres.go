package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"privacygate/internal/crypto"
	"privacygate/internal/sentinel"
	"privacygate/internal/vault/models"
	id "privacygate/pkg/domain"
)

// PostgresStore persists encrypted vault items in PostgreSQL. Envelope
// components are stored in separate bytea columns so corruption of one item
// never affects another.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed vault store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, item *models.Item) error {
	if item == nil || item.Blob == nil {
		return fmt.Errorf("vault item with payload is required")
	}
	query := `
		INSERT INTO pii_vault (id, user_id, kind, key_id, data_key_encrypted, iv, tag, ciphertext, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(item.ID),
		uuid.UUID(item.UserID),
		item.Kind,
		item.Blob.KeyID,
		item.Blob.WrappedDataKey,
		item.Blob.IV,
		item.Blob.Tag,
		item.Blob.Ciphertext,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vault item: %w", err)
	}
	return nil
}

const itemColumns = `id, user_id, kind, key_id, data_key_encrypted, iv, tag, ciphertext, updated_at`

func (s *PostgresStore) GetByID(ctx context.Context, itemID id.VaultItemID) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM pii_vault WHERE id = $1`
	item, err := scanItem(s.db.QueryRowContext(ctx, query, uuid.UUID(itemID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get vault item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, kind string) ([]*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM pii_vault
		WHERE user_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY updated_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID), kind)
	if err != nil {
		return nil, fmt.Errorf("list vault items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vault item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vault items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) UpdateBlob(ctx context.Context, itemID id.VaultItemID, blob *crypto.Blob, updatedAt time.Time) error {
	if blob == nil {
		return fmt.Errorf("encrypted payload is required")
	}
	query := `
		UPDATE pii_vault
		SET key_id = $2, data_key_encrypted = $3, iv = $4, tag = $5, ciphertext = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(itemID),
		blob.KeyID,
		blob.WrappedDataKey,
		blob.IV,
		blob.Tag,
		blob.Ciphertext,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vault item: %w", err)
	}
	return mapAffected(res)
}

func (s *PostgresStore) DeleteByID(ctx context.Context, itemID id.VaultItemID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pii_vault WHERE id = $1`, uuid.UUID(itemID))
	if err != nil {
		return fmt.Errorf("delete vault item: %w", err)
	}
	return mapAffected(res)
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID id.UserID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pii_vault WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return 0, fmt.Errorf("delete vault items by user: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete vault rows: %w", err)
	}
	return count, nil
}

// mapAffected turns a zero-row mutation into sentinel.ErrNotFound.
func mapAffected(res sql.Result) error {
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("vault rows affected: %w", err)
	}
	if count == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type itemRow interface {
	Scan(dest ...any) error
}

func scanItem(row itemRow) (*models.Item, error) {
	var item models.Item
	var itemID, userID uuid.UUID
	var blob crypto.Blob
	if err := row.Scan(&itemID, &userID, &item.Kind, &blob.KeyID, &blob.WrappedDataKey, &blob.IV, &blob.Tag, &blob.Ciphertext, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.ID = id.VaultItemID(itemID)
	item.UserID = id.UserID(userID)
	item.Blob = &blob
	return &item, nil
}
