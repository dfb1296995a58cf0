// Package service implements the PII vault: encrypted-at-rest storage of
// personal data keyed by user and kind. Every write mints a fresh data key
// through the crypto engine, so no two stored payloads ever share one.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"privacygate/internal/crypto"
	"privacygate/internal/sentinel"
	"privacygate/internal/vault/metrics"
	"privacygate/internal/vault/models"
	"privacygate/internal/vault/store"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	"privacygate/pkg/requestcontext"
)

// maxConcurrentDecrypts bounds the fan-out when a fetch decrypts many rows.
const maxConcurrentDecrypts = 8

type Option func(*Service)

// Service is the PII vault.
type Service struct {
	store   store.Store
	engine  *crypto.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(st store.Store, engine *crypto.Engine, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{store: st, engine: engine, logger: logger}
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

// Store encrypts data under a fresh data key and persists it as a new item.
func (s *Service) Store(ctx context.Context, userID id.UserID, kind string, data any) (id.VaultItemID, error) {
	if userID.IsNil() {
		return id.VaultItemID{}, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	if kind == "" {
		return id.VaultItemID{}, dErrors.New(dErrors.CodeBadRequest, "item kind must not be empty")
	}

	blob, err := s.engine.Encrypt(data)
	if err != nil {
		return id.VaultItemID{}, err
	}
	item, err := models.NewItem(id.NewVaultItemID(), userID, kind, blob, requestcontext.Now(ctx))
	if err != nil {
		return id.VaultItemID{}, err
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return id.VaultItemID{}, dErrors.Wrap(err, dErrors.CodePersistence, "store vault item")
	}

	s.logger.InfoContext(ctx, "vault item stored", "item_id", item.ID, "user_id", userID, "kind", kind)
	if s.metrics != nil {
		s.metrics.IncrementItemsWritten("store")
	}
	return item.ID, nil
}

// Fetch returns the user's decrypted items, optionally filtered by kind.
// Rows are decrypted independently; a row that fails authentication is
// skipped and logged rather than failing the whole fetch.
func (s *Service) Fetch(ctx context.Context, userID id.UserID, kind string) ([]models.Record, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveFetchLatency(time.Since(start).Seconds())
		}
	}()

	items, err := s.store.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "fetch vault items")
	}

	// Decrypt into fixed slots so store order survives the fan-out; failed
	// slots stay nil and are compacted away below.
	decrypted := make([]*models.Record, len(items))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDecrypts)
	for i, item := range items {
		g.Go(func() error {
			var data any
			if err := s.engine.Decrypt(item.Blob, &data); err != nil {
				s.logger.WarnContext(ctx, "vault item failed to decrypt, skipping",
					"item_id", item.ID,
					"user_id", userID,
					"kind", item.Kind,
					"error", err,
				)
				if s.metrics != nil {
					s.metrics.IncrementDecryptFailures()
				}
				return nil
			}
			decrypted[i] = &models.Record{ID: item.ID, Kind: item.Kind, Data: data}
			return nil
		})
	}
	// Workers only report decryption outcomes, never errors.
	_ = g.Wait()

	records := make([]models.Record, 0, len(items))
	for _, record := range decrypted {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, nil
}

// Update re-encrypts an item's payload under a fresh data key. The item must
// belong to the calling user; a foreign item looks identical to a missing one.
func (s *Service) Update(ctx context.Context, userID id.UserID, itemID id.VaultItemID, data any) error {
	item, err := s.getOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	blob, err := s.engine.Encrypt(data)
	if err != nil {
		return err
	}
	if err := s.store.UpdateBlob(ctx, item.ID, blob, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return errItemNotFound()
		}
		return dErrors.Wrap(err, dErrors.CodePersistence, "update vault item")
	}

	s.logger.InfoContext(ctx, "vault item updated", "item_id", itemID, "user_id", userID)
	if s.metrics != nil {
		s.metrics.IncrementItemsWritten("update")
	}
	return nil
}

// DeleteItem removes one item owned by the calling user.
func (s *Service) DeleteItem(ctx context.Context, userID id.UserID, itemID id.VaultItemID) error {
	item, err := s.getOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, item.ID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return errItemNotFound()
		}
		return dErrors.Wrap(err, dErrors.CodePersistence, "delete vault item")
	}
	s.logger.InfoContext(ctx, "vault item deleted", "item_id", itemID, "user_id", userID)
	return nil
}

// DeleteAllForUser removes every item for the user. It exists for the
// subject-erasure routine.
func (s *Service) DeleteAllForUser(ctx context.Context, userID id.UserID) (int64, error) {
	if userID.IsNil() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	count, err := s.store.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodePersistence, "delete vault items")
	}
	s.logger.InfoContext(ctx, "vault items erased", "user_id", userID, "count", count)
	if s.metrics != nil {
		s.metrics.AddItemsErased(float64(count))
	}
	return count, nil
}

// getOwned loads an item and enforces ownership without revealing whether a
// foreign item exists.
func (s *Service) getOwned(ctx context.Context, userID id.UserID, itemID id.VaultItemID) (*models.Item, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing user identifier")
	}
	if itemID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "item ID must not be empty")
	}
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errItemNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "load vault item")
	}
	if item.UserID != userID {
		return nil, errItemNotFound()
	}
	return item, nil
}

func errItemNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "vault item not found")
}
