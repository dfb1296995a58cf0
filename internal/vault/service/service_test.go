package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"privacygate/internal/crypto"
	"privacygate/internal/vault/store"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	service *Service
	userID  id.UserID
}

func (s *ServiceSuite) SetupTest() {
	master, err := crypto.LoadMasterKey(testKeyHex)
	s.Require().NoError(err)
	s.store = store.NewMemory()
	s.service = NewService(s.store, crypto.NewEngine(master), slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.userID = id.UserID(uuid.New())
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestStoreFetchRoundTrip() {
	data := map[string]any{"email": "a@b.com", "verified": true}
	itemID, err := s.service.Store(context.Background(), s.userID, "contact", data)
	s.Require().NoError(err)
	s.False(itemID.IsNil())

	records, err := s.service.Fetch(context.Background(), s.userID, "")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(itemID, records[0].ID)
	s.Equal("contact", records[0].Kind)
	s.Equal(map[string]any{"email": "a@b.com", "verified": true}, records[0].Data)
}

func (s *ServiceSuite) TestFetchFiltersByKind() {
	_, err := s.service.Store(context.Background(), s.userID, "contact", "c")
	s.Require().NoError(err)
	_, err = s.service.Store(context.Background(), s.userID, "payment", "p")
	s.Require().NoError(err)

	records, err := s.service.Fetch(context.Background(), s.userID, "payment")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("payment", records[0].Kind)

	records, err = s.service.Fetch(context.Background(), s.userID, "")
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *ServiceSuite) TestStoredBlobsAreOpaque() {
	plaintext := "raj@example.com"
	itemID, err := s.service.Store(context.Background(), s.userID, "contact", plaintext)
	s.Require().NoError(err)

	item, err := s.store.GetByID(context.Background(), itemID)
	s.Require().NoError(err)
	s.NotContains(string(item.Blob.Ciphertext), plaintext)
}

func (s *ServiceSuite) TestUpdateMintsFreshEnvelope() {
	itemID, err := s.service.Store(context.Background(), s.userID, "contact", "before")
	s.Require().NoError(err)
	original, err := s.store.GetByID(context.Background(), itemID)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Update(context.Background(), s.userID, itemID, "before"))

	updated, err := s.store.GetByID(context.Background(), itemID)
	s.Require().NoError(err)
	s.NotEqual(original.Blob.WrappedDataKey, updated.Blob.WrappedDataKey)
	s.NotEqual(original.Blob.IV, updated.Blob.IV)

	records, err := s.service.Fetch(context.Background(), s.userID, "contact")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("before", records[0].Data)
}

func (s *ServiceSuite) TestFetchSkipsUndecryptableRows() {
	var itemIDs []id.VaultItemID
	for _, data := range []string{"first", "second", "third"} {
		itemID, err := s.service.Store(context.Background(), s.userID, "note", data)
		s.Require().NoError(err)
		itemIDs = append(itemIDs, itemID)
	}

	// Corrupt one item's tag behind the service's back.
	item, err := s.store.GetByID(context.Background(), itemIDs[1])
	s.Require().NoError(err)
	item.Blob.Tag[0] ^= 0x01
	s.Require().NoError(s.store.UpdateBlob(context.Background(), item.ID, item.Blob, item.UpdatedAt))

	records, err := s.service.Fetch(context.Background(), s.userID, "note")
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	for _, record := range records {
		s.NotEqual(itemIDs[1], record.ID)
	}
}

func (s *ServiceSuite) TestOwnershipIsEnforced() {
	itemID, err := s.service.Store(context.Background(), s.userID, "contact", "data")
	s.Require().NoError(err)
	stranger := id.UserID(uuid.New())

	err = s.service.Update(context.Background(), stranger, itemID, "hijack")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "foreign items must look missing")

	err = s.service.DeleteItem(context.Background(), stranger, itemID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	// The rightful owner still sees the original data.
	records, err := s.service.Fetch(context.Background(), s.userID, "")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("data", records[0].Data)
}

func (s *ServiceSuite) TestDeleteItem() {
	itemID, err := s.service.Store(context.Background(), s.userID, "contact", "data")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteItem(context.Background(), s.userID, itemID))

	err = s.service.DeleteItem(context.Background(), s.userID, itemID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteAllForUser() {
	other := id.UserID(uuid.New())
	for _, userID := range []id.UserID{s.userID, s.userID, other} {
		_, err := s.service.Store(context.Background(), userID, "note", "data")
		s.Require().NoError(err)
	}

	count, err := s.service.DeleteAllForUser(context.Background(), s.userID)
	s.Require().NoError(err)
	s.EqualValues(2, count)

	records, err := s.service.Fetch(context.Background(), other, "")
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *ServiceSuite) TestValidation() {
	_, err := s.service.Store(context.Background(), id.UserID{}, "contact", "data")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = s.service.Store(context.Background(), s.userID, "", "data")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = s.service.Fetch(context.Background(), id.UserID{}, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
