package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"privacygate/internal/transport/http/mocks"
	vaultmodels "privacygate/internal/vault/models"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
)

type VaultHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockVaultService
	router  chi.Router
}

func (s *VaultHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockVaultService(s.ctrl)
	s.router = chi.NewRouter()
	s.router.Use(asUser(testUserID))
	NewVaultHandler(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *VaultHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestVaultHandlerSuite(t *testing.T) {
	suite.Run(t, new(VaultHandlerSuite))
}

func (s *VaultHandlerSuite) TestStoreItem() {
	itemID := id.NewVaultItemID()
	s.service.EXPECT().
		Store(gomock.Any(), testUserID, "contact", map[string]any{"email": "a@b.example"}).
		Return(itemID, nil)

	status, body := doJSON(s.T(), s.router, http.MethodPost, "/vault",
		`{"kind":"contact","data":{"email":"a@b.example"}}`)

	assert.Equal(s.T(), http.StatusCreated, status)
	assert.Equal(s.T(), itemID.String(), body["item_id"])
}

func (s *VaultHandlerSuite) TestStoreRequiresKind() {
	status, body := doJSON(s.T(), s.router, http.MethodPost, "/vault", `{"data":{"email":"a@b.example"}}`)

	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), string(dErrors.CodeValidation), body["error"])
}

func (s *VaultHandlerSuite) TestFetchWithKindFilter() {
	records := []vaultmodels.Record{
		{ID: id.NewVaultItemID(), Kind: "contact", Data: map[string]any{"email": "a@b.example"}},
	}
	s.service.EXPECT().Fetch(gomock.Any(), testUserID, "contact").Return(records, nil)

	status, body := doJSON(s.T(), s.router, http.MethodGet, "/vault?kind=contact", "")

	require.Equal(s.T(), http.StatusOK, status)
	items, ok := body["items"].([]any)
	require.True(s.T(), ok)
	require.Len(s.T(), items, 1)
	item := items[0].(map[string]any)
	assert.Equal(s.T(), "contact", item["kind"])
}

func (s *VaultHandlerSuite) TestUpdateItem() {
	itemID := id.NewVaultItemID()
	s.service.EXPECT().
		Update(gomock.Any(), testUserID, itemID, "new value").
		Return(nil)

	status, body := doJSON(s.T(), s.router, http.MethodPut, "/vault/"+itemID.String(), `{"data":"new value"}`)

	assert.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), true, body["updated"])
}

func (s *VaultHandlerSuite) TestUpdateRejectsBadItemID() {
	status, body := doJSON(s.T(), s.router, http.MethodPut, "/vault/not-a-uuid", `{"data":"x"}`)

	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), string(dErrors.CodeInvalidInput), body["error"])
}

func (s *VaultHandlerSuite) TestDeleteItem() {
	itemID := id.NewVaultItemID()
	s.service.EXPECT().DeleteItem(gomock.Any(), testUserID, itemID).Return(nil)

	status, _ := doJSON(s.T(), s.router, http.MethodDelete, "/vault/"+itemID.String(), "")

	assert.Equal(s.T(), http.StatusNoContent, status)
}

func (s *VaultHandlerSuite) TestDeleteForeignItemIsNotFound() {
	itemID := id.NewVaultItemID()
	s.service.EXPECT().
		DeleteItem(gomock.Any(), testUserID, itemID).
		Return(dErrors.New(dErrors.CodeNotFound, "vault item not found"))

	status, body := doJSON(s.T(), s.router, http.MethodDelete, "/vault/"+itemID.String(), "")

	assert.Equal(s.T(), http.StatusNotFound, status)
	assert.Equal(s.T(), string(dErrors.CodeNotFound), body["error"])
}

func (s *VaultHandlerSuite) TestDeleteAll() {
	s.service.EXPECT().DeleteAllForUser(gomock.Any(), testUserID).Return(int64(3), nil)

	status, body := doJSON(s.T(), s.router, http.MethodDelete, "/vault", "")

	assert.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), float64(3), body["deleted"])
}
