package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	proclogmodels "privacygate/internal/proclog/models"
	"privacygate/internal/transport/http/mocks"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
)

type ProcessingLogHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockProcessingLogService
	router  chi.Router
}

func (s *ProcessingLogHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockProcessingLogService(s.ctrl)
	s.router = chi.NewRouter()
	s.router.Use(asUser(testUserID))
	NewProcessingLogHandler(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *ProcessingLogHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestProcessingLogHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProcessingLogHandlerSuite))
}

func (s *ProcessingLogHandlerSuite) TestListEntries() {
	entries := []*proclogmodels.Entry{
		{
			ID:             id.NewLogEntryID(),
			UserID:         testUserID,
			Action:         proclogmodels.ActionExternalLLMCall,
			LawfulBasis:    proclogmodels.BasisConsent,
			ConsentVersion: "2025-01",
			ScopesUsed:     []string{"LLM_PROCESSING"},
			Metadata:       map[string]any{"provider": "openai"},
			CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	s.service.EXPECT().QueryByUser(gomock.Any(), testUserID, 10).Return(entries, nil)

	status, body := doJSON(s.T(), s.router, http.MethodGet, "/logs?limit=10", "")

	require.Equal(s.T(), http.StatusOK, status)
	got, ok := body["entries"].([]any)
	require.True(s.T(), ok)
	require.Len(s.T(), got, 1)
	entry := got[0].(map[string]any)
	assert.Equal(s.T(), proclogmodels.ActionExternalLLMCall, entry["action"])
	assert.Equal(s.T(), string(proclogmodels.BasisConsent), entry["lawful_basis"])
	assert.Equal(s.T(), "2025-06-01T12:00:00Z", entry["created_at"])
}

func (s *ProcessingLogHandlerSuite) TestListDefaultsLimit() {
	s.service.EXPECT().QueryByUser(gomock.Any(), testUserID, 0).Return(nil, nil)

	status, body := doJSON(s.T(), s.router, http.MethodGet, "/logs", "")

	assert.Equal(s.T(), http.StatusOK, status)
	assert.Len(s.T(), body["entries"], 0)
}

func (s *ProcessingLogHandlerSuite) TestListRejectsBadLimit() {
	status, body := doJSON(s.T(), s.router, http.MethodGet, "/logs?limit=banana", "")

	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), string(dErrors.CodeBadRequest), body["error"])
}

func (s *ProcessingLogHandlerSuite) TestStatsScopedToUser() {
	s.service.EXPECT().
		AggregateStats(gomock.Any(), gomock.Any(), 7).
		DoAndReturn(func(_ any, userID *id.UserID, _ int) (map[string]int64, error) {
			s.Require().NotNil(userID)
			s.Equal(testUserID, *userID)
			return map[string]int64{proclogmodels.ActionExternalLLMCall: 4}, nil
		})

	status, body := doJSON(s.T(), s.router, http.MethodGet, "/logs/stats?window_days=7", "")

	require.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), float64(7), body["window_days"])
	actions := body["actions"].(map[string]any)
	assert.Equal(s.T(), float64(4), actions[proclogmodels.ActionExternalLLMCall])
}

func (s *ProcessingLogHandlerSuite) TestStatsDefaultWindow() {
	s.service.EXPECT().
		AggregateStats(gomock.Any(), gomock.Any(), defaultStatsWindowDays).
		Return(map[string]int64{}, nil)

	status, _ := doJSON(s.T(), s.router, http.MethodGet, "/logs/stats", "")

	assert.Equal(s.T(), http.StatusOK, status)
}
