package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/doceria/erp_backend/internal/core/domain"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/handlers"
	"github.com/doceria/erp_backend/internal/platform/config"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Reconcile(ctx context.Context, pixPaymentID string, status domain.ProviderStatus) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, pixPaymentID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockReconciliationService
}

func (suite *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockService = new(MockReconciliationService)
	services := &portssvc.ServiceContainer{
		Reconciliation: suite.mockService,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{JWTSecret: "test-secret"}, services, nil)
}

func (suite *WebhookHandlerTestSuite) postWebhook(body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/pix", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *WebhookHandlerTestSuite) TestPixWebhook_ApprovedReturns200() {
	suite.mockService.On("Reconcile", mock.Anything, "pix-abc", domain.ProviderStatusApproved).
		Return(&domain.ReconciliationResult{
			Outcome:         domain.OutcomeSettled,
			PixPaymentID:    "pix-abc",
			BoletoID:        "bol-1",
			AvailableCredit: money.FromCents(80000),
		}, nil).Once()

	w := suite.postWebhook(gin.H{"paymentId": "pix-abc", "status": "approved"})

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("SETTLED", resp["outcome"])
	suite.mockService.AssertExpectations(suite.T())
}

// No-op outcomes still acknowledge with 200: a non-2xx would keep the
// provider redelivering an event that will never do anything.
func (suite *WebhookHandlerTestSuite) TestPixWebhook_UnknownReferenceStillAcks() {
	suite.mockService.On("Reconcile", mock.Anything, "pix-unknown", domain.ProviderStatusApproved).
		Return(&domain.ReconciliationResult{
			Outcome:      domain.OutcomeUnknownReference,
			PixPaymentID: "pix-unknown",
		}, nil).Once()

	w := suite.postWebhook(gin.H{"paymentId": "pix-unknown", "status": "approved"})

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("UNKNOWN_REFERENCE", resp["outcome"])
}

func (suite *WebhookHandlerTestSuite) TestPixWebhook_RedeliveryStillAcks() {
	suite.mockService.On("Reconcile", mock.Anything, "pix-abc", domain.ProviderStatusApproved).
		Return(&domain.ReconciliationResult{
			Outcome:      domain.OutcomeAlreadyProcessed,
			PixPaymentID: "pix-abc",
		}, nil).Once()

	w := suite.postWebhook(gin.H{"paymentId": "pix-abc", "status": "approved"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *WebhookHandlerTestSuite) TestPixWebhook_MalformedPayloadRejected() {
	w := suite.postWebhook(gin.H{"status": "approved"}) // missing paymentId

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "Reconcile", mock.Anything, mock.Anything, mock.Anything)
}

// Internal failures are the one case where a provider retry helps.
func (suite *WebhookHandlerTestSuite) TestPixWebhook_InternalFailureReturns500() {
	suite.mockService.On("Reconcile", mock.Anything, "pix-abc", domain.ProviderStatusApproved).
		Return(nil, context.DeadlineExceeded).Once()

	w := suite.postWebhook(gin.H{"paymentId": "pix-abc", "status": "approved"})

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *WebhookHandlerTestSuite) TestAdminRoutesRequireAuth() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit/credit", bytes.NewReader([]byte(`{"autoFix":false}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestWebhookHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}
