package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/doceria/erp_backend/internal/apperrors"
	"github.com/doceria/erp_backend/internal/core/domain"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/core/services"
	"github.com/doceria/erp_backend/internal/utils/money"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockObligationRepository
	mockNotifier *MockPaymentNotifier
	service      portssvc.ReconciliationSvcFacade
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockObligationRepository)
	suite.mockNotifier = new(MockPaymentNotifier)
	// nil locker: the distributed lock is optional, row locks still apply
	suite.service = services.NewReconciliationService(suite.mockRepo, suite.mockNotifier, nil)
}

func (suite *ReconciliationServiceTestSuite) pendingBoleto() *domain.Boleto {
	return &domain.Boleto{
		BoletoID:     "bol-1",
		CustomerID:   "cus-1",
		PixPaymentID: "pix-abc",
		Amount:       money.FromCents(30000),
		Status:       domain.ObligationPending,
	}
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ApprovedSettlesOnce() {
	ctx := context.Background()
	boleto := suite.pendingBoleto()

	settlement := &domain.SettlementResult{
		BoletoID:           boleto.BoletoID,
		CustomerID:         boleto.CustomerID,
		Amount:             boleto.Amount,
		ReceivablesSettled: 2,
		OrderMarkedPaid:    true,
		AvailableCredit:    money.FromCents(80000),
	}

	suite.mockRepo.On("FindBoletoByPixPaymentID", ctx, "pix-abc").Return(boleto, nil).Once()
	suite.mockRepo.On("SettleBoleto", ctx, boleto.BoletoID, domain.PaymentMethodPix, mock.AnythingOfType("time.Time"), "pix-reconciler").
		Return(settlement, nil).Once()
	suite.mockNotifier.On("NotifyPaymentConfirmed", ctx, mock.MatchedBy(func(n domain.PaymentNotification) bool {
		return n.BoletoID == boleto.BoletoID && n.PixPaymentID == "pix-abc"
	})).Once()

	result, err := suite.service.Reconcile(ctx, "pix-abc", domain.ProviderStatusApproved)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeSettled, result.Outcome)
	suite.Equal(2, result.ReceivablesSettled)
	suite.True(result.OrderMarkedPaid)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

// Redelivery of an event for an already-terminal boleto must not settle,
// notify, or error: side effects run exactly once across deliveries.
func (suite *ReconciliationServiceTestSuite) TestReconcile_RedeliveryIsNoOp() {
	ctx := context.Background()
	boleto := suite.pendingBoleto()
	boleto.Status = domain.ObligationPaid

	suite.mockRepo.On("FindBoletoByPixPaymentID", ctx, "pix-abc").Return(boleto, nil).Once()

	result, err := suite.service.Reconcile(ctx, "pix-abc", domain.ProviderStatusApproved)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeAlreadyProcessed, result.Outcome)
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleBoleto", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyPaymentConfirmed", mock.Anything, mock.Anything)
}

// A concurrent delivery can win the row lock between the service's read and
// its settle call. The repository reports AlreadyTerminal; no notification.
func (suite *ReconciliationServiceTestSuite) TestReconcile_ConcurrentSettleRace() {
	ctx := context.Background()
	boleto := suite.pendingBoleto()

	raced := &domain.SettlementResult{
		BoletoID:        boleto.BoletoID,
		CustomerID:      boleto.CustomerID,
		AlreadyTerminal: true,
		PriorStatus:     domain.ObligationPaid,
	}

	suite.mockRepo.On("FindBoletoByPixPaymentID", ctx, "pix-abc").Return(boleto, nil).Once()
	suite.mockRepo.On("SettleBoleto", ctx, boleto.BoletoID, domain.PaymentMethodPix, mock.AnythingOfType("time.Time"), "pix-reconciler").
		Return(raced, nil).Once()

	result, err := suite.service.Reconcile(ctx, "pix-abc", domain.ProviderStatusApproved)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeAlreadyProcessed, result.Outcome)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyPaymentConfirmed", mock.Anything, mock.Anything)
}

// Events for references this system never issued are acknowledged, not
// errored, so the provider stops retrying.
func (suite *ReconciliationServiceTestSuite) TestReconcile_UnknownReference() {
	ctx := context.Background()

	suite.mockRepo.On("FindBoletoByPixPaymentID", ctx, "pix-unknown").Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.Reconcile(ctx, "pix-unknown", domain.ProviderStatusApproved)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeUnknownReference, result.Outcome)
	suite.Equal("pix-unknown", result.PixPaymentID)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_RejectedCancels() {
	ctx := context.Background()
	boleto := suite.pendingBoleto()

	cancelled := &domain.SettlementResult{
		BoletoID:        boleto.BoletoID,
		CustomerID:      boleto.CustomerID,
		AvailableCredit: money.FromCents(100000),
	}

	suite.mockRepo.On("FindBoletoByPixPaymentID", ctx, "pix-abc").Return(boleto, nil).Once()
	suite.mockRepo.On("CancelBoleto", ctx, boleto.BoletoID, "pix-reconciler").Return(cancelled, nil).Once()

	result, err := suite.service.Reconcile(ctx, "pix-abc", domain.ProviderStatusRejected)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeCancelled, result.Outcome)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyPaymentConfirmed", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_UnhandledStatusIgnored() {
	ctx := context.Background()
	boleto := suite.pendingBoleto()

	suite.mockRepo.On("FindBoletoByPixPaymentID", ctx, "pix-abc").Return(boleto, nil).Once()

	result, err := suite.service.Reconcile(ctx, "pix-abc", domain.ProviderStatus("in_process"))

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeIgnored, result.Outcome)
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleBoleto", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "CancelBoleto", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_EmptyReferenceRejected() {
	ctx := context.Background()

	_, err := suite.service.Reconcile(ctx, "", domain.ProviderStatusApproved)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
