package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/doceria/erp_backend/internal/apperrors"
	"github.com/doceria/erp_backend/internal/core/domain"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/core/services"
	"github.com/doceria/erp_backend/internal/utils/money"
)

type ObligationServiceTestSuite struct {
	suite.Suite
	mockObligationRepo *MockObligationRepository
	mockCustomerRepo   *MockCustomerRepository
	service            portssvc.ObligationSvcFacade
}

func (suite *ObligationServiceTestSuite) SetupTest() {
	suite.mockObligationRepo = new(MockObligationRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.service = services.NewObligationService(suite.mockObligationRepo, suite.mockCustomerRepo)
}

func (suite *ObligationServiceTestSuite) activeCustomer() *domain.Customer {
	return &domain.Customer{
		CustomerID:      uuid.NewString(),
		Name:            "Padaria do Zé",
		CreditLimit:     money.FromCents(100000),
		AvailableCredit: money.FromCents(100000),
		IsActive:        true,
	}
}

func (suite *ObligationServiceTestSuite) TestCreateReceivable_Success() {
	ctx := context.Background()
	customer := suite.activeCustomer()

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()
	suite.mockObligationRepo.On("CreateReceivable", ctx, mock.MatchedBy(func(r domain.Receivable) bool {
		return r.CustomerID == customer.CustomerID &&
			r.Status == domain.ObligationPending &&
			r.Amount.Equal(money.FromCents(20000)) &&
			r.BoletoID == ""
	})).Return(&domain.SettlementResult{
		CustomerID:      customer.CustomerID,
		Amount:          money.FromCents(20000),
		AvailableCredit: money.FromCents(80000),
	}, nil).Once()

	result, err := suite.service.CreateReceivable(ctx, portssvc.CreateReceivableRequest{
		CustomerID:  customer.CustomerID,
		Amount:      money.FromCents(20000),
		DueDate:     time.Now().UTC().AddDate(0, 0, 30),
		Description: "encomenda bolo de festa",
	}, "admin-1")

	suite.Require().NoError(err)
	suite.True(result.AvailableCredit.Equal(money.FromCents(80000)))
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *ObligationServiceTestSuite) TestCreateReceivable_RejectsNonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.CreateReceivable(ctx, portssvc.CreateReceivableRequest{
		CustomerID: "cus-1",
		Amount:     money.Zero(),
		DueDate:    time.Now().UTC(),
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "CreateReceivable", mock.Anything, mock.Anything)
}

func (suite *ObligationServiceTestSuite) TestCreateReceivable_RejectsInactiveCustomer() {
	ctx := context.Background()
	customer := suite.activeCustomer()
	customer.IsActive = false

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()

	_, err := suite.service.CreateReceivable(ctx, portssvc.CreateReceivableRequest{
		CustomerID: customer.CustomerID,
		Amount:     money.FromCents(5000),
		DueDate:    time.Now().UTC(),
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ObligationServiceTestSuite) TestIssueBoleto_LinksReceivables() {
	ctx := context.Background()
	customer := suite.activeCustomer()

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()
	suite.mockObligationRepo.On("SaveBoleto", ctx, mock.MatchedBy(func(b domain.Boleto) bool {
		return b.CustomerID == customer.CustomerID &&
			b.PixPaymentID == "pix-123" &&
			b.Status == domain.ObligationPending
	}), []string{"rec-1", "rec-2"}).Return(nil).Once()

	boleto, err := suite.service.IssueBoleto(ctx, portssvc.IssueBoletoRequest{
		CustomerID:    customer.CustomerID,
		PixPaymentID:  "pix-123",
		Amount:        money.FromCents(30000),
		DueDate:       time.Now().UTC().AddDate(0, 0, 7),
		ReceivableIDs: []string{"rec-1", "rec-2"},
	}, "admin-1")

	suite.Require().NoError(err)
	suite.NotEmpty(boleto.BoletoID)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *ObligationServiceTestSuite) TestIssueBoleto_RequiresPixReference() {
	ctx := context.Background()

	_, err := suite.service.IssueBoleto(ctx, portssvc.IssueBoletoRequest{
		CustomerID: "cus-1",
		Amount:     money.FromCents(30000),
		DueDate:    time.Now().UTC(),
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// The administrator override differs from reconciliation here: acting on an
// already-terminal obligation is an error, not a benign no-op.
func (suite *ObligationServiceTestSuite) TestMarkBoletoPaid_TerminalIsInvalidTransition() {
	ctx := context.Background()

	suite.mockObligationRepo.On("SettleBoleto", ctx, "bol-1", domain.PaymentMethodCash, mock.AnythingOfType("time.Time"), "admin-1").
		Return(&domain.SettlementResult{
			BoletoID:        "bol-1",
			AlreadyTerminal: true,
			PriorStatus:     domain.ObligationPaid,
		}, nil).Once()

	_, err := suite.service.MarkBoletoPaid(ctx, "bol-1", domain.PaymentMethodCash, time.Now().UTC(), "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *ObligationServiceTestSuite) TestMarkBoletoPaid_Success() {
	ctx := context.Background()
	paidAt := time.Now().UTC()

	suite.mockObligationRepo.On("SettleBoleto", ctx, "bol-1", domain.PaymentMethodCash, paidAt, "admin-1").
		Return(&domain.SettlementResult{
			BoletoID:           "bol-1",
			CustomerID:         "cus-1",
			ReceivablesSettled: 1,
			AvailableCredit:    money.FromCents(70000),
		}, nil).Once()

	result, err := suite.service.MarkBoletoPaid(ctx, "bol-1", domain.PaymentMethodCash, paidAt, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.ReceivablesSettled)
}

func (suite *ObligationServiceTestSuite) TestMarkReceivablePaid_TerminalIsInvalidTransition() {
	ctx := context.Background()

	suite.mockObligationRepo.On("SettleReceivable", ctx, "rec-1", domain.PaymentMethodPix, mock.AnythingOfType("time.Time"), "admin-1").
		Return(&domain.SettlementResult{
			ReceivableID:    "rec-1",
			AlreadyTerminal: true,
			PriorStatus:     domain.ObligationCancelled,
		}, nil).Once()

	_, err := suite.service.MarkReceivablePaid(ctx, "rec-1", domain.PaymentMethodPix, time.Now().UTC(), "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *ObligationServiceTestSuite) TestMarkOverdue_ReportsCounts() {
	ctx := context.Background()
	asOf := time.Now().UTC()

	suite.mockObligationRepo.On("MarkOverdue", ctx, asOf, "cron").Return(int64(3), int64(1), nil).Once()

	result, err := suite.service.MarkOverdue(ctx, asOf, "cron")

	suite.Require().NoError(err)
	suite.Equal(int64(3), result.ReceivablesMarked)
	suite.Equal(int64(1), result.BoletosMarked)
}

func TestObligationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ObligationServiceTestSuite))
}
