package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/doceria/erp_backend/internal/apperrors"
	"github.com/doceria/erp_backend/internal/core/domain"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/core/services"
	"github.com/doceria/erp_backend/internal/utils/money"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockLedgerRepository
	service  portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)
}

func (suite *LedgerServiceTestSuite) TestCreateBankAccount_StartsAtZero() {
	ctx := context.Background()

	suite.mockRepo.On("SaveBankAccount", ctx, mock.MatchedBy(func(a domain.BankAccount) bool {
		return a.Balance.IsZero() && a.IsActive && !a.AllowOverdraft
	})).Return(nil).Once()

	account, err := suite.service.CreateBankAccount(ctx, "Caixa", false, "admin-1")

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

// The request carries the positive magnitude; the stored amount is signed
// by type. Income 60 then expense 40 on an empty account snapshots running
// balances 60.00 then 20.00.
func (suite *LedgerServiceTestSuite) TestPost_SequentialPostings() {
	ctx := context.Background()
	accountID := "acc-1"

	income := &domain.BankTransaction{
		AccountID:    accountID,
		Type:         domain.TransactionIncome,
		Amount:       money.FromCents(6000),
		BalanceAfter: money.FromCents(6000),
	}
	suite.mockRepo.On("PostTransaction", ctx, mock.MatchedBy(func(t domain.BankTransaction) bool {
		return t.Type == domain.TransactionIncome && t.Amount.Equal(money.FromCents(6000))
	})).Return(income, nil).Once()

	posted, err := suite.service.Post(ctx, portssvc.PostTransactionRequest{
		AccountID: accountID,
		Type:      domain.TransactionIncome,
		Amount:    money.FromCents(6000),
	}, "admin-1")
	suite.Require().NoError(err)
	suite.True(posted.BalanceAfter.Equal(money.FromCents(6000)))

	expense := &domain.BankTransaction{
		AccountID:    accountID,
		Type:         domain.TransactionExpense,
		Amount:       money.FromCents(-4000),
		BalanceAfter: money.FromCents(2000),
	}
	suite.mockRepo.On("PostTransaction", ctx, mock.MatchedBy(func(t domain.BankTransaction) bool {
		return t.Type == domain.TransactionExpense && t.Amount.Equal(money.FromCents(-4000))
	})).Return(expense, nil).Once()

	posted, err = suite.service.Post(ctx, portssvc.PostTransactionRequest{
		AccountID: accountID,
		Type:      domain.TransactionExpense,
		Amount:    money.FromCents(4000),
	}, "admin-1")
	suite.Require().NoError(err)
	suite.True(posted.BalanceAfter.Equal(money.FromCents(2000)))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPost_RejectsNonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.Post(ctx, portssvc.PostTransactionRequest{
		AccountID: "acc-1",
		Type:      domain.TransactionIncome,
		Amount:    money.Zero(),
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPost_RejectsTransferType() {
	ctx := context.Background()

	_, err := suite.service.Post(ctx, portssvc.PostTransactionRequest{
		AccountID: "acc-1",
		Type:      domain.TransactionTransfer,
		Amount:    money.FromCents(100),
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestPost_InsufficientFundsPropagates() {
	ctx := context.Background()

	suite.mockRepo.On("PostTransaction", ctx, mock.AnythingOfType("domain.BankTransaction")).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.Post(ctx, portssvc.PostTransactionRequest{
		AccountID: "acc-1",
		Type:      domain.TransactionExpense,
		Amount:    money.FromCents(999999),
		Date:      time.Now().UTC(),
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsSameAccount() {
	ctx := context.Background()

	_, err := suite.service.Transfer(ctx, "acc-1", "acc-1", money.FromCents(1000), "move", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsNonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.Transfer(ctx, "acc-1", "acc-2", money.FromCents(-500), "move", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// A failed transfer leaves no partial state: the repository rolls the unit
// of work back and the service surfaces the error unchanged.
func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientFundsLeavesNothingBehind() {
	ctx := context.Background()

	suite.mockRepo.On("Transfer", ctx, "acc-1", "acc-2", money.FromCents(100000), "payroll", "admin-1").
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	result, err := suite.service.Transfer(ctx, "acc-1", "acc-2", money.FromCents(100000), "payroll", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Nil(result)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	amount := money.FromCents(15000)

	expected := &domain.TransferResult{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        amount,
		FromBalance:   money.FromCents(5000),
		ToBalance:     money.FromCents(25000),
		DebitLeg:      domain.BankTransaction{AccountID: "acc-1", Amount: amount.Neg()},
		CreditLeg:     domain.BankTransaction{AccountID: "acc-2", Amount: amount},
	}
	suite.mockRepo.On("Transfer", ctx, "acc-1", "acc-2", amount, "supplier", "admin-1").Return(expected, nil).Once()

	result, err := suite.service.Transfer(ctx, "acc-1", "acc-2", amount, "supplier", "admin-1")

	suite.Require().NoError(err)
	suite.True(result.DebitLeg.Amount.Equal(amount.Neg()))
	suite.True(result.CreditLeg.Amount.Equal(amount))
	suite.True(result.FromBalance.Add(result.ToBalance).Equal(money.FromCents(30000)))
}

func (suite *LedgerServiceTestSuite) TestRecomputeBalance_ReportsCorrections() {
	ctx := context.Background()

	expected := &domain.RecomputeResult{
		AccountID:     "acc-1",
		OldBalance:    money.FromCents(10000),
		NewBalance:    money.FromCents(9900),
		CorrectedRows: 2,
	}
	suite.mockRepo.On("RecomputeBalance", ctx, "acc-1", "admin-1").Return(expected, nil).Once()

	result, err := suite.service.RecomputeBalance(ctx, "acc-1", "admin-1")

	suite.Require().NoError(err)
	suite.Equal(2, result.CorrectedRows)
	suite.True(result.NewBalance.Equal(money.FromCents(9900)))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
