package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// MockCustomerRepository is a mock type for the CustomerRepositoryFacade interface
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListActiveCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) RecalculateAvailableCredit(ctx context.Context, customerID string, userID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// MockObligationRepository is a mock type for the ObligationRepositoryFacade interface
type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) FindReceivableByID(ctx context.Context, receivableID string) (*domain.Receivable, error) {
	args := m.Called(ctx, receivableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receivable), args.Error(1)
}

func (m *MockObligationRepository) FindBoletoByID(ctx context.Context, boletoID string) (*domain.Boleto, error) {
	args := m.Called(ctx, boletoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Boleto), args.Error(1)
}

func (m *MockObligationRepository) FindBoletoByPixPaymentID(ctx context.Context, pixPaymentID string) (*domain.Boleto, error) {
	args := m.Called(ctx, pixPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Boleto), args.Error(1)
}

func (m *MockObligationRepository) FindOutstandingBoletosByCustomer(ctx context.Context, customerID string) ([]domain.Boleto, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Boleto), args.Error(1)
}

func (m *MockObligationRepository) FindOutstandingReceivablesByCustomer(ctx context.Context, customerID string) ([]domain.Receivable, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receivable), args.Error(1)
}

func (m *MockObligationRepository) CreateReceivable(ctx context.Context, receivable domain.Receivable) (*domain.SettlementResult, error) {
	args := m.Called(ctx, receivable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

func (m *MockObligationRepository) SaveBoleto(ctx context.Context, boleto domain.Boleto, receivableIDs []string) error {
	args := m.Called(ctx, boleto, receivableIDs)
	return args.Error(0)
}

func (m *MockObligationRepository) SettleBoleto(ctx context.Context, boletoID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error) {
	args := m.Called(ctx, boletoID, method, paidAt, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

func (m *MockObligationRepository) CancelBoleto(ctx context.Context, boletoID string, userID string) (*domain.SettlementResult, error) {
	args := m.Called(ctx, boletoID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

func (m *MockObligationRepository) SettleReceivable(ctx context.Context, receivableID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error) {
	args := m.Called(ctx, receivableID, method, paidAt, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

func (m *MockObligationRepository) CancelReceivable(ctx context.Context, receivableID string, userID string) (*domain.SettlementResult, error) {
	args := m.Called(ctx, receivableID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

func (m *MockObligationRepository) MarkOverdue(ctx context.Context, asOf time.Time, userID string) (int64, int64, error) {
	args := m.Called(ctx, asOf, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindBankAccountByID(ctx context.Context, accountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockLedgerRepository) ListActiveBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockLedgerRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerRepository) PostTransaction(ctx context.Context, txn domain.BankTransaction) (*domain.BankTransaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockLedgerRepository) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount money.Money, description string, userID string) (*domain.TransferResult, error) {
	args := m.Called(ctx, fromAccountID, toAccountID, amount, description, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockLedgerRepository) RecomputeBalance(ctx context.Context, accountID string, userID string) (*domain.RecomputeResult, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecomputeResult), args.Error(1)
}

// MockPaymentNotifier is a mock type for the PaymentNotifier interface
type MockPaymentNotifier struct {
	mock.Mock
}

func (m *MockPaymentNotifier) NotifyPaymentConfirmed(ctx context.Context, n domain.PaymentNotification) {
	m.Called(ctx, n)
}
