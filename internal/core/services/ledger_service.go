package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/doceria/erp_backend/internal/apperrors"
	"github.com/doceria/erp_backend/internal/core/domain"
	portsrepo "github.com/doceria/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// ledgerService provides the bank transaction ledger operations.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateBankAccount registers a new account with a zero balance.
func (s *ledgerService) CreateBankAccount(ctx context.Context, name string, allowOverdraft bool, userID string) (*domain.BankAccount, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.BankAccount{
		AccountID:      uuid.NewString(),
		Name:           name,
		Balance:        money.Zero(),
		AllowOverdraft: allowOverdraft,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.ledgerRepo.SaveBankAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save bank account", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Bank account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

// GetBankAccount returns an account with its cached balance.
func (s *ledgerService) GetBankAccount(ctx context.Context, accountID string) (*domain.BankAccount, error) {
	return s.ledgerRepo.FindBankAccountByID(ctx, accountID)
}

// ListTransactions returns the account history, oldest first.
func (s *ledgerService) ListTransactions(ctx context.Context, accountID string) ([]domain.BankTransaction, error) {
	if _, err := s.ledgerRepo.FindBankAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.ListTransactionsByAccount(ctx, accountID)
}

// Post appends an INCOME or EXPENSE transaction. The request carries the
// positive magnitude; the stored amount is signed by type (INCOME +,
// EXPENSE -). TRANSFER legs are only ever created through Transfer.
func (s *ledgerService) Post(ctx context.Context, req portssvc.PostTransactionRequest, userID string) (*domain.BankTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}

	var signed money.Money
	switch req.Type {
	case domain.TransactionIncome:
		signed = req.Amount
	case domain.TransactionExpense:
		signed = req.Amount.Neg()
	case domain.TransactionTransfer:
		return nil, fmt.Errorf("%w: transfer legs must be posted via the transfer operation", apperrors.ErrValidation)
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	now := time.Now().UTC()
	txn := domain.BankTransaction{
		TransactionID: uuid.NewString(),
		AccountID:     req.AccountID,
		Type:          req.Type,
		Amount:        signed,
		Date:          date,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Description:   req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	posted, err := s.ledgerRepo.PostTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to post transaction",
			slog.String("account_id", req.AccountID),
			slog.String("amount", signed.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", posted.TransactionID),
		slog.String("account_id", posted.AccountID),
		slog.String("balance_after", posted.BalanceAfter.String()))
	return posted, nil
}

// Transfer atomically moves amount between two distinct accounts: either
// both legs post and both balances update, or neither does.
func (s *ledgerService) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount money.Money, description string, userID string) (*domain.TransferResult, error) {
	if fromAccountID == toAccountID {
		return nil, fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrInvalidTransition)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}

	result, err := s.ledgerRepo.Transfer(ctx, fromAccountID, toAccountID, amount, description, userID)
	if err != nil {
		s.LogError(ctx, err, "Transfer failed",
			slog.String("from_account_id", fromAccountID),
			slog.String("to_account_id", toAccountID),
			slog.String("amount", amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("from_account_id", fromAccountID),
		slog.String("to_account_id", toAccountID),
		slog.String("amount", amount.String()))
	return result, nil
}

// RecomputeBalance replays the account's transaction history and repairs
// any drifted balanceAfter snapshots plus the cached balance.
func (s *ledgerService) RecomputeBalance(ctx context.Context, accountID string, userID string) (*domain.RecomputeResult, error) {
	result, err := s.ledgerRepo.RecomputeBalance(ctx, accountID, userID)
	if err != nil {
		s.LogError(ctx, err, "Balance recompute failed", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Balance recomputed",
		slog.String("account_id", accountID),
		slog.String("old_balance", result.OldBalance.String()),
		slog.String("new_balance", result.NewBalance.String()),
		slog.Int("corrected_rows", result.CorrectedRows))
	return result, nil
}
