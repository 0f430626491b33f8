package services

import (
	"context"
	"time"

	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// PostTransactionRequest describes a manual ledger posting. Amount is the
// positive magnitude; the service derives the sign from Type.
type PostTransactionRequest struct {
	AccountID     string
	Type          domain.BankTransactionType
	Amount        money.Money
	Date          time.Time
	ReferenceType string
	ReferenceID   string
	Description   string
}

// LedgerSvcFacade exposes the bank transaction ledger operations.
type LedgerSvcFacade interface {
	// CreateBankAccount registers a new bank account.
	CreateBankAccount(ctx context.Context, name string, allowOverdraft bool, userID string) (*domain.BankAccount, error)

	// GetBankAccount returns an account with its cached balance.
	GetBankAccount(ctx context.Context, accountID string) (*domain.BankAccount, error)

	// ListTransactions returns the account's history, oldest first.
	ListTransactions(ctx context.Context, accountID string) ([]domain.BankTransaction, error)

	// Post appends an INCOME or EXPENSE transaction and updates the cached
	// balance atomically.
	Post(ctx context.Context, req PostTransactionRequest, userID string) (*domain.BankTransaction, error)

	// Transfer atomically moves amount between two distinct accounts.
	Transfer(ctx context.Context, fromAccountID, toAccountID string, amount money.Money, description string, userID string) (*domain.TransferResult, error)

	// RecomputeBalance rebuilds the account balance from its transaction
	// history. The self-healing remedy for balance drift.
	RecomputeBalance(ctx context.Context, accountID string, userID string) (*domain.RecomputeResult, error)
}
