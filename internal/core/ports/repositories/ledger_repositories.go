package repositories

import (
	"context"

	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// BankAccountReader defines read operations for bank account data.
type BankAccountReader interface {
	// FindBankAccountByID retrieves a bank account by its identifier.
	FindBankAccountByID(ctx context.Context, accountID string) (*domain.BankAccount, error)

	// ListActiveBankAccounts retrieves all active bank accounts. It is the
	// iteration basis for the account balance audit pass.
	ListActiveBankAccounts(ctx context.Context) ([]domain.BankAccount, error)

	// ListTransactionsByAccount retrieves the account's full transaction
	// history ordered by creation time then id, oldest first.
	ListTransactionsByAccount(ctx context.Context, accountID string) ([]domain.BankTransaction, error)
}

// BankAccountWriter defines write operations for bank account data.
type BankAccountWriter interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
}

// LedgerPoster defines the transactional ledger operations. Each method is
// one unit of work over row-locked account rows; a failed validation leaves
// no transaction row and an untouched balance.
type LedgerPoster interface {
	// PostTransaction appends a transaction, computing balanceAfter from the
	// locked account balance, and updates the cached balance atomically.
	// Fails with apperrors.ErrInsufficientFunds when a debit would take a
	// no-overdraft account below zero.
	PostTransaction(ctx context.Context, txn domain.BankTransaction) (*domain.BankTransaction, error)

	// Transfer posts the debit and credit legs of an inter-account move as a
	// single transaction. Locks both accounts in lexicographic id order.
	Transfer(ctx context.Context, fromAccountID, toAccountID string, amount money.Money, description string, userID string) (*domain.TransferResult, error)

	// RecomputeBalance replays the account's transaction history from a zero
	// starting balance, rewrites every stale balanceAfter, and sets the
	// cached balance to the final running value. Idempotent.
	RecomputeBalance(ctx context.Context, accountID string, userID string) (*domain.RecomputeResult, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
	LedgerPoster
}
