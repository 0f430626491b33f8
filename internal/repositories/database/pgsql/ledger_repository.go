package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/doceria/erp_backend/internal/apperrors"
	"github.com/doceria/erp_backend/internal/core/domain"
	portsrepo "github.com/doceria/erp_backend/internal/core/ports/repositories"
	"github.com/doceria/erp_backend/internal/utils/accounting"
	"github.com/doceria/erp_backend/internal/utils/money"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for bank accounts and
// their transaction ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const bankAccountColumns = `account_id, name, balance, allow_overdraft, is_active, created_at, created_by, last_updated_at, last_updated_by`

const bankTransactionColumns = `transaction_id, account_id, type, amount, balance_after, date, reference_type, reference_id, description, created_at, created_by, last_updated_at, last_updated_by`

func scanBankAccount(row pgx.Row) (*domain.BankAccount, error) {
	var a domain.BankAccount
	var balance decimal.Decimal
	err := row.Scan(
		&a.AccountID,
		&a.Name,
		&balance,
		&a.AllowOverdraft,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan bank account row: %w", err)
	}
	a.Balance = money.FromDecimal(balance)
	return &a, nil
}

func scanBankTransaction(row pgx.Row) (*domain.BankTransaction, error) {
	var t domain.BankTransaction
	var referenceType, referenceID *string
	var amount, balanceAfter decimal.Decimal
	err := row.Scan(
		&t.TransactionID,
		&t.AccountID,
		&t.Type,
		&amount,
		&balanceAfter,
		&t.Date,
		&referenceType,
		&referenceID,
		&t.Description,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
	}
	t.Amount = money.FromDecimal(amount)
	t.BalanceAfter = money.FromDecimal(balanceAfter)
	if referenceType != nil {
		t.ReferenceType = *referenceType
	}
	if referenceID != nil {
		t.ReferenceID = *referenceID
	}
	return &t, nil
}

// FindBankAccountByID retrieves a bank account by id.
func (r *PgxLedgerRepository) FindBankAccountByID(ctx context.Context, accountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE account_id = $1;`
	return scanBankAccount(r.Pool.QueryRow(ctx, query, accountID))
}

// ListActiveBankAccounts retrieves all active bank accounts ordered by id.
func (r *PgxLedgerRepository) ListActiveBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE is_active = TRUE ORDER BY account_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active bank accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.BankAccount, 0)
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// ListTransactionsByAccount retrieves the account's full history, oldest
// first. Ties on date break on transaction id so replay order is stable.
func (r *PgxLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTransactionColumns + `
		FROM bank_transactions
		WHERE account_id = $1
		ORDER BY date, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.BankTransaction, 0)
	for rows.Next() {
		t, err := scanBankTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

// SaveBankAccount persists a new bank account.
func (r *PgxLedgerRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (account_id, name, balance, allow_overdraft, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Balance.Decimal(),
		account.AllowOverdraft,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert bank account "+account.AccountID, err)
	}
	return nil
}

// PostTransaction appends one ledger row under the account row lock.
// BalanceAfter is derived from the locked balance, so concurrent postings
// serialize and each snapshot is consistent at insertion time.
func (r *PgxLedgerRepository) PostTransaction(ctx context.Context, txn domain.BankTransaction) (*domain.BankTransaction, error) {
	var posted *domain.BankTransaction

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		account, err := lockBankAccountInTx(ctx, tx, txn.AccountID)
		if err != nil {
			return err
		}

		newBalance := account.Balance.Add(txn.Amount)
		if newBalance.IsNegative() && !account.AllowOverdraft {
			return fmt.Errorf("%w: account %s balance %s cannot absorb %s",
				apperrors.ErrInsufficientFunds, account.AccountID, account.Balance, txn.Amount)
		}
		txn.BalanceAfter = newBalance

		if err := insertTransactionInTx(ctx, tx, txn); err != nil {
			return err
		}
		if err := updateAccountBalanceInTx(ctx, tx, txn.AccountID, newBalance, txn.LastUpdatedAt, txn.LastUpdatedBy); err != nil {
			return err
		}

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		posted = &txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posted, nil
}

// Transfer posts the debit and credit legs atomically. Both account rows
// are locked in lexicographic id order so two opposing transfers cannot
// deadlock on each other.
func (r *PgxLedgerRepository) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount money.Money, description string, userID string) (*domain.TransferResult, error) {
	var result *domain.TransferResult

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		first, second := fromAccountID, toAccountID
		if second < first {
			first, second = second, first
		}
		locked := make(map[string]*domain.BankAccount, 2)
		for _, id := range []string{first, second} {
			account, err := lockBankAccountInTx(ctx, tx, id)
			if err != nil {
				return err
			}
			locked[id] = account
		}
		from, to := locked[fromAccountID], locked[toAccountID]

		fromBalance := from.Balance.Sub(amount)
		if fromBalance.IsNegative() && !from.AllowOverdraft {
			return fmt.Errorf("%w: account %s balance %s cannot fund transfer of %s",
				apperrors.ErrInsufficientFunds, from.AccountID, from.Balance, amount)
		}
		toBalance := to.Balance.Add(amount)

		now := time.Now().UTC()
		audit := domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
		debitLeg := domain.BankTransaction{
			TransactionID: uuid.NewString(),
			AccountID:     from.AccountID,
			Type:          domain.TransactionTransfer,
			Amount:        amount.Neg(),
			BalanceAfter:  fromBalance,
			Date:          now,
			ReferenceType: domain.ReferenceBankAccount,
			ReferenceID:   to.AccountID,
			Description:   description,
			AuditFields:   audit,
		}
		creditLeg := domain.BankTransaction{
			TransactionID: uuid.NewString(),
			AccountID:     to.AccountID,
			Type:          domain.TransactionTransfer,
			Amount:        amount,
			BalanceAfter:  toBalance,
			Date:          now,
			ReferenceType: domain.ReferenceBankAccount,
			ReferenceID:   from.AccountID,
			Description:   description,
			AuditFields:   audit,
		}

		for _, leg := range []domain.BankTransaction{debitLeg, creditLeg} {
			if err := insertTransactionInTx(ctx, tx, leg); err != nil {
				return err
			}
		}
		if err := updateAccountBalanceInTx(ctx, tx, from.AccountID, fromBalance, now, userID); err != nil {
			return err
		}
		if err := updateAccountBalanceInTx(ctx, tx, to.AccountID, toBalance, now, userID); err != nil {
			return err
		}

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		result = &domain.TransferResult{
			FromAccountID: from.AccountID,
			ToAccountID:   to.AccountID,
			Amount:        amount,
			FromBalance:   fromBalance,
			ToBalance:     toBalance,
			DebitLeg:      debitLeg,
			CreditLeg:     creditLeg,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecomputeBalance replays the account's history from zero under the row
// lock, rewriting only the balance_after snapshots that drifted, then sets
// the cached balance to the final running value. Amounts are never touched.
func (r *PgxLedgerRepository) RecomputeBalance(ctx context.Context, accountID string, userID string) (*domain.RecomputeResult, error) {
	var result *domain.RecomputeResult

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		account, err := lockBankAccountInTx(ctx, tx, accountID)
		if err != nil {
			return err
		}

		historyQuery := `
			SELECT transaction_id, amount, balance_after
			FROM bank_transactions
			WHERE account_id = $1
			ORDER BY date, transaction_id;
		`
		rows, err := tx.Query(ctx, historyQuery, accountID)
		if err != nil {
			return fmt.Errorf("failed to query transaction history: %w", err)
		}

		history := make([]domain.BankTransaction, 0)
		for rows.Next() {
			var txn domain.BankTransaction
			var amount, balanceAfter decimal.Decimal
			if err := rows.Scan(&txn.TransactionID, &amount, &balanceAfter); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan transaction history row: %w", err)
			}
			txn.Amount = money.FromDecimal(amount)
			txn.BalanceAfter = money.FromDecimal(balanceAfter)
			history = append(history, txn)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate transaction history: %w", err)
		}

		running, corrections := accounting.ReplayLedger(history)

		now := time.Now().UTC()
		for _, c := range corrections {
			fixQuery := `
				UPDATE bank_transactions
				SET balance_after = $1, last_updated_at = $2, last_updated_by = $3
				WHERE transaction_id = $4;
			`
			if _, err := tx.Exec(ctx, fixQuery, c.BalanceAfter.Decimal(), now, userID, c.TransactionID); err != nil {
				return apperrors.NewAppError(500, "failed to correct balance snapshot for transaction "+c.TransactionID, err)
			}
		}

		if err := updateAccountBalanceInTx(ctx, tx, accountID, running, now, userID); err != nil {
			return err
		}

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		result = &domain.RecomputeResult{
			AccountID:     accountID,
			OldBalance:    account.Balance,
			NewBalance:    running,
			CorrectedRows: len(corrections),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func lockBankAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE account_id = $1 FOR UPDATE;`
	account, err := scanBankAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, err
	}
	return account, nil
}

func insertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.BankTransaction) error {
	query := `
		INSERT INTO bank_transactions (transaction_id, account_id, type, amount, balance_after, date, reference_type, reference_id, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.AccountID,
		txn.Type,
		txn.Amount.Decimal(),
		txn.BalanceAfter.Decimal(),
		txn.Date,
		nullable(txn.ReferenceType),
		nullable(txn.ReferenceID),
		txn.Description,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert bank transaction "+txn.TransactionID, err)
	}
	return nil
}

func updateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance money.Money, now time.Time, userID string) error {
	query := `
		UPDATE bank_accounts
		SET balance = $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	if _, err := tx.Exec(ctx, query, balance.Decimal(), now, userID, accountID); err != nil {
		return apperrors.NewAppError(500, "failed to update balance for account "+accountID, err)
	}
	return nil
}
