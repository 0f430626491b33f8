package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/doceria/erp_backend/internal/apperrors"
	"github.com/doceria/erp_backend/internal/core/domain"
	portsrepo "github.com/doceria/erp_backend/internal/core/ports/repositories"
	"github.com/doceria/erp_backend/internal/utils/accounting"
	"github.com/doceria/erp_backend/internal/utils/money"
)

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

const customerColumns = `customer_id, name, phone, credit_limit, available_credit, is_active, created_at, created_by, last_updated_at, last_updated_by`

// scanCustomer scans one customer row, converting NUMERIC columns through
// decimal into minor-unit money.
func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var creditLimit, availableCredit decimal.Decimal
	err := row.Scan(
		&c.CustomerID,
		&c.Name,
		&c.Phone,
		&creditLimit,
		&availableCredit,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan customer row: %w", err)
	}
	c.CreditLimit = money.FromDecimal(creditLimit)
	c.AvailableCredit = money.FromDecimal(availableCredit)
	return &c, nil
}

// SaveCustomer inserts a new customer. The initial available credit equals
// the credit limit (no obligations yet).
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, name, phone, credit_limit, available_credit, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		customer.CustomerID,
		customer.Name,
		customer.Phone,
		customer.CreditLimit.Decimal(),
		customer.AvailableCredit.Decimal(),
		customer.IsActive,
		customer.CreatedAt,
		customer.CreatedBy,
		customer.LastUpdatedAt,
		customer.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert customer "+customer.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by id.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`
	return scanCustomer(r.Pool.QueryRow(ctx, query, customerID))
}

// ListActiveCustomers retrieves active customers ordered by id, paginated.
func (r *PgxCustomerRepository) ListActiveCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE is_active = TRUE
		ORDER BY customer_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query active customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// RecalculateAvailableCredit re-derives and persists the customer's
// available credit in one transaction holding the customer row lock. The
// single write path for the cached value.
func (r *PgxCustomerRepository) RecalculateAvailableCredit(ctx context.Context, customerID string, userID string) (*domain.Customer, error) {
	var customer *domain.Customer

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		updated, err := recalcAvailableCreditInTx(ctx, tx, customerID, userID, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		customer = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// recalcAvailableCreditInTx locks the customer row, re-derives outstanding
// debt from current obligation state, and writes the clamped available
// credit. It is shared by every unit of work that changes whether an
// obligation counts toward debt, so the cached value and the obligation
// transition always commit together.
func recalcAvailableCreditInTx(ctx context.Context, tx pgx.Tx, customerID string, userID string, now time.Time) (*domain.Customer, error) {
	lockQuery := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1 FOR UPDATE;`
	customer, err := scanCustomer(tx.QueryRow(ctx, lockQuery, customerID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
		}
		return nil, err
	}

	boletos, err := outstandingBoletosInTx(ctx, tx, customerID)
	if err != nil {
		return nil, err
	}
	receivables, err := outstandingReceivablesInTx(ctx, tx, customerID)
	if err != nil {
		return nil, err
	}

	debt := accounting.OutstandingDebt(boletos, receivables)
	available := accounting.AvailableCredit(customer.CreditLimit, debt)

	updateQuery := `
		UPDATE customers
		SET available_credit = $1, last_updated_at = $2, last_updated_by = $3
		WHERE customer_id = $4;
	`
	if _, err := tx.Exec(ctx, updateQuery, available.Decimal(), now, userID, customerID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to update available credit for customer "+customerID, err)
	}

	customer.AvailableCredit = available
	customer.LastUpdatedAt = now
	customer.LastUpdatedBy = userID
	return customer, nil
}

// outstandingBoletosInTx loads the customer's PENDING/OVERDUE boletos using
// the transaction's snapshot.
func outstandingBoletosInTx(ctx context.Context, tx pgx.Tx, customerID string) ([]domain.Boleto, error) {
	query := `
		SELECT boleto_id, status, amount
		FROM boletos
		WHERE customer_id = $1 AND status IN ('PENDING', 'OVERDUE');
	`
	rows, err := tx.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding boletos: %w", err)
	}
	defer rows.Close()

	boletos := make([]domain.Boleto, 0)
	for rows.Next() {
		var b domain.Boleto
		var amount decimal.Decimal
		if err := rows.Scan(&b.BoletoID, &b.Status, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan boleto row: %w", err)
		}
		b.Amount = money.FromDecimal(amount)
		boletos = append(boletos, b)
	}
	return boletos, rows.Err()
}

// outstandingReceivablesInTx loads the customer's PENDING/OVERDUE
// receivables not represented by a boleto.
func outstandingReceivablesInTx(ctx context.Context, tx pgx.Tx, customerID string) ([]domain.Receivable, error) {
	query := `
		SELECT receivable_id, status, amount
		FROM receivables
		WHERE customer_id = $1 AND status IN ('PENDING', 'OVERDUE') AND boleto_id IS NULL;
	`
	rows, err := tx.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding receivables: %w", err)
	}
	defer rows.Close()

	receivables := make([]domain.Receivable, 0)
	for rows.Next() {
		var rec domain.Receivable
		var amount decimal.Decimal
		if err := rows.Scan(&rec.ReceivableID, &rec.Status, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan receivable row: %w", err)
		}
		rec.Amount = money.FromDecimal(amount)
		receivables = append(receivables, rec)
	}
	return receivables, rows.Err()
}
