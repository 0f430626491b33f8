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
	"github.com/doceria/erp_backend/internal/utils/money"
)

type PgxObligationRepository struct {
	BaseRepository
}

// newPgxObligationRepository creates a new repository for receivable and
// boleto data.
func newPgxObligationRepository(pool *pgxpool.Pool) portsrepo.ObligationRepositoryFacade {
	return &PgxObligationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ObligationRepositoryFacade = (*PgxObligationRepository)(nil)

const receivableColumns = `receivable_id, customer_id, order_id, boleto_id, amount, status, due_date, payment_date, payment_method, description, created_at, created_by, last_updated_at, last_updated_by`

const boletoColumns = `boleto_id, customer_id, order_id, pix_payment_id, amount, status, due_date, paid_date, created_at, created_by, last_updated_at, last_updated_by`

func scanReceivable(row pgx.Row) (*domain.Receivable, error) {
	var rec domain.Receivable
	var orderID, boletoID, paymentMethod *string
	var amount decimal.Decimal
	err := row.Scan(
		&rec.ReceivableID,
		&rec.CustomerID,
		&orderID,
		&boletoID,
		&amount,
		&rec.Status,
		&rec.DueDate,
		&rec.PaymentDate,
		&paymentMethod,
		&rec.Description,
		&rec.CreatedAt,
		&rec.CreatedBy,
		&rec.LastUpdatedAt,
		&rec.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan receivable row: %w", err)
	}
	rec.Amount = money.FromDecimal(amount)
	if orderID != nil {
		rec.OrderID = *orderID
	}
	if boletoID != nil {
		rec.BoletoID = *boletoID
	}
	if paymentMethod != nil {
		rec.PaymentMethod = domain.PaymentMethod(*paymentMethod)
	}
	return &rec, nil
}

func scanBoleto(row pgx.Row) (*domain.Boleto, error) {
	var b domain.Boleto
	var orderID *string
	var amount decimal.Decimal
	err := row.Scan(
		&b.BoletoID,
		&b.CustomerID,
		&orderID,
		&b.PixPaymentID,
		&amount,
		&b.Status,
		&b.DueDate,
		&b.PaidDate,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan boleto row: %w", err)
	}
	b.Amount = money.FromDecimal(amount)
	if orderID != nil {
		b.OrderID = *orderID
	}
	return &b, nil
}

// nullable maps Go's empty-string optional references to SQL NULL so the
// partial unique indexes and FK constraints behave.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FindReceivableByID retrieves a receivable by id.
func (r *PgxObligationRepository) FindReceivableByID(ctx context.Context, receivableID string) (*domain.Receivable, error) {
	query := `SELECT ` + receivableColumns + ` FROM receivables WHERE receivable_id = $1;`
	return scanReceivable(r.Pool.QueryRow(ctx, query, receivableID))
}

// FindBoletoByID retrieves a boleto by id.
func (r *PgxObligationRepository) FindBoletoByID(ctx context.Context, boletoID string) (*domain.Boleto, error) {
	query := `SELECT ` + boletoColumns + ` FROM boletos WHERE boleto_id = $1;`
	return scanBoleto(r.Pool.QueryRow(ctx, query, boletoID))
}

// FindBoletoByPixPaymentID retrieves the boleto carrying the provider's
// payment reference.
func (r *PgxObligationRepository) FindBoletoByPixPaymentID(ctx context.Context, pixPaymentID string) (*domain.Boleto, error) {
	query := `SELECT ` + boletoColumns + ` FROM boletos WHERE pix_payment_id = $1;`
	return scanBoleto(r.Pool.QueryRow(ctx, query, pixPaymentID))
}

// FindOutstandingBoletosByCustomer retrieves the customer's PENDING/OVERDUE
// boletos.
func (r *PgxObligationRepository) FindOutstandingBoletosByCustomer(ctx context.Context, customerID string) ([]domain.Boleto, error) {
	query := `
		SELECT ` + boletoColumns + `
		FROM boletos
		WHERE customer_id = $1 AND status IN ('PENDING', 'OVERDUE')
		ORDER BY due_date, boleto_id;
	`
	rows, err := r.Pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding boletos: %w", err)
	}
	defer rows.Close()

	boletos := make([]domain.Boleto, 0)
	for rows.Next() {
		b, err := scanBoleto(rows)
		if err != nil {
			return nil, err
		}
		boletos = append(boletos, *b)
	}
	return boletos, rows.Err()
}

// FindOutstandingReceivablesByCustomer retrieves the customer's
// PENDING/OVERDUE receivables not represented by a boleto.
func (r *PgxObligationRepository) FindOutstandingReceivablesByCustomer(ctx context.Context, customerID string) ([]domain.Receivable, error) {
	query := `
		SELECT ` + receivableColumns + `
		FROM receivables
		WHERE customer_id = $1 AND status IN ('PENDING', 'OVERDUE') AND boleto_id IS NULL
		ORDER BY due_date, receivable_id;
	`
	rows, err := r.Pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding receivables: %w", err)
	}
	defer rows.Close()

	receivables := make([]domain.Receivable, 0)
	for rows.Next() {
		rec, err := scanReceivable(rows)
		if err != nil {
			return nil, err
		}
		receivables = append(receivables, *rec)
	}
	return receivables, rows.Err()
}

// CreateReceivable inserts a manual charge and re-derives the customer's
// available credit in the same transaction.
func (r *PgxObligationRepository) CreateReceivable(ctx context.Context, receivable domain.Receivable) (*domain.SettlementResult, error) {
	var result *domain.SettlementResult

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		insertQuery := `
			INSERT INTO receivables (receivable_id, customer_id, order_id, boleto_id, amount, status, due_date, payment_date, payment_method, description, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
		`
		_, err = tx.Exec(ctx, insertQuery,
			receivable.ReceivableID,
			receivable.CustomerID,
			nullable(receivable.OrderID),
			nullable(receivable.BoletoID),
			receivable.Amount.Decimal(),
			receivable.Status,
			receivable.DueDate,
			receivable.PaymentDate,
			nullable(string(receivable.PaymentMethod)),
			receivable.Description,
			receivable.CreatedAt,
			receivable.CreatedBy,
			receivable.LastUpdatedAt,
			receivable.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert receivable "+receivable.ReceivableID, err)
		}

		customer, err := recalcAvailableCreditInTx(ctx, tx, receivable.CustomerID, receivable.CreatedBy, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		result = &domain.SettlementResult{
			ReceivableID:    receivable.ReceivableID,
			CustomerID:      receivable.CustomerID,
			Amount:          receivable.Amount,
			AvailableCredit: customer.AvailableCredit,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SaveBoleto inserts a boleto and links the given receivables to it in one
// transaction. The pix_payment_id unique constraint makes duplicate provider
// references a hard insert failure. Linking moves debt representation from
// the receivables to the boleto; the in-tx credit recompute keeps the cache
// consistent either way.
func (r *PgxObligationRepository) SaveBoleto(ctx context.Context, boleto domain.Boleto, receivableIDs []string) error {
	return r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		insertQuery := `
			INSERT INTO boletos (boleto_id, customer_id, order_id, pix_payment_id, amount, status, due_date, paid_date, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		_, err = tx.Exec(ctx, insertQuery,
			boleto.BoletoID,
			boleto.CustomerID,
			nullable(boleto.OrderID),
			boleto.PixPaymentID,
			boleto.Amount.Decimal(),
			boleto.Status,
			boleto.DueDate,
			boleto.PaidDate,
			boleto.CreatedAt,
			boleto.CreatedBy,
			boleto.LastUpdatedAt,
			boleto.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: pix payment reference %s already tracked", apperrors.ErrDuplicate, boleto.PixPaymentID)
			}
			return apperrors.NewAppError(500, "failed to insert boleto "+boleto.BoletoID, err)
		}

		if len(receivableIDs) > 0 {
			linkQuery := `
				UPDATE receivables
				SET boleto_id = $1, last_updated_at = $2, last_updated_by = $3
				WHERE receivable_id = ANY($4)
				  AND customer_id = $5
				  AND boleto_id IS NULL
				  AND status IN ('PENDING', 'OVERDUE');
			`
			tag, err := tx.Exec(ctx, linkQuery, boleto.BoletoID, boleto.LastUpdatedAt, boleto.LastUpdatedBy, receivableIDs, boleto.CustomerID)
			if err != nil {
				return apperrors.NewAppError(500, "failed to link receivables to boleto "+boleto.BoletoID, err)
			}
			if int(tag.RowsAffected()) != len(receivableIDs) {
				return fmt.Errorf("%w: %d of %d receivables are not outstanding unlinked charges of customer %s",
					apperrors.ErrValidation, len(receivableIDs)-int(tag.RowsAffected()), len(receivableIDs), boleto.CustomerID)
			}
		}

		if _, err := recalcAvailableCreditInTx(ctx, tx, boleto.CustomerID, boleto.CreatedBy, time.Now().UTC()); err != nil {
			return err
		}

		return r.Commit(ctx, tx)
	})
}

// SettleBoleto marks the boleto PAID and cascades the settlement to its
// linked receivables, linked order, and the customer's cached available
// credit, all in one transaction.
//
// The terminal-status check happens under the row lock: two concurrent
// settlements of the same boleto serialize, the loser observes the terminal
// state and reports AlreadyTerminal without writing anything.
func (r *PgxObligationRepository) SettleBoleto(ctx context.Context, boletoID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error) {
	return r.transitionBoleto(ctx, boletoID, userID, func(ctx context.Context, tx pgx.Tx, boleto *domain.Boleto, result *domain.SettlementResult) error {
		updateBoleto := `
			UPDATE boletos
			SET status = 'PAID', paid_date = $1, last_updated_at = $2, last_updated_by = $3
			WHERE boleto_id = $4;
		`
		if _, err := tx.Exec(ctx, updateBoleto, paidAt, paidAt, userID, boletoID); err != nil {
			return apperrors.NewAppError(500, "failed to mark boleto paid "+boletoID, err)
		}

		// Linked receivables settle with the boleto; already-terminal ones are
		// left alone.
		updateReceivables := `
			UPDATE receivables
			SET status = 'PAID', payment_date = $1, payment_method = $2, last_updated_at = $1, last_updated_by = $3
			WHERE boleto_id = $4 AND status IN ('PENDING', 'OVERDUE');
		`
		tag, err := tx.Exec(ctx, updateReceivables, paidAt, method, userID, boletoID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to settle receivables linked to boleto "+boletoID, err)
		}
		result.ReceivablesSettled = int(tag.RowsAffected())
		result.PaidAt = &paidAt

		if boleto.OrderID != "" {
			orderPaid, err := markOrderPaidInTx(ctx, tx, boleto.OrderID, paidAt, userID)
			if err != nil {
				return err
			}
			result.OrderMarkedPaid = orderPaid
		}
		return nil
	})
}

// CancelBoleto marks the boleto CANCELLED. Linked receivables are unlinked
// so they count toward debt on their own again; the charge was never paid.
func (r *PgxObligationRepository) CancelBoleto(ctx context.Context, boletoID string, userID string) (*domain.SettlementResult, error) {
	return r.transitionBoleto(ctx, boletoID, userID, func(ctx context.Context, tx pgx.Tx, boleto *domain.Boleto, result *domain.SettlementResult) error {
		now := time.Now().UTC()
		updateBoleto := `
			UPDATE boletos
			SET status = 'CANCELLED', last_updated_at = $1, last_updated_by = $2
			WHERE boleto_id = $3;
		`
		if _, err := tx.Exec(ctx, updateBoleto, now, userID, boletoID); err != nil {
			return apperrors.NewAppError(500, "failed to cancel boleto "+boletoID, err)
		}

		unlinkReceivables := `
			UPDATE receivables
			SET boleto_id = NULL, last_updated_at = $1, last_updated_by = $2
			WHERE boleto_id = $3 AND status IN ('PENDING', 'OVERDUE');
		`
		if _, err := tx.Exec(ctx, unlinkReceivables, now, userID, boletoID); err != nil {
			return apperrors.NewAppError(500, "failed to unlink receivables from boleto "+boletoID, err)
		}
		return nil
	})
}

// transitionBoleto is the shared unit of work for boleto state transitions:
// lock the row, bail out on terminal status, apply the mutation, re-derive
// the customer's available credit, commit.
func (r *PgxObligationRepository) transitionBoleto(ctx context.Context, boletoID string, userID string, mutate func(ctx context.Context, tx pgx.Tx, boleto *domain.Boleto, result *domain.SettlementResult) error) (*domain.SettlementResult, error) {
	var result *domain.SettlementResult

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		lockQuery := `SELECT ` + boletoColumns + ` FROM boletos WHERE boleto_id = $1 FOR UPDATE;`
		boleto, err := scanBoleto(tx.QueryRow(ctx, lockQuery, boletoID))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: boleto %s", apperrors.ErrNotFound, boletoID)
			}
			return err
		}

		res := &domain.SettlementResult{
			BoletoID:   boleto.BoletoID,
			CustomerID: boleto.CustomerID,
			Amount:     boleto.Amount,
		}

		if boleto.Status.IsTerminal() {
			res.AlreadyTerminal = true
			res.PriorStatus = boleto.Status
			result = res
			return nil
		}

		if err := mutate(ctx, tx, boleto, res); err != nil {
			return err
		}

		customer, err := recalcAvailableCreditInTx(ctx, tx, boleto.CustomerID, userID, time.Now().UTC())
		if err != nil {
			return err
		}
		res.AvailableCredit = customer.AvailableCredit

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SettleReceivable marks a single receivable PAID and re-derives the
// customer's available credit.
func (r *PgxObligationRepository) SettleReceivable(ctx context.Context, receivableID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error) {
	return r.transitionReceivable(ctx, receivableID, userID, func(ctx context.Context, tx pgx.Tx, rec *domain.Receivable, result *domain.SettlementResult) error {
		query := `
			UPDATE receivables
			SET status = 'PAID', payment_date = $1, payment_method = $2, last_updated_at = $1, last_updated_by = $3
			WHERE receivable_id = $4;
		`
		if _, err := tx.Exec(ctx, query, paidAt, method, userID, receivableID); err != nil {
			return apperrors.NewAppError(500, "failed to mark receivable paid "+receivableID, err)
		}
		result.PaidAt = &paidAt
		result.ReceivablesSettled = 1

		if rec.OrderID != "" {
			orderPaid, err := markOrderPaidInTx(ctx, tx, rec.OrderID, paidAt, userID)
			if err != nil {
				return err
			}
			result.OrderMarkedPaid = orderPaid
		}
		return nil
	})
}

// CancelReceivable marks a receivable CANCELLED and re-derives the
// customer's available credit.
func (r *PgxObligationRepository) CancelReceivable(ctx context.Context, receivableID string, userID string) (*domain.SettlementResult, error) {
	return r.transitionReceivable(ctx, receivableID, userID, func(ctx context.Context, tx pgx.Tx, rec *domain.Receivable, result *domain.SettlementResult) error {
		now := time.Now().UTC()
		query := `
			UPDATE receivables
			SET status = 'CANCELLED', last_updated_at = $1, last_updated_by = $2
			WHERE receivable_id = $3;
		`
		if _, err := tx.Exec(ctx, query, now, userID, receivableID); err != nil {
			return apperrors.NewAppError(500, "failed to cancel receivable "+receivableID, err)
		}
		return nil
	})
}

// transitionReceivable mirrors transitionBoleto for standalone receivables.
// A receivable represented by a boleto must transition through the boleto.
func (r *PgxObligationRepository) transitionReceivable(ctx context.Context, receivableID string, userID string, mutate func(ctx context.Context, tx pgx.Tx, rec *domain.Receivable, result *domain.SettlementResult) error) (*domain.SettlementResult, error) {
	var result *domain.SettlementResult

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		lockQuery := `SELECT ` + receivableColumns + ` FROM receivables WHERE receivable_id = $1 FOR UPDATE;`
		rec, err := scanReceivable(tx.QueryRow(ctx, lockQuery, receivableID))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: receivable %s", apperrors.ErrNotFound, receivableID)
			}
			return err
		}

		if rec.BoletoID != "" {
			return fmt.Errorf("%w: receivable %s is represented by boleto %s and must transition through it", apperrors.ErrInvalidTransition, receivableID, rec.BoletoID)
		}

		res := &domain.SettlementResult{
			ReceivableID: rec.ReceivableID,
			CustomerID:   rec.CustomerID,
			Amount:       rec.Amount,
		}

		if rec.Status.IsTerminal() {
			res.AlreadyTerminal = true
			res.PriorStatus = rec.Status
			result = res
			return nil
		}

		if err := mutate(ctx, tx, rec, res); err != nil {
			return err
		}

		customer, err := recalcAvailableCreditInTx(ctx, tx, rec.CustomerID, userID, time.Now().UTC())
		if err != nil {
			return err
		}
		res.AvailableCredit = customer.AvailableCredit

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkOverdue flips PENDING obligations past their due date to OVERDUE.
// Both statuses count as outstanding debt, so no credit recompute runs.
func (r *PgxObligationRepository) MarkOverdue(ctx context.Context, asOf time.Time, userID string) (int64, int64, error) {
	var receivables, boletos int64

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		now := time.Now().UTC()

		recQuery := `
			UPDATE receivables
			SET status = 'OVERDUE', last_updated_at = $1, last_updated_by = $2
			WHERE status = 'PENDING' AND due_date < $3;
		`
		recTag, err := tx.Exec(ctx, recQuery, now, userID, asOf)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark receivables overdue", err)
		}

		boletoQuery := `
			UPDATE boletos
			SET status = 'OVERDUE', last_updated_at = $1, last_updated_by = $2
			WHERE status = 'PENDING' AND due_date < $3;
		`
		boletoTag, err := tx.Exec(ctx, boletoQuery, now, userID, asOf)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark boletos overdue", err)
		}

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		receivables = recTag.RowsAffected()
		boletos = boletoTag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return receivables, boletos, nil
}

const orderColumns = `order_id, customer_id, total, payment_status, created_at, created_by, last_updated_at, last_updated_by`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var total decimal.Decimal
	err := row.Scan(
		&o.OrderID,
		&o.CustomerID,
		&total,
		&o.PaymentStatus,
		&o.CreatedAt,
		&o.CreatedBy,
		&o.LastUpdatedAt,
		&o.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order row: %w", err)
	}
	o.Total = money.FromDecimal(total)
	return &o, nil
}

// markOrderPaidInTx flips the linked order's payment status once every
// obligation referencing it has settled; a partially covered order stays as
// is. The order row is locked so concurrent settlements of sibling
// obligations serialize on the flip. Reports whether the flip happened.
func markOrderPaidInTx(ctx context.Context, tx pgx.Tx, orderID string, paidAt time.Time, userID string) (bool, error) {
	lockQuery := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 FOR UPDATE;`
	order, err := scanOrder(tx.QueryRow(ctx, lockQuery, orderID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, fmt.Errorf("%w: order %s", apperrors.ErrNotFound, orderID)
		}
		return false, err
	}
	if order.PaymentStatus.IsPaid() {
		return false, nil
	}

	outstandingQuery := `
		SELECT EXISTS (
			SELECT 1 FROM receivables
			WHERE order_id = $1 AND status IN ('PENDING', 'OVERDUE')
		) OR EXISTS (
			SELECT 1 FROM boletos
			WHERE order_id = $1 AND status IN ('PENDING', 'OVERDUE')
		);
	`
	var outstanding bool
	if err := tx.QueryRow(ctx, outstandingQuery, orderID).Scan(&outstanding); err != nil {
		return false, apperrors.NewAppError(500, "failed to check outstanding obligations for order "+orderID, err)
	}
	if outstanding {
		return false, nil
	}

	updateQuery := `
		UPDATE orders
		SET payment_status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE order_id = $4;
	`
	if _, err := tx.Exec(ctx, updateQuery, domain.OrderPaymentPaid, paidAt, userID, orderID); err != nil {
		return false, apperrors.NewAppError(500, "failed to update order payment status "+orderID, err)
	}
	return true, nil
}
