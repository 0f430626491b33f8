package repositories

import (
	"context"
	"time"

	"github.com/doceria/erp_backend/internal/core/domain"
)

// ObligationReader defines read operations for receivables and boletos.
type ObligationReader interface {
	// FindReceivableByID retrieves a receivable by its identifier.
	FindReceivableByID(ctx context.Context, receivableID string) (*domain.Receivable, error)

	// FindBoletoByID retrieves a boleto by its identifier.
	FindBoletoByID(ctx context.Context, boletoID string) (*domain.Boleto, error)

	// FindBoletoByPixPaymentID retrieves the boleto carrying the provider's
	// payment reference. Returns apperrors.ErrNotFound when no boleto is
	// tracked under that reference.
	FindBoletoByPixPaymentID(ctx context.Context, pixPaymentID string) (*domain.Boleto, error)

	// FindOutstandingBoletosByCustomer retrieves the customer's boletos in
	// PENDING or OVERDUE status.
	FindOutstandingBoletosByCustomer(ctx context.Context, customerID string) ([]domain.Boleto, error)

	// FindOutstandingReceivablesByCustomer retrieves the customer's
	// receivables in PENDING or OVERDUE status that are not represented by a
	// boleto (boleto_id IS NULL).
	FindOutstandingReceivablesByCustomer(ctx context.Context, customerID string) ([]domain.Receivable, error)
}

// ObligationWriter defines the transactional state transitions for
// obligations. Every method is one unit of work: the obligation rows, any
// linked order, and the customer's cached available credit commit together
// or not at all.
type ObligationWriter interface {
	// CreateReceivable inserts a manual charge and re-derives the customer's
	// available credit in the same transaction.
	CreateReceivable(ctx context.Context, receivable domain.Receivable) (*domain.SettlementResult, error)

	// SaveBoleto inserts a boleto and links the given receivables to it
	// (their BoletoID back reference) in the same transaction, then
	// re-derives the customer's available credit. Receivables must belong to
	// the boleto's customer and be outstanding and unlinked.
	SaveBoleto(ctx context.Context, boleto domain.Boleto, receivableIDs []string) error

	// SettleBoleto marks the boleto PAID, settles its linked receivables and
	// order, and re-derives the customer's available credit. When the boleto
	// is already terminal under the row lock, it reports AlreadyTerminal and
	// performs no writes.
	SettleBoleto(ctx context.Context, boletoID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error)

	// CancelBoleto marks the boleto CANCELLED. Available credit is re-derived
	// in the same transaction to keep the cache consistent, though a cancelled
	// unpaid boleto simply stops counting as outstanding debt.
	CancelBoleto(ctx context.Context, boletoID string, userID string) (*domain.SettlementResult, error)

	// SettleReceivable marks a single receivable PAID (manual confirmation)
	// and re-derives the customer's available credit.
	SettleReceivable(ctx context.Context, receivableID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error)

	// CancelReceivable marks a receivable CANCELLED and re-derives the
	// customer's available credit.
	CancelReceivable(ctx context.Context, receivableID string, userID string) (*domain.SettlementResult, error)

	// MarkOverdue flips PENDING obligations whose due date has passed to
	// OVERDUE. Both statuses count as outstanding, so no credit recompute is
	// needed. Returns how many receivables and boletos were marked.
	MarkOverdue(ctx context.Context, asOf time.Time, userID string) (receivables int64, boletos int64, err error)
}

// ObligationRepositoryFacade combines all obligation repository interfaces.
type ObligationRepositoryFacade interface {
	ObligationReader
	ObligationWriter
}
