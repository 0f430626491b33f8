package services

import (
	"context"
	"time"

	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// CreateReceivableRequest describes a manual charge issued to a customer.
type CreateReceivableRequest struct {
	CustomerID  string
	OrderID     string
	Amount      money.Money
	DueDate     time.Time
	Description string
}

// IssueBoletoRequest describes a payment-slip charge covering one or more
// of the customer's outstanding receivables. PixPaymentID is the provider's
// unique payment reference obtained when the charge was registered with the
// provider.
type IssueBoletoRequest struct {
	CustomerID    string
	OrderID       string
	PixPaymentID  string
	Amount        money.Money
	DueDate       time.Time
	ReceivableIDs []string
}

// OverdueSweepResult reports an overdue-marking sweep.
type OverdueSweepResult struct {
	ReceivablesMarked int64 `json:"receivablesMarked"`
	BoletosMarked     int64 `json:"boletosMarked"`
}

// ObligationSvcFacade manages the obligation lifecycle outside the
// provider-event path: manual charges, administrator overrides, and the
// externally triggered overdue sweep.
type ObligationSvcFacade interface {
	// CreateReceivable issues a manual charge; the customer's available
	// credit is debited (re-derived) in the same unit of work.
	CreateReceivable(ctx context.Context, req CreateReceivableRequest, userID string) (*domain.SettlementResult, error)

	// GetReceivable retrieves a receivable.
	GetReceivable(ctx context.Context, receivableID string) (*domain.Receivable, error)

	// MarkReceivablePaid is the administrator override for a receivable:
	// same state machine and credit recompute as reconciliation, minus the
	// provider lookup. Terminal obligations yield ErrInvalidTransition.
	MarkReceivablePaid(ctx context.Context, receivableID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error)

	// CancelReceivable cancels a non-terminal receivable.
	CancelReceivable(ctx context.Context, receivableID string, userID string) (*domain.SettlementResult, error)

	// IssueBoleto registers a payment-slip charge and links the covered
	// receivables to it so their debt is represented by the boleto alone.
	IssueBoleto(ctx context.Context, req IssueBoletoRequest, userID string) (*domain.Boleto, error)

	// GetBoleto retrieves a boleto.
	GetBoleto(ctx context.Context, boletoID string) (*domain.Boleto, error)

	// MarkBoletoPaid is the administrator override for a boleto.
	MarkBoletoPaid(ctx context.Context, boletoID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error)

	// MarkOverdue sweeps PENDING obligations past their due date to OVERDUE.
	// Triggered by an external cron-like caller, never self-scheduled.
	MarkOverdue(ctx context.Context, asOf time.Time, userID string) (*OverdueSweepResult, error)
}
