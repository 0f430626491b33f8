package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// ObligationStatus is the lifecycle state shared by receivables and boletos.
type ObligationStatus string

const (
	ObligationPending   ObligationStatus = "PENDING"
	ObligationOverdue   ObligationStatus = "OVERDUE"
	ObligationPaid      ObligationStatus = "PAID"
	ObligationCancelled ObligationStatus = "CANCELLED"
)

// IsOutstanding reports whether the obligation still counts toward a
// customer's outstanding debt.
func (s ObligationStatus) IsOutstanding() bool {
	return s == ObligationPending || s == ObligationOverdue
}

// IsTerminal reports whether the obligation can no longer change state.
// PAID and CANCELLED are terminal.
func (s ObligationStatus) IsTerminal() bool {
	return s == ObligationPaid || s == ObligationCancelled
}

// PaymentMethod identifies how an obligation was settled.
type PaymentMethod string

const (
	PaymentMethodPix      PaymentMethod = "PIX"
	PaymentMethodBoleto   PaymentMethod = "BOLETO"
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)
