package domain

import (
	"time"

	"github.com/doceria/erp_backend/internal/utils/money"
)

// Boleto is a payment-slip obligation with an external pix charge attached.
// One boleto may cover one or more receivables (linked via
// Receivable.BoletoID). PixPaymentID is the provider's unique payment
// reference and is how inbound confirmation events find the boleto.
type Boleto struct {
	BoletoID     string           `json:"boletoID"`
	CustomerID   string           `json:"customerID"`
	OrderID      string           `json:"orderID,omitempty"` // optional
	PixPaymentID string           `json:"pixPaymentID"`
	Amount       money.Money      `json:"amount"`
	Status       ObligationStatus `json:"status"`
	DueDate      time.Time        `json:"dueDate"`
	PaidDate     *time.Time       `json:"paidDate,omitempty"`
	AuditFields
}
