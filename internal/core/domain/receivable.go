package domain

import (
	"time"

	"github.com/doceria/erp_backend/internal/utils/money"
)

// Receivable is an amount owed by a customer, optionally backed by a boleto.
//
// BoletoID is a relation, not ownership: when set, this receivable is
// represented by that boleto and must be excluded from independent debt
// aggregation, otherwise the same debt is counted twice. The exclusion is
// re-derived on every aggregation from the current linkage and statuses,
// never cached.
type Receivable struct {
	ReceivableID  string           `json:"receivableID"`
	CustomerID    string           `json:"customerID"`
	OrderID       string           `json:"orderID,omitempty"`  // optional
	BoletoID      string           `json:"boletoID,omitempty"` // optional back-reference
	Amount        money.Money      `json:"amount"`
	Status        ObligationStatus `json:"status"`
	DueDate       time.Time        `json:"dueDate"`
	PaymentDate   *time.Time       `json:"paymentDate,omitempty"`
	PaymentMethod PaymentMethod    `json:"paymentMethod,omitempty"`
	Description   string           `json:"description"`
	AuditFields
}

// CountsTowardDebt reports whether this receivable contributes to the
// customer's outstanding debt on its own. Receivables represented by a
// boleto are counted through the boleto instead.
func (r Receivable) CountsTowardDebt() bool {
	return r.Status.IsOutstanding() && r.BoletoID == ""
}
