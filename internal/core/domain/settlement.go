package domain

import (
	"time"

	"github.com/doceria/erp_backend/internal/utils/money"
)

// SettlementResult reports the effect of one obligation state transition
// executed as a single unit of work (settle, cancel, or create). The
// customer's available credit is re-derived and persisted inside the same
// transaction, and the resulting value is returned here.
type SettlementResult struct {
	BoletoID           string      `json:"boletoID,omitempty"`
	ReceivableID       string      `json:"receivableID,omitempty"`
	CustomerID         string      `json:"customerID"`
	Amount             money.Money `json:"amount"`
	PaidAt             *time.Time  `json:"paidAt,omitempty"`
	ReceivablesSettled int         `json:"receivablesSettled"`
	OrderMarkedPaid    bool        `json:"orderMarkedPaid"`
	AvailableCredit    money.Money `json:"availableCredit"`

	// AlreadyTerminal is set when the obligation was found PAID or CANCELLED
	// under the row lock. No side effects ran; callers decide whether that is
	// a benign redelivery or an invalid transition.
	AlreadyTerminal bool             `json:"alreadyTerminal"`
	PriorStatus     ObligationStatus `json:"priorStatus,omitempty"`
}
