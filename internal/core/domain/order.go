package domain

import "github.com/doceria/erp_backend/internal/utils/money"

// OrderPaymentStatus is the payment state of a production order.
type OrderPaymentStatus string

const (
	OrderPaymentUnpaid  OrderPaymentStatus = "UNPAID"
	OrderPaymentPartial OrderPaymentStatus = "PARTIAL"
	OrderPaymentPaid    OrderPaymentStatus = "PAID"
)

// IsPaid reports whether the order needs no further payment.
func (s OrderPaymentStatus) IsPaid() bool {
	return s == OrderPaymentPaid
}

// Order is the slice of a production order this subsystem cares about:
// the payment side. Order management itself lives elsewhere.
type Order struct {
	OrderID       string             `json:"orderID"`
	CustomerID    string             `json:"customerID"`
	Total         money.Money        `json:"total"`
	PaymentStatus OrderPaymentStatus `json:"paymentStatus"`
	AuditFields
}
