package dto

import (
	"time"

	"github.com/doceria/erp_backend/internal/core/domain"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// CreateReceivableRequest defines the payload for issuing a manual charge.
type CreateReceivableRequest struct {
	CustomerID  string      `json:"customerID" binding:"required"`
	OrderID     string      `json:"orderID"`
	Amount      money.Money `json:"amount" binding:"required"`
	DueDate     time.Time   `json:"dueDate" binding:"required"`
	Description string      `json:"description"`
}

// IssueBoletoRequest defines the payload for registering a payment-slip
// charge covering zero or more receivables.
type IssueBoletoRequest struct {
	CustomerID    string      `json:"customerID" binding:"required"`
	OrderID       string      `json:"orderID"`
	PixPaymentID  string      `json:"pixPaymentID" binding:"required"`
	Amount        money.Money `json:"amount" binding:"required"`
	DueDate       time.Time   `json:"dueDate" binding:"required"`
	ReceivableIDs []string    `json:"receivableIDs"`
}

// MarkPaidRequest defines the payload for an administrator payment override.
type MarkPaidRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required"`
	PaidAt *time.Time           `json:"paidAt"` // defaults to now
}

// ReceivableResponse defines the data returned for a receivable.
type ReceivableResponse struct {
	ReceivableID  string                  `json:"receivableID"`
	CustomerID    string                  `json:"customerID"`
	OrderID       string                  `json:"orderID,omitempty"`
	BoletoID      string                  `json:"boletoID,omitempty"`
	Amount        money.Money             `json:"amount"`
	Status        domain.ObligationStatus `json:"status"`
	DueDate       time.Time               `json:"dueDate"`
	PaymentDate   *time.Time              `json:"paymentDate,omitempty"`
	PaymentMethod domain.PaymentMethod    `json:"paymentMethod,omitempty"`
	Description   string                  `json:"description"`
}

// BoletoResponse defines the data returned for a boleto.
type BoletoResponse struct {
	BoletoID     string                  `json:"boletoID"`
	CustomerID   string                  `json:"customerID"`
	OrderID      string                  `json:"orderID,omitempty"`
	PixPaymentID string                  `json:"pixPaymentID"`
	Amount       money.Money             `json:"amount"`
	Status       domain.ObligationStatus `json:"status"`
	DueDate      time.Time               `json:"dueDate"`
	PaidDate     *time.Time              `json:"paidDate,omitempty"`
}

// SettlementResponse defines the outcome of one obligation transition.
type SettlementResponse struct {
	BoletoID           string      `json:"boletoID,omitempty"`
	ReceivableID       string      `json:"receivableID,omitempty"`
	CustomerID         string      `json:"customerID"`
	Amount             money.Money `json:"amount"`
	PaidAt             *time.Time  `json:"paidAt,omitempty"`
	ReceivablesSettled int         `json:"receivablesSettled"`
	OrderMarkedPaid    bool        `json:"orderMarkedPaid"`
	AvailableCredit    money.Money `json:"availableCredit"`
}

// OverdueSweepResponse reports how many obligations an overdue sweep marked.
type OverdueSweepResponse struct {
	ReceivablesMarked int64 `json:"receivablesMarked"`
	BoletosMarked     int64 `json:"boletosMarked"`
}

// ToReceivableResponse converts a domain.Receivable to its DTO.
func ToReceivableResponse(r *domain.Receivable) ReceivableResponse {
	return ReceivableResponse{
		ReceivableID:  r.ReceivableID,
		CustomerID:    r.CustomerID,
		OrderID:       r.OrderID,
		BoletoID:      r.BoletoID,
		Amount:        r.Amount,
		Status:        r.Status,
		DueDate:       r.DueDate,
		PaymentDate:   r.PaymentDate,
		PaymentMethod: r.PaymentMethod,
		Description:   r.Description,
	}
}

// ToBoletoResponse converts a domain.Boleto to its DTO.
func ToBoletoResponse(b *domain.Boleto) BoletoResponse {
	return BoletoResponse{
		BoletoID:     b.BoletoID,
		CustomerID:   b.CustomerID,
		OrderID:      b.OrderID,
		PixPaymentID: b.PixPaymentID,
		Amount:       b.Amount,
		Status:       b.Status,
		DueDate:      b.DueDate,
		PaidDate:     b.PaidDate,
	}
}

// ToSettlementResponse converts a domain.SettlementResult to its DTO.
func ToSettlementResponse(s *domain.SettlementResult) SettlementResponse {
	return SettlementResponse{
		BoletoID:           s.BoletoID,
		ReceivableID:       s.ReceivableID,
		CustomerID:         s.CustomerID,
		Amount:             s.Amount,
		PaidAt:             s.PaidAt,
		ReceivablesSettled: s.ReceivablesSettled,
		OrderMarkedPaid:    s.OrderMarkedPaid,
		AvailableCredit:    s.AvailableCredit,
	}
}

// ToOverdueSweepResponse converts a sweep result to its DTO.
func ToOverdueSweepResponse(r *portssvc.OverdueSweepResult) OverdueSweepResponse {
	return OverdueSweepResponse{
		ReceivablesMarked: r.ReceivablesMarked,
		BoletosMarked:     r.BoletosMarked,
	}
}
