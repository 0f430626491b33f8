package dto

import (
	"time"

	"github.com/doceria/erp_backend/internal/core/domain"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// CreateCustomerRequest defines the payload for registering a customer.
type CreateCustomerRequest struct {
	Name        string      `json:"name" binding:"required"`
	Phone       string      `json:"phone"`
	CreditLimit money.Money `json:"creditLimit" binding:"required"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID      string      `json:"customerID"`
	Name            string      `json:"name"`
	Phone           string      `json:"phone"`
	CreditLimit     money.Money `json:"creditLimit"`
	AvailableCredit money.Money `json:"availableCredit"`
	IsActive        bool        `json:"isActive"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// CreditCheckRequest asks whether an order total fits the customer's
// available credit.
type CreditCheckRequest struct {
	OrderTotal money.Money `json:"orderTotal" binding:"required"`
}

// CreditCheckResponse defines the answer to a credit check.
type CreditCheckResponse struct {
	CustomerID      string      `json:"customerID"`
	AvailableCredit money.Money `json:"availableCredit"`
	OrderTotal      money.Money `json:"orderTotal"`
	Allowed         bool        `json:"allowed"`
	Shortfall       money.Money `json:"shortfall"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:      c.CustomerID,
		Name:            c.Name,
		Phone:           c.Phone,
		CreditLimit:     c.CreditLimit,
		AvailableCredit: c.AvailableCredit,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
	}
}

// ToCreditCheckResponse converts a service credit check result to its DTO.
func ToCreditCheckResponse(r *portssvc.CreditCheckResult) CreditCheckResponse {
	return CreditCheckResponse{
		CustomerID:      r.CustomerID,
		AvailableCredit: r.AvailableCredit,
		OrderTotal:      r.OrderTotal,
		Allowed:         r.Allowed,
		Shortfall:       r.Shortfall,
	}
}
