package services

import (
	"context"

	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// CreditCheckResult answers an order-placement credit check.
type CreditCheckResult struct {
	CustomerID      string      `json:"customerID"`
	AvailableCredit money.Money `json:"availableCredit"`
	OrderTotal      money.Money `json:"orderTotal"`
	Allowed         bool        `json:"allowed"`
	Shortfall       money.Money `json:"shortfall"` // zero when allowed
}

// CreditSvcFacade derives customer credit from obligation state.
type CreditSvcFacade interface {
	// CreateCustomer registers a customer with a credit limit. Available
	// credit starts equal to the limit.
	CreateCustomer(ctx context.Context, name string, phone string, creditLimit money.Money, userID string) (*domain.Customer, error)

	// GetCustomer retrieves a customer with the cached availableCredit.
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)

	// OutstandingDebt aggregates the customer's de-duplicated unpaid
	// obligations.
	OutstandingDebt(ctx context.Context, customerID string) (money.Money, error)

	// Recompute is the pure derivation: clamp(limit - debt, 0, limit).
	// It does not persist anything.
	Recompute(ctx context.Context, customerID string) (money.Money, error)

	// ApplyAndPersist recomputes and writes the cached availableCredit in
	// one unit of work, returning the updated customer.
	ApplyAndPersist(ctx context.Context, customerID string, userID string) (*domain.Customer, error)

	// GetAvailableCredit returns the cached availableCredit for a customer.
	GetAvailableCredit(ctx context.Context, customerID string) (money.Money, error)

	// CheckCredit answers whether an order of the given total fits within
	// the customer's available credit, with the shortfall when it does not.
	CheckCredit(ctx context.Context, customerID string, orderTotal money.Money) (*CreditCheckResult, error)
}
