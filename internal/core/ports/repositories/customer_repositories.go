package repositories

import (
	"context"

	"github.com/doceria/erp_backend/internal/core/domain"
)

// CustomerReader defines read operations for customer data.
type CustomerReader interface {
	// FindCustomerByID retrieves a specific customer by its unique identifier.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListActiveCustomers retrieves all active customers, paginated. It is
	// the iteration basis for the credit audit pass.
	ListActiveCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data.
type CustomerWriter interface {
	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// RecalculateAvailableCredit re-derives the customer's available credit
	// from current obligation state and persists it, all within one database
	// transaction holding the customer row lock. This is the only write path
	// for the cached availableCredit value.
	RecalculateAvailableCredit(ctx context.Context, customerID string, userID string) (*domain.Customer, error)
}

// CustomerRepositoryFacade combines all customer repository interfaces.
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
