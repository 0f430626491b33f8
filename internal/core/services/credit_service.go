package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/doceria/erp_backend/internal/apperrors"
	"github.com/doceria/erp_backend/internal/core/domain"
	portsrepo "github.com/doceria/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/utils/accounting"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// creditService derives a customer's available credit from obligation state.
type creditService struct {
	BaseService
	customerRepo   portsrepo.CustomerRepositoryFacade
	obligationRepo portsrepo.ObligationReader
}

// NewCreditService creates a new credit service.
func NewCreditService(customerRepo portsrepo.CustomerRepositoryFacade, obligationRepo portsrepo.ObligationReader) portssvc.CreditSvcFacade {
	return &creditService{
		customerRepo:   customerRepo,
		obligationRepo: obligationRepo,
	}
}

var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// CreateCustomer registers a customer. With no obligations yet, available
// credit starts equal to the limit.
func (s *creditService) CreateCustomer(ctx context.Context, name string, phone string, creditLimit money.Money, userID string) (*domain.Customer, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
	}
	if creditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:      uuid.NewString(),
		Name:            name,
		Phone:           phone,
		CreditLimit:     creditLimit,
		AvailableCredit: creditLimit,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Customer created",
		slog.String("customer_id", customer.CustomerID),
		slog.String("credit_limit", creditLimit.String()))
	return &customer, nil
}

// GetCustomer retrieves a customer by id.
func (s *creditService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.customerRepo.FindCustomerByID(ctx, customerID)
}

// OutstandingDebt sums the customer's PENDING/OVERDUE boletos plus their
// PENDING/OVERDUE receivables not represented by a boleto.
func (s *creditService) OutstandingDebt(ctx context.Context, customerID string) (money.Money, error) {
	boletos, err := s.obligationRepo.FindOutstandingBoletosByCustomer(ctx, customerID)
	if err != nil {
		return money.Zero(), fmt.Errorf("failed to fetch outstanding boletos for customer %s: %w", customerID, err)
	}
	receivables, err := s.obligationRepo.FindOutstandingReceivablesByCustomer(ctx, customerID)
	if err != nil {
		return money.Zero(), fmt.Errorf("failed to fetch outstanding receivables for customer %s: %w", customerID, err)
	}

	return accounting.OutstandingDebt(boletos, receivables), nil
}

// Recompute derives the available credit without persisting it.
func (s *creditService) Recompute(ctx context.Context, customerID string) (money.Money, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return money.Zero(), err
	}

	debt, err := s.OutstandingDebt(ctx, customerID)
	if err != nil {
		return money.Zero(), err
	}

	return accounting.AvailableCredit(customer.CreditLimit, debt), nil
}

// ApplyAndPersist recomputes and writes the cached availableCredit within a
// single unit of work held by the repository (customer row lock plus in-tx
// re-derivation).
func (s *creditService) ApplyAndPersist(ctx context.Context, customerID string, userID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.RecalculateAvailableCredit(ctx, customerID, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Available credit recalculated",
		slog.String("customer_id", customerID),
		slog.String("available_credit", customer.AvailableCredit.String()))
	return customer, nil
}

// GetAvailableCredit returns the cached value. The audit pass guards its
// agreement with the authoritative recomputation.
func (s *creditService) GetAvailableCredit(ctx context.Context, customerID string) (money.Money, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return money.Zero(), err
	}
	return customer.AvailableCredit, nil
}

// CheckCredit answers the order-placement credit check: reject when the
// order total exceeds the available credit, reporting the shortfall.
func (s *creditService) CheckCredit(ctx context.Context, customerID string, orderTotal money.Money) (*portssvc.CreditCheckResult, error) {
	available, err := s.GetAvailableCredit(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := &portssvc.CreditCheckResult{
		CustomerID:      customerID,
		AvailableCredit: available,
		OrderTotal:      orderTotal,
		Allowed:         !orderTotal.GreaterThan(available),
		Shortfall:       money.Zero(),
	}
	if !result.Allowed {
		result.Shortfall = orderTotal.Sub(available)
		s.LogInfo(ctx, "Credit check rejected",
			slog.String("customer_id", customerID),
			slog.String("order_total", orderTotal.String()),
			slog.String("shortfall", result.Shortfall.String()))
	}
	return result, nil
}
