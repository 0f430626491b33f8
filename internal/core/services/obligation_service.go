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
)

// obligationService manages receivable/boleto lifecycle outside the
// provider-event path: manual charges, administrator overrides, and the
// overdue sweep.
type obligationService struct {
	BaseService
	obligationRepo portsrepo.ObligationRepositoryFacade
	customerRepo   portsrepo.CustomerReader
}

// NewObligationService creates a new obligation service.
func NewObligationService(obligationRepo portsrepo.ObligationRepositoryFacade, customerRepo portsrepo.CustomerReader) portssvc.ObligationSvcFacade {
	return &obligationService{
		obligationRepo: obligationRepo,
		customerRepo:   customerRepo,
	}
}

var _ portssvc.ObligationSvcFacade = (*obligationService)(nil)

// CreateReceivable issues a manual charge against the customer's credit.
// The insert and the credit re-derivation share one unit of work.
func (s *obligationService) CreateReceivable(ctx context.Context, req portssvc.CreateReceivableRequest, userID string) (*domain.SettlementResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: receivable amount must be positive", apperrors.ErrValidation)
	}
	if req.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", apperrors.ErrValidation)
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: customer %s is inactive", apperrors.ErrValidation, req.CustomerID)
	}

	now := time.Now().UTC()
	receivable := domain.Receivable{
		ReceivableID: uuid.NewString(),
		CustomerID:   req.CustomerID,
		OrderID:      req.OrderID,
		Amount:       req.Amount,
		Status:       domain.ObligationPending,
		DueDate:      req.DueDate,
		Description:  req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	result, err := s.obligationRepo.CreateReceivable(ctx, receivable)
	if err != nil {
		s.LogError(ctx, err, "Failed to create receivable", slog.String("customer_id", req.CustomerID))
		return nil, err
	}

	s.LogInfo(ctx, "Receivable created",
		slog.String("receivable_id", receivable.ReceivableID),
		slog.String("customer_id", req.CustomerID),
		slog.String("amount", req.Amount.String()),
		slog.String("available_credit", result.AvailableCredit.String()))
	return result, nil
}

// GetReceivable retrieves a receivable.
func (s *obligationService) GetReceivable(ctx context.Context, receivableID string) (*domain.Receivable, error) {
	return s.obligationRepo.FindReceivableByID(ctx, receivableID)
}

// MarkReceivablePaid is the administrator override: same state machine and
// credit recompute as reconciliation, minus the provider lookup.
func (s *obligationService) MarkReceivablePaid(ctx context.Context, receivableID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error) {
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	result, err := s.obligationRepo.SettleReceivable(ctx, receivableID, method, paidAt, userID)
	if err != nil {
		return nil, err
	}
	if result.AlreadyTerminal {
		// A redelivered provider event is benign; an operator acting on a
		// terminal obligation is not.
		return nil, fmt.Errorf("%w: receivable %s is already %s", apperrors.ErrInvalidTransition, receivableID, result.PriorStatus)
	}

	s.LogInfo(ctx, "Receivable marked paid",
		slog.String("receivable_id", receivableID),
		slog.String("payment_method", string(method)),
		slog.String("available_credit", result.AvailableCredit.String()))
	return result, nil
}

// CancelReceivable cancels a non-terminal receivable.
func (s *obligationService) CancelReceivable(ctx context.Context, receivableID string, userID string) (*domain.SettlementResult, error) {
	result, err := s.obligationRepo.CancelReceivable(ctx, receivableID, userID)
	if err != nil {
		return nil, err
	}
	if result.AlreadyTerminal {
		return nil, fmt.Errorf("%w: receivable %s is already %s", apperrors.ErrInvalidTransition, receivableID, result.PriorStatus)
	}

	s.LogInfo(ctx, "Receivable cancelled", slog.String("receivable_id", receivableID))
	return result, nil
}

// IssueBoleto registers a payment-slip charge. When it covers receivables,
// they are linked in the same unit of work so the debt is represented once:
// by the boleto.
func (s *obligationService) IssueBoleto(ctx context.Context, req portssvc.IssueBoletoRequest, userID string) (*domain.Boleto, error) {
	if req.PixPaymentID == "" {
		return nil, fmt.Errorf("%w: pix payment reference is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: boleto amount must be positive", apperrors.ErrValidation)
	}
	if req.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", apperrors.ErrValidation)
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: customer %s is inactive", apperrors.ErrValidation, req.CustomerID)
	}

	now := time.Now().UTC()
	boleto := domain.Boleto{
		BoletoID:     uuid.NewString(),
		CustomerID:   req.CustomerID,
		OrderID:      req.OrderID,
		PixPaymentID: req.PixPaymentID,
		Amount:       req.Amount,
		Status:       domain.ObligationPending,
		DueDate:      req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.obligationRepo.SaveBoleto(ctx, boleto, req.ReceivableIDs); err != nil {
		s.LogError(ctx, err, "Failed to issue boleto", slog.String("customer_id", req.CustomerID))
		return nil, err
	}

	s.LogInfo(ctx, "Boleto issued",
		slog.String("boleto_id", boleto.BoletoID),
		slog.String("customer_id", req.CustomerID),
		slog.String("pix_payment_id", req.PixPaymentID),
		slog.Int("receivables_linked", len(req.ReceivableIDs)))
	return &boleto, nil
}

// GetBoleto retrieves a boleto.
func (s *obligationService) GetBoleto(ctx context.Context, boletoID string) (*domain.Boleto, error) {
	return s.obligationRepo.FindBoletoByID(ctx, boletoID)
}

// MarkBoletoPaid is the administrator override for a boleto: settles the
// boleto, its linked receivables and order, and re-derives the credit.
func (s *obligationService) MarkBoletoPaid(ctx context.Context, boletoID string, method domain.PaymentMethod, paidAt time.Time, userID string) (*domain.SettlementResult, error) {
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	result, err := s.obligationRepo.SettleBoleto(ctx, boletoID, method, paidAt, userID)
	if err != nil {
		return nil, err
	}
	if result.AlreadyTerminal {
		return nil, fmt.Errorf("%w: boleto %s is already %s", apperrors.ErrInvalidTransition, boletoID, result.PriorStatus)
	}

	s.LogInfo(ctx, "Boleto marked paid",
		slog.String("boleto_id", boletoID),
		slog.String("payment_method", string(method)),
		slog.Int("receivables_settled", result.ReceivablesSettled),
		slog.String("available_credit", result.AvailableCredit.String()))
	return result, nil
}

// MarkOverdue sweeps PENDING obligations past their due date to OVERDUE.
// Both statuses count as outstanding debt, so available credit is
// unaffected and no recompute is needed.
func (s *obligationService) MarkOverdue(ctx context.Context, asOf time.Time, userID string) (*portssvc.OverdueSweepResult, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	receivables, boletos, err := s.obligationRepo.MarkOverdue(ctx, asOf, userID)
	if err != nil {
		s.LogError(ctx, err, "Overdue sweep failed")
		return nil, err
	}

	s.LogInfo(ctx, "Overdue sweep completed",
		slog.Int64("receivables_marked", receivables),
		slog.Int64("boletos_marked", boletos))
	return &portssvc.OverdueSweepResult{
		ReceivablesMarked: receivables,
		BoletosMarked:     boletos,
	}, nil
}
