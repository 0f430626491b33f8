package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"

	"github.com/doceria/erp_backend/internal/apperrors"
	"github.com/doceria/erp_backend/internal/core/domain"
	portsrepo "github.com/doceria/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
)

// reconcileLockTTL bounds how long a redelivered event can wait behind the
// event currently being applied for the same payment reference.
const reconcileLockTTL = 10 * time.Second

// reconciliationService applies payment-provider confirmation events to
// obligation state. It is the only automated writer of "this obligation is
// now paid".
type reconciliationService struct {
	BaseService
	obligationRepo portsrepo.ObligationRepositoryFacade
	notifier       portssvc.PaymentNotifier
	locker         *redislock.Client // optional; nil skips distributed locking
}

// NewReconciliationService creates a new reconciliation service. locker may
// be nil when no Redis is configured; the database row locks still
// serialize concurrent settlements of the same boleto.
func NewReconciliationService(obligationRepo portsrepo.ObligationRepositoryFacade, notifier portssvc.PaymentNotifier, locker *redislock.Client) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		obligationRepo: obligationRepo,
		notifier:       notifier,
		locker:         locker,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Reconcile idempotently applies one provider confirmation event.
//
// Providers redeliver events arbitrarily often; unknown references and
// already-terminal obligations return a no-op result, never an error, so
// the webhook handler can acknowledge receipt and stop the retry storm.
func (s *reconciliationService) Reconcile(ctx context.Context, pixPaymentID string, status domain.ProviderStatus) (*domain.ReconciliationResult, error) {
	if pixPaymentID == "" {
		return nil, fmt.Errorf("%w: provider payment reference is required", apperrors.ErrValidation)
	}

	logger := s.GetLogger(ctx).With(
		slog.String("pix_payment_id", pixPaymentID),
		slog.String("provider_status", string(status)))

	// Serialize redeliveries of the same reference across instances before
	// the database transaction. Best effort: when the lock is unavailable
	// the boleto row lock inside the settlement still guarantees a single
	// winner.
	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, "reconcile:"+pixPaymentID, reconcileLockTTL, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
		})
		if err != nil && !errors.Is(err, redislock.ErrNotObtained) {
			logger.Warn("Failed to obtain reconciliation lock", slog.String("error", err.Error()))
		}
		if err == nil {
			defer func() {
				if rerr := lock.Release(context.WithoutCancel(ctx)); rerr != nil && !errors.Is(rerr, redislock.ErrLockNotHeld) {
					logger.Warn("Failed to release reconciliation lock", slog.String("error", rerr.Error()))
				}
			}()
		}
	}

	boleto, err := s.obligationRepo.FindBoletoByPixPaymentID(ctx, pixPaymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// The event may reference a charge not tracked by this system,
			// e.g. a manually issued one. Acknowledge and move on.
			logger.Info("Provider event references unknown payment, ignoring")
			return &domain.ReconciliationResult{
				Outcome:      domain.OutcomeUnknownReference,
				PixPaymentID: pixPaymentID,
			}, nil
		}
		return nil, err
	}

	logger = logger.With(
		slog.String("boleto_id", boleto.BoletoID),
		slog.String("customer_id", boleto.CustomerID))

	if boleto.Status.IsTerminal() {
		// Redelivery of an already-applied event. Re-applying side effects
		// (re-crediting, re-notifying) would be a correctness bug.
		logger.Info("Boleto already terminal, ignoring redelivery",
			slog.String("status", string(boleto.Status)))
		return &domain.ReconciliationResult{
			Outcome:      domain.OutcomeAlreadyProcessed,
			PixPaymentID: pixPaymentID,
			BoletoID:     boleto.BoletoID,
			CustomerID:   boleto.CustomerID,
		}, nil
	}

	switch status {
	case domain.ProviderStatusApproved:
		return s.settle(ctx, logger, boleto)
	case domain.ProviderStatusRejected, domain.ProviderStatusCancelled:
		return s.cancel(ctx, logger, boleto)
	default:
		logger.Info("Provider status requires no action")
		return &domain.ReconciliationResult{
			Outcome:      domain.OutcomeIgnored,
			PixPaymentID: pixPaymentID,
			BoletoID:     boleto.BoletoID,
			CustomerID:   boleto.CustomerID,
		}, nil
	}
}

// settle applies an approved confirmation: boleto, linked receivables,
// linked order, and the customer's available credit all commit together.
// Notification happens after commit, never inside the critical section.
func (s *reconciliationService) settle(ctx context.Context, logger *slog.Logger, boleto *domain.Boleto) (*domain.ReconciliationResult, error) {
	paidAt := time.Now().UTC()

	settlement, err := s.obligationRepo.SettleBoleto(ctx, boleto.BoletoID, domain.PaymentMethodPix, paidAt, "pix-reconciler")
	if err != nil {
		return nil, err
	}
	if settlement.AlreadyTerminal {
		// A concurrent delivery won the row lock race. Treat like any other
		// redelivery.
		logger.Info("Boleto settled concurrently, ignoring redelivery")
		return &domain.ReconciliationResult{
			Outcome:      domain.OutcomeAlreadyProcessed,
			PixPaymentID: boleto.PixPaymentID,
			BoletoID:     boleto.BoletoID,
			CustomerID:   boleto.CustomerID,
		}, nil
	}

	logger.Info("Boleto settled",
		slog.Int("receivables_settled", settlement.ReceivablesSettled),
		slog.Bool("order_marked_paid", settlement.OrderMarkedPaid),
		slog.String("available_credit", settlement.AvailableCredit.String()))

	if s.notifier != nil {
		s.notifier.NotifyPaymentConfirmed(ctx, domain.PaymentNotification{
			CustomerID:   boleto.CustomerID,
			BoletoID:     boleto.BoletoID,
			PixPaymentID: boleto.PixPaymentID,
			Amount:       boleto.Amount,
			PaidAt:       paidAt,
		})
	}

	return &domain.ReconciliationResult{
		Outcome:            domain.OutcomeSettled,
		PixPaymentID:       boleto.PixPaymentID,
		BoletoID:           boleto.BoletoID,
		CustomerID:         boleto.CustomerID,
		ReceivablesSettled: settlement.ReceivablesSettled,
		OrderMarkedPaid:    settlement.OrderMarkedPaid,
		AvailableCredit:    settlement.AvailableCredit,
	}, nil
}

// cancel applies a rejected/cancelled confirmation. The boleto never became
// paid, so no credit restoration applies: it simply stops counting as
// outstanding debt, and the in-transaction recompute keeps the cached
// available credit consistent with that.
func (s *reconciliationService) cancel(ctx context.Context, logger *slog.Logger, boleto *domain.Boleto) (*domain.ReconciliationResult, error) {
	settlement, err := s.obligationRepo.CancelBoleto(ctx, boleto.BoletoID, "pix-reconciler")
	if err != nil {
		return nil, err
	}
	if settlement.AlreadyTerminal {
		logger.Info("Boleto reached terminal state concurrently, ignoring")
		return &domain.ReconciliationResult{
			Outcome:      domain.OutcomeAlreadyProcessed,
			PixPaymentID: boleto.PixPaymentID,
			BoletoID:     boleto.BoletoID,
			CustomerID:   boleto.CustomerID,
		}, nil
	}

	logger.Info("Boleto cancelled per provider status")
	return &domain.ReconciliationResult{
		Outcome:         domain.OutcomeCancelled,
		PixPaymentID:    boleto.PixPaymentID,
		BoletoID:        boleto.BoletoID,
		CustomerID:      boleto.CustomerID,
		AvailableCredit: settlement.AvailableCredit,
	}, nil
}
