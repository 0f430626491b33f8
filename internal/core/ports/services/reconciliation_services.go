package services

import (
	"context"

	"github.com/doceria/erp_backend/internal/core/domain"
)

// ReconciliationSvcFacade applies payment-provider confirmation events to
// internal obligation state. It is the only automated writer of "this
// obligation is now paid".
type ReconciliationSvcFacade interface {
	// Reconcile idempotently applies one provider event identified by the
	// provider's payment reference. Unknown references and redeliveries of
	// already-terminal obligations are logged no-ops, not errors.
	Reconcile(ctx context.Context, pixPaymentID string, status domain.ProviderStatus) (*domain.ReconciliationResult, error)
}

// PaymentNotifier delivers payment confirmations to the customer. Delivery
// (SMS/WhatsApp) is an external collaborator; implementations must be safe
// to call fire-and-forget after the settlement commits.
type PaymentNotifier interface {
	NotifyPaymentConfirmed(ctx context.Context, n domain.PaymentNotification)
}
