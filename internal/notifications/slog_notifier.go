package notifications

import (
	"context"
	"log/slog"

	"github.com/doceria/erp_backend/internal/core/domain"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/middleware"
)

// SlogNotifier is the default PaymentNotifier: it records the confirmation
// in the structured log. The real SMS/WhatsApp sender lives in a separate
// service that tails these events; this process only needs the hook point.
type SlogNotifier struct{}

// NewSlogNotifier creates a new log-backed payment notifier.
func NewSlogNotifier() *SlogNotifier {
	return &SlogNotifier{}
}

var _ portssvc.PaymentNotifier = (*SlogNotifier)(nil)

// NotifyPaymentConfirmed logs the confirmed payment. Called after the
// settlement commits; must never fail the caller.
func (n *SlogNotifier) NotifyPaymentConfirmed(ctx context.Context, notification domain.PaymentNotification) {
	middleware.GetLoggerFromCtx(ctx).Info("Payment confirmed notification",
		slog.String("customer_id", notification.CustomerID),
		slog.String("boleto_id", notification.BoletoID),
		slog.String("pix_payment_id", notification.PixPaymentID),
		slog.String("amount", notification.Amount.String()),
		slog.Time("paid_at", notification.PaidAt))
}
