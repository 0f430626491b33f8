package dto

import "github.com/doceria/erp_backend/internal/core/domain"

// PixWebhookRequest is the payment provider's confirmation event payload.
// Only the payment reference and status drive reconciliation; the rest of
// the provider envelope is ignored.
type PixWebhookRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// PixWebhookResponse acknowledges receipt of a provider event. Providers
// retry on anything but success, so no-op outcomes still acknowledge.
type PixWebhookResponse struct {
	Outcome      domain.ReconciliationOutcome `json:"outcome"`
	PixPaymentID string                       `json:"pixPaymentId"`
}
