package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doceria/erp_backend/internal/core/domain"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/dto"
	"github.com/doceria/erp_backend/internal/middleware"
)

// webhookHandler handles payment provider confirmation events.
type webhookHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newWebhookHandler creates a new webhookHandler.
func newWebhookHandler(reconciliationService portssvc.ReconciliationSvcFacade) *webhookHandler {
	return &webhookHandler{
		reconciliationService: reconciliationService,
	}
}

// handlePixWebhook applies one provider confirmation event.
//
// The provider retries on any non-2xx response, so every benign outcome
// (unknown reference, redelivery of an already-applied event, a status that
// needs no action) acknowledges with 200. Only malformed payloads and
// genuine internal failures are non-2xx; the latter is exactly when a retry
// helps.
func (h *webhookHandler) handlePixWebhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.PixWebhookRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for pix webhook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), req.PaymentID, domain.ProviderStatus(req.Status))
	if err != nil {
		logger.Error("Failed to reconcile pix payment",
			slog.String("error", err.Error()),
			slog.String("pix_payment_id", req.PaymentID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment event"})
		return
	}

	c.JSON(http.StatusOK, dto.PixWebhookResponse{
		Outcome:      result.Outcome,
		PixPaymentID: result.PixPaymentID,
	})
}
