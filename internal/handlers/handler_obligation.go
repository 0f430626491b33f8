package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doceria/erp_backend/internal/apperrors"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/dto"
	"github.com/doceria/erp_backend/internal/middleware"
)

// obligationHandler handles HTTP requests for receivables and boletos.
type obligationHandler struct {
	obligationService portssvc.ObligationSvcFacade
}

// newObligationHandler creates a new obligationHandler.
func newObligationHandler(obligationService portssvc.ObligationSvcFacade) *obligationHandler {
	return &obligationHandler{
		obligationService: obligationService,
	}
}

func (h *obligationHandler) createReceivable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateReceivableRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createReceivable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.obligationService.CreateReceivable(c.Request.Context(), portssvc.CreateReceivableRequest{
		CustomerID:  req.CustomerID,
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Description: req.Description,
	}, userID)
	if err != nil {
		h.respondError(c, err, "Failed to create receivable")
		return
	}

	c.JSON(http.StatusCreated, dto.ToSettlementResponse(result))
}

func (h *obligationHandler) getReceivable(c *gin.Context) {
	receivableID := c.Param("receivableID")

	receivable, err := h.obligationService.GetReceivable(c.Request.Context(), receivableID)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve receivable")
		return
	}

	c.JSON(http.StatusOK, dto.ToReceivableResponse(receivable))
}

func (h *obligationHandler) markReceivablePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receivableID := c.Param("receivableID")

	req := dto.MarkPaidRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for markReceivablePaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	result, err := h.obligationService.MarkReceivablePaid(c.Request.Context(), receivableID, req.Method, paidAt, userID)
	if err != nil {
		h.respondError(c, err, "Failed to mark receivable paid")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(result))
}

func (h *obligationHandler) cancelReceivable(c *gin.Context) {
	receivableID := c.Param("receivableID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.obligationService.CancelReceivable(c.Request.Context(), receivableID, userID)
	if err != nil {
		h.respondError(c, err, "Failed to cancel receivable")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(result))
}

func (h *obligationHandler) issueBoleto(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.IssueBoletoRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for issueBoleto", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	boleto, err := h.obligationService.IssueBoleto(c.Request.Context(), portssvc.IssueBoletoRequest{
		CustomerID:    req.CustomerID,
		OrderID:       req.OrderID,
		PixPaymentID:  req.PixPaymentID,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		ReceivableIDs: req.ReceivableIDs,
	}, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err, "Failed to issue boleto")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoletoResponse(boleto))
}

func (h *obligationHandler) getBoleto(c *gin.Context) {
	boletoID := c.Param("boletoID")

	boleto, err := h.obligationService.GetBoleto(c.Request.Context(), boletoID)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve boleto")
		return
	}

	c.JSON(http.StatusOK, dto.ToBoletoResponse(boleto))
}

func (h *obligationHandler) markBoletoPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	boletoID := c.Param("boletoID")

	req := dto.MarkPaidRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for markBoletoPaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	result, err := h.obligationService.MarkBoletoPaid(c.Request.Context(), boletoID, req.Method, paidAt, userID)
	if err != nil {
		h.respondError(c, err, "Failed to mark boleto paid")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(result))
}

// overdueSweep marks past-due PENDING obligations OVERDUE. Triggered by an
// external scheduler, never self-scheduled.
func (h *obligationHandler) overdueSweep(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.obligationService.MarkOverdue(c.Request.Context(), time.Now().UTC(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to run overdue sweep")
		return
	}

	c.JSON(http.StatusOK, dto.ToOverdueSweepResponse(result))
}

// respondError maps service errors to HTTP statuses the teacher way: one
// errors.Is chain per semantic class, internal details never leak on 500.
func (h *obligationHandler) respondError(c *gin.Context, err error, internalMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		logger.Warn("Invalid transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		logger.Warn("Concurrency conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "Operation conflicted with a concurrent change, please retry"})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
