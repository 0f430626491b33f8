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

// bankAccountHandler handles HTTP requests for bank accounts and the
// transaction ledger.
type bankAccountHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newBankAccountHandler creates a new bankAccountHandler.
func newBankAccountHandler(ledgerService portssvc.LedgerSvcFacade) *bankAccountHandler {
	return &bankAccountHandler{
		ledgerService: ledgerService,
	}
}

func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateBankAccountRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.ledgerService.CreateBankAccount(c.Request.Context(), req.Name, req.AllowOverdraft, userID)
	if err != nil {
		h.respondError(c, err, "Failed to create bank account")
		return
	}

	logger.Info("Bank account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) getBankAccount(c *gin.Context) {
	accountID := c.Param("accountID")

	account, err := h.ledgerService.GetBankAccount(c.Request.Context(), accountID)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve bank account")
		return
	}

	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) listTransactions(c *gin.Context) {
	accountID := c.Param("accountID")

	transactions, err := h.ledgerService.ListTransactions(c.Request.Context(), accountID)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": dto.ToBankTransactionResponses(transactions)})
}

func (h *bankAccountHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	req := dto.PostTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for postTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	txn, err := h.ledgerService.Post(c.Request.Context(), portssvc.PostTransactionRequest{
		AccountID:     accountID,
		Type:          req.Type,
		Amount:        req.Amount,
		Date:          date,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Description:   req.Description,
	}, userID)
	if err != nil {
		h.respondError(c, err, "Failed to post transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBankTransactionResponse(txn))
}

func (h *bankAccountHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.TransferRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.ledgerService.Transfer(c.Request.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.Description, userID)
	if err != nil {
		h.respondError(c, err, "Failed to transfer")
		return
	}

	logger.Info("Transfer completed",
		slog.String("from_account_id", req.FromAccountID),
		slog.String("to_account_id", req.ToAccountID),
		slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusOK, dto.ToTransferResponse(result))
}

func (h *bankAccountHandler) recomputeBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.ledgerService.RecomputeBalance(c.Request.Context(), accountID, userID)
	if err != nil {
		h.respondError(c, err, "Failed to recompute balance")
		return
	}

	logger.Info("Balance recomputed",
		slog.String("account_id", accountID),
		slog.Int("corrected_rows", result.CorrectedRows))
	c.JSON(http.StatusOK, dto.ToRecomputeResponse(result))
}

func (h *bankAccountHandler) respondError(c *gin.Context, err error, internalMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		logger.Warn("Invalid transition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Insufficient funds", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		logger.Warn("Concurrency conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "Operation conflicted with a concurrent change, please retry"})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
