package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/middleware"
	"github.com/doceria/erp_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	webhookLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerWebhookRoutes(r, services, webhookLimiter)

	setupAPIV1Routes(r, cfg, services)
}

// registerWebhookRoutes configures the public provider-facing routes. No
// auth (the provider is not a JWT client), but rate limited per client IP.
func registerWebhookRoutes(r *gin.Engine, services *portssvc.ServiceContainer, webhookLimiter *limiter.Limiter) {
	h := newWebhookHandler(services.Reconciliation)

	webhooks := r.Group("/webhooks")
	if webhookLimiter != nil {
		webhooks.Use(middleware.RateLimit(webhookLimiter))
	}
	webhooks.POST("/pix", h.handlePixWebhook)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerCustomerRoutes(v1, services.Credit)
	registerObligationRoutes(v1, services.Obligation)
	registerBankAccountRoutes(v1, services.Ledger)
	registerAuditRoutes(v1, services.Audit)
}

func registerCustomerRoutes(rg *gin.RouterGroup, creditService portssvc.CreditSvcFacade) {
	h := newCreditHandler(creditService)

	customers := rg.Group("/customers")
	customers.POST("", h.createCustomer)
	customers.GET("/:customerID", h.getCustomer)
	customers.GET("/:customerID/credit", h.getAvailableCredit)
	customers.POST("/:customerID/credit/check", h.checkCredit)
	customers.POST("/:customerID/credit/recalculate", h.recalculateCredit)
}

func registerObligationRoutes(rg *gin.RouterGroup, obligationService portssvc.ObligationSvcFacade) {
	h := newObligationHandler(obligationService)

	receivables := rg.Group("/receivables")
	receivables.POST("", h.createReceivable)
	receivables.GET("/:receivableID", h.getReceivable)
	receivables.POST("/:receivableID/pay", h.markReceivablePaid)
	receivables.POST("/:receivableID/cancel", h.cancelReceivable)

	boletos := rg.Group("/boletos")
	boletos.POST("", h.issueBoleto)
	boletos.GET("/:boletoID", h.getBoleto)
	boletos.POST("/:boletoID/pay", h.markBoletoPaid)

	rg.POST("/obligations/overdue-sweep", h.overdueSweep)
}

func registerBankAccountRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newBankAccountHandler(ledgerService)

	accounts := rg.Group("/bank-accounts")
	accounts.POST("", h.createBankAccount)
	accounts.POST("/transfer", h.transfer)
	accounts.GET("/:accountID", h.getBankAccount)
	accounts.GET("/:accountID/transactions", h.listTransactions)
	accounts.POST("/:accountID/transactions", h.postTransaction)
	accounts.POST("/:accountID/recompute", h.recomputeBalance)
}

func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audit := rg.Group("/audit")
	audit.POST("/credit", h.auditCredit)
	audit.POST("/bank-accounts", h.auditBankAccounts)
}
