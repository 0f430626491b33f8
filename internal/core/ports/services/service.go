package services

// ServiceContainer bundles all service facades for handler registration.
type ServiceContainer struct {
	Credit         CreditSvcFacade
	Ledger         LedgerSvcFacade
	Obligation     ObligationSvcFacade
	Reconciliation ReconciliationSvcFacade
	Audit          AuditSvcFacade
}
