package services

import (
	"github.com/bsm/redislock"

	portsrepo "github.com/doceria/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
)

// NewContainer wires all services with their repository dependencies.
// locker may be nil when Redis is not configured.
func NewContainer(repos *portsrepo.RepositoryProvider, notifier portssvc.PaymentNotifier, locker *redislock.Client) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Credit:         NewCreditService(repos.CustomerRepo, repos.ObligationRepo),
		Ledger:         NewLedgerService(repos.LedgerRepo),
		Obligation:     NewObligationService(repos.ObligationRepo, repos.CustomerRepo),
		Reconciliation: NewReconciliationService(repos.ObligationRepo, notifier, locker),
		Audit:          NewAuditService(repos.CustomerRepo, repos.ObligationRepo, repos.LedgerRepo),
	}
}
