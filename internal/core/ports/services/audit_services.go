package services

import (
	"context"

	"github.com/doceria/erp_backend/internal/core/domain"
)

// AuditSvcFacade is the out-of-band safety net for the two cached derived
// scalars (customer availableCredit, account balance). It never runs
// implicitly; destructive fixes require the explicit autoFix flag.
type AuditSvcFacade interface {
	// AuditCredit compares every active customer's cached available credit
	// against the authoritative recomputation. Dry-run mutates nothing; with
	// autoFix, discrepancies beyond tolerance are repersisted with a
	// before/after audit trail.
	AuditCredit(ctx context.Context, autoFix bool, userID string) (*domain.CreditAuditReport, error)

	// AuditAccounts replays every active account's transaction history
	// against its cached balance; with autoFix, drifted accounts are
	// recomputed via the ledger's recomputation pass.
	AuditAccounts(ctx context.Context, autoFix bool, userID string) (*domain.AccountAuditReport, error)
}
