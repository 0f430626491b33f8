package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/doceria/erp_backend/internal/core/domain"
	portsrepo "github.com/doceria/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/doceria/erp_backend/internal/core/ports/services"
	"github.com/doceria/erp_backend/internal/utils/accounting"
)

// auditPageSize is the customer batch size for the credit audit pass.
const auditPageSize = 200

// auditService detects and, on explicit request, repairs drift between the
// two cached derived scalars and their authoritative recomputations. It
// replaces the pile of one-off correction scripts the business used to run:
// one parameterized, tested operation instead of throwaway SQL.
type auditService struct {
	BaseService
	customerRepo   portsrepo.CustomerRepositoryFacade
	obligationRepo portsrepo.ObligationReader
	ledgerRepo     portsrepo.LedgerRepositoryFacade
}

// NewAuditService creates a new audit service.
func NewAuditService(customerRepo portsrepo.CustomerRepositoryFacade, obligationRepo portsrepo.ObligationReader, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{
		customerRepo:   customerRepo,
		obligationRepo: obligationRepo,
		ledgerRepo:     ledgerRepo,
	}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// AuditCredit compares every active customer's cached available credit with
// the value re-derived from their obligations. Dry-run mutates nothing.
// With autoFix, each discrepancy beyond tolerance is repersisted through
// the same locked recompute path every normal mutation uses, with a
// before/after audit trail. Re-running after a fix finds zero
// discrepancies.
func (s *auditService) AuditCredit(ctx context.Context, autoFix bool, userID string) (*domain.CreditAuditReport, error) {
	report := &domain.CreditAuditReport{
		RanAt:         time.Now().UTC(),
		Discrepancies: []domain.CreditDiscrepancy{},
	}

	offset := 0
	for {
		customers, err := s.customerRepo.ListActiveCustomers(ctx, auditPageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(customers) == 0 {
			break
		}

		for _, customer := range customers {
			report.CustomersChecked++

			boletos, err := s.obligationRepo.FindOutstandingBoletosByCustomer(ctx, customer.CustomerID)
			if err != nil {
				return nil, err
			}
			receivables, err := s.obligationRepo.FindOutstandingReceivablesByCustomer(ctx, customer.CustomerID)
			if err != nil {
				return nil, err
			}

			debt := accounting.OutstandingDebt(boletos, receivables)
			expected := accounting.AvailableCredit(customer.CreditLimit, debt)
			if expected.WithinTolerance(customer.AvailableCredit) {
				continue
			}

			boletoCount, receivableCount := accounting.CountOutstanding(boletos, receivables)
			discrepancy := domain.CreditDiscrepancy{
				CustomerID:      customer.CustomerID,
				CustomerName:    customer.Name,
				Stored:          customer.AvailableCredit,
				Expected:        expected,
				Difference:      customer.AvailableCredit.Sub(expected),
				BoletoCount:     boletoCount,
				ReceivableCount: receivableCount,
			}

			if autoFix {
				fixed, err := s.customerRepo.RecalculateAvailableCredit(ctx, customer.CustomerID, userID)
				if err != nil {
					s.LogError(ctx, err, "Failed to apply credit fix", slog.String("customer_id", customer.CustomerID))
					return nil, err
				}
				discrepancy.Fixed = true
				report.FixesApplied++
				s.LogWarn(ctx, "Credit drift corrected",
					slog.String("customer_id", customer.CustomerID),
					slog.String("before", customer.AvailableCredit.String()),
					slog.String("after", fixed.AvailableCredit.String()),
					slog.String("difference", discrepancy.Difference.String()))
			} else {
				s.LogWarn(ctx, "Credit drift detected",
					slog.String("customer_id", customer.CustomerID),
					slog.String("stored", customer.AvailableCredit.String()),
					slog.String("expected", expected.String()))
			}

			report.Discrepancies = append(report.Discrepancies, discrepancy)
		}

		offset += len(customers)
	}

	s.LogInfo(ctx, "Credit audit completed",
		slog.Int("customers_checked", report.CustomersChecked),
		slog.Int("discrepancies", len(report.Discrepancies)),
		slog.Int("fixes_applied", report.FixesApplied),
		slog.Bool("auto_fix", autoFix))
	return report, nil
}

// AuditAccounts replays each active account's transaction history in memory
// and compares the result with the cached balance. The dry run reads only;
// with autoFix, drifted accounts go through the ledger's recomputation pass
// which also repairs stale balanceAfter snapshots.
func (s *auditService) AuditAccounts(ctx context.Context, autoFix bool, userID string) (*domain.AccountAuditReport, error) {
	report := &domain.AccountAuditReport{
		RanAt:         time.Now().UTC(),
		Discrepancies: []domain.AccountDiscrepancy{},
	}

	accounts, err := s.ledgerRepo.ListActiveBankAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		report.AccountsChecked++

		transactions, err := s.ledgerRepo.ListTransactionsByAccount(ctx, account.AccountID)
		if err != nil {
			return nil, err
		}

		// The true ledger is the ordered sum of transaction amounts, never
		// the cached scalar. Same fold as the ledger's recomputation, so the
		// stale rows reported here are the rows a fix would rewrite.
		running, corrections := accounting.ReplayLedger(transactions)
		staleRows := len(corrections)

		if running.WithinTolerance(account.Balance) && staleRows == 0 {
			continue
		}

		discrepancy := domain.AccountDiscrepancy{
			AccountID:   account.AccountID,
			AccountName: account.Name,
			Stored:      account.Balance,
			Expected:    running,
			Difference:  account.Balance.Sub(running),
			StaleRows:   staleRows,
		}

		if autoFix {
			result, err := s.ledgerRepo.RecomputeBalance(ctx, account.AccountID, userID)
			if err != nil {
				s.LogError(ctx, err, "Failed to recompute account balance", slog.String("account_id", account.AccountID))
				return nil, err
			}
			discrepancy.Fixed = true
			report.FixesApplied++
			s.LogWarn(ctx, "Account balance drift corrected",
				slog.String("account_id", account.AccountID),
				slog.String("before", result.OldBalance.String()),
				slog.String("after", result.NewBalance.String()),
				slog.Int("corrected_rows", result.CorrectedRows))
		} else {
			s.LogWarn(ctx, "Account balance drift detected",
				slog.String("account_id", account.AccountID),
				slog.String("stored", account.Balance.String()),
				slog.String("expected", running.String()),
				slog.Int("stale_rows", staleRows))
		}

		report.Discrepancies = append(report.Discrepancies, discrepancy)
	}

	s.LogInfo(ctx, "Account audit completed",
		slog.Int("accounts_checked", report.AccountsChecked),
		slog.Int("discrepancies", len(report.Discrepancies)),
		slog.Int("fixes_applied", report.FixesApplied),
		slog.Bool("auto_fix", autoFix))
	return report, nil
}
