package accounting

import (
	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// OutstandingDebt computes a customer's de-duplicated outstanding debt from
// their obligations. It is used by both the credit service (read path) and
// the pgsql repositories (in-transaction recompute) so the two can never
// disagree on the aggregation rule.
//
// A boleto and a receivable linked to it represent the same debt from two
// bookkeeping angles, so a receivable with a boleto back-reference is never
// summed independently. The decision is re-derived from current linkage and
// statuses on every call: if a boleto is cancelled and the receivable
// unlinked, the receivable counts again on the next aggregation.
func OutstandingDebt(boletos []domain.Boleto, receivables []domain.Receivable) money.Money {
	total := money.Zero()
	for _, b := range boletos {
		if b.Status.IsOutstanding() {
			total = total.Add(b.Amount)
		}
	}
	for _, r := range receivables {
		if r.CountsTowardDebt() {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// AvailableCredit derives the credit a customer may still consume:
// clamp(creditLimit - outstandingDebt, 0, creditLimit). Available credit is
// never negative and never exceeds the configured limit.
func AvailableCredit(creditLimit, outstandingDebt money.Money) money.Money {
	return creditLimit.Sub(outstandingDebt).Clamp(money.Zero(), creditLimit)
}

// SnapshotCorrection is one ledger row whose recorded balance_after no
// longer matches the replayed running balance, with the value it should
// carry.
type SnapshotCorrection struct {
	TransactionID string
	BalanceAfter  money.Money
}

// ReplayLedger folds an account's transaction history, already in replay
// order, from a zero balance. It returns the final running balance and a
// correction for every row whose balance_after snapshot drifted. Amounts
// are the source of truth and never appear in a correction; a history whose
// corrections were just applied replays with none, so a second consecutive
// recomputation is a no-op. Used by both the ledger repository's in-tx
// recomputation and the audit service's dry-run replay so the two agree row
// for row.
func ReplayLedger(transactions []domain.BankTransaction) (money.Money, []SnapshotCorrection) {
	running := money.Zero()
	corrections := make([]SnapshotCorrection, 0)
	for _, txn := range transactions {
		running = running.Add(txn.Amount)
		if !txn.BalanceAfter.Equal(running) {
			corrections = append(corrections, SnapshotCorrection{
				TransactionID: txn.TransactionID,
				BalanceAfter:  running,
			})
		}
	}
	return running, corrections
}

// CountOutstanding returns how many boletos and independent receivables
// contributed to the aggregation, for audit reporting.
func CountOutstanding(boletos []domain.Boleto, receivables []domain.Receivable) (boletoCount, receivableCount int) {
	for _, b := range boletos {
		if b.Status.IsOutstanding() {
			boletoCount++
		}
	}
	for _, r := range receivables {
		if r.CountsTowardDebt() {
			receivableCount++
		}
	}
	return boletoCount, receivableCount
}
