package accounting_test

import (
	"testing"

	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/doceria/erp_backend/internal/utils/accounting"
	"github.com/doceria/erp_backend/internal/utils/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutstandingDebt_NoDoubleCounting(t *testing.T) {
	// One boleto of 100 covering a receivable of 100: the debt is 100, not 200.
	boletos := []domain.Boleto{
		{BoletoID: "b1", Amount: money.FromCents(10000), Status: domain.ObligationPending},
	}
	receivables := []domain.Receivable{
		{ReceivableID: "r1", BoletoID: "b1", Amount: money.FromCents(10000), Status: domain.ObligationPending},
	}

	debt := accounting.OutstandingDebt(boletos, receivables)
	assert.Equal(t, "100.00", debt.String())
}

func TestOutstandingDebt_IndependentReceivableCounts(t *testing.T) {
	boletos := []domain.Boleto{
		{BoletoID: "b1", Amount: money.FromCents(30000), Status: domain.ObligationOverdue},
	}
	receivables := []domain.Receivable{
		{ReceivableID: "r1", Amount: money.FromCents(20000), Status: domain.ObligationPending},
	}

	debt := accounting.OutstandingDebt(boletos, receivables)
	assert.Equal(t, "500.00", debt.String())
}

func TestOutstandingDebt_TerminalStatusesExcluded(t *testing.T) {
	boletos := []domain.Boleto{
		{BoletoID: "b1", Amount: money.FromCents(10000), Status: domain.ObligationPaid},
		{BoletoID: "b2", Amount: money.FromCents(5000), Status: domain.ObligationCancelled},
	}
	receivables := []domain.Receivable{
		{ReceivableID: "r1", Amount: money.FromCents(7500), Status: domain.ObligationPaid},
		{ReceivableID: "r2", Amount: money.FromCents(2500), Status: domain.ObligationCancelled},
	}

	assert.True(t, accounting.OutstandingDebt(boletos, receivables).IsZero())
}

func TestOutstandingDebt_LinkedReceivableRecountedAfterUnlink(t *testing.T) {
	// The "already counted" decision is never cached: once the receivable is
	// unlinked from a cancelled boleto, it counts on its own again.
	boleto := domain.Boleto{BoletoID: "b1", Amount: money.FromCents(10000), Status: domain.ObligationCancelled}
	linked := domain.Receivable{ReceivableID: "r1", BoletoID: "b1", Amount: money.FromCents(10000), Status: domain.ObligationPending}

	// Still linked to the (cancelled) boleto: the receivable stays excluded.
	debt := accounting.OutstandingDebt([]domain.Boleto{boleto}, []domain.Receivable{linked})
	assert.True(t, debt.IsZero())

	// Unlinked: re-derived aggregation picks it up.
	unlinked := linked
	unlinked.BoletoID = ""
	debt = accounting.OutstandingDebt([]domain.Boleto{boleto}, []domain.Receivable{unlinked})
	assert.Equal(t, "100.00", debt.String())
}

func TestAvailableCredit_Clamping(t *testing.T) {
	limit := money.FromCents(100000) // 1000.00

	// Normal case.
	assert.Equal(t, "500.00", accounting.AvailableCredit(limit, money.FromCents(50000)).String())

	// Over-limit debt clamps to zero, never negative.
	assert.True(t, accounting.AvailableCredit(limit, money.FromCents(150000)).IsZero())

	// Negative debt (data error) clamps to the limit, never beyond.
	assert.Equal(t, limit, accounting.AvailableCredit(limit, money.FromCents(-5000)))

	// Zero debt gives the full limit.
	assert.Equal(t, limit, accounting.AvailableCredit(limit, money.Zero()))
}

func TestReplayLedger_SequentialPostings(t *testing.T) {
	// Income of 60 then an expense of 40: snapshots 60.00 then 20.00, and a
	// consistent history replays with nothing to correct.
	history := []domain.BankTransaction{
		{TransactionID: "t1", Amount: money.FromCents(6000), BalanceAfter: money.FromCents(6000)},
		{TransactionID: "t2", Amount: money.FromCents(-4000), BalanceAfter: money.FromCents(2000)},
	}

	final, corrections := accounting.ReplayLedger(history)

	assert.Equal(t, "20.00", final.String())
	assert.Empty(t, corrections)
}

func TestReplayLedger_CorrectsOnlyDriftedSnapshots(t *testing.T) {
	history := []domain.BankTransaction{
		{TransactionID: "t1", Amount: money.FromCents(6000), BalanceAfter: money.FromCents(6000)},
		{TransactionID: "t2", Amount: money.FromCents(-4000), BalanceAfter: money.FromCents(1000)}, // stale
		{TransactionID: "t3", Amount: money.FromCents(500), BalanceAfter: money.FromCents(2500)},
	}

	final, corrections := accounting.ReplayLedger(history)

	assert.Equal(t, "25.00", final.String())
	require.Len(t, corrections, 1)
	assert.Equal(t, "t2", corrections[0].TransactionID)
	assert.Equal(t, "20.00", corrections[0].BalanceAfter.String())
}

// Applying the corrections and replaying again finds nothing: a second
// consecutive recomputation reports zero corrected rows.
func TestReplayLedger_RerunAfterCorrectionIsClean(t *testing.T) {
	history := []domain.BankTransaction{
		{TransactionID: "t1", Amount: money.FromCents(10000), BalanceAfter: money.FromCents(9000)},
		{TransactionID: "t2", Amount: money.FromCents(-2500), BalanceAfter: money.FromCents(1)},
	}

	final, corrections := accounting.ReplayLedger(history)
	require.Len(t, corrections, 2)

	fixed := make(map[string]money.Money, len(corrections))
	for _, c := range corrections {
		fixed[c.TransactionID] = c.BalanceAfter
	}
	for i := range history {
		if v, ok := fixed[history[i].TransactionID]; ok {
			history[i].BalanceAfter = v
		}
	}

	finalAgain, again := accounting.ReplayLedger(history)

	assert.True(t, final.Equal(finalAgain))
	assert.Empty(t, again)
	assert.Equal(t, "75.00", finalAgain.String())
}

func TestReplayLedger_EmptyHistory(t *testing.T) {
	final, corrections := accounting.ReplayLedger(nil)

	assert.True(t, final.IsZero())
	assert.Empty(t, corrections)
}

func TestCountOutstanding(t *testing.T) {
	boletos := []domain.Boleto{
		{Status: domain.ObligationPending},
		{Status: domain.ObligationPaid},
	}
	receivables := []domain.Receivable{
		{Status: domain.ObligationOverdue},
		{Status: domain.ObligationPending, BoletoID: "b1"},
	}

	bc, rc := accounting.CountOutstanding(boletos, receivables)
	assert.Equal(t, 1, bc)
	assert.Equal(t, 1, rc)
}
