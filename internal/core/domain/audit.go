package domain

import (
	"time"

	"github.com/doceria/erp_backend/internal/utils/money"
)

// CreditDiscrepancy is one customer whose cached available credit diverged
// from the authoritative recomputation by more than the tolerance.
type CreditDiscrepancy struct {
	CustomerID      string      `json:"customerID"`
	CustomerName    string      `json:"customerName"`
	Stored          money.Money `json:"stored"`
	Expected        money.Money `json:"expected"`
	Difference      money.Money `json:"difference"` // stored - expected
	BoletoCount     int         `json:"boletoCount"`
	ReceivableCount int         `json:"receivableCount"`
	Fixed           bool        `json:"fixed"`
}

// CreditAuditReport is the output of a credit audit pass.
type CreditAuditReport struct {
	RanAt            time.Time           `json:"ranAt"`
	CustomersChecked int                 `json:"customersChecked"`
	Discrepancies    []CreditDiscrepancy `json:"discrepancies"`
	FixesApplied     int                 `json:"fixesApplied"`
}

// AccountDiscrepancy is one bank account whose cached balance diverged from
// the replayed transaction history. StaleRows counts the balance_after
// snapshots the replay found drifted; they are only rewritten when the pass
// runs with autoFix.
type AccountDiscrepancy struct {
	AccountID   string      `json:"accountID"`
	AccountName string      `json:"accountName"`
	Stored      money.Money `json:"stored"`
	Expected    money.Money `json:"expected"`
	Difference  money.Money `json:"difference"` // stored - expected
	StaleRows   int         `json:"staleRows"`
	Fixed       bool        `json:"fixed"`
}

// AccountAuditReport is the output of a bank account balance audit pass.
type AccountAuditReport struct {
	RanAt           time.Time            `json:"ranAt"`
	AccountsChecked int                  `json:"accountsChecked"`
	Discrepancies   []AccountDiscrepancy `json:"discrepancies"`
	FixesApplied    int                  `json:"fixesApplied"`
}
