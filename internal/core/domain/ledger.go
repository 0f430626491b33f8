package domain

import "github.com/doceria/erp_backend/internal/utils/money"

// TransferResult reports the two legs of a completed inter-account transfer.
type TransferResult struct {
	FromAccountID   string          `json:"fromAccountID"`
	ToAccountID     string          `json:"toAccountID"`
	Amount          money.Money     `json:"amount"`
	FromBalance     money.Money     `json:"fromBalance"`
	ToBalance       money.Money     `json:"toBalance"`
	DebitLeg        BankTransaction `json:"debitLeg"`
	CreditLeg       BankTransaction `json:"creditLeg"`
}

// RecomputeResult reports a full balance recomputation over an account's
// transaction history.
type RecomputeResult struct {
	AccountID     string      `json:"accountID"`
	OldBalance    money.Money `json:"oldBalance"`
	NewBalance    money.Money `json:"newBalance"`
	CorrectedRows int         `json:"correctedRows"`
}
