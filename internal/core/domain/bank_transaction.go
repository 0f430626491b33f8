package domain

import (
	"time"

	"github.com/doceria/erp_backend/internal/utils/money"
)

// BankTransactionType classifies a ledger posting.
type BankTransactionType string

const (
	TransactionIncome   BankTransactionType = "INCOME"
	TransactionExpense  BankTransactionType = "EXPENSE"
	TransactionTransfer BankTransactionType = "TRANSFER"
)

// Reference types for the weak reference a transaction carries to whatever
// caused it. Lookup only, never ownership.
const (
	ReferenceReceivable  = "RECEIVABLE"
	ReferenceBoleto      = "BOLETO"
	ReferenceBankAccount = "BANK_ACCOUNT"
)

// BankTransaction is an immutable, append-only ledger row. Amount carries
// the sign of the movement (positive credits the account, negative debits
// it). BalanceAfter snapshots the running balance at insertion time; the
// recomputation pass may rewrite BalanceAfter, never Amount.
type BankTransaction struct {
	TransactionID string              `json:"transactionID"`
	AccountID     string              `json:"accountID"`
	Type          BankTransactionType `json:"type"`
	Amount        money.Money         `json:"amount"` // signed
	BalanceAfter  money.Money         `json:"balanceAfter"`
	Date          time.Time           `json:"date"`
	ReferenceType string              `json:"referenceType,omitempty"`
	ReferenceID   string              `json:"referenceID,omitempty"`
	Description   string              `json:"description"`
	AuditFields
}
