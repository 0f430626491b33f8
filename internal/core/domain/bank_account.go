package domain

import "github.com/doceria/erp_backend/internal/utils/money"

// BankAccount holds a cached balance over an append-only transaction log.
//
// Balance must equal the sum of all the account's transactions' signed
// amounts in chronological order. It is only ever mutated by posting a
// transaction or by the explicit balance recomputation pass.
//
// AllowOverdraft is a per-account policy: when false, a debit posting that
// would take the balance below zero fails with ErrInsufficientFunds.
type BankAccount struct {
	AccountID      string      `json:"accountID"`
	Name           string      `json:"name"`
	Balance        money.Money `json:"balance"`
	AllowOverdraft bool        `json:"allowOverdraft"`
	IsActive       bool        `json:"isActive"`
	AuditFields
}
