package domain

import "github.com/doceria/erp_backend/internal/utils/money"

// Customer represents a credit-buying customer of the shop.
//
// AvailableCredit is a cached derived value: it must always equal
// clamp(CreditLimit - outstanding debt, 0, CreditLimit) within one cent.
// It is never written directly; every mutation goes through the credit
// recompute path so the cache cannot drift from obligation state.
type Customer struct {
	CustomerID      string      `json:"customerID"`
	Name            string      `json:"name"`
	Phone           string      `json:"phone"`
	CreditLimit     money.Money `json:"creditLimit"`
	AvailableCredit money.Money `json:"availableCredit"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}
