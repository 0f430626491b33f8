package dto

import (
	"time"

	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/doceria/erp_backend/internal/utils/money"
)

// CreateBankAccountRequest defines the payload for registering an account.
type CreateBankAccountRequest struct {
	Name           string `json:"name" binding:"required"`
	AllowOverdraft bool   `json:"allowOverdraft"`
}

// PostTransactionRequest defines the payload for a manual ledger posting.
// Amount is the positive magnitude; the sign comes from Type.
type PostTransactionRequest struct {
	Type          domain.BankTransactionType `json:"type" binding:"required"`
	Amount        money.Money                `json:"amount" binding:"required"`
	Date          *time.Time                 `json:"date"` // defaults to now
	ReferenceType string                     `json:"referenceType"`
	ReferenceID   string                     `json:"referenceID"`
	Description   string                     `json:"description"`
}

// TransferRequest defines the payload for an inter-account transfer.
type TransferRequest struct {
	FromAccountID string      `json:"fromAccountID" binding:"required"`
	ToAccountID   string      `json:"toAccountID" binding:"required"`
	Amount        money.Money `json:"amount" binding:"required"`
	Description   string      `json:"description"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	AccountID      string      `json:"accountID"`
	Name           string      `json:"name"`
	Balance        money.Money `json:"balance"`
	AllowOverdraft bool        `json:"allowOverdraft"`
	IsActive       bool        `json:"isActive"`
}

// BankTransactionResponse defines the data returned for a ledger row.
type BankTransactionResponse struct {
	TransactionID string                     `json:"transactionID"`
	AccountID     string                     `json:"accountID"`
	Type          domain.BankTransactionType `json:"type"`
	Amount        money.Money                `json:"amount"`
	BalanceAfter  money.Money                `json:"balanceAfter"`
	Date          time.Time                  `json:"date"`
	ReferenceType string                     `json:"referenceType,omitempty"`
	ReferenceID   string                     `json:"referenceID,omitempty"`
	Description   string                     `json:"description"`
}

// TransferResponse defines the data returned for a completed transfer.
type TransferResponse struct {
	FromAccountID string                  `json:"fromAccountID"`
	ToAccountID   string                  `json:"toAccountID"`
	Amount        money.Money             `json:"amount"`
	FromBalance   money.Money             `json:"fromBalance"`
	ToBalance     money.Money             `json:"toBalance"`
	DebitLeg      BankTransactionResponse `json:"debitLeg"`
	CreditLeg     BankTransactionResponse `json:"creditLeg"`
}

// RecomputeResponse defines the data returned for a balance recomputation.
type RecomputeResponse struct {
	AccountID     string      `json:"accountID"`
	OldBalance    money.Money `json:"oldBalance"`
	NewBalance    money.Money `json:"newBalance"`
	CorrectedRows int         `json:"correctedRows"`
}

// ToBankAccountResponse converts a domain.BankAccount to its DTO.
func ToBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		AccountID:      a.AccountID,
		Name:           a.Name,
		Balance:        a.Balance,
		AllowOverdraft: a.AllowOverdraft,
		IsActive:       a.IsActive,
	}
}

// ToBankTransactionResponse converts a domain.BankTransaction to its DTO.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		Type:          t.Type,
		Amount:        t.Amount,
		BalanceAfter:  t.BalanceAfter,
		Date:          t.Date,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		Description:   t.Description,
	}
}

// ToBankTransactionResponses converts a slice of transactions to DTOs.
func ToBankTransactionResponses(txns []domain.BankTransaction) []BankTransactionResponse {
	responses := make([]BankTransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToBankTransactionResponse(&txn)
	}
	return responses
}

// ToTransferResponse converts a domain.TransferResult to its DTO.
func ToTransferResponse(r *domain.TransferResult) TransferResponse {
	return TransferResponse{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		FromBalance:   r.FromBalance,
		ToBalance:     r.ToBalance,
		DebitLeg:      ToBankTransactionResponse(&r.DebitLeg),
		CreditLeg:     ToBankTransactionResponse(&r.CreditLeg),
	}
}

// ToRecomputeResponse converts a domain.RecomputeResult to its DTO.
func ToRecomputeResponse(r *domain.RecomputeResult) RecomputeResponse {
	return RecomputeResponse{
		AccountID:     r.AccountID,
		OldBalance:    r.OldBalance,
		NewBalance:    r.NewBalance,
		CorrectedRows: r.CorrectedRows,
	}
}
