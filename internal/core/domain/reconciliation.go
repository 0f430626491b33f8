package domain

import (
	"time"

	"github.com/doceria/erp_backend/internal/utils/money"
)

// ProviderStatus is the terminal status reported by the payment provider in
// a confirmation event.
type ProviderStatus string

const (
	ProviderStatusApproved  ProviderStatus = "approved"
	ProviderStatusRejected  ProviderStatus = "rejected"
	ProviderStatusCancelled ProviderStatus = "cancelled"
)

// ReconciliationOutcome summarises what a confirmation event did.
type ReconciliationOutcome string

const (
	// OutcomeSettled means the boleto and its linked records were marked paid.
	OutcomeSettled ReconciliationOutcome = "SETTLED"
	// OutcomeCancelled means the boleto was cancelled per the provider status.
	OutcomeCancelled ReconciliationOutcome = "CANCELLED"
	// OutcomeAlreadyProcessed means the boleto was already terminal; the
	// event is a redelivery and no side effects ran.
	OutcomeAlreadyProcessed ReconciliationOutcome = "ALREADY_PROCESSED"
	// OutcomeUnknownReference means no boleto carries the provider reference.
	// Not an error: the charge may not be tracked by this system.
	OutcomeUnknownReference ReconciliationOutcome = "UNKNOWN_REFERENCE"
	// OutcomeIgnored means the provider status requires no action.
	OutcomeIgnored ReconciliationOutcome = "IGNORED"
)

// ReconciliationResult reports the effect of applying one provider event.
type ReconciliationResult struct {
	Outcome            ReconciliationOutcome `json:"outcome"`
	PixPaymentID       string                `json:"pixPaymentID"`
	BoletoID           string                `json:"boletoID,omitempty"`
	CustomerID         string                `json:"customerID,omitempty"`
	ReceivablesSettled int                   `json:"receivablesSettled,omitempty"`
	OrderMarkedPaid    bool                  `json:"orderMarkedPaid,omitempty"`
	AvailableCredit    money.Money           `json:"availableCredit,omitempty"`
}

// PaymentNotification is handed to the notification collaborator after a
// settlement commits. Delivery (SMS/WhatsApp) is outside this subsystem.
type PaymentNotification struct {
	CustomerID   string
	BoletoID     string
	PixPaymentID string
	Amount       money.Money
	PaidAt       time.Time
}
