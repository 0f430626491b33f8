package domain_test

import (
	"testing"

	"github.com/doceria/erp_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

// The payment status strings are shared with the orders table's CHECK
// constraint; a value drifting from the schema would turn every order
// update into a silent no-op or a constraint violation.
func TestOrderPaymentStatusValues(t *testing.T) {
	assert.Equal(t, "UNPAID", string(domain.OrderPaymentUnpaid))
	assert.Equal(t, "PARTIAL", string(domain.OrderPaymentPartial))
	assert.Equal(t, "PAID", string(domain.OrderPaymentPaid))
}

func TestOrderPaymentStatusIsPaid(t *testing.T) {
	assert.True(t, domain.OrderPaymentPaid.IsPaid())
	assert.False(t, domain.OrderPaymentUnpaid.IsPaid())
	assert.False(t, domain.OrderPaymentPartial.IsPaid())
}
