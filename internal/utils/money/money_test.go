package money_test

import (
	"encoding/json"
	"testing"

	"github.com/doceria/erp_backend/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		{"0", 0},
		{"0.01", 1},
		{"123.45", 12345},
		{"-10.50", -1050},
		{"99.999", 10000}, // rounds half-up to 100.00
		{"1000", 100000},
	}

	for _, tc := range testCases {
		m, err := money.Parse(tc.input)
		require.NoError(t, err, "input %s", tc.input)
		assert.Equal(t, tc.expected, m.Cents(), "input %s", tc.input)
	}

	_, err := money.Parse("not-a-number")
	assert.Error(t, err)
}

func TestArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 is the canonical float trap; in minor units it is exact.
	a, _ := money.Parse("0.10")
	b, _ := money.Parse("0.20")
	assert.Equal(t, int64(30), a.Add(b).Cents())

	// Summing 0.01 ten thousand times must give exactly 100.00.
	cent := money.FromCents(1)
	total := money.Zero()
	for i := 0; i < 10000; i++ {
		total = total.Add(cent)
	}
	assert.Equal(t, "100.00", total.String())

	assert.Equal(t, int64(-1050), money.FromCents(1050).Neg().Cents())
	assert.Equal(t, int64(500), money.FromCents(1000).Sub(money.FromCents(500)).Cents())
	assert.Equal(t, int64(1050), money.FromCents(-1050).Abs().Cents())
}

func TestMulRate(t *testing.T) {
	m := money.FromCents(10000) // 100.00
	rate := decimal.RequireFromString("0.0333")
	assert.Equal(t, "3.33", m.MulRate(rate).String())

	// Half-up rounding at the cent boundary.
	m = money.FromCents(1001) // 10.01
	half := decimal.RequireFromString("0.5")
	assert.Equal(t, "5.01", m.MulRate(half).String())
}

func TestClamp(t *testing.T) {
	lo := money.Zero()
	hi := money.FromCents(100000)

	assert.Equal(t, int64(0), money.FromCents(-5000).Clamp(lo, hi).Cents())
	assert.Equal(t, int64(100000), money.FromCents(150000).Clamp(lo, hi).Cents())
	assert.Equal(t, int64(50000), money.FromCents(50000).Clamp(lo, hi).Cents())
}

func TestWithinTolerance(t *testing.T) {
	base := money.FromCents(10000)

	assert.True(t, base.WithinTolerance(money.FromCents(10000)))
	assert.True(t, base.WithinTolerance(money.FromCents(10001)))
	assert.True(t, base.WithinTolerance(money.FromCents(9999)))
	assert.False(t, base.WithinTolerance(money.FromCents(10002)))
	assert.False(t, base.WithinTolerance(money.FromCents(9998)))
}

func TestComparisons(t *testing.T) {
	a := money.FromCents(100)
	b := money.FromCents(200)

	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(money.FromCents(100)))
	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.True(t, money.Zero().IsZero())
	assert.True(t, money.FromCents(-1).IsNegative())
	assert.True(t, money.FromCents(1).IsPositive())
}

func TestSum(t *testing.T) {
	amounts := []money.Money{
		money.FromCents(100),
		money.FromCents(250),
		money.FromCents(-50),
	}
	assert.Equal(t, int64(300), money.Sum(amounts).Cents())
	assert.True(t, money.Sum(nil).IsZero())
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Amount money.Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: money.FromCents(12345)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"123.45"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"67.89"}`), &in))
	assert.Equal(t, int64(6789), in.Amount.Cents())

	// Bare numbers are accepted too, for lenient webhook payloads.
	require.NoError(t, json.Unmarshal([]byte(`{"amount":42.5}`), &in))
	assert.Equal(t, int64(4250), in.Amount.Cents())
}
