package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestComputeEmptyCart(t *testing.T) {
	totals, err := Compute(nil, "", DefaultRules())
	require.NoError(t, err)
	require.Zero(t, totals.Subtotal)
	require.Zero(t, totals.Total)
	// An empty cart charges no shipping.
	require.Zero(t, totals.Shipping)
}

func TestComputeShippingThreshold(t *testing.T) {
	rules := DefaultRules()

	below, err := Compute([]Item{{Qty: 1, UnitPrice: 20.00}}, "", rules)
	require.NoError(t, err)
	require.Equal(t, rules.FlatShippingFee, below.Shipping)

	above, err := Compute([]Item{{Qty: 3, UnitPrice: 20.00}}, "", rules)
	require.NoError(t, err)
	require.Zero(t, above.Shipping)

	// The threshold itself is not free: the rule is strictly greater-than.
	at, err := Compute([]Item{{Qty: 1, UnitPrice: 50.00}}, "", rules)
	require.NoError(t, err)
	require.Equal(t, rules.FlatShippingFee, at.Shipping)
}

func TestComputePromoCaseInsensitive(t *testing.T) {
	items := []Item{{Qty: 2, UnitPrice: 24.99, DiscountPrice: ptr(19.99)}}
	for _, code := range []string{"NUTRI20", "nutri20", "Nutri20"} {
		totals, err := Compute(items, code, DefaultRules())
		require.NoError(t, err, "code %q", code)
		require.InDelta(t, totals.Subtotal*0.20, totals.Discount, 1e-9, "code %q", code)
	}
}

func TestComputeInvalidPromo(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: 22.99}}
	totals, err := Compute(items, "BADCODE", DefaultRules())
	require.ErrorIs(t, err, ErrInvalidPromoCode)
	require.Zero(t, totals.Discount)
	// Totals remain usable despite the rejected code.
	require.Greater(t, totals.Total, 0.0)
}

func TestComputeTotalNeverNegative(t *testing.T) {
	rules := DefaultRules()
	rules.PromoRate = 5.0 // a hypothetical rule that exceeds the order value
	totals, err := Compute([]Item{{Qty: 1, UnitPrice: 10.00}}, rules.PromoCode, rules)
	require.NoError(t, err)
	require.Zero(t, totals.Total)
}

func TestComputeReferenceCart(t *testing.T) {
	// cashews 19.99 x2 (discounted) + almonds 22.99 x1
	items := []Item{
		{Qty: 2, UnitPrice: 24.99, DiscountPrice: ptr(19.99)},
		{Qty: 1, UnitPrice: 22.99},
	}
	totals, err := Compute(items, "", DefaultRules())
	require.NoError(t, err)
	require.InDelta(t, 62.97, totals.Subtotal, 1e-9)
	require.Zero(t, totals.Shipping)
	require.InDelta(t, 11.3346, totals.Tax, 1e-9)
	require.InDelta(t, 74.3046, totals.Total, 1e-9)
	require.Equal(t, 74.30, totals.Rounded().Total)
}
