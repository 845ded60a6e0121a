package pricing

import (
	"errors"
	"math"
	"strings"
)

// ErrInvalidPromoCode is returned when the supplied promo code is not
// recognised. The returned totals are still valid with a zero discount.
var ErrInvalidPromoCode = errors.New("invalid promo code")

// Item describes a line item used for totals calculation.
type Item struct {
	Qty           int
	UnitPrice     float64
	DiscountPrice *float64
}

// EffectivePrice returns the discounted unit price when present.
func (it Item) EffectivePrice() float64 {
	if it.DiscountPrice != nil {
		return *it.DiscountPrice
	}
	return it.UnitPrice
}

// Rules carries the configured pricing constants. Amounts are dollars; rates
// are fractions.
type Rules struct {
	TaxRate               float64
	FlatShippingFee       float64
	FreeShippingThreshold float64
	PromoCode             string
	PromoRate             float64
}

// DefaultRules mirrors the storefront defaults: 18% tax, 5.99 flat shipping
// free above 50.00, and a single 20% promo code.
func DefaultRules() Rules {
	return Rules{
		TaxRate:               0.18,
		FlatShippingFee:       5.99,
		FreeShippingThreshold: 50.00,
		PromoCode:             "NUTRI20",
		PromoRate:             0.20,
	}
}

// Totals aggregates computed pricing components. Values are unrounded;
// rendering rounds with Round2.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Compute calculates cart totals. Tax applies to the subtotal before
// discount, and shipping is waived above the free-shipping threshold.
// An unrecognised promo code yields zero discount plus ErrInvalidPromoCode;
// the totals remain usable.
func Compute(items []Item, promoCode string, rules Rules) (Totals, error) {
	var subtotal float64
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += it.EffectivePrice() * float64(it.Qty)
	}

	shipping := rules.FlatShippingFee
	if subtotal > rules.FreeShippingThreshold || subtotal == 0 {
		shipping = 0
	}
	tax := subtotal * rules.TaxRate

	var discount float64
	var promoErr error
	if code := strings.TrimSpace(promoCode); code != "" {
		if strings.EqualFold(code, rules.PromoCode) {
			discount = subtotal * rules.PromoRate
		} else {
			promoErr = ErrInvalidPromoCode
		}
	}

	total := subtotal + shipping + tax - discount
	if total < 0 {
		total = 0
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}, promoErr
}

// Round2 rounds a monetary value to two decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a copy of the totals rounded for display.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: Round2(t.Subtotal),
		Shipping: Round2(t.Shipping),
		Tax:      Round2(t.Tax),
		Discount: Round2(t.Discount),
		Total:    Round2(t.Total),
	}
}
