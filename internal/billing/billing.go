// Package billing computes monetary amounts for the point of sale: discounted
// unit prices, bill summaries, and cash change. Every function is a pure,
// deterministic computation over decimal values; callers recompute on each
// cart mutation and must get bit-identical results for identical inputs.
package billing

import (
	"github.com/shopspring/decimal"

	"go-retail-pos/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Discount is a cart-level discount input.
type Discount struct {
	Amount decimal.Decimal    `json:"amount"`
	Type   model.DiscountType `json:"type"`
}

// Summary holds the derived monetary totals for a cart. All fields are
// rounded to 2 decimal places, half up, exactly once.
type Summary struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// round2 rounds half away from zero to 2 places; amounts here are never
// negative, so this is round-half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LinePrice returns the product's effective unit price after its own discount
// rule, clamped at zero. This is the sale price shown to the cashier and
// snapshotted into the cart at add time.
func LinePrice(p *model.Product) decimal.Decimal {
	price := p.Price
	switch p.DiscountType {
	case model.DiscountFixed:
		price = price.Sub(p.Discount)
	case model.DiscountPercentage:
		price = price.Sub(price.Mul(p.Discount).Div(hundred))
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return round2(price)
}

// Summarize computes the bill summary for a set of cart items, a cart-level
// discount, and a tax rate in percent.
//
//	subtotal   = sum of line subtotals
//	discount   = percentage of subtotal or fixed amount, clamped to [0, subtotal]
//	tax        = (subtotal - discount) * rate / 100
//	total      = subtotal - discount + tax
//
// Rounding is applied once per derived field, never on intermediate sums, so
// repeated recomputation of the same cart cannot drift.
func Summarize(items []CartItem, disc Discount, taxRatePercent decimal.Decimal) Summary {
	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].LineSubtotal())
	}
	subtotal = round2(subtotal)

	var discountAmount decimal.Decimal
	if disc.Type == model.DiscountPercentage {
		discountAmount = subtotal.Mul(disc.Amount).Div(hundred)
	} else {
		discountAmount = disc.Amount
	}
	if discountAmount.IsNegative() {
		discountAmount = decimal.Zero
	}
	if discountAmount.GreaterThan(subtotal) {
		discountAmount = subtotal
	}
	discountAmount = round2(discountAmount)

	taxable := subtotal.Sub(discountAmount)
	taxAmount := round2(taxable.Mul(taxRatePercent).Div(hundred))
	total := round2(taxable.Add(taxAmount))

	return Summary{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		Total:          total,
	}
}

// Change returns the cash change due. Fails when the tendered amount does not
// cover the total; the caller re-prompts, nothing is retried here.
func Change(total, cashReceived decimal.Decimal) (decimal.Decimal, error) {
	if cashReceived.LessThan(total) {
		return decimal.Zero, model.ErrInsufficientPayment
	}
	return cashReceived.Sub(total), nil
}
