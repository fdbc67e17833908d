package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-retail-pos/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func product(price, discount string, discountType model.DiscountType, stock int) *model.Product {
	return &model.Product{
		SKU:          "SKU-1",
		Name:         "Test Product",
		Price:        dec(price),
		Discount:     dec(discount),
		DiscountType: discountType,
		Stock:        stock,
	}
}

func TestLinePricePercentageDiscount(t *testing.T) {
	p := product("100", "10", model.DiscountPercentage, 50)
	assert.True(t, LinePrice(p).Equal(dec("90")), "got %s", LinePrice(p))
}

func TestLinePriceFixedDiscount(t *testing.T) {
	p := product("100", "15", model.DiscountFixed, 50)
	assert.True(t, LinePrice(p).Equal(dec("85")))
}

func TestLinePriceClampedAtZero(t *testing.T) {
	p := product("10", "25", model.DiscountFixed, 50)
	assert.True(t, LinePrice(p).Equal(decimal.Zero))
}

func TestLinePriceNoDiscount(t *testing.T) {
	p := product("49.99", "0", model.DiscountPercentage, 50)
	assert.True(t, LinePrice(p).Equal(dec("49.99")))
}

// Two units of a 100-unit product with a 10% product discount and 15% tax:
// sale price 90, subtotal 180, tax 27, total 207. Paying 250 returns 43.
func TestSummarizeReceiptTotals(t *testing.T) {
	p := product("100", "10", model.DiscountPercentage, 50)

	cart := NewCart(Discount{Amount: decimal.Zero, Type: model.DiscountPercentage}, dec("15"))
	require.NoError(t, cart.Add(p, 2))

	summary := cart.Summary()
	assert.True(t, summary.Subtotal.Equal(dec("180")), "subtotal %s", summary.Subtotal)
	assert.True(t, summary.DiscountAmount.Equal(decimal.Zero))
	assert.True(t, summary.TaxAmount.Equal(dec("27")), "tax %s", summary.TaxAmount)
	assert.True(t, summary.Total.Equal(dec("207")), "total %s", summary.Total)

	change, err := Change(summary.Total, dec("250"))
	require.NoError(t, err)
	assert.True(t, change.Equal(dec("43")), "change %s", change)
}

func TestSummarizeCartPercentageDiscount(t *testing.T) {
	p := product("100", "0", model.DiscountPercentage, 50)
	items := []CartItem{{ProductID: p.ID, UnitPrice: LinePrice(p), Quantity: 3}}

	summary := Summarize(items, Discount{Amount: dec("10"), Type: model.DiscountPercentage}, dec("10"))
	assert.True(t, summary.Subtotal.Equal(dec("300")))
	assert.True(t, summary.DiscountAmount.Equal(dec("30")))
	// taxable 270, tax 27, total 297
	assert.True(t, summary.TaxAmount.Equal(dec("27")))
	assert.True(t, summary.Total.Equal(dec("297")))
}

func TestSummarizeDiscountClampedToSubtotal(t *testing.T) {
	p := product("20", "0", model.DiscountPercentage, 50)
	items := []CartItem{{UnitPrice: LinePrice(p), Quantity: 1}}

	summary := Summarize(items, Discount{Amount: dec("500"), Type: model.DiscountFixed}, decimal.Zero)
	assert.True(t, summary.DiscountAmount.Equal(dec("20")))
	assert.True(t, summary.Total.Equal(decimal.Zero))
}

func TestSummarizeNegativeDiscountIgnored(t *testing.T) {
	p := product("20", "0", model.DiscountPercentage, 50)
	items := []CartItem{{UnitPrice: LinePrice(p), Quantity: 1}}

	summary := Summarize(items, Discount{Amount: dec("-5"), Type: model.DiscountFixed}, decimal.Zero)
	assert.True(t, summary.DiscountAmount.Equal(decimal.Zero))
	assert.True(t, summary.Total.Equal(dec("20")))
}

func TestSummarizeRoundsOncePerField(t *testing.T) {
	// 3 units at 33.335 would accumulate drift if each line were rounded
	// before summing.
	items := []CartItem{{UnitPrice: dec("33.335"), Quantity: 3}}

	summary := Summarize(items, Discount{Type: model.DiscountPercentage}, decimal.Zero)
	// 100.005 rounds half-up to 100.01
	assert.True(t, summary.Subtotal.Equal(dec("100.01")), "subtotal %s", summary.Subtotal)
	assert.True(t, summary.Total.Equal(dec("100.01")))
}

func TestSummarizeDeterministic(t *testing.T) {
	p := product("19.99", "7.5", model.DiscountPercentage, 50)
	items := []CartItem{{UnitPrice: LinePrice(p), Quantity: 7}}
	disc := Discount{Amount: dec("3.33"), Type: model.DiscountFixed}
	rate := dec("11")

	first := Summarize(items, disc, rate)
	for i := 0; i < 100; i++ {
		again := Summarize(items, disc, rate)
		require.True(t, first.Subtotal.Equal(again.Subtotal))
		require.True(t, first.DiscountAmount.Equal(again.DiscountAmount))
		require.True(t, first.TaxAmount.Equal(again.TaxAmount))
		require.True(t, first.Total.Equal(again.Total))
	}
}

func TestChangeInsufficientCash(t *testing.T) {
	_, err := Change(dec("207"), dec("200"))
	assert.ErrorIs(t, err, model.ErrInsufficientPayment)
}

func TestChangeExactCash(t *testing.T) {
	change, err := Change(dec("207"), dec("207"))
	require.NoError(t, err)
	assert.True(t, change.Equal(decimal.Zero))
}
