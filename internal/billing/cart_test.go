package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-retail-pos/internal/model"
)

func newTestCart() *Cart {
	return NewCart(Discount{Amount: decimal.Zero, Type: model.DiscountPercentage}, decimal.Zero)
}

func TestCartAddMergesSameProduct(t *testing.T) {
	p := product("10", "0", model.DiscountPercentage, 10)
	p.ID = uuid.New()

	cart := newTestCart()
	require.NoError(t, cart.Add(p, 3))
	require.NoError(t, cart.Add(p, 4))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestCartAddRejectsOverStock(t *testing.T) {
	p := product("10", "0", model.DiscountPercentage, 5)
	p.ID = uuid.New()

	cart := newTestCart()
	assert.ErrorIs(t, cart.Add(p, 6), model.ErrStockLimitExceeded)
	assert.True(t, cart.Empty())
}

func TestCartAddMergeRejectsOverStock(t *testing.T) {
	p := product("10", "0", model.DiscountPercentage, 5)
	p.ID = uuid.New()

	cart := newTestCart()
	require.NoError(t, cart.Add(p, 3))
	assert.ErrorIs(t, cart.Add(p, 3), model.ErrStockLimitExceeded)

	// The failed merge must not change the existing line.
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCartAddRejectsNonPositiveQuantity(t *testing.T) {
	p := product("10", "0", model.DiscountPercentage, 5)
	p.ID = uuid.New()

	cart := newTestCart()
	assert.ErrorIs(t, cart.Add(p, 0), model.ErrStockLimitExceeded)
	assert.ErrorIs(t, cart.Add(p, -1), model.ErrStockLimitExceeded)
}

func TestCartUnitPriceSnapshot(t *testing.T) {
	p := product("100", "10", model.DiscountPercentage, 10)
	p.ID = uuid.New()

	cart := newTestCart()
	require.NoError(t, cart.Add(p, 1))

	// A later catalog edit must not change the open cart.
	p.Price = dec("200")

	items := cart.Items()
	assert.True(t, items[0].UnitPrice.Equal(dec("90")))
}

func TestCartSetQuantity(t *testing.T) {
	p := product("10", "0", model.DiscountPercentage, 5)
	p.ID = uuid.New()

	cart := newTestCart()
	require.NoError(t, cart.Add(p, 2))
	require.NoError(t, cart.SetQuantity(p.ID, 5))
	assert.Equal(t, 5, cart.Items()[0].Quantity)

	assert.ErrorIs(t, cart.SetQuantity(p.ID, 6), model.ErrStockLimitExceeded)
	assert.ErrorIs(t, cart.SetQuantity(uuid.New(), 1), model.ErrProductNotFound)
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	p := product("10", "0", model.DiscountPercentage, 5)
	p.ID = uuid.New()

	cart := newTestCart()
	require.NoError(t, cart.Add(p, 2))
	require.NoError(t, cart.SetQuantity(p.ID, 0))
	assert.True(t, cart.Empty())
}

func TestCartRemove(t *testing.T) {
	a := product("10", "0", model.DiscountPercentage, 5)
	a.ID = uuid.New()
	b := product("20", "0", model.DiscountPercentage, 5)
	b.ID = uuid.New()
	b.SKU = "SKU-2"

	cart := newTestCart()
	require.NoError(t, cart.Add(a, 1))
	require.NoError(t, cart.Add(b, 1))

	cart.Remove(a.ID)
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ProductID)

	// Removing an absent product is a no-op.
	cart.Remove(uuid.New())
	assert.Len(t, cart.Items(), 1)
}

func TestCartSummaryRecomputesAfterMutation(t *testing.T) {
	p := product("50", "0", model.DiscountPercentage, 10)
	p.ID = uuid.New()

	cart := newTestCart()
	require.NoError(t, cart.Add(p, 2))
	assert.True(t, cart.Summary().Total.Equal(dec("100")))

	require.NoError(t, cart.SetQuantity(p.ID, 3))
	cart.SetTaxRate(dec("10"))
	assert.True(t, cart.Summary().Total.Equal(dec("165")))

	cart.SetDiscount(Discount{Amount: dec("50"), Type: model.DiscountFixed})
	// subtotal 150, discount 50, taxable 100, tax 10
	assert.True(t, cart.Summary().Total.Equal(dec("110")))
}
