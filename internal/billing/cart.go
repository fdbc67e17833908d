package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-retail-pos/internal/model"
)

// CartItem is one ephemeral line of an in-progress sale. UnitPrice is the
// sale price snapshotted when the product was added, so catalog edits do not
// retroactively change an open cart. stockSnapshot caps the quantity.
type CartItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`

	stockSnapshot int
}

// LineSubtotal is unit price times quantity, unrounded; rounding happens once
// in Summarize.
func (i *CartItem) LineSubtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds the line items of one active sale. It lives in memory only and
// is discarded on checkout or cancellation.
type Cart struct {
	items    []CartItem
	discount Discount
	taxRate  decimal.Decimal
}

// NewCart returns an empty cart with the given cart-level discount and tax
// rate in percent.
func NewCart(discount Discount, taxRatePercent decimal.Decimal) *Cart {
	return &Cart{discount: discount, taxRate: taxRatePercent}
}

// Add puts qty units of the product in the cart, merging with an existing
// line for the same product. The combined quantity may not exceed the
// product's cached stock; the cart never silently clamps.
func (c *Cart) Add(p *model.Product, qty int) error {
	if qty <= 0 {
		return model.ErrStockLimitExceeded
	}
	for idx := range c.items {
		if c.items[idx].ProductID == p.ID {
			if c.items[idx].Quantity+qty > c.items[idx].stockSnapshot {
				return model.ErrStockLimitExceeded
			}
			c.items[idx].Quantity += qty
			return nil
		}
	}
	if qty > p.Stock {
		return model.ErrStockLimitExceeded
	}
	c.items = append(c.items, CartItem{
		ProductID:     p.ID,
		ProductSKU:    p.SKU,
		ProductName:   p.Name,
		UnitPrice:     LinePrice(p),
		Quantity:      qty,
		stockSnapshot: p.Stock,
	})
	return nil
}

// SetQuantity replaces a line's quantity, rejecting amounts above the stock
// snapshot. Setting zero removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	for idx := range c.items {
		if c.items[idx].ProductID != productID {
			continue
		}
		if qty < 0 || qty > c.items[idx].stockSnapshot {
			return model.ErrStockLimitExceeded
		}
		if qty == 0 {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
		} else {
			c.items[idx].Quantity = qty
		}
		return nil
	}
	return model.ErrProductNotFound
}

// Remove drops a line from the cart. Removing an absent product is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	for idx := range c.items {
		if c.items[idx].ProductID == productID {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			return
		}
	}
}

// SetDiscount replaces the cart-level discount.
func (c *Cart) SetDiscount(d Discount) {
	c.discount = d
}

// SetTaxRate replaces the tax rate in percent.
func (c *Cart) SetTaxRate(ratePercent decimal.Decimal) {
	c.taxRate = ratePercent
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Summary recomputes the bill summary from the current cart state.
func (c *Cart) Summary() Summary {
	return Summarize(c.items, c.discount, c.taxRate)
}
