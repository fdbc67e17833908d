package model

import "github.com/shopspring/decimal"

// DiscountType selects how Product.Discount (or a cart-level discount) is
// interpreted by the billing engine.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Product is a catalog record. Stock is the cached ledger balance: it must
// always equal the signed sum of this product's stock movements and is only
// ever written in the same transaction as a movement row.
type Product struct {
	BaseModel
	SKU           string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit          string          `gorm:"type:varchar(20)" json:"unit"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount"`
	DiscountType  DiscountType    `gorm:"type:varchar(20);default:'percentage'" json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	Stock         int             `gorm:"not null;default:0" json:"stock"`
	MinStockLevel int             `gorm:"not null;default:0" json:"min_stock_level"`

	// Derived by the billing engine (regular price after product discount,
	// clamped at zero). Never persisted.
	SalePrice decimal.Decimal `gorm:"-" json:"sale_price"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	Movements []StockMovement `json:"movements,omitempty"`
}

// LowStock reports whether the cached balance has reached the reorder
// threshold.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStockLevel
}
