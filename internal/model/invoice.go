package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "paid"
	InvoicePending InvoiceStatus = "pending"
	InvoiceVoid    InvoiceStatus = "void"
)

// Invoice is a finalized sale: the frozen cart plus the bill summary that was
// charged. Created in the same transaction as its stock-out movements. The
// only status transition after creation is paid -> void.
type Invoice struct {
	BaseModel
	Number     string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	CustomerID *uuid.UUID `gorm:"type:uuid" json:"customer_id,omitempty"`

	Items []InvoiceItem `json:"items"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount"`
	DiscountType   DiscountType    `gorm:"type:varchar(20);default:'percentage'" json:"discount_type"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount_amount"`
	TaxRatePercent decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax_rate_percent"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	CashReceived  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cash_received"`
	ChangeDue     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"change_due"`

	Status InvoiceStatus `gorm:"type:varchar(10);not null" json:"status"`

	// Explicit cashier attribution, threaded from the authenticated request.
	CashierID uuid.UUID `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Cashier   *User     `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`

	RegisterSessionID *uuid.UUID `gorm:"type:uuid;index" json:"register_session_id,omitempty"`

	VoidedAt       *time.Time `json:"voided_at,omitempty"`
	VoidedByUserID *string    `gorm:"type:varchar(255)" json:"voided_by_user_id,omitempty"`
}

// InvoiceItem is a frozen copy of one cart line. Name, SKU, and unit price are
// snapshots from checkout time so later catalog edits do not alter receipts.
type InvoiceItem struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Product     *Product        `json:"product,omitempty"`
	ProductSKU  string          `gorm:"type:varchar(50)" json:"product_sku"`
	ProductName string          `gorm:"type:varchar(255)" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}
