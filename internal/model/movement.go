package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType discriminates stock movements. Quantity always holds the
// magnitude; the signed effect on the balance comes from the type (and, for
// adjustments, the direction).
type MovementType string

const (
	MovementIn     MovementType = "in"
	MovementOut    MovementType = "out"
	MovementAdjust MovementType = "adjust"
)

// StockMovement is one append-only ledger entry for a product. Rows are never
// edited; corrections are compensating movements (see ReversesID) and an
// administrative delete must reverse the cached balance in the same
// transaction.
type StockMovement struct {
	BaseModel
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product     `json:"product,omitempty" validate:"-"`
	Type      MovementType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=in out adjust"`
	// Direction is only meaningful for adjustments: +1 adds to the balance,
	// -1 subtracts. Ignored for in/out.
	Direction int `gorm:"not null;default:1" json:"direction"`
	Quantity  int `gorm:"not null" json:"quantity" validate:"required,gt=0"`

	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_cost"`
	TotalCost decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_cost"`
	Reference string          `gorm:"type:varchar(100)" json:"reference"`
	Reason    string          `gorm:"type:varchar(100)" json:"reason"`
	Note      string          `gorm:"type:text" json:"note"`

	// ReversesID links a compensating movement to the entry it cancels.
	ReversesID *uuid.UUID `gorm:"type:uuid" json:"reverses_id,omitempty"`

	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

// Effect returns the signed change this movement applies to the cached
// balance. Exhaustive over MovementType; an unknown type contributes nothing.
func (m *StockMovement) Effect() int {
	switch m.Type {
	case MovementIn:
		return m.Quantity
	case MovementOut:
		return -m.Quantity
	case MovementAdjust:
		if m.Direction < 0 {
			return -m.Quantity
		}
		return m.Quantity
	}
	return 0
}
