package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

// RegisterSession tracks one cashier's drawer between opening and closing the
// register. ExpectedCash is the opening float plus cash sales recorded while
// the session was open; Difference is counted minus expected at close time.
type RegisterSession struct {
	BaseModel
	CashierID uuid.UUID `gorm:"type:uuid;not null;index" json:"cashier_id" validate:"uuid_required"`
	Cashier   *User     `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`

	OpenedAt time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	OpeningFloat decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"opening_float"`
	ExpectedCash decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"expected_cash"`
	CountedCash  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"counted_cash"`
	Difference   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"difference"`

	Status SessionStatus `gorm:"type:varchar(10);not null;default:'open'" json:"status"`

	Note string `gorm:"type:text" json:"note,omitempty"`
}

// TableName overrides GORM's pluralization.
func (RegisterSession) TableName() string {
	return "register_sessions"
}
