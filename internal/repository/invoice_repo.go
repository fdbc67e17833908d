package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SalesSummary aggregates finalized sales over a period. Void invoices are
// excluded.
type SalesSummary struct {
	InvoiceCount int64           `json:"invoice_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	CashSales    decimal.Decimal `json:"cash_sales"`
}

type InvoiceRepository interface {
	Create(invoice *model.Invoice) error
	FindAll() ([]model.Invoice, error)
	FindByID(id uuid.UUID) (*model.Invoice, error)
	FindByIDForUpdate(id uuid.UUID) (*model.Invoice, error)
	Update(invoice *model.Invoice) error
	SalesSummary(startDate, endDate time.Time) (*SalesSummary, error)
	// CashTotalForSession sums cash invoice totals linked to a register
	// session, for drawer reconciliation at close.
	CashTotalForSession(sessionID uuid.UUID) (decimal.Decimal, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

func (r *invoiceRepo) Create(invoice *model.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *invoiceRepo) FindAll() ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.Preload("Items").Preload("Cashier").Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindByID(id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.Preload("Items").Preload("Cashier").First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) FindByIDForUpdate(id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) Update(invoice *model.Invoice) error {
	return r.db.Save(invoice).Error
}

func (r *invoiceRepo) SalesSummary(startDate, endDate time.Time) (*SalesSummary, error) {
	summary := &SalesSummary{TotalSales: decimal.Zero, CashSales: decimal.Zero}

	base := r.db.Model(&model.Invoice{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.InvoicePaid, startDate, endDate)

	if err := base.Session(&gorm.Session{}).Count(&summary.InvoiceCount).Error; err != nil {
		return nil, err
	}

	var total decimal.NullDecimal
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error; err != nil {
		return nil, err
	}
	if total.Valid {
		summary.TotalSales = total.Decimal
	}

	var cash decimal.NullDecimal
	if err := base.Session(&gorm.Session{}).
		Where("payment_method = ?", model.PaymentCash).
		Select("COALESCE(SUM(total), 0)").
		Scan(&cash).Error; err != nil {
		return nil, err
	}
	if cash.Valid {
		summary.CashSales = cash.Decimal
	}

	return summary, nil
}

func (r *invoiceRepo) CashTotalForSession(sessionID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&model.Invoice{}).
		Where("register_session_id = ? AND payment_method = ? AND status = ?",
			sessionID, model.PaymentCash, model.InvoicePaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
