package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockFlowData aggregates daily in/out quantities for charting.
type StockFlowData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type MovementRepository interface {
	Create(movement *model.StockMovement) error
	// FindAll lists movements newest first, optionally scoped to one product.
	FindAll(productID *uuid.UUID) ([]model.StockMovement, error)
	FindByID(id uuid.UUID) (*model.StockMovement, error)
	Delete(id uuid.UUID) error
	// SignedSum recomputes the ledger balance for a product from its full
	// history. Used by reconciliation, never as the fast path.
	SignedSum(productID uuid.UUID) (int, error)
	DailyFlow(startDate, endDate time.Time) ([]StockFlowData, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(movement *model.StockMovement) error {
	return r.db.Create(movement).Error
}

func (r *movementRepo) FindAll(productID *uuid.UUID) ([]model.StockMovement, error) {
	q := r.db.Preload("Product").Preload("CreatedByUser").Order("occurred_at DESC, created_at DESC")
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	var movements []model.StockMovement
	err := q.Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByID(id uuid.UUID) (*model.StockMovement, error) {
	var movement model.StockMovement
	err := r.db.Preload("Product").Preload("CreatedByUser").First(&movement, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *movementRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.StockMovement{}, "id = ?", id).Error
}

func (r *movementRepo) SignedSum(productID uuid.UUID) (int, error) {
	var sum int
	err := r.db.Model(&model.StockMovement{}).
		Select(`COALESCE(SUM(CASE
			WHEN type = 'in' THEN quantity
			WHEN type = 'out' THEN -quantity
			WHEN direction < 0 THEN -quantity
			ELSE quantity
		END), 0)`).
		Where("product_id = ?", productID).
		Scan(&sum).Error
	return sum, err
}

func (r *movementRepo) DailyFlow(startDate, endDate time.Time) ([]StockFlowData, error) {
	var results []StockFlowData

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(occurred_at) as date,
			COALESCE(SUM(CASE WHEN type = 'in' OR (type = 'adjust' AND direction >= 0) THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'out' OR (type = 'adjust' AND direction < 0) THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("occurred_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(occurred_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockFlowData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
