package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows ListProducts results.
type ProductFilter struct {
	Search       string // matches name or SKU
	LowStockOnly bool   // stock <= min_stock_level
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	// FindByIDForUpdate locks the product row for the rest of the enclosing
	// transaction. Balance validation and the paired movement/stock writes
	// must happen under this lock.
	FindByIDForUpdate(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	// UpdateStock writes the cached ledger balance. Only the stock ledger may
	// call this, and only inside the same transaction as a movement write.
	UpdateStock(id uuid.UUID, newStock int, updatedBy string) error
	Delete(id uuid.UUID) error

	Count() (int64, error)
	LowStockCount() (int64, error)
	Valuation() (decimal.Decimal, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	q := r.db.Model(&model.Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	if filter.LowStockOnly {
		q = q.Where("stock <= min_stock_level")
	}
	var products []model.Product
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByIDForUpdate(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) UpdateStock(id uuid.UUID, newStock int, updatedBy string) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": updatedBy,
		}).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepo) LowStockCount() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("stock <= min_stock_level").Count(&count).Error
	return count, err
}

func (r *productRepo) Valuation() (decimal.Decimal, error) {
	var valuation decimal.NullDecimal
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock * price), 0)").
		Scan(&valuation).Error
	if err != nil || !valuation.Valid {
		return decimal.Zero, err
	}
	return valuation.Decimal, nil
}
