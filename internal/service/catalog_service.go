package service

import (
	"errors"
	"fmt"

	"go-retail-pos/internal/billing"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrSKUExists = errors.New("SKU already exists")

// ProductUpdate carries the catalog fields a client may edit. Stock is
// deliberately absent: the cached balance moves only through the ledger.
type ProductUpdate struct {
	SKU           string             `json:"sku" validate:"required"`
	Name          string             `json:"name" validate:"required"`
	Unit          string             `json:"unit"`
	Price         decimal.Decimal    `json:"price"`
	Discount      decimal.Decimal    `json:"discount"`
	DiscountType  model.DiscountType `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	MinStockLevel int                `json:"min_stock_level"`
}

type CatalogService interface {
	CreateProduct(req *model.Product, initialStock int, actor Actor) error
	UpdateProduct(id uuid.UUID, req *ProductUpdate, actor Actor) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor Actor) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
}

type catalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) CreateProduct(req *model.Product, initialStock int, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validator.FirstError(errs)
	}
	if req.DiscountType == "" {
		req.DiscountType = model.DiscountPercentage
	}

	existing, _ := s.store.Products().FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	actorID := actor.ID.String()
	req.Stock = 0
	req.CreatedBy = actorID
	req.UpdatedBy = actorID
	req.CreatedByUserID = &actorID
	req.UpdatedByUserID = &actorID

	// The catalog row and its opening movement commit together: a failed
	// movement must not leave a stockless orphan behind. The opening stock
	// itself goes through the ledger, never as a direct column write.
	err := s.store.Atomic(func(tx repository.Store) error {
		if err := tx.Products().Create(req); err != nil {
			return fmt.Errorf("creating product: %w", err)
		}
		if initialStock > 0 {
			if _, err := applyMovement(tx, req, model.MovementIn, initialStock, "opening stock", "", actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	req.SalePrice = billing.LinePrice(req)
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *ProductUpdate, actor Actor) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validator.FirstError(errs)
	}

	product, err := s.store.Products().FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}

	if req.SKU != product.SKU {
		existing, _ := s.store.Products().FindBySKU(req.SKU)
		if existing != nil && existing.ID != uuid.Nil {
			return nil, ErrSKUExists
		}
	}

	product.SKU = req.SKU
	product.Name = req.Name
	product.Unit = req.Unit
	product.Price = req.Price
	product.Discount = req.Discount
	if req.DiscountType != "" {
		product.DiscountType = req.DiscountType
	}
	product.MinStockLevel = req.MinStockLevel

	actorID := actor.ID.String()
	product.UpdatedBy = actorID
	product.UpdatedByUserID = &actorID

	if err := s.store.Products().Update(product); err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	product.SalePrice = billing.LinePrice(product)
	return product, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, actor Actor) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	return s.store.Products().Delete(id)
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.store.Products().FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}
	product.SalePrice = billing.LinePrice(product)
	return product, nil
}

func (s *catalogService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.store.Products().FindAll(filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].SalePrice = billing.LinePrice(&products[i])
	}
	return products, nil
}
