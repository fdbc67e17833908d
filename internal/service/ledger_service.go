package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MovementInput is the request shape for recording a ledger entry.
type MovementInput struct {
	ProductID uuid.UUID          `json:"product_id" validate:"uuid_required"`
	Type      model.MovementType `json:"type" validate:"required,oneof=in out adjust"`
	// Direction applies to adjustments only: >= 0 adds, < 0 subtracts.
	Direction  int             `json:"direction"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reference  string          `json:"reference"`
	Reason     string          `json:"reason"`
	Note       string          `json:"note"`
	OccurredAt *time.Time      `json:"occurred_at"`

	reversesID *uuid.UUID
}

// LedgerService owns the stock invariant: a product's cached balance always
// equals the signed sum of its movements. Every mutation appends a movement
// and rewrites the cached balance inside one atomic unit of work.
type LedgerService interface {
	RecordMovement(input *MovementInput, actor Actor) (*model.StockMovement, error)
	CurrentBalance(productID uuid.UUID) (int, error)
	History(productID *uuid.UUID) ([]model.StockMovement, error)
	GetMovement(id uuid.UUID) (*model.StockMovement, error)
	ReverseMovement(id uuid.UUID, actor Actor) (*model.StockMovement, error)
	DeleteMovement(id uuid.UUID, actor Actor) error
	Reconcile(productID uuid.UUID) error
}

type ledgerService struct {
	store repository.Store
	hub   *ws.Hub
}

func NewLedgerService(store repository.Store, hub *ws.Hub) LedgerService {
	return &ledgerService{store: store, hub: hub}
}

func (s *ledgerService) RecordMovement(input *MovementInput, actor Actor) (*model.StockMovement, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, validator.FirstError(errs)
	}

	movement := s.buildMovement(input, actor)

	var product *model.Product
	var newStock int
	err := s.store.Atomic(func(tx repository.Store) error {
		var err error
		product, err = tx.Products().FindByIDForUpdate(input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrProductNotFound
			}
			return fmt.Errorf("loading product: %w", err)
		}

		newStock = product.Stock + movement.Effect()
		if newStock < 0 {
			return model.ErrInsufficientStock
		}

		// The movement row and the cached balance commit together or not
		// at all.
		if err := tx.Movements().Create(movement); err != nil {
			return fmt.Errorf("recording movement: %w", err)
		}
		if err := tx.Products().UpdateStock(product.ID, newStock, actor.ID.String()); err != nil {
			return fmt.Errorf("updating cached balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStockUpdate(product, movement, newStock, actor)
	return movement, nil
}

func (s *ledgerService) buildMovement(input *MovementInput, actor Actor) *model.StockMovement {
	direction := 1
	if input.Type == model.MovementAdjust && input.Direction < 0 {
		direction = -1
	}

	occurredAt := time.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	totalCost := decimal.Zero
	if !input.UnitCost.IsZero() {
		totalCost = input.UnitCost.Mul(decimal.NewFromInt(int64(input.Quantity)))
	}

	actorID := actor.ID.String()
	m := &model.StockMovement{
		ProductID:       input.ProductID,
		Type:            input.Type,
		Direction:       direction,
		Quantity:        input.Quantity,
		UnitCost:        input.UnitCost,
		TotalCost:       totalCost,
		Reference:       input.Reference,
		Reason:          input.Reason,
		Note:            input.Note,
		ReversesID:      input.reversesID,
		OccurredAt:      occurredAt,
		CreatedByUserID: &actorID,
	}
	m.CreatedBy = actorID
	m.UpdatedBy = actorID
	return m
}

func (s *ledgerService) CurrentBalance(productID uuid.UUID) (int, error) {
	product, err := s.store.Products().FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, model.ErrProductNotFound
		}
		return 0, err
	}
	return product.Stock, nil
}

func (s *ledgerService) History(productID *uuid.UUID) ([]model.StockMovement, error) {
	return s.store.Movements().FindAll(productID)
}

func (s *ledgerService) GetMovement(id uuid.UUID) (*model.StockMovement, error) {
	movement, err := s.store.Movements().FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrMovementNotFound
		}
		return nil, err
	}
	return movement, nil
}

// ReverseMovement appends a compensating movement with the opposite signed
// effect. History is never rewritten.
func (s *ledgerService) ReverseMovement(id uuid.UUID, actor Actor) (*model.StockMovement, error) {
	original, err := s.GetMovement(id)
	if err != nil {
		return nil, err
	}

	compensating := &MovementInput{
		ProductID:  original.ProductID,
		Quantity:   original.Quantity,
		Reference:  original.Reference,
		Reason:     "reversal",
		Note:       fmt.Sprintf("reverses movement %s", original.ID),
		reversesID: &original.ID,
	}
	if original.Effect() >= 0 {
		compensating.Type = model.MovementOut
	} else {
		compensating.Type = model.MovementIn
	}

	return s.RecordMovement(compensating, actor)
}

// DeleteMovement removes a ledger entry administratively. The cached balance
// is reversed in the same transaction so the invariant holds.
func (s *ledgerService) DeleteMovement(id uuid.UUID, actor Actor) error {
	return s.store.Atomic(func(tx repository.Store) error {
		movement, err := tx.Movements().FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrMovementNotFound
			}
			return err
		}

		product, err := tx.Products().FindByIDForUpdate(movement.ProductID)
		if err != nil {
			return fmt.Errorf("loading product: %w", err)
		}

		newStock := product.Stock - movement.Effect()
		if newStock < 0 {
			return model.ErrInsufficientStock
		}

		if err := tx.Movements().Delete(movement.ID); err != nil {
			return fmt.Errorf("deleting movement: %w", err)
		}
		if err := tx.Products().UpdateStock(product.ID, newStock, actor.ID.String()); err != nil {
			return fmt.Errorf("updating cached balance: %w", err)
		}
		return nil
	})
}

// Reconcile recomputes the ledger sum for a product and compares it to the
// cached balance. A mismatch is surfaced as a ConsistencyError and never
// silently corrected.
func (s *ledgerService) Reconcile(productID uuid.UUID) error {
	product, err := s.store.Products().FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrProductNotFound
		}
		return err
	}

	sum, err := s.store.Movements().SignedSum(productID)
	if err != nil {
		return fmt.Errorf("recomputing ledger sum: %w", err)
	}

	if product.Stock != sum {
		cErr := &model.ConsistencyError{ProductID: productID, Cached: product.Stock, Computed: sum}
		logrus.WithFields(logrus.Fields{
			"product_id": productID,
			"cached":     product.Stock,
			"computed":   sum,
		}).Error("stock ledger inconsistency detected")
		return cErr
	}
	return nil
}

func (s *ledgerService) broadcastStockUpdate(product *model.Product, m *model.StockMovement, newStock int, actor Actor) {
	if s.hub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "movement_recorded",
			"movement": map[string]interface{}{
				"id":         m.ID,
				"type":       m.Type,
				"quantity":   m.Quantity,
				"reason":     m.Reason,
				"product_id": product.ID,
				"product": map[string]interface{}{
					"name": product.Name,
					"sku":  product.SKU,
				},
				"new_stock": newStock,
			},
			"user": map[string]interface{}{
				"id":    actor.ID,
				"name":  actor.Name,
				"email": actor.Email,
			},
		}
		if newStock <= product.MinStockLevel {
			payload["low_stock"] = true
		}
		msg, _ := json.Marshal(payload)
		s.hub.Broadcast <- msg
	}()
}
