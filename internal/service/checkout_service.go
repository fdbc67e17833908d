package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-retail-pos/internal/billing"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CheckoutItem is one requested cart line.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// QuoteRequest is the computeBillSummary surface: cart lines plus the
// cart-level discount and tax rate.
type QuoteRequest struct {
	Items          []CheckoutItem     `json:"items" validate:"dive"`
	Discount       decimal.Decimal    `json:"discount"`
	DiscountType   model.DiscountType `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	TaxRatePercent decimal.Decimal    `json:"tax_rate_percent"`
}

type CheckoutRequest struct {
	QuoteRequest
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card transfer"`
	CashReceived  decimal.Decimal     `json:"cash_received"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
}

type CheckoutResult struct {
	Invoice *model.Invoice  `json:"invoice"`
	Summary billing.Summary `json:"summary"`
	Change  decimal.Decimal `json:"change"`
}

// CheckoutService turns a cart into a persisted Invoice plus its stock-out
// movements. The whole transition is one atomic unit: either every line's
// movement and the invoice commit, or nothing does.
type CheckoutService interface {
	Quote(req *QuoteRequest) (*billing.Summary, error)
	Checkout(req *CheckoutRequest, cashier Actor) (*CheckoutResult, error)
	VoidInvoice(id uuid.UUID, actor Actor) (*model.Invoice, error)
	GetInvoice(id uuid.UUID) (*model.Invoice, error)
	ListInvoices() ([]model.Invoice, error)
}

type checkoutService struct {
	store repository.Store
	hub   *ws.Hub
}

func NewCheckoutService(store repository.Store, hub *ws.Hub) CheckoutService {
	return &checkoutService{store: store, hub: hub}
}

// buildCart loads each requested product and assembles a cart with current
// sale prices and stock snapshots. Lines for the same product merge; a
// quantity above the available stock is rejected, never clamped.
func buildCart(store repository.Store, req *QuoteRequest) (*billing.Cart, error) {
	cart := billing.NewCart(
		billing.Discount{Amount: req.Discount, Type: discountTypeOrDefault(req.DiscountType)},
		req.TaxRatePercent,
	)
	for _, item := range req.Items {
		product, err := store.Products().FindByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, model.ErrProductNotFound
			}
			return nil, err
		}
		if err := cart.Add(product, item.Quantity); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

func discountTypeOrDefault(t model.DiscountType) model.DiscountType {
	if t == "" {
		return model.DiscountPercentage
	}
	return t
}

func (s *checkoutService) Quote(req *QuoteRequest) (*billing.Summary, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validator.FirstError(errs)
	}
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}
	cart, err := buildCart(s.store, req)
	if err != nil {
		return nil, err
	}
	summary := cart.Summary()
	return &summary, nil
}

func (s *checkoutService) Checkout(req *CheckoutRequest, cashier Actor) (*CheckoutResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validator.FirstError(errs)
	}
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	var invoice *model.Invoice
	var summary billing.Summary
	change := decimal.Zero

	err := s.store.Atomic(func(tx repository.Store) error {
		cart, err := buildCart(tx, &req.QuoteRequest)
		if err != nil {
			return err
		}
		summary = cart.Summary()

		// Cash must cover the total before any stock moves.
		if req.PaymentMethod == model.PaymentCash {
			change, err = billing.Change(summary.Total, req.CashReceived)
			if err != nil {
				return err
			}
		}

		number := newInvoiceNumber()

		// One out-movement per line, under row locks. A failure on any line
		// aborts the transaction and rolls back the earlier lines.
		items := cart.Items()
		invoiceItems := make([]model.InvoiceItem, 0, len(items))
		for _, line := range items {
			product, err := tx.Products().FindByIDForUpdate(line.ProductID)
			if err != nil {
				return fmt.Errorf("locking product: %w", err)
			}
			if _, err := applyMovement(tx, product, model.MovementOut, line.Quantity, "sale", number, cashier); err != nil {
				return err
			}
			invoiceItems = append(invoiceItems, model.InvoiceItem{
				ProductID:   line.ProductID,
				ProductSKU:  line.ProductSKU,
				ProductName: line.ProductName,
				UnitPrice:   line.UnitPrice,
				Quantity:    line.Quantity,
				LineTotal:   line.LineSubtotal().Round(2),
			})
		}

		invoice = &model.Invoice{
			Number:         number,
			CustomerID:     req.CustomerID,
			Items:          invoiceItems,
			Subtotal:       summary.Subtotal,
			Discount:       req.Discount,
			DiscountType:   discountTypeOrDefault(req.DiscountType),
			DiscountAmount: summary.DiscountAmount,
			TaxRatePercent: req.TaxRatePercent,
			TaxAmount:      summary.TaxAmount,
			Total:          summary.Total,
			PaymentMethod:  req.PaymentMethod,
			CashReceived:   req.CashReceived,
			ChangeDue:      change,
			Status:         model.InvoicePaid,
			CashierID:      cashier.ID,
		}
		invoice.CreatedBy = cashier.ID.String()
		invoice.UpdatedBy = cashier.ID.String()

		// Link the sale to the cashier's open register session, if any.
		if session, err := tx.Sessions().FindOpenByCashier(cashier.ID); err == nil {
			invoice.RegisterSessionID = &session.ID
		}

		if err := tx.Invoices().Create(invoice); err != nil {
			return fmt.Errorf("persisting invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"invoice": invoice.Number,
		"total":   invoice.Total.String(),
		"cashier": cashier.ID,
	}).Info("checkout completed")
	s.broadcastSale(invoice, cashier)

	return &CheckoutResult{Invoice: invoice, Summary: summary, Change: change}, nil
}

// VoidInvoice marks a paid invoice void and restocks its lines with
// compensating in-movements, all in one transaction. paid -> void is the only
// transition; nothing ever returns to paid.
func (s *checkoutService) VoidInvoice(id uuid.UUID, actor Actor) (*model.Invoice, error) {
	var invoice *model.Invoice
	err := s.store.Atomic(func(tx repository.Store) error {
		var err error
		invoice, err = tx.Invoices().FindByIDForUpdate(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrInvoiceNotFound
			}
			return err
		}
		if invoice.Status != model.InvoicePaid {
			return model.ErrInvoiceNotVoidable
		}

		for _, item := range invoice.Items {
			product, err := tx.Products().FindByIDForUpdate(item.ProductID)
			if err != nil {
				return fmt.Errorf("locking product: %w", err)
			}
			if _, err := applyMovement(tx, product, model.MovementIn, item.Quantity, "void", invoice.Number, actor); err != nil {
				return err
			}
		}

		now := time.Now()
		actorID := actor.ID.String()
		invoice.Status = model.InvoiceVoid
		invoice.VoidedAt = &now
		invoice.VoidedByUserID = &actorID
		invoice.UpdatedBy = actorID
		if err := tx.Invoices().Update(invoice); err != nil {
			return fmt.Errorf("updating invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *checkoutService) GetInvoice(id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.store.Invoices().FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (s *checkoutService) ListInvoices() ([]model.Invoice, error) {
	return s.store.Invoices().FindAll()
}

// applyMovement appends one ledger entry for an already locked product and
// rewrites its cached balance. Must run inside the enclosing Atomic.
func applyMovement(tx repository.Store, product *model.Product, mtype model.MovementType, qty int, reason, reference string, actor Actor) (int, error) {
	movement := &model.StockMovement{
		ProductID:  product.ID,
		Type:       mtype,
		Direction:  1,
		Quantity:   qty,
		Reason:     reason,
		Reference:  reference,
		OccurredAt: time.Now(),
	}
	actorID := actor.ID.String()
	movement.CreatedByUserID = &actorID
	movement.CreatedBy = actorID
	movement.UpdatedBy = actorID

	newStock := product.Stock + movement.Effect()
	if newStock < 0 {
		return 0, model.ErrInsufficientStock
	}
	if err := tx.Movements().Create(movement); err != nil {
		return 0, fmt.Errorf("recording movement: %w", err)
	}
	if err := tx.Products().UpdateStock(product.ID, newStock, actorID); err != nil {
		return 0, fmt.Errorf("updating cached balance: %w", err)
	}
	product.Stock = newStock
	return newStock, nil
}

func newInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), suffix)
}

func (s *checkoutService) broadcastSale(invoice *model.Invoice, cashier Actor) {
	if s.hub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "sale_completed",
			"action": "invoice_created",
			"invoice": map[string]interface{}{
				"id":     invoice.ID,
				"number": invoice.Number,
				"total":  invoice.Total,
				"items":  len(invoice.Items),
			},
			"user": map[string]interface{}{
				"id":    cashier.ID,
				"name":  cashier.Name,
				"email": cashier.Email,
			},
		}
		msg, _ := json.Marshal(payload)
		s.hub.Broadcast <- msg
	}()
}
