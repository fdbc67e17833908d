package repository

import (
	"sort"
	"strings"
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MemoryStore is a map-backed Store used by tests and by the demo mode of the
// API. Atomic snapshots all tables before running fn and restores them when
// fn fails, giving the same all-or-nothing semantics as a database
// transaction under the single-writer model.
type MemoryStore struct {
	products  map[uuid.UUID]model.Product
	movements map[uuid.UUID]model.StockMovement
	invoices  map[uuid.UUID]model.Invoice
	sessions  map[uuid.UUID]model.RegisterSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[uuid.UUID]model.Product),
		movements: make(map[uuid.UUID]model.StockMovement),
		invoices:  make(map[uuid.UUID]model.Invoice),
		sessions:  make(map[uuid.UUID]model.RegisterSession),
	}
}

func (s *MemoryStore) Products() ProductRepository   { return &memProductRepo{s} }
func (s *MemoryStore) Movements() MovementRepository { return &memMovementRepo{s} }
func (s *MemoryStore) Invoices() InvoiceRepository   { return &memInvoiceRepo{s} }
func (s *MemoryStore) Sessions() SessionRepository   { return &memSessionRepo{s} }

func (s *MemoryStore) Atomic(fn func(Store) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	products  map[uuid.UUID]model.Product
	movements map[uuid.UUID]model.StockMovement
	invoices  map[uuid.UUID]model.Invoice
	sessions  map[uuid.UUID]model.RegisterSession
}

func (s *MemoryStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:  make(map[uuid.UUID]model.Product, len(s.products)),
		movements: make(map[uuid.UUID]model.StockMovement, len(s.movements)),
		invoices:  make(map[uuid.UUID]model.Invoice, len(s.invoices)),
		sessions:  make(map[uuid.UUID]model.RegisterSession, len(s.sessions)),
	}
	for id, p := range s.products {
		snap.products[id] = p
	}
	for id, m := range s.movements {
		snap.movements[id] = m
	}
	for id, inv := range s.invoices {
		inv.Items = append([]model.InvoiceItem(nil), inv.Items...)
		snap.invoices[id] = inv
	}
	for id, sess := range s.sessions {
		snap.sessions[id] = sess
	}
	return snap
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.movements = snap.movements
	s.invoices = snap.invoices
	s.sessions = snap.sessions
}

func stamp(base *model.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

// --- products ---

type memProductRepo struct {
	s *MemoryStore
}

func (r *memProductRepo) Create(product *model.Product) error {
	stamp(&product.BaseModel)
	for _, p := range r.s.products {
		if p.SKU == product.SKU {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	var out []model.Product
	needle := strings.ToLower(filter.Search)
	for _, p := range r.s.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) {
			continue
		}
		if filter.LowStockOnly && !p.LowStock() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *memProductRepo) FindByIDForUpdate(id uuid.UUID) (*model.Product, error) {
	// Single writer: a plain read stands in for the row lock.
	return r.FindByID(id)
}

func (r *memProductRepo) FindBySKU(sku string) (*model.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProductRepo) Update(product *model.Product) error {
	if _, ok := r.s.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	product.UpdatedAt = time.Now()
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) UpdateStock(id uuid.UUID, newStock int, updatedBy string) error {
	p, ok := r.s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = newStock
	p.UpdatedBy = updatedBy
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}

func (r *memProductRepo) Delete(id uuid.UUID) error {
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) Count() (int64, error) {
	return int64(len(r.s.products)), nil
}

func (r *memProductRepo) LowStockCount() (int64, error) {
	var count int64
	for _, p := range r.s.products {
		if p.LowStock() {
			count++
		}
	}
	return count, nil
}

func (r *memProductRepo) Valuation() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.s.products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return total, nil
}

// --- movements ---

type memMovementRepo struct {
	s *MemoryStore
}

func (r *memMovementRepo) Create(movement *model.StockMovement) error {
	stamp(&movement.BaseModel)
	if movement.OccurredAt.IsZero() {
		movement.OccurredAt = time.Now()
	}
	r.s.movements[movement.ID] = *movement
	return nil
}

func (r *memMovementRepo) FindAll(productID *uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.s.movements {
		if productID != nil && m.ProductID != *productID {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (r *memMovementRepo) FindByID(id uuid.UUID) (*model.StockMovement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *memMovementRepo) Delete(id uuid.UUID) error {
	delete(r.s.movements, id)
	return nil
}

func (r *memMovementRepo) SignedSum(productID uuid.UUID) (int, error) {
	sum := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			sum += m.Effect()
		}
	}
	return sum, nil
}

func (r *memMovementRepo) DailyFlow(startDate, endDate time.Time) ([]StockFlowData, error) {
	byDate := make(map[string]*StockFlowData)
	for _, m := range r.s.movements {
		if m.OccurredAt.Before(startDate) || m.OccurredAt.After(endDate) {
			continue
		}
		date := m.OccurredAt.Format("2006-01-02")
		entry, ok := byDate[date]
		if !ok {
			entry = &StockFlowData{Date: date}
			byDate[date] = entry
		}
		if m.Effect() >= 0 {
			entry.Inbound += m.Quantity
		} else {
			entry.Outbound += m.Quantity
		}
	}
	var out []StockFlowData
	for _, entry := range byDate {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// --- invoices ---

type memInvoiceRepo struct {
	s *MemoryStore
}

func (r *memInvoiceRepo) Create(invoice *model.Invoice) error {
	stamp(&invoice.BaseModel)
	for i := range invoice.Items {
		stamp(&invoice.Items[i].BaseModel)
		invoice.Items[i].InvoiceID = invoice.ID
	}
	stored := *invoice
	stored.Items = append([]model.InvoiceItem(nil), invoice.Items...)
	r.s.invoices[invoice.ID] = stored
	return nil
}

func (r *memInvoiceRepo) FindAll() ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.s.invoices {
		inv.Items = append([]model.InvoiceItem(nil), inv.Items...)
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memInvoiceRepo) FindByID(id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	inv.Items = append([]model.InvoiceItem(nil), inv.Items...)
	return &inv, nil
}

func (r *memInvoiceRepo) FindByIDForUpdate(id uuid.UUID) (*model.Invoice, error) {
	return r.FindByID(id)
}

func (r *memInvoiceRepo) Update(invoice *model.Invoice) error {
	if _, ok := r.s.invoices[invoice.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	invoice.UpdatedAt = time.Now()
	stored := *invoice
	stored.Items = append([]model.InvoiceItem(nil), invoice.Items...)
	r.s.invoices[invoice.ID] = stored
	return nil
}

func (r *memInvoiceRepo) SalesSummary(startDate, endDate time.Time) (*SalesSummary, error) {
	summary := &SalesSummary{TotalSales: decimal.Zero, CashSales: decimal.Zero}
	for _, inv := range r.s.invoices {
		if inv.Status != model.InvoicePaid {
			continue
		}
		if inv.CreatedAt.Before(startDate) || inv.CreatedAt.After(endDate) {
			continue
		}
		summary.InvoiceCount++
		summary.TotalSales = summary.TotalSales.Add(inv.Total)
		if inv.PaymentMethod == model.PaymentCash {
			summary.CashSales = summary.CashSales.Add(inv.Total)
		}
	}
	return summary, nil
}

func (r *memInvoiceRepo) CashTotalForSession(sessionID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range r.s.invoices {
		if inv.RegisterSessionID == nil || *inv.RegisterSessionID != sessionID {
			continue
		}
		if inv.PaymentMethod != model.PaymentCash || inv.Status != model.InvoicePaid {
			continue
		}
		total = total.Add(inv.Total)
	}
	return total, nil
}

// --- register sessions ---

type memSessionRepo struct {
	s *MemoryStore
}

func (r *memSessionRepo) Create(session *model.RegisterSession) error {
	stamp(&session.BaseModel)
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) FindByID(id uuid.UUID) (*model.RegisterSession, error) {
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sess, nil
}

func (r *memSessionRepo) FindOpenByCashier(cashierID uuid.UUID) (*model.RegisterSession, error) {
	for _, sess := range r.s.sessions {
		if sess.CashierID == cashierID && sess.Status == model.SessionOpen {
			found := sess
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSessionRepo) FindOpenByCashierForUpdate(cashierID uuid.UUID) (*model.RegisterSession, error) {
	return r.FindOpenByCashier(cashierID)
}

func (r *memSessionRepo) Update(session *model.RegisterSession) error {
	if _, ok := r.s.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	session.UpdatedAt = time.Now()
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) FindAll() ([]model.RegisterSession, error) {
	var out []model.RegisterSession
	for _, sess := range r.s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}
