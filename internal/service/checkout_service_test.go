package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
)

// checkoutFixture wires a ledger and checkout service over one memory store
// and seeds a product with opening stock.
type checkoutFixture struct {
	store    *repository.MemoryStore
	ledger   LedgerService
	checkout CheckoutService
	actor    Actor
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	return &checkoutFixture{
		store:    store,
		ledger:   NewLedgerService(store, nil),
		checkout: NewCheckoutService(store, nil),
		actor:    testActor(),
	}
}

func (f *checkoutFixture) stockedProduct(t *testing.T, sku, price string, stock int) *model.Product {
	t.Helper()
	p := seedProduct(t, f.store, sku, price)
	if stock > 0 {
		recordIn(t, f.ledger, p.ID, stock, f.actor)
	}
	fresh, err := f.store.Products().FindByID(p.ID)
	require.NoError(t, err)
	return fresh
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.stockedProduct(t, "SKU-1", "100", 10)
	// 10% product discount, 15% tax: 2 units at 90 = 180, tax 27, total 207.
	p.Discount = dec("10")
	require.NoError(t, f.store.Products().Update(p))

	result, err := f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest: QuoteRequest{
			Items:          []CheckoutItem{{ProductID: p.ID, Quantity: 2}},
			TaxRatePercent: dec("15"),
		},
		PaymentMethod: model.PaymentCash,
		CashReceived:  dec("250"),
	}, f.actor)
	require.NoError(t, err)

	assert.True(t, result.Summary.Total.Equal(dec("207")), "total %s", result.Summary.Total)
	assert.True(t, result.Change.Equal(dec("43")), "change %s", result.Change)
	assert.Equal(t, model.InvoicePaid, result.Invoice.Status)
	require.Len(t, result.Invoice.Items, 1)
	assert.Equal(t, "SKU-1", result.Invoice.Items[0].ProductSKU)
	assert.NotEmpty(t, result.Invoice.Number)

	// Stock moved through the ledger.
	balance, err := f.ledger.CurrentBalance(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, balance)
	assert.NoError(t, f.ledger.Reconcile(p.ID))

	history, err := f.ledger.History(&p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2) // opening in + sale out
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.Checkout(&CheckoutRequest{
		PaymentMethod: model.PaymentCash,
	}, f.actor)
	assert.ErrorIs(t, err, model.ErrEmptyCart)
}

func TestCheckoutInsufficientCash(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.stockedProduct(t, "SKU-1", "100", 10)

	_, err := f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest: QuoteRequest{
			Items: []CheckoutItem{{ProductID: p.ID, Quantity: 2}},
		},
		PaymentMethod: model.PaymentCash,
		CashReceived:  dec("100"),
	}, f.actor)
	assert.ErrorIs(t, err, model.ErrInsufficientPayment)

	// Rejected before any stock moved.
	balance, err := f.ledger.CurrentBalance(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
}

func TestCheckoutRejectsOverStock(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.stockedProduct(t, "SKU-1", "10", 3)

	_, err := f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest: QuoteRequest{
			Items: []CheckoutItem{{ProductID: p.ID, Quantity: 4}},
		},
		PaymentMethod: model.PaymentCard,
	}, f.actor)
	assert.ErrorIs(t, err, model.ErrStockLimitExceeded)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest: QuoteRequest{
			Items: []CheckoutItem{{ProductID: uuid.New(), Quantity: 1}},
		},
		PaymentMethod: model.PaymentCard,
	}, f.actor)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

// failingStore wraps a MemoryStore and makes the Nth movement insert fail,
// simulating a mid-transaction write error.
type failingStore struct {
	*repository.MemoryStore
	failOn int
	calls  int
}

func (f *failingStore) Atomic(fn func(repository.Store) error) error {
	return f.MemoryStore.Atomic(func(repository.Store) error { return fn(f) })
}

func (f *failingStore) Movements() repository.MovementRepository {
	return &failingMovementRepo{MovementRepository: f.MemoryStore.Movements(), f: f}
}

type failingMovementRepo struct {
	repository.MovementRepository
	f *failingStore
}

func (r *failingMovementRepo) Create(m *model.StockMovement) error {
	r.f.calls++
	if r.f.calls == r.f.failOn {
		return errors.New("simulated write failure")
	}
	return r.MovementRepository.Create(m)
}

func TestCheckoutRollsBackOnMidTransactionFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	a := f.stockedProduct(t, "SKU-A", "10", 10)
	b := f.stockedProduct(t, "SKU-B", "20", 10)

	// Fail the second sale line's movement insert.
	flaky := &failingStore{MemoryStore: f.store, failOn: 2}
	checkout := NewCheckoutService(flaky, nil)

	_, err := checkout.Checkout(&CheckoutRequest{
		QuoteRequest: QuoteRequest{
			Items: []CheckoutItem{
				{ProductID: a.ID, Quantity: 2},
				{ProductID: b.ID, Quantity: 3},
			},
		},
		PaymentMethod: model.PaymentCard,
	}, f.actor)
	require.Error(t, err)

	// Nothing from the failed checkout survives: no invoice, balances back
	// to their pre-checkout values, ledgers consistent.
	invoices, listErr := f.store.Invoices().FindAll()
	require.NoError(t, listErr)
	assert.Empty(t, invoices)

	balanceA, err := f.ledger.CurrentBalance(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, balanceA)
	balanceB, err := f.ledger.CurrentBalance(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, balanceB)

	assert.NoError(t, f.ledger.Reconcile(a.ID))
	assert.NoError(t, f.ledger.Reconcile(b.ID))
}

func TestQuoteDoesNotTouchState(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.stockedProduct(t, "SKU-1", "100", 10)

	summary, err := f.checkout.Quote(&QuoteRequest{
		Items:          []CheckoutItem{{ProductID: p.ID, Quantity: 2}},
		TaxRatePercent: dec("15"),
	})
	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(dec("230")), "total %s", summary.Total)

	balance, err := f.ledger.CurrentBalance(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)

	invoices, err := f.store.Invoices().FindAll()
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestVoidInvoiceRestocks(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.stockedProduct(t, "SKU-1", "50", 10)

	result, err := f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest: QuoteRequest{
			Items: []CheckoutItem{{ProductID: p.ID, Quantity: 4}},
		},
		PaymentMethod: model.PaymentCard,
	}, f.actor)
	require.NoError(t, err)

	voided, err := f.checkout.VoidInvoice(result.Invoice.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceVoid, voided.Status)
	assert.NotNil(t, voided.VoidedAt)

	// The sold units came back through compensating in-movements.
	balance, err := f.ledger.CurrentBalance(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
	assert.NoError(t, f.ledger.Reconcile(p.ID))

	// paid -> void is terminal.
	_, err = f.checkout.VoidInvoice(result.Invoice.ID, f.actor)
	assert.ErrorIs(t, err, model.ErrInvoiceNotVoidable)
}

func TestVoidUnknownInvoice(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.checkout.VoidInvoice(uuid.New(), f.actor)
	assert.ErrorIs(t, err, model.ErrInvoiceNotFound)
}

func TestCheckoutLinksOpenRegisterSession(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.stockedProduct(t, "SKU-1", "10", 10)

	register := NewRegisterService(f.store)
	session, err := register.Open(f.actor, dec("100"), "")
	require.NoError(t, err)

	result, err := f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest: QuoteRequest{
			Items: []CheckoutItem{{ProductID: p.ID, Quantity: 1}},
		},
		PaymentMethod: model.PaymentCash,
		CashReceived:  dec("10"),
	}, f.actor)
	require.NoError(t, err)

	require.NotNil(t, result.Invoice.RegisterSessionID)
	assert.Equal(t, session.ID, *result.Invoice.RegisterSessionID)
}
