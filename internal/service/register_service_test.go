package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
)

func TestRegisterOpenAndClose(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewRegisterService(store)
	cashier := testActor()

	session, err := svc.Open(cashier, dec("100"), "morning shift")
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, session.Status)
	assert.True(t, session.ExpectedCash.Equal(dec("100")))

	current, err := svc.Current(cashier)
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)

	closed, err := svc.Close(cashier, dec("98.50"), "")
	require.NoError(t, err)
	assert.Equal(t, model.SessionClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)
	assert.True(t, closed.ExpectedCash.Equal(dec("100")))
	assert.True(t, closed.Difference.Equal(dec("-1.5")), "difference %s", closed.Difference)

	_, err = svc.Current(cashier)
	assert.ErrorIs(t, err, model.ErrNoOpenSession)
}

func TestRegisterSingleOpenSessionPerCashier(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewRegisterService(store)
	cashier := testActor()

	_, err := svc.Open(cashier, decimal.Zero, "")
	require.NoError(t, err)

	_, err = svc.Open(cashier, decimal.Zero, "")
	assert.ErrorIs(t, err, model.ErrSessionAlreadyOpen)

	// A different cashier is unaffected.
	other := testActor()
	_, err = svc.Open(other, decimal.Zero, "")
	assert.NoError(t, err)
}

func TestRegisterOpenRejectsNegativeFloat(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewRegisterService(store)

	_, err := svc.Open(testActor(), dec("-1"), "")
	assert.Error(t, err)
}

func TestRegisterCloseWithoutOpenSession(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewRegisterService(store)

	_, err := svc.Close(testActor(), decimal.Zero, "")
	assert.ErrorIs(t, err, model.ErrNoOpenSession)
}

func TestRegisterCloseCountsCashSales(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.stockedProduct(t, "SKU-1", "25", 10)

	register := NewRegisterService(f.store)
	_, err := register.Open(f.actor, dec("50"), "")
	require.NoError(t, err)

	// One cash sale and one card sale; only cash counts toward the drawer.
	_, err = f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest:  QuoteRequest{Items: []CheckoutItem{{ProductID: p.ID, Quantity: 2}}},
		PaymentMethod: model.PaymentCash,
		CashReceived:  dec("50"),
	}, f.actor)
	require.NoError(t, err)

	_, err = f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest:  QuoteRequest{Items: []CheckoutItem{{ProductID: p.ID, Quantity: 1}}},
		PaymentMethod: model.PaymentCard,
	}, f.actor)
	require.NoError(t, err)

	closed, err := register.Close(f.actor, dec("100"), "")
	require.NoError(t, err)
	assert.True(t, closed.ExpectedCash.Equal(dec("100")), "expected %s", closed.ExpectedCash)
	assert.True(t, closed.Difference.Equal(decimal.Zero))
}
