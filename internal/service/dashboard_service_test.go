package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-retail-pos/internal/model"
)

func TestDashboardStats(t *testing.T) {
	f := newCheckoutFixture(t)
	dashboard := NewDashboardService(f.store)

	low := f.stockedProduct(t, "SKU-LOW", "10", 2)
	low.MinStockLevel = 5
	require.NoError(t, f.store.Products().Update(low))
	f.stockedProduct(t, "SKU-OK", "20", 10)

	stats, err := dashboard.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	// 2*10 + 10*20
	assert.True(t, stats.TotalValuation.Equal(dec("220")), "valuation %s", stats.TotalValuation)
}

func TestDashboardStockFlow(t *testing.T) {
	f := newCheckoutFixture(t)
	dashboard := NewDashboardService(f.store)

	p := f.stockedProduct(t, "SKU-1", "10", 10)
	_, err := f.ledger.RecordMovement(&MovementInput{
		ProductID: p.ID, Type: model.MovementOut, Quantity: 4, Reason: "sale",
	}, f.actor)
	require.NoError(t, err)

	flow, err := dashboard.GetStockFlow(7)
	require.NoError(t, err)
	require.Len(t, flow, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), flow[0].Date)
	assert.Equal(t, 10, flow[0].Inbound)
	assert.Equal(t, 4, flow[0].Outbound)
}

func TestDashboardSalesSummaryExcludesVoided(t *testing.T) {
	f := newCheckoutFixture(t)
	dashboard := NewDashboardService(f.store)
	p := f.stockedProduct(t, "SKU-1", "25", 10)

	kept, err := f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest:  QuoteRequest{Items: []CheckoutItem{{ProductID: p.ID, Quantity: 2}}},
		PaymentMethod: model.PaymentCash,
		CashReceived:  dec("50"),
	}, f.actor)
	require.NoError(t, err)

	voided, err := f.checkout.Checkout(&CheckoutRequest{
		QuoteRequest:  QuoteRequest{Items: []CheckoutItem{{ProductID: p.ID, Quantity: 1}}},
		PaymentMethod: model.PaymentCard,
	}, f.actor)
	require.NoError(t, err)
	_, err = f.checkout.VoidInvoice(voided.Invoice.ID, f.actor)
	require.NoError(t, err)

	summary, err := dashboard.GetSalesSummary(time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.InvoiceCount)
	assert.True(t, summary.TotalSales.Equal(kept.Invoice.Total))
	assert.True(t, summary.CashSales.Equal(kept.Invoice.Total))
}
