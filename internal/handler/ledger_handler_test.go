package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
)

func reconcileApp(t *testing.T) (*fiber.App, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	h := NewLedgerHandler(service.NewLedgerService(store, nil))

	app := fiber.New()
	app.Get("/api/v1/products/:id/reconcile", h.Reconcile)
	return app, store
}

func TestReconcileRouteConsistent(t *testing.T) {
	app, store := reconcileApp(t)

	p := &model.Product{SKU: "SKU-1", Name: "Consistent", Price: decimal.NewFromInt(5)}
	require.NoError(t, store.Products().Create(p))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/"+p.ID.String()+"/reconcile", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "consistent", body["status"])
}

func TestReconcileRouteReportsDrift(t *testing.T) {
	app, store := reconcileApp(t)

	p := &model.Product{SKU: "SKU-1", Name: "Drifted", Price: decimal.NewFromInt(5)}
	require.NoError(t, store.Products().Create(p))
	// Cached balance with no backing ledger entries.
	require.NoError(t, store.Products().UpdateStock(p.ID, 7, "tamper"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/"+p.ID.String()+"/reconcile", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(7), body["cached"])
	assert.Equal(t, float64(0), body["computed"])
}

func TestReconcileRouteBadID(t *testing.T) {
	app, _ := reconcileApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/not-a-uuid/reconcile", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
