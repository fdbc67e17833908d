package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
)

func newCatalogFixture(t *testing.T) (*repository.MemoryStore, CatalogService, LedgerService) {
	t.Helper()
	store := repository.NewMemoryStore()
	return store, NewCatalogService(store), NewLedgerService(store, nil)
}

func TestCreateProductWithOpeningStock(t *testing.T) {
	_, catalog, ledger := newCatalogFixture(t)
	actor := testActor()

	p := &model.Product{
		SKU:   "SKU-1",
		Name:  "Espresso Beans",
		Price: dec("12.50"),
	}
	require.NoError(t, catalog.CreateProduct(p, 20, actor))
	assert.Equal(t, 20, p.Stock)

	// The opening stock is a ledger entry, not a bare column write.
	history, err := ledger.History(&p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.MovementIn, history[0].Type)
	assert.Equal(t, 20, history[0].Quantity)
	assert.NoError(t, ledger.Reconcile(p.ID))
}

func TestCreateProductRollsBackWhenOpeningMovementFails(t *testing.T) {
	store := repository.NewMemoryStore()
	flaky := &failingStore{MemoryStore: store, failOn: 1}
	catalog := NewCatalogService(flaky)

	err := catalog.CreateProduct(&model.Product{
		SKU: "SKU-1", Name: "Orphan", Price: dec("5"),
	}, 10, testActor())
	require.Error(t, err)

	// The catalog row and the opening movement are one unit: neither may
	// survive the failed create.
	_, err = store.Products().FindBySKU("SKU-1")
	assert.Error(t, err)
	movements, err := store.Movements().FindAll(nil)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	_, catalog, _ := newCatalogFixture(t)
	actor := testActor()

	require.NoError(t, catalog.CreateProduct(&model.Product{
		SKU: "SKU-1", Name: "First", Price: dec("1"),
	}, 0, actor))

	err := catalog.CreateProduct(&model.Product{
		SKU: "SKU-1", Name: "Second", Price: dec("2"),
	}, 0, actor)
	assert.ErrorIs(t, err, ErrSKUExists)
}

func TestUpdateProductDoesNotTouchStock(t *testing.T) {
	_, catalog, ledger := newCatalogFixture(t)
	actor := testActor()

	p := &model.Product{SKU: "SKU-1", Name: "Old Name", Price: dec("10")}
	require.NoError(t, catalog.CreateProduct(p, 5, actor))

	updated, err := catalog.UpdateProduct(p.ID, &ProductUpdate{
		SKU:          "SKU-1",
		Name:         "New Name",
		Price:        dec("15"),
		Discount:     dec("20"),
		DiscountType: model.DiscountPercentage,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 5, updated.Stock)
	assert.True(t, updated.SalePrice.Equal(dec("12")), "sale price %s", updated.SalePrice)

	assert.NoError(t, ledger.Reconcile(p.ID))
}

func TestUpdateProductSKUCollision(t *testing.T) {
	_, catalog, _ := newCatalogFixture(t)
	actor := testActor()

	first := &model.Product{SKU: "SKU-1", Name: "First", Price: dec("1")}
	require.NoError(t, catalog.CreateProduct(first, 0, actor))
	second := &model.Product{SKU: "SKU-2", Name: "Second", Price: dec("2")}
	require.NoError(t, catalog.CreateProduct(second, 0, actor))

	_, err := catalog.UpdateProduct(second.ID, &ProductUpdate{
		SKU: "SKU-1", Name: "Second", Price: dec("2"),
	}, actor)
	assert.ErrorIs(t, err, ErrSKUExists)
}

func TestGetProductPopulatesSalePrice(t *testing.T) {
	_, catalog, _ := newCatalogFixture(t)
	actor := testActor()

	p := &model.Product{
		SKU:          "SKU-1",
		Name:         "Discounted",
		Price:        dec("100"),
		Discount:     dec("10"),
		DiscountType: model.DiscountPercentage,
	}
	require.NoError(t, catalog.CreateProduct(p, 0, actor))

	got, err := catalog.GetProduct(p.ID)
	require.NoError(t, err)
	assert.True(t, got.SalePrice.Equal(dec("90")))

	_, err = catalog.GetProduct(uuid.New())
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestListProductsLowStockFilter(t *testing.T) {
	_, catalog, _ := newCatalogFixture(t)
	actor := testActor()

	low := &model.Product{SKU: "SKU-1", Name: "Low", Price: dec("1"), MinStockLevel: 5}
	require.NoError(t, catalog.CreateProduct(low, 3, actor))
	ok := &model.Product{SKU: "SKU-2", Name: "Plenty", Price: dec("1"), MinStockLevel: 5}
	require.NoError(t, catalog.CreateProduct(ok, 50, actor))

	products, err := catalog.ListProducts(repository.ProductFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SKU-1", products[0].SKU)
}

func TestDeleteProduct(t *testing.T) {
	_, catalog, _ := newCatalogFixture(t)
	actor := testActor()

	p := &model.Product{SKU: "SKU-1", Name: "Doomed", Price: dec("1")}
	require.NoError(t, catalog.CreateProduct(p, 0, actor))
	require.NoError(t, catalog.DeleteProduct(p.ID, actor))

	_, err := catalog.GetProduct(p.ID)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	assert.ErrorIs(t, catalog.DeleteProduct(uuid.New(), actor), model.ErrProductNotFound)
}
