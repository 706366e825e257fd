package projection_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/warehouse/lot"
	"almacen/internal/domain/warehouse/projection"
	"almacen/internal/domain/warehouse/warehousetest"
)

// memoryCache records cache traffic for assertions.
type memoryCache struct {
	entries map[id.ID]projection.Projection
	hits    int
	misses  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[id.ID]projection.Projection)}
}

func (c *memoryCache) Get(_ context.Context, productID id.ID) (*projection.Projection, bool) {
	if p, ok := c.entries[productID]; ok {
		c.hits++
		return &p, true
	}
	c.misses++
	return nil, false
}

func (c *memoryCache) Set(_ context.Context, p projection.Projection) {
	c.entries[p.ProductID] = p
}

func seedStore() (*warehousetest.Store, id.ID) {
	store := warehousetest.NewStore()
	productID := id.New()
	store.AddProduct(product.Product{
		ID:         productID,
		Code:       "P-001",
		Name:       "Yerba 1kg",
		TotalStock: 10,
	})
	store.AddLot(lot.Lot{
		ID:                id.New(),
		ProductID:         productID,
		QuantityInitial:   6,
		QuantityRemaining: 6,
		IngestedAt:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	return store, productID
}

func TestProject_SplitsStock(t *testing.T) {
	store, productID := seedStore()
	svc := projection.NewService(store.Products(), store.Lots(), nil)

	proj, err := svc.Project(context.Background(), productID)
	require.NoError(t, err)

	assert.Equal(t, int64(6), proj.StockInWarehouse)
	assert.Equal(t, int64(4), proj.StockInStore)
	assert.Equal(t, int64(10), proj.TotalStock)
	assert.Equal(t, proj.TotalStock, proj.StockInWarehouse+proj.StockInStore)
}

func TestProject_UnknownProduct(t *testing.T) {
	store, _ := seedStore()
	svc := projection.NewService(store.Products(), store.Lots(), nil)

	_, err := svc.Project(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProject_UsesCache(t *testing.T) {
	store, productID := seedStore()
	cache := newMemoryCache()
	svc := projection.NewService(store.Products(), store.Lots(), cache)

	ctx := context.Background()

	first, err := svc.Project(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.misses)

	second, err := svc.Project(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)
}

func TestProjectAll(t *testing.T) {
	store, productID := seedStore()
	// Second product with no lots at all: projected with zero warehouse stock.
	emptyID := id.New()
	store.AddProduct(product.Product{
		ID:         emptyID,
		Code:       "P-002",
		Name:       "Azúcar 1kg",
		TotalStock: 3,
	})
	svc := projection.NewService(store.Products(), store.Lots(), nil)

	projections, err := svc.ProjectAll(context.Background(), product.ListFilter{})
	require.NoError(t, err)
	require.Len(t, projections, 2)

	byProduct := make(map[id.ID]projection.Projection, len(projections))
	for _, p := range projections {
		byProduct[p.ProductID] = p
		assert.Equal(t, p.TotalStock, p.StockInWarehouse+p.StockInStore)
	}

	assert.Equal(t, int64(6), byProduct[productID].StockInWarehouse)
	assert.Equal(t, int64(0), byProduct[emptyID].StockInWarehouse)
	assert.Equal(t, int64(3), byProduct[emptyID].StockInStore)
}

func TestProjectAll_Search(t *testing.T) {
	store, _ := seedStore()
	svc := projection.NewService(store.Products(), store.Lots(), nil)

	projections, err := svc.ProjectAll(context.Background(), product.ListFilter{Search: "yerba"})
	require.NoError(t, err)
	require.Len(t, projections, 1)
	assert.Equal(t, "Yerba 1kg", projections[0].Name)
}
