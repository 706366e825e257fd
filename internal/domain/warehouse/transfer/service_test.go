package transfer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/warehouse/lot"
	"almacen/internal/domain/warehouse/transfer"
	"almacen/internal/domain/warehouse/warehousetest"
)

func newService(store *warehousetest.Store) *transfer.Service {
	return transfer.NewService(store.Tx(), store.Lots(), store.Products(), store.TransferRecords(), nil)
}

func seedProduct(store *warehousetest.Store, totalStock int64) id.ID {
	productID := id.New()
	store.AddProduct(product.Product{
		ID:         productID,
		Code:       "P-001",
		Name:       "Yerba 1kg",
		TotalStock: totalStock,
	})
	return productID
}

func seedLot(store *warehousetest.Store, productID id.ID, quantity int64, ingestedAt time.Time) id.ID {
	l := lot.Lot{
		ID:                id.New(),
		ProductID:         productID,
		QuantityInitial:   quantity,
		QuantityRemaining: quantity,
		IngestedAt:        ingestedAt,
	}
	store.AddLot(l)
	return l.ID
}

func day(n int) time.Time {
	return time.Date(2026, 8, n, 0, 0, 0, 0, time.UTC)
}

func TestTransfer_ConsumesLotsOldestFirst(t *testing.T) {
	store := warehousetest.NewStore()
	productID := seedProduct(store, 8)
	lot1 := seedLot(store, productID, 5, day(1))
	lot2 := seedLot(store, productID, 3, day(2))
	svc := newService(store)

	result, err := svc.Transfer(context.Background(), productID, 6)
	require.NoError(t, err)

	assert.Equal(t, int64(6), result.QuantityMoved)
	assert.False(t, result.EmptiedWarehouse)

	first, _ := store.LotByID(lot1)
	second, _ := store.LotByID(lot2)
	assert.Equal(t, int64(0), first.QuantityRemaining, "oldest lot drained first")
	assert.Equal(t, int64(2), second.QuantityRemaining)
	assert.Equal(t, int64(2), store.TotalAcrossLots(productID))

	records := store.Records()
	require.Len(t, records, 1, "exactly one record per transfer, even across several lots")
	assert.Equal(t, productID, records[0].ProductID)
	assert.Equal(t, int64(6), records[0].QuantityMoved)
}

func TestTransfer_InsufficientStockLeavesLotsUntouched(t *testing.T) {
	store := warehousetest.NewStore()
	productID := seedProduct(store, 8)
	lot1 := seedLot(store, productID, 5, day(1))
	lot2 := seedLot(store, productID, 3, day(2))
	svc := newService(store)

	_, err := svc.Transfer(context.Background(), productID, 10)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientWarehouseStock, appErr.Code)
	assert.Equal(t, int64(8), appErr.Details["available"])

	first, _ := store.LotByID(lot1)
	second, _ := store.LotByID(lot2)
	assert.Equal(t, int64(5), first.QuantityRemaining)
	assert.Equal(t, int64(3), second.QuantityRemaining)
	assert.Empty(t, store.Records())
}

func TestTransfer_InvalidQuantity(t *testing.T) {
	store := warehousetest.NewStore()
	productID := seedProduct(store, 8)
	seedLot(store, productID, 5, day(1))
	svc := newService(store)

	for _, quantity := range []int64{0, -3} {
		_, err := svc.Transfer(context.Background(), productID, quantity)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)
	}
	assert.Equal(t, int64(5), store.TotalAcrossLots(productID))
}

func TestTransfer_ProductNotFound(t *testing.T) {
	store := warehousetest.NewStore()
	svc := newService(store)

	_, err := svc.Transfer(context.Background(), id.New(), 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestTransfer_FullDrainEmptiesWarehouse(t *testing.T) {
	store := warehousetest.NewStore()
	productID := seedProduct(store, 10)
	seedLot(store, productID, 5, day(1))
	seedLot(store, productID, 3, day(2))
	svc := newService(store)

	result, err := svc.Transfer(context.Background(), productID, 8)
	require.NoError(t, err)

	assert.True(t, result.EmptiedWarehouse)
	assert.Equal(t, int64(0), store.TotalAcrossLots(productID))
}

func TestTransfer_StorageFailureMidLoopRollsBackEverything(t *testing.T) {
	store := warehousetest.NewStore()
	productID := seedProduct(store, 8)
	seedLot(store, productID, 5, day(1))
	seedLot(store, productID, 3, day(2))
	// First lot decrement succeeds, second fails.
	store.FailConsumeAfter = 1
	svc := newService(store)

	_, err := svc.Transfer(context.Background(), productID, 6)
	require.Error(t, err)
	assert.True(t, apperror.IsRetryable(err))

	// Either all lots for this transfer update or none do.
	assert.Equal(t, int64(8), store.TotalAcrossLots(productID))
	assert.Empty(t, store.Records())
}

func TestTransfer_PreservesTotalStock(t *testing.T) {
	store := warehousetest.NewStore()
	productID := seedProduct(store, 12)
	seedLot(store, productID, 5, day(1))
	seedLot(store, productID, 3, day(2))
	svc := newService(store)

	products := store.Products()
	before, err := products.GetByID(context.Background(), productID)
	require.NoError(t, err)

	_, err = svc.Transfer(context.Background(), productID, 4)
	require.NoError(t, err)

	after, err := products.GetByID(context.Background(), productID)
	require.NoError(t, err)

	// Transfers change the warehouse/store split, never the sum.
	assert.Equal(t, before.TotalStock, after.TotalStock)
	warehouseStock := store.TotalAcrossLots(productID)
	storeStock := after.TotalStock - warehouseStock
	assert.Equal(t, after.TotalStock, warehouseStock+storeStock)
	assert.Equal(t, int64(4), warehouseStock)
}

func TestTransfer_ConcurrentSameProductSerializes(t *testing.T) {
	store := warehousetest.NewStore()
	productID := seedProduct(store, 10)
	seedLot(store, productID, 10, day(1))
	svc := newService(store)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(context.Background(), productID, 3)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInsufficientWarehouseStock, appErr.Code)
	}

	// 10 units allow exactly three transfers of 3; no over-allocation.
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, int64(1), store.TotalAcrossLots(productID))
	assert.Len(t, store.Records(), 3)
}

func TestTransferKeeping(t *testing.T) {
	ctx := context.Background()

	t.Run("moves everything above the target", func(t *testing.T) {
		store := warehousetest.NewStore()
		productID := seedProduct(store, 5)
		seedLot(store, productID, 5, day(1))
		svc := newService(store)

		result, err := svc.TransferKeeping(ctx, productID, 2)
		require.NoError(t, err)

		assert.Equal(t, int64(3), result.QuantityMoved)
		assert.Equal(t, int64(2), store.TotalAcrossLots(productID))
	})

	t.Run("target equal to current stock is a rejected no-op", func(t *testing.T) {
		store := warehousetest.NewStore()
		productID := seedProduct(store, 5)
		seedLot(store, productID, 5, day(1))
		svc := newService(store)

		_, err := svc.TransferKeeping(ctx, productID, 5)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeNothingToMove, appErr.Code)
		assert.Equal(t, int64(5), store.TotalAcrossLots(productID))
	})

	t.Run("target above current stock is rejected", func(t *testing.T) {
		store := warehousetest.NewStore()
		productID := seedProduct(store, 5)
		seedLot(store, productID, 5, day(1))
		svc := newService(store)

		_, err := svc.TransferKeeping(ctx, productID, 7)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("target zero drains the warehouse", func(t *testing.T) {
		store := warehousetest.NewStore()
		productID := seedProduct(store, 5)
		seedLot(store, productID, 5, day(1))
		svc := newService(store)

		result, err := svc.TransferKeeping(ctx, productID, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(5), result.QuantityMoved)
		assert.True(t, result.EmptiedWarehouse)
	})

	t.Run("negative target is rejected", func(t *testing.T) {
		store := warehousetest.NewStore()
		productID := seedProduct(store, 5)
		seedLot(store, productID, 5, day(1))
		svc := newService(store)

		_, err := svc.TransferKeeping(ctx, productID, -1)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)
	})
}

func TestListHistory_FiltersByProduct(t *testing.T) {
	store := warehousetest.NewStore()
	productA := seedProduct(store, 5)
	productB := id.New()
	store.AddProduct(product.Product{ID: productB, Code: "P-002", Name: "Azúcar 1kg", TotalStock: 4})
	seedLot(store, productA, 5, day(1))
	seedLot(store, productB, 4, day(1))
	svc := newService(store)

	ctx := context.Background()
	_, err := svc.Transfer(ctx, productA, 2)
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, productB, 1)
	require.NoError(t, err)

	records, err := svc.ListHistory(ctx, transfer.ListFilter{ProductID: &productA})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, productA, records[0].ProductID)

	all, err := svc.ListHistory(ctx, transfer.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
