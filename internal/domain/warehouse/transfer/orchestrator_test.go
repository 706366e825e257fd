package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/warehouse/transfer"
	"almacen/internal/domain/warehouse/warehousetest"
)

func seedNamedProduct(store *warehousetest.Store, code string, totalStock int64) id.ID {
	productID := id.New()
	store.AddProduct(product.Product{
		ID:         productID,
		Code:       code,
		Name:       code,
		TotalStock: totalStock,
	})
	return productID
}

func TestDrainAll_DrainsEveryProductWithStock(t *testing.T) {
	store := warehousetest.NewStore()
	productA := seedNamedProduct(store, "P-001", 5)
	productB := seedNamedProduct(store, "P-002", 7)
	seedLot(store, productA, 5, day(1))
	seedLot(store, productB, 4, day(1))
	seedLot(store, productB, 3, day(2))

	svc := newService(store)
	orch := transfer.NewOrchestrator(svc, store.Lots())

	report, err := orch.DrainAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 0, report.FailCount)
	assert.Equal(t, int64(12), report.QuantityMoved)
	assert.Empty(t, report.Failures)

	assert.Equal(t, int64(0), store.TotalAcrossLots(productA))
	assert.Equal(t, int64(0), store.TotalAcrossLots(productB))
}

func TestDrainAll_ExcludesProductsWithoutStock(t *testing.T) {
	store := warehousetest.NewStore()
	productA := seedNamedProduct(store, "P-001", 5)
	// Product with no warehouse stock: excluded from targets, not a failure.
	seedNamedProduct(store, "P-002", 3)
	seedLot(store, productA, 5, day(1))

	svc := newService(store)
	orch := transfer.NewOrchestrator(svc, store.Lots())

	report, err := orch.DrainAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 0, report.FailCount)
	assert.Equal(t, report.SuccessCount+report.FailCount, 1)
}

func TestDrainAll_RerunIsNoOp(t *testing.T) {
	store := warehousetest.NewStore()
	productA := seedNamedProduct(store, "P-001", 5)
	seedLot(store, productA, 5, day(1))

	svc := newService(store)
	orch := transfer.NewOrchestrator(svc, store.Lots())
	ctx := context.Background()

	first, err := orch.DrainAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.SuccessCount)

	second, err := orch.DrainAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.SuccessCount)
	assert.Equal(t, 0, second.FailCount)
	assert.Zero(t, second.QuantityMoved)
}

func TestDrain_OnlyTouchesRequestedProducts(t *testing.T) {
	store := warehousetest.NewStore()
	productA := seedNamedProduct(store, "P-001", 5)
	productB := seedNamedProduct(store, "P-002", 4)
	seedLot(store, productA, 5, day(1))
	seedLot(store, productB, 4, day(1))

	svc := newService(store)
	orch := transfer.NewOrchestrator(svc, store.Lots())

	report, err := orch.Drain(context.Background(), []id.ID{productA})
	require.NoError(t, err)

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, int64(0), store.TotalAcrossLots(productA))
	assert.Equal(t, int64(4), store.TotalAcrossLots(productB), "unrequested product untouched")
}

func TestDrain_MemberFailureDoesNotStopTheBatch(t *testing.T) {
	store := warehousetest.NewStore()
	productA := seedNamedProduct(store, "P-001", 5)
	productB := seedNamedProduct(store, "P-002", 4)
	productC := seedNamedProduct(store, "P-003", 6)
	seedLot(store, productA, 5, day(1))
	seedLot(store, productB, 4, day(1))
	seedLot(store, productC, 6, day(1))

	// One Consume succeeds per product A's single lot; the injected failure
	// lands in whichever product drains second, and the third proceeds.
	store.FailConsumeAfter = 1

	svc := newService(store)
	orch := transfer.NewOrchestrator(svc, store.Lots())

	report, err := orch.DrainAll(context.Background())
	require.NoError(t, err, "member failures never surface as a batch error")

	assert.Equal(t, 3, report.SuccessCount+report.FailCount, "every target accounted for")
	assert.Equal(t, 1, report.FailCount)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, apperror.CodeDatabase, report.Failures[0].Code)
	assert.NotEqual(t, id.Nil(), report.Failures[0].ProductID)

	// Bulk accounting: moved quantity covers the successful subset only.
	var expectedMoved int64
	for _, pid := range []id.ID{productA, productB, productC} {
		if pid != report.Failures[0].ProductID {
			expectedMoved += map[id.ID]int64{productA: 5, productB: 4, productC: 6}[pid]
		}
	}
	assert.Equal(t, expectedMoved, report.QuantityMoved)
}
