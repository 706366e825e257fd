package transfer

import (
	"context"
	"fmt"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/tx"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/warehouse/fifo"
	"almacen/internal/domain/warehouse/lot"
	"almacen/pkg/logger"
)

// StockCache invalidates cached stock projections after a mutation.
type StockCache interface {
	Invalidate(ctx context.Context, productID id.ID)
}

// Service orchestrates single-product warehouse-to-store transfers.
//
// Each transfer runs in one transaction holding exclusive row locks on the
// product's active lots, so two concurrent transfers for the same product
// serialize while transfers for different products proceed in parallel.
type Service struct {
	tx       tx.Manager
	lots     lot.Repository
	products product.Repository
	records  Repository
	cache    StockCache
}

// NewService creates a new transfer service. cache may be nil.
func NewService(
	txManager tx.Manager,
	lots lot.Repository,
	products product.Repository,
	records Repository,
	cache StockCache,
) *Service {
	return &Service{
		tx:       txManager,
		lots:     lots,
		products: products,
		records:  records,
		cache:    cache,
	}
}

// Transfer moves quantity units of a product from warehouse to store,
// consuming lots oldest first. Total stock is untouched: the move is purely
// a reallocation between the derived warehouse/store split.
//
// Fails with INVALID_QUANTITY for quantity <= 0, NOT_FOUND for an unknown
// product, and INSUFFICIENT_WAREHOUSE_STOCK when quantity exceeds the
// stock re-read under lock. Any failure rolls back the whole transaction;
// no partial lot mutation is ever visible.
func (s *Service) Transfer(ctx context.Context, productID id.ID, quantity int64) (Result, error) {
	if quantity <= 0 {
		return Result{}, apperror.NewInvalidQuantity(quantity)
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return Result{}, err
	}

	var result Result
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		lots, err := s.lots.ListActiveForUpdate(ctx, productID)
		if err != nil {
			return fmt.Errorf("lock lots: %w", err)
		}

		// Availability is re-read under the lock; the projector's figures
		// are never trusted for a mutating decision.
		available := lot.TotalRemaining(lots)
		if quantity > available {
			return apperror.NewInsufficientWarehouseStock(productID.String(), quantity, available)
		}

		allocations, unfulfilled := fifo.Allocate(allocatorView(lots), quantity)
		if unfulfilled != 0 {
			return apperror.NewInternal(
				fmt.Errorf("allocator left %d unfulfilled with %d available", unfulfilled, available))
		}

		for _, a := range allocations {
			if err := s.lots.Consume(ctx, a.LotID, a.Quantity); err != nil {
				return fmt.Errorf("consume lot %s: %w", a.LotID, err)
			}
		}

		if err := s.records.Create(ctx, NewRecord(productID, quantity)); err != nil {
			return fmt.Errorf("append transfer record: %w", err)
		}

		result = Result{
			ProductID:        productID,
			QuantityMoved:    quantity,
			EmptiedWarehouse: available == quantity,
		}
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return Result{}, err
		}
		// Lock/transaction infrastructure failures are retryable: the
		// rollback left no partial state behind.
		return Result{}, apperror.NewTransientStorage(err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, productID)
	}

	logger.Info(ctx, "stock transferred to store",
		"product_id", productID,
		"quantity", result.QuantityMoved,
		"emptied_warehouse", result.EmptiedWarehouse,
	)

	return result, nil
}

// TransferKeeping is the reverse-input mode: remain is the quantity that
// should stay in the warehouse, and everything above it is moved.
//
// remain == 0 drains the warehouse; remain equal to the current stock is
// rejected as a no-op (NOTHING_TO_MOVE), distinct from a full drain; remain
// above the current stock would imply a negative move and is rejected.
func (s *Service) TransferKeeping(ctx context.Context, productID id.ID, remain int64) (Result, error) {
	if remain < 0 {
		return Result{}, apperror.NewInvalidQuantity(remain)
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return Result{}, err
	}

	current, err := s.lots.WarehouseStock(ctx, productID)
	if err != nil {
		return Result{}, fmt.Errorf("read warehouse stock: %w", err)
	}

	switch {
	case remain > current:
		return Result{}, apperror.NewValidation("cannot keep more than the current warehouse stock").
			WithDetail("requested_remain", remain).
			WithDetail("available", current)
	case remain == current:
		return Result{}, apperror.NewNothingToMove(productID.String(), current)
	}

	// Transfer re-validates under lock, so a concurrent change between the
	// read above and the lock acquisition surfaces as an insufficient-stock
	// rejection rather than an over-allocation.
	return s.Transfer(ctx, productID, current-remain)
}

func allocatorView(lots []lot.Lot) []fifo.Lot {
	view := make([]fifo.Lot, len(lots))
	for i, l := range lots {
		view[i] = fifo.Lot{ID: l.ID, Remaining: l.QuantityRemaining}
	}
	return view
}

// ListHistory returns transfer history records, newest first.
func (s *Service) ListHistory(ctx context.Context, filter ListFilter) ([]Record, error) {
	return s.records.List(ctx, filter)
}
