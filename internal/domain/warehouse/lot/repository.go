package lot

import (
	"context"

	"almacen/internal/core/id"
)

// Repository is the only component that reads or writes lot rows.
type Repository interface {
	// Create inserts a new lot (stock physically received).
	Create(ctx context.Context, l *Lot) error

	// ListByProduct returns a product's lots ordered by ingestion time
	// ascending. Exhausted lots are excluded unless includeEmpty is set.
	ListByProduct(ctx context.Context, productID id.ID, includeEmpty bool) ([]Lot, error)

	// ListActiveForUpdate returns lots with quantity remaining, oldest
	// first, locking the rows exclusively for the current transaction
	// (SELECT ... FOR UPDATE). Must be called inside a transaction.
	ListActiveForUpdate(ctx context.Context, productID id.ID) ([]Lot, error)

	// Consume decrements a lot's remaining quantity. Fails if the lot does
	// not hold at least the requested quantity, so a remaining quantity can
	// never go negative even under a buggy caller.
	Consume(ctx context.Context, lotID id.ID, quantity int64) error

	// WarehouseStock sums the remaining quantity across a product's lots.
	WarehouseStock(ctx context.Context, productID id.ID) (int64, error)

	// ProductsWithStock returns every product holding warehouse stock > 0
	// with its current sum, ordered by product id.
	ProductsWithStock(ctx context.Context) ([]ProductStock, error)
}
