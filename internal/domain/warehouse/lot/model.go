// Package lot provides the warehouse lot ledger: discrete, timestamped
// batches of a product received into the warehouse. Lots are the atomic unit
// FIFO consumption operates on.
package lot

import (
	"time"

	"almacen/internal/core/id"
)

// Lot is one batch of a product that entered the warehouse at one point
// in time.
//
// QuantityRemaining only ever decreases after creation, and never below
// zero. A lot with QuantityRemaining == 0 is exhausted; it is retained for
// audit history, not deleted.
type Lot struct {
	ID        id.ID `db:"id" json:"id"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// QuantityInitial is the quantity the lot was created with.
	QuantityInitial int64 `db:"quantity_initial" json:"quantityInitial"`

	// QuantityRemaining never exceeds QuantityInitial.
	QuantityRemaining int64 `db:"quantity_remaining" json:"quantityRemaining"`

	// IngestedAt is assigned at creation and immutable; FIFO consumption
	// orders lots by it, ascending.
	IngestedAt time.Time `db:"ingested_at" json:"ingestedAt"`
}

// New creates a lot for freshly received stock.
func New(productID id.ID, quantity int64) *Lot {
	return &Lot{
		ID:                id.New(),
		ProductID:         productID,
		QuantityInitial:   quantity,
		QuantityRemaining: quantity,
		IngestedAt:        time.Now().UTC(),
	}
}

// Exhausted reports whether the lot has been fully consumed.
func (l *Lot) Exhausted() bool {
	return l.QuantityRemaining == 0
}

// TotalRemaining sums the remaining quantity across lots, i.e. the
// warehouse stock represented by the slice.
func TotalRemaining(lots []Lot) int64 {
	var total int64
	for _, l := range lots {
		total += l.QuantityRemaining
	}
	return total
}

// ProductStock is a per-product warehouse stock aggregate.
type ProductStock struct {
	ProductID id.ID `db:"product_id" json:"productId"`
	Quantity  int64 `db:"quantity" json:"quantity"`
}
