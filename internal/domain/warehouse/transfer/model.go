// Package transfer moves stock from the warehouse to the storefront by
// consuming lots in FIFO order. A transfer changes the warehouse/store
// split of a product, never its total stock.
package transfer

import (
	"time"

	"almacen/internal/core/id"
)

// Record is the append-only history entry for one successful
// single-product transfer. One record is written per transfer even when
// several lots were consumed. Records are never mutated or deleted.
type Record struct {
	ID            id.ID     `db:"id" json:"id"`
	ProductID     id.ID     `db:"product_id" json:"productId"`
	QuantityMoved int64     `db:"quantity_moved" json:"quantityMoved"`
	TransferredAt time.Time `db:"transferred_at" json:"transferredAt"`
}

// NewRecord creates a history record timestamped now.
func NewRecord(productID id.ID, quantityMoved int64) *Record {
	return &Record{
		ID:            id.New(),
		ProductID:     productID,
		QuantityMoved: quantityMoved,
		TransferredAt: time.Now().UTC(),
	}
}

// Result reports one completed transfer.
type Result struct {
	ProductID     id.ID `json:"productId"`
	QuantityMoved int64 `json:"quantityMoved"`

	// EmptiedWarehouse is true iff the post-transfer warehouse stock for
	// the product is exactly zero.
	EmptiedWarehouse bool `json:"emptiedWarehouse"`
}

// Failure attributes one bulk member's rejection.
type Failure struct {
	ProductID id.ID  `json:"productId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Report aggregates the independent per-product outcomes of a bulk
// transfer. Partial failure is an expected, reportable outcome, never fatal
// to the batch.
type Report struct {
	SuccessCount  int       `json:"successCount"`
	FailCount     int       `json:"failCount"`
	QuantityMoved int64     `json:"quantityMoved"`
	Failures      []Failure `json:"failures"`
}
