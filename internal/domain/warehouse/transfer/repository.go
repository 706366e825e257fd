package transfer

import (
	"context"
	"time"

	"almacen/internal/core/id"
)

// Repository persists the append-only transfer history.
type Repository interface {
	// Create appends one history record. Called inside the transfer
	// transaction so the record commits atomically with the lot decrements.
	Create(ctx context.Context, r *Record) error

	// List returns history records matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]Record, error)
}

// ListFilter narrows transfer history queries.
type ListFilter struct {
	ProductID *id.ID
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	Offset    int
}
