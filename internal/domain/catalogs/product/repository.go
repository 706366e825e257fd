package product

import (
	"context"

	"almacen/internal/core/id"
)

// Repository defines read access to the product catalog.
type Repository interface {
	// GetByID retrieves a product, returning apperror NOT_FOUND when the
	// id is unknown to the catalog.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// List returns catalog products matching the filter.
	List(ctx context.Context, filter ListFilter) ([]Product, error)
}

// ListFilter narrows catalog listings.
type ListFilter struct {
	// Search matches code or name (case-insensitive substring).
	Search string
	Limit  int
	Offset int
}
