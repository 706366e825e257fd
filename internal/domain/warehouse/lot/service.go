package lot

import (
	"context"
	"fmt"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/catalogs/product"
	"almacen/pkg/logger"
)

// StockCache invalidates cached stock projections after a mutation.
type StockCache interface {
	Invalidate(ctx context.Context, productID id.ID)
}

// Service handles lot ingestion and audit listings.
// Ingestion is triggered by the purchasing workflow whenever new stock
// physically arrives at the warehouse.
type Service struct {
	repo     Repository
	products product.Repository
	cache    StockCache
}

// NewService creates a new lot service. cache may be nil.
func NewService(repo Repository, products product.Repository, cache StockCache) *Service {
	return &Service{
		repo:     repo,
		products: products,
		cache:    cache,
	}
}

// Ingest records a new lot with ingestion time now.
func (s *Service) Ingest(ctx context.Context, productID id.ID, quantity int64) (*Lot, error) {
	if quantity <= 0 {
		return nil, apperror.NewInvalidQuantity(quantity)
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	l := New(productID, quantity)
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, productID)
	}

	logger.Info(ctx, "lot ingested",
		"lot_id", l.ID,
		"product_id", productID,
		"quantity", quantity,
	)

	return l, nil
}

// ListByProduct returns a product's lots oldest first, for the
// "lots in warehouse, FIFO order" audit view.
func (s *Service) ListByProduct(ctx context.Context, productID id.ID, includeEmpty bool) ([]Lot, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListByProduct(ctx, productID, includeEmpty)
}
