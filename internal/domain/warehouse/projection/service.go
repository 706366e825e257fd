// Package projection computes the derived warehouse/store stock split.
//
// The projector is read-only and takes no locks: eventual consistency is
// acceptable for display, and the transfer service re-validates under lock
// regardless, so the projector is never the source of truth for a mutating
// decision.
package projection

import (
	"context"
	"fmt"

	"almacen/internal/core/id"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/warehouse/lot"
)

// Projection is the derived stock split for one product.
// StockInStore is total minus warehouse by design; the split always sums
// back to the catalog's total.
type Projection struct {
	ProductID        id.ID  `json:"productId"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	StockInWarehouse int64  `json:"stockInWarehouse"`
	StockInStore     int64  `json:"stockInStore"`
	TotalStock       int64  `json:"totalStock"`
}

// Cache is an optional store for single-product projections.
// Implementations decide TTL; mutations invalidate through the lot and
// transfer services.
type Cache interface {
	Get(ctx context.Context, productID id.ID) (*Projection, bool)
	Set(ctx context.Context, p Projection)
}

// Service is the stock projector.
type Service struct {
	products product.Repository
	lots     lot.Repository
	cache    Cache
}

// NewService creates a new projector. cache may be nil.
func NewService(products product.Repository, lots lot.Repository, cache Cache) *Service {
	return &Service{
		products: products,
		lots:     lots,
		cache:    cache,
	}
}

// Project returns the stock split for one product.
func (s *Service) Project(ctx context.Context, productID id.ID) (Projection, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, productID); ok {
			return *cached, nil
		}
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Projection{}, err
	}

	warehouseStock, err := s.lots.WarehouseStock(ctx, productID)
	if err != nil {
		return Projection{}, fmt.Errorf("warehouse stock: %w", err)
	}

	proj := project(p, warehouseStock)
	if s.cache != nil {
		s.cache.Set(ctx, proj)
	}
	return proj, nil
}

// ProjectAll returns stock splits for catalog products matching the filter,
// for the inventory list/search view.
func (s *Service) ProjectAll(ctx context.Context, filter product.ListFilter) ([]Projection, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	stocks, err := s.lots.ProductsWithStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("warehouse stocks: %w", err)
	}

	byProduct := make(map[id.ID]int64, len(stocks))
	for _, st := range stocks {
		byProduct[st.ProductID] = st.Quantity
	}

	projections := make([]Projection, len(products))
	for i, p := range products {
		projections[i] = project(&p, byProduct[p.ID])
	}
	return projections, nil
}

func project(p *product.Product, warehouseStock int64) Projection {
	return Projection{
		ProductID:        p.ID,
		Code:             p.Code,
		Name:             p.Name,
		StockInWarehouse: warehouseStock,
		StockInStore:     p.TotalStock - warehouseStock,
		TotalStock:       p.TotalStock,
	}
}
