package dto

import (
	"github.com/shopspring/decimal"

	"almacen/internal/domain/catalogs/product"
)

// ProductResponse is a catalog product as shown to the UI.
type ProductResponse struct {
	ID         string           `json:"id"`
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	CategoryID *string          `json:"categoryId,omitempty"`
	TotalStock int64            `json:"totalStock"`
	UnitWeight *decimal.Decimal `json:"unitWeight,omitempty"`
}

// FromProduct maps a catalog product to its response.
func FromProduct(p product.Product) ProductResponse {
	resp := ProductResponse{
		ID:         p.ID.String(),
		Code:       p.Code,
		Name:       p.Name,
		TotalStock: p.TotalStock,
		UnitWeight: p.UnitWeight,
	}
	if p.CategoryID != nil {
		s := p.CategoryID.String()
		resp.CategoryID = &s
	}
	return resp
}
