// Package product provides the read-only boundary to the product catalog.
// The catalog is owned by the surrounding retail application; this engine
// references products by id and never mutates them. In particular TotalStock
// is the single source of truth for how many units exist anywhere and is
// only ever changed by the sales/purchase workflows.
package product

import (
	"github.com/shopspring/decimal"

	"almacen/internal/core/id"
)

// Product is a catalog item as seen by the warehouse engine.
type Product struct {
	ID         id.ID  `db:"id" json:"id"`
	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`
	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	// TotalStock counts units across warehouse and store combined.
	TotalStock int64 `db:"total_stock" json:"totalStock"`

	// UnitWeight in kg, for logistics display.
	UnitWeight *decimal.Decimal `db:"unit_weight" json:"unitWeight,omitempty"`
}
