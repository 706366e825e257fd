package handlers

import (
	"github.com/gin-gonic/gin"

	"almacen/internal/domain/catalogs/product"
	"almacen/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the read-only catalog passthrough used by the UI.
type ProductHandler struct {
	*BaseHandler
	repo product.Repository
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, repo product.Repository) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		repo:        repo,
	}
}

// Get handles GET /products/:productId
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}

	p, err := h.repo.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(*p))
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	filter := product.ListFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	products, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		items[i] = dto.FromProduct(p)
	}
	h.OK(c, dto.NewListResponse(items))
}
