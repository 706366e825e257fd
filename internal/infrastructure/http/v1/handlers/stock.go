package handlers

import (
	"github.com/gin-gonic/gin"

	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/warehouse/projection"
	"almacen/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the derived warehouse/store stock projections.
type StockHandler struct {
	*BaseHandler
	projector *projection.Service
}

// NewStockHandler creates a new stock projection handler.
func NewStockHandler(base *BaseHandler, projector *projection.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		projector:   projector,
	}
}

// Get handles GET /products/:productId/stock
func (h *StockHandler) Get(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}

	proj, err := h.projector.Project(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProjection(proj))
}

// List handles GET /stock — the inventory list/search view.
func (h *StockHandler) List(c *gin.Context) {
	filter := product.ListFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	projections, err := h.projector.ProjectAll(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockResponse, len(projections))
	for i, p := range projections {
		items[i] = dto.FromProjection(p)
	}
	h.OK(c, dto.NewListResponse(items))
}
