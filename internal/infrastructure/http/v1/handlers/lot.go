package handlers

import (
	"github.com/gin-gonic/gin"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/warehouse/lot"
	"almacen/internal/infrastructure/http/v1/dto"
)

// LotHandler handles lot ingestion and the FIFO audit view.
type LotHandler struct {
	*BaseHandler
	service *lot.Service
}

// NewLotHandler creates a new lot handler.
func NewLotHandler(base *BaseHandler, service *lot.Service) *LotHandler {
	return &LotHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /lots — the purchasing workflow's entry point when
// new stock physically arrives.
func (h *LotHandler) Create(c *gin.Context) {
	var req dto.CreateLotRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	created, err := h.service.Ingest(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, created.ID.String())
}

// ListByProduct handles GET /products/:productId/lots
// Returns lots oldest first; includeEmpty=true keeps exhausted lots for
// the audit view.
func (h *LotHandler) ListByProduct(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "productId")
	if !ok {
		return
	}

	includeEmpty := c.Query("includeEmpty") == "true"

	lots, err := h.service.ListByProduct(c.Request.Context(), productID, includeEmpty)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.LotResponse, len(lots))
	for i, l := range lots {
		items[i] = dto.FromLot(l)
	}
	h.OK(c, dto.NewListResponse(items))
}
