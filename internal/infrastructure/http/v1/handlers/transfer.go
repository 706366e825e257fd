package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/warehouse/transfer"
	"almacen/internal/infrastructure/http/v1/dto"
)

// TransferHandler handles warehouse-to-store transfer requests and the
// transfer history view.
type TransferHandler struct {
	*BaseHandler
	service      *transfer.Service
	orchestrator *transfer.Orchestrator
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *transfer.Service, orchestrator *transfer.Orchestrator) *TransferHandler {
	return &TransferHandler{
		BaseHandler:  base,
		service:      service,
		orchestrator: orchestrator,
	}
}

// Create handles POST /transfers
// mode "move" (default) treats quantity as the amount to move; mode
// "remain" treats it as the amount that should stay in the warehouse.
func (h *TransferHandler) Create(c *gin.Context) {
	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	ctx := c.Request.Context()

	var result transfer.Result
	switch req.Mode {
	case dto.TransferModeRemain:
		result, err = h.service.TransferKeeping(ctx, productID, req.Quantity)
	default:
		result, err = h.service.Transfer(ctx, productID, req.Quantity)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTransferResult(result))
}

// CreateBulk handles POST /transfers/bulk
// Always returns 200 with the aggregate report; member failures are part
// of the report, not an HTTP error.
func (h *TransferHandler) CreateBulk(c *gin.Context) {
	var req dto.BulkTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if !req.All && len(req.ProductIDs) == 0 {
		h.Error(c, apperror.NewValidation("either all or productIds is required"))
		return
	}

	ctx := c.Request.Context()

	var (
		report transfer.Report
		err    error
	)
	if req.All {
		report, err = h.orchestrator.DrainAll(ctx)
	} else {
		productIDs := make([]id.ID, len(req.ProductIDs))
		for i, raw := range req.ProductIDs {
			parsed, parseErr := id.Parse(raw)
			if parseErr != nil {
				h.Error(c, apperror.NewValidation("invalid product id: "+raw))
				return
			}
			productIDs[i] = parsed
		}
		report, err = h.orchestrator.Drain(ctx, productIDs)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBulkReport(report))
}

// List handles GET /transfers — the transfer report view.
func (h *TransferHandler) List(c *gin.Context) {
	filter := transfer.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if pStr := c.Query("productId"); pStr != "" {
		parsed, err := id.Parse(pStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		filter.ProductID = &parsed
	}

	if fromStr := c.Query("fromDate"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid fromDate format, expected RFC3339"))
			return
		}
		filter.FromDate = &parsed
	}

	if toStr := c.Query("toDate"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid toDate format, expected RFC3339"))
			return
		}
		filter.ToDate = &parsed
	}

	records, err := h.service.ListHistory(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.TransferRecordResponse, len(records))
	for i, r := range records {
		items[i] = dto.FromTransferRecord(r)
	}
	h.OK(c, dto.NewListResponse(items))
}
