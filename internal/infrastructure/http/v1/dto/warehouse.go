package dto

import (
	"time"

	"almacen/internal/domain/warehouse/lot"
	"almacen/internal/domain/warehouse/projection"
	"almacen/internal/domain/warehouse/transfer"
)

// --- Lots ---

// CreateLotRequest records newly received stock.
type CreateLotRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

// LotResponse is one lot in the FIFO audit view.
type LotResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"productId"`
	QuantityInitial   int64     `json:"quantityInitial"`
	QuantityRemaining int64     `json:"quantityRemaining"`
	IngestedAt        time.Time `json:"ingestedAt"`
	Exhausted         bool      `json:"exhausted"`
}

// FromLot maps a lot to its response.
func FromLot(l lot.Lot) LotResponse {
	return LotResponse{
		ID:                l.ID.String(),
		ProductID:         l.ProductID.String(),
		QuantityInitial:   l.QuantityInitial,
		QuantityRemaining: l.QuantityRemaining,
		IngestedAt:        l.IngestedAt,
		Exhausted:         l.Exhausted(),
	}
}

// --- Projections ---

// StockResponse is the derived warehouse/store split for one product.
type StockResponse struct {
	ProductID        string `json:"productId"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	StockInWarehouse int64  `json:"stockInWarehouse"`
	StockInStore     int64  `json:"stockInStore"`
	TotalStock       int64  `json:"totalStock"`
}

// FromProjection maps a projection to its response.
func FromProjection(p projection.Projection) StockResponse {
	return StockResponse{
		ProductID:        p.ProductID.String(),
		Code:             p.Code,
		Name:             p.Name,
		StockInWarehouse: p.StockInWarehouse,
		StockInStore:     p.StockInStore,
		TotalStock:       p.TotalStock,
	}
}

// --- Transfers ---

// Transfer input modes.
const (
	TransferModeMove   = "move"   // quantity is the amount to move
	TransferModeRemain = "remain" // quantity is the amount to keep in the warehouse
)

// TransferRequest asks for one single-product transfer.
type TransferRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity"`
	Mode      string `json:"mode" binding:"omitempty,oneof=move remain"`
}

// TransferResponse reports one completed transfer.
type TransferResponse struct {
	ProductID        string `json:"productId"`
	QuantityMoved    int64  `json:"quantityMoved"`
	EmptiedWarehouse bool   `json:"emptiedWarehouse"`
}

// FromTransferResult maps a transfer result to its response.
func FromTransferResult(r transfer.Result) TransferResponse {
	return TransferResponse{
		ProductID:        r.ProductID.String(),
		QuantityMoved:    r.QuantityMoved,
		EmptiedWarehouse: r.EmptiedWarehouse,
	}
}

// BulkTransferRequest asks for a batch drain. Either All is set or
// ProductIDs names the subset to drain.
type BulkTransferRequest struct {
	All        bool     `json:"all"`
	ProductIDs []string `json:"productIds" binding:"omitempty,dive,uuid"`
}

// BulkFailureResponse attributes one member failure.
type BulkFailureResponse struct {
	ProductID string `json:"productId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// BulkTransferResponse is the aggregate report of a batch drain.
type BulkTransferResponse struct {
	SuccessCount  int                   `json:"successCount"`
	FailCount     int                   `json:"failCount"`
	QuantityMoved int64                 `json:"quantityMoved"`
	Failures      []BulkFailureResponse `json:"failures"`
}

// FromBulkReport maps a bulk report to its response.
func FromBulkReport(r transfer.Report) BulkTransferResponse {
	failures := make([]BulkFailureResponse, len(r.Failures))
	for i, f := range r.Failures {
		failures[i] = BulkFailureResponse{
			ProductID: f.ProductID.String(),
			Code:      f.Code,
			Message:   f.Message,
		}
	}
	return BulkTransferResponse{
		SuccessCount:  r.SuccessCount,
		FailCount:     r.FailCount,
		QuantityMoved: r.QuantityMoved,
		Failures:      failures,
	}
}

// TransferRecordResponse is one history entry.
type TransferRecordResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	QuantityMoved int64     `json:"quantityMoved"`
	TransferredAt time.Time `json:"transferredAt"`
}

// FromTransferRecord maps a history record to its response.
func FromTransferRecord(r transfer.Record) TransferRecordResponse {
	return TransferRecordResponse{
		ID:            r.ID.String(),
		ProductID:     r.ProductID.String(),
		QuantityMoved: r.QuantityMoved,
		TransferredAt: r.TransferredAt,
	}
}
