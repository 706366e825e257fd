package transfer

import (
	"context"
	"fmt"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/warehouse/lot"
	"almacen/pkg/logger"
)

// Orchestrator drives the transfer service over a set of products, draining
// each one's warehouse stock as an independent transaction. One product's
// failure never stops or rolls back the rest; it is recorded and reported.
//
// One transaction per product keeps a lock held briefly on one product from
// ever blocking unrelated products, and limits a rollback's scope to that
// one product.
type Orchestrator struct {
	transfers *Service
	lots      lot.Repository
}

// NewOrchestrator creates a new bulk transfer orchestrator.
func NewOrchestrator(transfers *Service, lots lot.Repository) *Orchestrator {
	return &Orchestrator{
		transfers: transfers,
		lots:      lots,
	}
}

// DrainAll drains every product with warehouse stock > 0 at call time.
// Re-running after a successful run is a no-op unless new lots were
// ingested meanwhile.
func (o *Orchestrator) DrainAll(ctx context.Context) (Report, error) {
	targets, err := o.lots.ProductsWithStock(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("resolve targets: %w", err)
	}
	return o.drain(ctx, targets), nil
}

// Drain drains the supplied products, skipping those without warehouse
// stock. A product with zero stock is simply excluded from the target set,
// not reported as a failure.
func (o *Orchestrator) Drain(ctx context.Context, productIDs []id.ID) (Report, error) {
	withStock, err := o.lots.ProductsWithStock(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("resolve targets: %w", err)
	}

	requested := make(map[id.ID]struct{}, len(productIDs))
	for _, pid := range productIDs {
		requested[pid] = struct{}{}
	}

	targets := make([]lot.ProductStock, 0, len(productIDs))
	for _, t := range withStock {
		if _, ok := requested[t.ProductID]; ok {
			targets = append(targets, t)
		}
	}

	return o.drain(ctx, targets), nil
}

// drain folds the per-product outcomes into an immutable report. The stock
// snapshot may be stale by execution time; Transfer re-validates under lock
// and a shrunk product surfaces as one attributable member failure.
func (o *Orchestrator) drain(ctx context.Context, targets []lot.ProductStock) Report {
	report := Report{}

	for _, t := range targets {
		result, err := o.transfers.Transfer(ctx, t.ProductID, t.Quantity)
		if err != nil {
			appErr, _ := apperror.AsAppError(err)
			failure := Failure{ProductID: t.ProductID}
			if appErr != nil {
				failure.Code = appErr.Code
				failure.Message = appErr.Message
			} else {
				failure.Code = apperror.CodeInternal
				failure.Message = err.Error()
			}
			report.FailCount++
			report.Failures = append(report.Failures, failure)
			continue
		}

		report.SuccessCount++
		report.QuantityMoved += result.QuantityMoved
	}

	logger.Info(ctx, "bulk transfer finished",
		"targets", len(targets),
		"succeeded", report.SuccessCount,
		"failed", report.FailCount,
		"quantity_moved", report.QuantityMoved,
	)

	return report
}
