// Package warehouse_repo implements the warehouse engine's repositories
// over PostgreSQL.
package warehouse_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/warehouse/lot"
	"almacen/internal/infrastructure/storage/postgres"
)

const lotsTable = "lots"

var lotColumns = []string{"id", "product_id", "quantity_initial", "quantity_remaining", "ingested_at"}

// Compile-time check that LotRepo implements lot.Repository.
var _ lot.Repository = (*LotRepo)(nil)

// LotRepo implements lot.Repository.
type LotRepo struct {
	tx *postgres.TxManager
}

// NewLotRepo creates a new lot repository.
func NewLotRepo(tx *postgres.TxManager) *LotRepo {
	return &LotRepo{tx: tx}
}

func (r *LotRepo) Create(ctx context.Context, l *lot.Lot) error {
	q := postgres.Builder().
		Insert(lotsTable).
		Columns(lotColumns...).
		Values(l.ID, l.ProductID, l.QuantityInitial, l.QuantityRemaining, l.IngestedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) ListByProduct(ctx context.Context, productID id.ID, includeEmpty bool) ([]lot.Lot, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"product_id": productID})

	if !includeEmpty {
		q = q.Where(squirrel.Gt{"quantity_remaining": 0})
	}

	return r.selectLots(ctx, q)
}

// ListActiveForUpdate locks the product's live lot rows for the current
// transaction; a concurrent transfer for the same product blocks here until
// this transaction commits or rolls back.
func (r *LotRepo) ListActiveForUpdate(ctx context.Context, productID id.ID) ([]lot.Lot, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Gt{"quantity_remaining": 0}).
		Suffix("FOR UPDATE")

	return r.selectLots(ctx, q)
}

func (r *LotRepo) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(lotColumns...).
		From(lotsTable).
		OrderBy("ingested_at ASC", "id ASC")
}

func (r *LotRepo) selectLots(ctx context.Context, q squirrel.SelectBuilder) ([]lot.Lot, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lots []lot.Lot
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &lots, sql, args...); err != nil {
		return nil, fmt.Errorf("select lots: %w", err)
	}
	return lots, nil
}

// Consume decrements a lot's remaining quantity. The guard in the WHERE
// clause keeps quantity_remaining from ever going negative regardless of
// caller bugs; zero affected rows means the lot shrank or vanished.
func (r *LotRepo) Consume(ctx context.Context, lotID id.ID, quantity int64) error {
	q := postgres.Builder().
		Update(lotsTable).
		Set("quantity_remaining", squirrel.Expr("quantity_remaining - ?", quantity)).
		Where(squirrel.Eq{"id": lotID}).
		Where(squirrel.GtOrEq{"quantity_remaining": quantity})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewInternal(
			fmt.Errorf("lot %s does not hold %d units", lotID, quantity))
	}
	return nil
}

func (r *LotRepo) WarehouseStock(ctx context.Context, productID id.ID) (int64, error) {
	q := postgres.Builder().
		Select("COALESCE(SUM(quantity_remaining), 0)").
		From(lotsTable).
		Where(squirrel.Eq{"product_id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total int64
	if err := r.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum lots: %w", err)
	}
	return total, nil
}

func (r *LotRepo) ProductsWithStock(ctx context.Context) ([]lot.ProductStock, error) {
	q := postgres.Builder().
		Select("product_id", "SUM(quantity_remaining) AS quantity").
		From(lotsTable).
		GroupBy("product_id").
		Having("SUM(quantity_remaining) > 0").
		OrderBy("product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var stocks []lot.ProductStock
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &stocks, sql, args...); err != nil {
		return nil, fmt.Errorf("select stocks: %w", err)
	}
	return stocks, nil
}
