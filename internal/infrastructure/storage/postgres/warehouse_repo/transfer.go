package warehouse_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"almacen/internal/domain/warehouse/transfer"
	"almacen/internal/infrastructure/storage/postgres"
)

const transferRecordsTable = "transfer_records"

var transferRecordColumns = []string{"id", "product_id", "quantity_moved", "transferred_at"}

// Compile-time check that TransferRecordRepo implements transfer.Repository.
var _ transfer.Repository = (*TransferRecordRepo)(nil)

// TransferRecordRepo implements transfer.Repository.
// The table is append-only: no update or delete statements exist here.
type TransferRecordRepo struct {
	tx *postgres.TxManager
}

// NewTransferRecordRepo creates a new transfer history repository.
func NewTransferRecordRepo(tx *postgres.TxManager) *TransferRecordRepo {
	return &TransferRecordRepo{tx: tx}
}

func (r *TransferRecordRepo) Create(ctx context.Context, rec *transfer.Record) error {
	q := postgres.Builder().
		Insert(transferRecordsTable).
		Columns(transferRecordColumns...).
		Values(rec.ID, rec.ProductID, rec.QuantityMoved, rec.TransferredAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transfer record: %w", err)
	}
	return nil
}

func (r *TransferRecordRepo) List(ctx context.Context, filter transfer.ListFilter) ([]transfer.Record, error) {
	q := postgres.Builder().
		Select(transferRecordColumns...).
		From(transferRecordsTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"transferred_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"transferred_at": *filter.ToDate})
	}

	q = q.OrderBy("transferred_at DESC", "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []transfer.Record
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select transfer records: %w", err)
	}
	return records, nil
}
