// Package warehousetest provides an in-memory store implementing the
// engine's repository and transaction interfaces, so service behavior
// (locking, rollback, FIFO consumption) is testable without a database.
//
// The transaction manager serializes transactions behind a lock and snapshots
// the store on entry; an error from the transaction body restores the
// snapshot, reproducing all-or-nothing commit semantics.
package warehousetest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/warehouse/lot"
	"almacen/internal/domain/warehouse/transfer"
)

// Store is an in-memory warehouse state with transactional views.
type Store struct {
	mu sync.Mutex

	products map[id.ID]product.Product
	lots     []lot.Lot
	records  []transfer.Record

	// FailConsumeAfter injects a one-shot storage error once that many
	// Consume calls have succeeded. -1 disables it.
	FailConsumeAfter int
	consumeCalls     int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products:         make(map[id.ID]product.Product),
		FailConsumeAfter: -1,
	}
}

// AddProduct seeds a catalog product.
func (s *Store) AddProduct(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// AddLot seeds a lot directly, bypassing the ingestion service.
func (s *Store) AddLot(l lot.Lot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots = append(s.lots, l)
}

// Records returns a copy of the transfer history.
func (s *Store) Records() []transfer.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]transfer.Record, len(s.records))
	copy(out, s.records)
	return out
}

// LotByID returns a copy of one lot.
func (s *Store) LotByID(lotID id.ID) (lot.Lot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lots {
		if l.ID == lotID {
			return l, true
		}
	}
	return lot.Lot{}, false
}

// TotalAcrossLots sums remaining quantities for a product.
func (s *Store) TotalAcrossLots(productID id.ID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warehouseStockLocked(productID)
}

func (s *Store) warehouseStockLocked(productID id.ID) int64 {
	var total int64
	for _, l := range s.lots {
		if l.ProductID == productID {
			total += l.QuantityRemaining
		}
	}
	return total
}

// --- transaction manager ---

type txKey struct{}

type snapshot struct {
	lots    []lot.Lot
	records []transfer.Record
}

// TxManager implements tx.Manager over the store.
type TxManager struct {
	store *Store
}

// Tx returns a transaction manager bound to the store.
func (s *Store) Tx() *TxManager {
	return &TxManager{store: s}
}

// RunInTransaction serializes with other transactions and restores the
// pre-transaction state when fn fails.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := snapshot{
		lots:    append([]lot.Lot(nil), m.store.lots...),
		records: append([]transfer.Record(nil), m.store.records...),
	}

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		m.store.lots = snap.lots
		m.store.records = snap.records
		return err
	}
	return nil
}

// acquire locks the store unless the context already runs inside a
// transaction, which holds the lock for its whole duration.
func (s *Store) acquire(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// --- lot.Repository ---

// LotRepo is the in-memory lot repository view.
type LotRepo struct {
	store *Store
}

// Lots returns the lot repository view of the store.
func (s *Store) Lots() *LotRepo {
	return &LotRepo{store: s}
}

func (r *LotRepo) Create(ctx context.Context, l *lot.Lot) error {
	defer r.store.acquire(ctx)()
	r.store.lots = append(r.store.lots, *l)
	return nil
}

func (r *LotRepo) ListByProduct(ctx context.Context, productID id.ID, includeEmpty bool) ([]lot.Lot, error) {
	defer r.store.acquire(ctx)()
	return r.store.listLocked(productID, includeEmpty), nil
}

func (r *LotRepo) ListActiveForUpdate(ctx context.Context, productID id.ID) ([]lot.Lot, error) {
	defer r.store.acquire(ctx)()
	return r.store.listLocked(productID, false), nil
}

func (s *Store) listLocked(productID id.ID, includeEmpty bool) []lot.Lot {
	var out []lot.Lot
	for _, l := range s.lots {
		if l.ProductID != productID {
			continue
		}
		if !includeEmpty && l.QuantityRemaining == 0 {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IngestedAt.Before(out[j].IngestedAt)
	})
	return out
}

func (r *LotRepo) Consume(ctx context.Context, lotID id.ID, quantity int64) error {
	defer r.store.acquire(ctx)()

	if r.store.FailConsumeAfter >= 0 && r.store.consumeCalls >= r.store.FailConsumeAfter {
		r.store.FailConsumeAfter = -1
		return apperror.NewTransientStorage(errInjected)
	}

	for i := range r.store.lots {
		if r.store.lots[i].ID != lotID {
			continue
		}
		if r.store.lots[i].QuantityRemaining < quantity {
			return apperror.NewInternal(errOverdraft)
		}
		r.store.lots[i].QuantityRemaining -= quantity
		r.store.consumeCalls++
		return nil
	}
	return apperror.NewNotFound("lot", lotID)
}

func (r *LotRepo) WarehouseStock(ctx context.Context, productID id.ID) (int64, error) {
	defer r.store.acquire(ctx)()
	return r.store.warehouseStockLocked(productID), nil
}

func (r *LotRepo) ProductsWithStock(ctx context.Context) ([]lot.ProductStock, error) {
	defer r.store.acquire(ctx)()

	totals := make(map[id.ID]int64)
	for _, l := range r.store.lots {
		totals[l.ProductID] += l.QuantityRemaining
	}

	var out []lot.ProductStock
	for pid, qty := range totals {
		if qty > 0 {
			out = append(out, lot.ProductStock{ProductID: pid, Quantity: qty})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out, nil
}

// --- product.Repository ---

// ProductRepo is the in-memory product catalog view.
type ProductRepo struct {
	store *Store
}

// Products returns the catalog repository view of the store.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{store: s}
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	defer r.store.acquire(ctx)()
	p, ok := r.store.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	defer r.store.acquire(ctx)()

	var out []product.Product
	for _, p := range r.store.products {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Code), needle) &&
				!strings.Contains(strings.ToLower(p.Name), needle) {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// --- transfer.Repository ---

// RecordRepo is the in-memory transfer history view.
type RecordRepo struct {
	store *Store
}

// TransferRecords returns the history repository view of the store.
func (s *Store) TransferRecords() *RecordRepo {
	return &RecordRepo{store: s}
}

func (r *RecordRepo) Create(ctx context.Context, rec *transfer.Record) error {
	defer r.store.acquire(ctx)()
	r.store.records = append(r.store.records, *rec)
	return nil
}

func (r *RecordRepo) List(ctx context.Context, filter transfer.ListFilter) ([]transfer.Record, error) {
	defer r.store.acquire(ctx)()

	var out []transfer.Record
	for _, rec := range r.store.records {
		if filter.ProductID != nil && rec.ProductID != *filter.ProductID {
			continue
		}
		if filter.FromDate != nil && rec.TransferredAt.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && rec.TransferredAt.After(*filter.ToDate) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransferredAt.After(out[j].TransferredAt)
	})
	return out, nil
}

var (
	errInjected  = &injectedError{}
	errOverdraft = &overdraftError{}
)

type injectedError struct{}

func (*injectedError) Error() string { return "injected storage failure" }

type overdraftError struct{}

func (*overdraftError) Error() string { return "lot overdraft" }
