// Package fifo implements oldest-first lot allocation.
//
// The allocator is a pure function: it decides how much to take from each
// lot but performs no I/O. Callers are responsible for persisting the
// resulting decrements.
package fifo

import (
	"almacen/internal/core/id"
)

// Lot is the allocator's view of a warehouse lot.
type Lot struct {
	ID        id.ID
	Remaining int64
}

// Allocation is a decision to take Quantity units from one lot.
type Allocation struct {
	LotID    id.ID
	Quantity int64
}

// Allocate walks lots (which must be ordered oldest first) taking from each
// until requested units are covered or lots run out. It returns the per-lot
// allocations in consumption order and the quantity left unfulfilled.
//
// Lots with nothing remaining are skipped, never allocated from. The sum of
// allocated quantities always equals requested minus unfulfilled.
func Allocate(lots []Lot, requested int64) ([]Allocation, int64) {
	if requested <= 0 {
		return nil, 0
	}

	var allocations []Allocation
	remaining := requested

	for _, l := range lots {
		if remaining == 0 {
			break
		}
		if l.Remaining <= 0 {
			continue
		}

		take := l.Remaining
		if remaining < take {
			take = remaining
		}

		allocations = append(allocations, Allocation{LotID: l.ID, Quantity: take})
		remaining -= take
	}

	return allocations, remaining
}
