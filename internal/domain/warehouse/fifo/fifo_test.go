package fifo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"almacen/internal/core/id"
)

func TestAllocate(t *testing.T) {
	lot1 := id.New()
	lot2 := id.New()
	lot3 := id.New()

	tests := []struct {
		name            string
		lots            []Lot
		requested       int64
		wantAllocations []Allocation
		wantUnfulfilled int64
	}{
		{
			name:            "single lot exact fit",
			lots:            []Lot{{ID: lot1, Remaining: 5}},
			requested:       5,
			wantAllocations: []Allocation{{LotID: lot1, Quantity: 5}},
		},
		{
			name:            "partial take from oldest",
			lots:            []Lot{{ID: lot1, Remaining: 5}, {ID: lot2, Remaining: 3}},
			requested:       2,
			wantAllocations: []Allocation{{LotID: lot1, Quantity: 2}},
		},
		{
			name:      "spans lots oldest first",
			lots:      []Lot{{ID: lot1, Remaining: 5}, {ID: lot2, Remaining: 3}},
			requested: 6,
			wantAllocations: []Allocation{
				{LotID: lot1, Quantity: 5},
				{LotID: lot2, Quantity: 1},
			},
		},
		{
			name:      "skips exhausted lots",
			lots:      []Lot{{ID: lot1, Remaining: 0}, {ID: lot2, Remaining: 4}, {ID: lot3, Remaining: 0}},
			requested: 4,
			wantAllocations: []Allocation{
				{LotID: lot2, Quantity: 4},
			},
		},
		{
			name:      "lots run out",
			lots:      []Lot{{ID: lot1, Remaining: 2}, {ID: lot2, Remaining: 3}},
			requested: 10,
			wantAllocations: []Allocation{
				{LotID: lot1, Quantity: 2},
				{LotID: lot2, Quantity: 3},
			},
			wantUnfulfilled: 5,
		},
		{
			name:            "zero requested",
			lots:            []Lot{{ID: lot1, Remaining: 5}},
			requested:       0,
			wantAllocations: nil,
		},
		{
			name:            "no lots",
			lots:            nil,
			requested:       3,
			wantAllocations: nil,
			wantUnfulfilled: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocations, unfulfilled := Allocate(tt.lots, tt.requested)

			assert.Equal(t, tt.wantAllocations, allocations)
			assert.Equal(t, tt.wantUnfulfilled, unfulfilled)

			// The allocated total always accounts for the whole request.
			var taken int64
			for _, a := range allocations {
				taken += a.Quantity
			}
			if tt.requested > 0 {
				assert.Equal(t, tt.requested-unfulfilled, taken)
			}
		})
	}
}

func TestAllocate_NeverTakesFromNewerWhileOlderSurvives(t *testing.T) {
	lots := []Lot{
		{ID: id.New(), Remaining: 4},
		{ID: id.New(), Remaining: 4},
		{ID: id.New(), Remaining: 4},
	}

	allocations, unfulfilled := Allocate(lots, 7)

	assert.Zero(t, unfulfilled)
	// A later lot is only touched once every earlier lot is fully taken.
	for i, a := range allocations[:len(allocations)-1] {
		assert.Equal(t, lots[i].Remaining, a.Quantity, "lot %d must be drained before the next", i)
	}
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	lots := []Lot{{ID: id.New(), Remaining: 5}, {ID: id.New(), Remaining: 3}}

	_, _ = Allocate(lots, 6)

	assert.Equal(t, int64(5), lots[0].Remaining)
	assert.Equal(t, int64(3), lots[1].Remaining)
}
