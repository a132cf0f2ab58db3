package fulfillment

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Candidate is a partner eligible to fulfill part of an order,
// paired with the availability observed when the ranking was computed.
type Candidate struct {
	PartnerID         uuid.UUID
	AvailableQuantity int
	LastAllocatedAt   *time.Time
	Version           int
}

// RankCandidates orders partners for allocation. The ranking is a pure
// function of the given snapshot, so identical inputs always produce the
// same order (retries and tests are reproducible):
//
//  1. Only active partners with availability > 0 are candidates.
//  2. last_allocated_at ascending, never-allocated (nil) first - the
//     partner who has waited longest since their last allocation goes first.
//  3. Ties broken by availability descending, so among equally due partners
//     the one with more stock absorbs larger orders.
//  4. Remaining ties broken by partner ID for full determinism.
//
// There is no persisted rotation pointer: recomputing from current state
// self-heals when partners are activated or deactivated between orders.
func RankCandidates(partners []FulfillmentPartner, inventories []PartnerInventory) []Candidate {
	available := make(map[uuid.UUID]*PartnerInventory, len(inventories))
	for i := range inventories {
		available[inventories[i].PartnerID] = &inventories[i]
	}

	candidates := make([]Candidate, 0, len(partners))
	for _, p := range partners {
		if !p.IsActive {
			continue
		}
		inv, ok := available[p.ID]
		if !ok || inv.RemainingQuantity <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			PartnerID:         p.ID,
			AvailableQuantity: inv.RemainingQuantity,
			LastAllocatedAt:   p.LastAllocatedAt,
			Version:           inv.Version,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if before, decided := compareLastAllocated(ca.LastAllocatedAt, cb.LastAllocatedAt); decided {
			return before
		}
		if ca.AvailableQuantity != cb.AvailableQuantity {
			return ca.AvailableQuantity > cb.AvailableQuantity
		}
		return ca.PartnerID.String() < cb.PartnerID.String()
	})

	return candidates
}

// compareLastAllocated reports whether a sorts before b, treating nil as
// older than any timestamp. The second return value is false when the two
// are equal and the tie-break should decide.
func compareLastAllocated(a, b *time.Time) (bool, bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return true, true
	case b == nil:
		return false, true
	case a.Equal(*b):
		return false, false
	default:
		return a.Before(*b), true
	}
}
