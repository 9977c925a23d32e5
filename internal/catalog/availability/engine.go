// Package availability derives the effective purchasability of every product
// in a catalog snapshot. Products belong to a drop and carry a level; a level
// only unlocks once every product at every lower level of the same drop has
// sold out. The computation is a pure function of (snapshot, sold projection):
// there is no memoization and no mutation of the inputs.
package availability

import (
	"github.com/dropkit/storefront/internal/catalog/domain"
)

// Compute returns the availability state for every product in the snapshot.
// The sold map is the external id -> sold projection; a nil map is treated as
// "nothing marked sold". Calling Compute twice with identical inputs always
// yields identical output.
func Compute(products []domain.Product, sold map[string]bool) map[string]domain.AvailabilityState {
	states := make(map[string]domain.AvailabilityState, len(products))
	byDrop := partition(products)

	for i := range products {
		p := &products[i]
		switch {
		case isSoldOut(p, sold):
			// A product's own sold state wins over everything, including a
			// lock it would otherwise sit behind.
			states[p.ID] = domain.StateSoldOut
		case p.Blocked:
			states[p.ID] = domain.StateLocked
		case lockedBySequence(p, byDrop[p.DropID], sold):
			states[p.ID] = domain.StateLocked
		default:
			states[p.ID] = domain.StateAvailable
		}
	}

	return states
}

// StateOf computes the state of a single product against its drop siblings.
func StateOf(product domain.Product, siblings []domain.Product, sold map[string]bool) domain.AvailabilityState {
	all := siblings
	if !contains(all, product.ID) {
		all = append(append([]domain.Product{}, siblings...), product)
	}
	return Compute(all, sold)[product.ID]
}

// UnlockLevel returns the lowest level of the product's drop that still has an
// unsold unit below the product, i.e. the cohort currently holding it locked.
// It returns 0 when nothing below the product blocks it.
func UnlockLevel(product domain.Product, siblings []domain.Product, sold map[string]bool) int {
	level := clampLevel(product.Level)
	if level <= 1 {
		return 0
	}
	blocking := 0
	for i := range siblings {
		s := &siblings[i]
		if s.ID == product.ID || s.DropID != product.DropID {
			continue
		}
		sLevel := clampLevel(s.Level)
		if sLevel >= level || isSoldOut(s, sold) {
			continue
		}
		if blocking == 0 || sLevel < blocking {
			blocking = sLevel
		}
	}
	return blocking
}

// lockedBySequence applies the cohort rule: a product at level N is locked
// unless every product at every level below N in the same drop is sold out.
// Level-1 products are never locked by sequencing.
func lockedBySequence(p *domain.Product, dropSiblings []domain.Product, sold map[string]bool) bool {
	level := clampLevel(p.Level)
	if level <= 1 {
		return false
	}
	for i := range dropSiblings {
		s := &dropSiblings[i]
		if s.ID == p.ID {
			continue
		}
		if clampLevel(s.Level) < level && !isSoldOut(s, sold) {
			return true
		}
	}
	return false
}

func isSoldOut(p *domain.Product, sold map[string]bool) bool {
	return sold[p.ID] || p.Unavailable()
}

// clampLevel guards against malformed levels that slipped past normalization.
func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	return level
}

func partition(products []domain.Product) map[string][]domain.Product {
	byDrop := make(map[string][]domain.Product)
	for _, p := range products {
		byDrop[p.DropID] = append(byDrop[p.DropID], p)
	}
	return byDrop
}

func contains(products []domain.Product, id string) bool {
	for i := range products {
		if products[i].ID == id {
			return true
		}
	}
	return false
}
