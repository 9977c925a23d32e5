package query

import (
	"context"
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/availability"
	"github.com/dropkit/storefront/internal/catalog/domain"
)

// GetAvailabilityQuery represents the query for a drop's availability map
type GetAvailabilityQuery struct {
	DropID string
}

// GetAvailabilityHandler handles get availability query
type GetAvailabilityHandler struct {
	repo  domain.ProductRepository
	marks domain.SoldMarkStore
}

// NewGetAvailabilityHandler creates a new get availability handler
func NewGetAvailabilityHandler(repo domain.ProductRepository, marks domain.SoldMarkStore) *GetAvailabilityHandler {
	return &GetAvailabilityHandler{repo: repo, marks: marks}
}

// Handle recomputes the id -> state map for one drop from the current
// snapshot. There is nothing cached to invalidate: every call derives the map
// from scratch, so a sale is visible on the next query.
func (h *GetAvailabilityHandler) Handle(ctx context.Context, q GetAvailabilityQuery) (map[string]domain.AvailabilityState, error) {
	if q.DropID == "" {
		return nil, fmt.Errorf("invalid drop id")
	}

	products, err := h.repo.FindByDrop(q.DropID)
	if err != nil {
		return nil, fmt.Errorf("failed to load drop %s: %w", q.DropID, err)
	}

	sold, err := h.marks.Map(ctx, productIDs(products))
	if err != nil {
		return nil, fmt.Errorf("failed to load sold marks: %w", err)
	}

	return availability.Compute(products, sold), nil
}
