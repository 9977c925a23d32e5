package query

import (
	"context"
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/availability"
	"github.com/dropkit/storefront/internal/catalog/domain"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID string
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo  domain.ProductRepository
	marks domain.SoldMarkStore
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository, marks domain.SoldMarkStore) *GetProductHandler {
	return &GetProductHandler{repo: repo, marks: marks}
}

// Handle executes the get product query. A missing product returns
// domain.ErrProductNotFound; a locked or blocked product is not an error, the
// view carries its state and the level holding it back.
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*ProductView, error) {
	if q.ID == "" {
		return nil, fmt.Errorf("invalid product id")
	}

	product, err := h.repo.FindByID(q.ID)
	if err != nil {
		return nil, err
	}

	siblings, err := h.repo.FindByDrop(product.DropID)
	if err != nil {
		return nil, fmt.Errorf("failed to load drop %s: %w", product.DropID, err)
	}

	sold, err := h.marks.Map(ctx, productIDs(siblings))
	if err != nil {
		return nil, fmt.Errorf("failed to load sold marks: %w", err)
	}

	view := ProductView{
		Product: *product,
		State:   availability.StateOf(*product, siblings, sold),
	}
	if view.State == domain.StateLocked {
		view.UnlockLevel = availability.UnlockLevel(*product, siblings, sold)
	}
	return &view, nil
}

func productIDs(products []domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
