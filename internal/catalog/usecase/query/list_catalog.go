package query

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dropkit/storefront/internal/catalog/availability"
	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/internal/catalog/selection"
)

// ListCatalogQuery carries the visitor's raw navigation parameters. Invalid
// values never fail the query; they fall back per the selection rules.
type ListCatalogQuery struct {
	Params url.Values
}

// ListCatalogHandler handles the storefront's main catalog view
type ListCatalogHandler struct {
	repo  domain.ProductRepository
	marks domain.SoldMarkStore
}

// NewListCatalogHandler creates a new list catalog handler
func NewListCatalogHandler(repo domain.ProductRepository, marks domain.SoldMarkStore) *ListCatalogHandler {
	return &ListCatalogHandler{repo: repo, marks: marks}
}

// Handle executes the catalog query: resolve the selection against the known
// drops, load the drop's products, recompute availability from the current
// snapshot and sold projection, then apply the display filters.
func (h *ListCatalogHandler) Handle(ctx context.Context, q ListCatalogQuery) (*CatalogView, error) {
	drops, err := h.repo.ListDrops()
	if err != nil {
		return nil, fmt.Errorf("failed to list drops: %w", err)
	}

	sel := selection.FromQuery(q.Params, drops)

	view := &CatalogView{
		DropID:         sel.DropID(),
		Level:          sel.Level(),
		HideSoldOut:    sel.HideSoldOut(),
		AvailableDrops: drops,
		Products:       []ProductView{},
		Query:          sel.Query().Encode(),
	}
	if sel.DropID() == "" {
		return view, nil
	}

	products, err := h.repo.FindByDrop(sel.DropID())
	if err != nil {
		return nil, fmt.Errorf("failed to load drop %s: %w", sel.DropID(), err)
	}

	sold, err := h.marks.Map(ctx, productIDs(products))
	if err != nil {
		return nil, fmt.Errorf("failed to load sold marks: %w", err)
	}

	states := availability.Compute(products, sold)
	for _, p := range products {
		state := states[p.ID]
		if sel.HideSoldOut() && state == domain.StateSoldOut {
			continue
		}
		pv := ProductView{Product: p, State: state}
		if state == domain.StateLocked {
			pv.UnlockLevel = availability.UnlockLevel(p, products, sold)
		}
		view.Products = append(view.Products, pv)
	}

	return view, nil
}
