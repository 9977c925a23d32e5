package query

import (
	"context"
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/availability"
	"github.com/dropkit/storefront/internal/catalog/domain"
)

// CatalogStats summarizes the catalog by derived availability state.
type CatalogStats struct {
	Total     int64 `json:"total"`
	Available int   `json:"available"`
	SoldOut   int   `json:"sold_out"`
	Locked    int   `json:"locked"`
	Drops     int   `json:"drops"`
}

// GetStatsQuery represents the query to get catalog statistics
type GetStatsQuery struct{}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo  domain.ProductRepository
	marks domain.SoldMarkStore
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.ProductRepository, marks domain.SoldMarkStore) *GetStatsHandler {
	return &GetStatsHandler{repo: repo, marks: marks}
}

// Handle executes the stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*CatalogStats, error) {
	total, err := h.repo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	// Load everything for state derivation; catalogs here are small (curated
	// drops, one unit per product), so a full scan is fine.
	products, err := h.repo.FindAll(int(total), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	sold, err := h.marks.Map(ctx, productIDs(products))
	if err != nil {
		return nil, fmt.Errorf("failed to load sold marks: %w", err)
	}

	drops := make(map[string]bool)
	stats := &CatalogStats{Total: total}
	for _, state := range availability.Compute(products, sold) {
		switch state {
		case domain.StateAvailable:
			stats.Available++
		case domain.StateSoldOut:
			stats.SoldOut++
		case domain.StateLocked:
			stats.Locked++
		}
	}
	for _, p := range products {
		drops[p.DropID] = true
	}
	stats.Drops = len(drops)

	return stats, nil
}
