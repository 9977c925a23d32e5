package query

import (
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

// ListDropsQuery represents the query to list available drops
type ListDropsQuery struct{}

// ListDropsHandler handles list drops query
type ListDropsHandler struct {
	repo domain.ProductRepository
}

// NewListDropsHandler creates a new list drops handler
func NewListDropsHandler(repo domain.ProductRepository) *ListDropsHandler {
	return &ListDropsHandler{repo: repo}
}

// Handle executes the list drops query
func (h *ListDropsHandler) Handle(_ ListDropsQuery) ([]string, error) {
	drops, err := h.repo.ListDrops()
	if err != nil {
		return nil, fmt.Errorf("failed to list drops: %w", err)
	}
	return drops, nil
}
