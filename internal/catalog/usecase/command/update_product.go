package command

import (
	"fmt"
	"time"

	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/internal/catalog/normalize"
)

// UpdateProductCommand represents the command to update an existing product.
// Only the fields present in the record are applied.
type UpdateProductCommand struct {
	ID     string
	Record normalize.RawProduct
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("invalid product id")
	}
	if cmd.Record.Price != nil && *cmd.Record.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	product, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}

	// Merge the incoming record over the stored product, then re-normalize so
	// the stock-consistency rules still hold after a partial update.
	merged := normalize.FromProduct(*product)
	applyOverrides(&merged, cmd.Record)
	updated := normalize.Normalize(merged)
	updated.CreatedAt = product.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := h.repo.Update(&updated); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &updated, nil
}

func applyOverrides(dst *normalize.RawProduct, src normalize.RawProduct) {
	if src.Name != nil {
		dst.Name = src.Name
	}
	if src.Description != nil {
		dst.Description = src.Description
	}
	if src.Price != nil {
		dst.Price = src.Price
	}
	if src.Images != nil {
		dst.Images = src.Images
	}
	if src.Category != nil {
		dst.Category = src.Category
	}
	if src.Size != nil {
		dst.Size = src.Size
	}
	if src.InStock != nil {
		dst.InStock = src.InStock
		// A partial update that restocks must clear the derived flag too,
		// otherwise normalization re-propagates the stale sold_out.
		if *src.InStock && src.SoldOut == nil {
			soldOut := false
			dst.SoldOut = &soldOut
		}
	}
	if src.SoldOut != nil {
		dst.SoldOut = src.SoldOut
		if !*src.SoldOut && src.InStock == nil {
			inStock := true
			dst.InStock = &inStock
		}
	}
	if src.Level != nil {
		dst.Level = src.Level
	}
	if src.Blocked != nil {
		dst.Blocked = src.Blocked
	}
	if src.DropID != nil {
		dst.DropID = src.DropID
	}
}
