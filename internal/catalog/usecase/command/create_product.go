package command

import (
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/internal/catalog/normalize"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Record normalize.RawProduct
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command. The record passes through the
// normalization layer like every other ingestion path, so a sparse admin
// request still yields a complete product.
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Record.Price != nil && *cmd.Record.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	product := normalize.Normalize(cmd.Record)

	if cmd.Record.ID != nil && *cmd.Record.ID != "" {
		if existing, _ := h.repo.FindByID(product.ID); existing != nil {
			return nil, fmt.Errorf("product id already exists")
		}
	}

	if err := h.repo.Create(&product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}
