package command

import (
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/internal/catalog/normalize"
)

// ImportProductsCommand represents the command to ingest raw product records
type ImportProductsCommand struct {
	Records []normalize.RawProduct
}

// ImportProductsHandler handles bulk product ingestion. Every record passes
// through the normalization layer, whatever source it came from.
type ImportProductsHandler struct {
	repo domain.ProductRepository
}

// NewImportProductsHandler creates a new import products handler
func NewImportProductsHandler(repo domain.ProductRepository) *ImportProductsHandler {
	return &ImportProductsHandler{repo: repo}
}

// Handle executes the import command and returns the number of stored products.
func (h *ImportProductsHandler) Handle(cmd ImportProductsCommand) (int, error) {
	imported := 0
	for _, record := range cmd.Records {
		product := normalize.Normalize(record)
		if err := h.repo.Upsert(&product); err != nil {
			return imported, fmt.Errorf("failed to store product %s: %w", product.ID, err)
		}
		imported++
	}
	return imported, nil
}
