package command

import (
	"context"
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/normalize"
)

// Fetcher pulls raw product records from the external content database.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]normalize.RawProduct, error)
}

// SyncCatalogCommand represents the command to refresh the catalog from the CMS
type SyncCatalogCommand struct{}

// SyncCatalogHandler fetches the full record set from the CMS and imports it.
// The fetch is the only operation here with a real failure channel; a CMS
// outage surfaces as one error at this boundary and never touches the
// normalization or availability layers.
type SyncCatalogHandler struct {
	fetcher  Fetcher
	importer *ImportProductsHandler
}

// NewSyncCatalogHandler creates a new sync catalog handler
func NewSyncCatalogHandler(fetcher Fetcher, importer *ImportProductsHandler) *SyncCatalogHandler {
	return &SyncCatalogHandler{fetcher: fetcher, importer: importer}
}

// Handle executes the sync command and returns the number of imported products.
func (h *SyncCatalogHandler) Handle(ctx context.Context, _ SyncCatalogCommand) (int, error) {
	if h.fetcher == nil {
		return 0, fmt.Errorf("no content source configured")
	}

	records, err := h.fetcher.FetchProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not load products: %w", err)
	}

	return h.importer.Handle(ImportProductsCommand{Records: records})
}
