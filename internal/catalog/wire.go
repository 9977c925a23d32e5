//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"

	"github.com/dropkit/storefront/internal/catalog/delivery/http"
	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/internal/catalog/usecase/command"
	"github.com/dropkit/storefront/internal/catalog/usecase/query"
)

// Wire sets
var CommandSet = wire.NewSet(
	command.NewImportProductsHandler,
	command.NewSyncCatalogHandler,
	command.NewCreateProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeleteProductHandler,
	command.NewSetBlockedHandler,
	command.NewMarkSoldHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetProductHandler,
	query.NewListCatalogHandler,
	query.NewListDropsHandler,
	query.NewGetAvailabilityHandler,
	query.NewGetStatsHandler,
)

// InitializeHTTPHandler initializes the catalog HTTP handler with all dependencies
func InitializeHTTPHandler(
	repo domain.ProductRepository,
	marks domain.SoldMarkStore,
	fetcher command.Fetcher,
	publisher command.SoldEventPublisher,
	whatsAppNumber http.WhatsAppNumber,
) (*http.CatalogHandler, error) {
	wire.Build(
		CommandSet,
		QuerySet,
		http.NewCatalogHandler,
	)
	return nil, nil
}
