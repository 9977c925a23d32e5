package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListCatalog godoc
// @Summary Catalog view
// @Description Selection-aware catalog page for the current drop and level
// @Tags Catalog
// @Produce json
// @Param drop query string false "Drop id"
// @Param level query int false "Level"
// @Param hide_sold_out query bool false "Hide sold out products"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/catalog [get]
func (h *CatalogHandler) ListCatalogDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Description Product with its derived availability state and unlock hint
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/catalog/products/{id} [get]
func (h *CatalogHandler) GetProductDoc() {}

// GetAvailability godoc
// @Summary Availability map for a drop
// @Description Recomputed id to state map for every product of a drop
// @Tags Catalog
// @Produce json
// @Param drop query string true "Drop id"
// @Success 200 {object} object{success=bool,data=object{drop_id=string,states=object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/catalog/availability [get]
func (h *CatalogHandler) GetAvailabilityDoc() {}

// PurchaseIntent godoc
// @Summary Purchase intent link
// @Description WhatsApp deep link for an available product
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object{product_id=string,link=string}}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/catalog/products/{id}/purchase-intent [get]
func (h *CatalogHandler) PurchaseIntentDoc() {}

// SyncCatalog godoc
// @Summary Sync catalog from the content database
// @Description Fetches all records from the CMS and re-imports them (Admin only)
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object{imported=int}}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/catalog/sync [post]
func (h *CatalogHandler) SyncCatalogDoc() {}

// MarkSold godoc
// @Summary Mark a product sold
// @Description Flags the product's single unit as sold (Admin only)
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/catalog/products/{id}/sold [post]
func (h *CatalogHandler) MarkSoldDoc() {}
