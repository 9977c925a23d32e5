package query

import (
	"github.com/dropkit/storefront/internal/catalog/domain"
)

// ProductView is a product together with its derived availability state.
// UnlockLevel is only set for locked products: it names the lowest level of
// the drop that still holds an unsold unit below this product.
type ProductView struct {
	domain.Product
	State       domain.AvailabilityState `json:"state"`
	UnlockLevel int                      `json:"unlock_level,omitempty"`
}

// CatalogView is one page of the storefront: the selected drop and level, the
// product views, and the canonical query string that reproduces this view.
type CatalogView struct {
	DropID         string        `json:"drop_id"`
	Level          int           `json:"level"`
	HideSoldOut    bool          `json:"hide_sold_out"`
	AvailableDrops []string      `json:"available_drops"`
	Products       []ProductView `json:"products"`
	Query          string        `json:"query"`
}
