package domain

import "context"

// SoldMarkStore keeps the id -> sold projection separate from the product
// records themselves. The availability engine only ever consumes the plain map
// this store hands out, so marking a unit sold never mutates a Product.
type SoldMarkStore interface {
	Mark(ctx context.Context, productID string) error
	Unmark(ctx context.Context, productID string) error
	IsSold(ctx context.Context, productID string) (bool, error)
	Map(ctx context.Context, productIDs []string) (map[string]bool, error)
}
