package command

import (
	"context"
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/kafka"
)

// ApplySoldEventHandler applies sold events coming from other channels (e.g. a
// back office confirming a WhatsApp sale) to the local projection. Unlike the
// storefront's own mark-sold path it also persists the sold flag on the
// product record, since the event is the authoritative signal for that sale.
type ApplySoldEventHandler struct {
	repo  domain.ProductRepository
	marks domain.SoldMarkStore
}

// NewApplySoldEventHandler creates a new apply sold event handler
func NewApplySoldEventHandler(repo domain.ProductRepository, marks domain.SoldMarkStore) *ApplySoldEventHandler {
	return &ApplySoldEventHandler{repo: repo, marks: marks}
}

// Handle applies one sold event.
func (h *ApplySoldEventHandler) Handle(ctx context.Context, event kafka.ProductSoldEvent) error {
	if event.ProductID == "" {
		return fmt.Errorf("sold event without product id")
	}

	if err := h.marks.Mark(ctx, event.ProductID); err != nil {
		return fmt.Errorf("failed to mark product sold: %w", err)
	}

	if event.Channel == kafka.ChannelExternal {
		if err := h.repo.SetSoldOut(event.ProductID); err != nil && err != domain.ErrProductNotFound {
			return fmt.Errorf("failed to persist sold out flag: %w", err)
		}
	}

	return nil
}
