package command

import (
	"context"
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/kafka"
	"github.com/dropkit/storefront/pkg/logger"
)

// SoldEventPublisher publishes sold events for downstream consumers.
type SoldEventPublisher interface {
	PublishProductSold(ctx context.Context, event kafka.ProductSoldEvent) error
}

// MarkSoldCommand represents the command to mark a product's unit as sold
type MarkSoldCommand struct {
	ProductID string
	Channel   string
}

// MarkSoldHandler flips the sold mark in the projection store. The product
// record itself is never mutated here: availability is always recomputed from
// (catalog snapshot, sold projection), so the write stays a single flag.
type MarkSoldHandler struct {
	repo      domain.ProductRepository
	marks     domain.SoldMarkStore
	publisher SoldEventPublisher
}

// NewMarkSoldHandler creates a new mark sold handler. The publisher may be nil
// when Kafka is not configured.
func NewMarkSoldHandler(repo domain.ProductRepository, marks domain.SoldMarkStore, publisher SoldEventPublisher) *MarkSoldHandler {
	return &MarkSoldHandler{repo: repo, marks: marks, publisher: publisher}
}

// Handle executes the mark sold command
func (h *MarkSoldHandler) Handle(ctx context.Context, cmd MarkSoldCommand) error {
	if cmd.ProductID == "" {
		return fmt.Errorf("invalid product id")
	}

	product, err := h.repo.FindByID(cmd.ProductID)
	if err != nil {
		return err
	}

	if err := h.marks.Mark(ctx, product.ID); err != nil {
		return fmt.Errorf("failed to mark product sold: %w", err)
	}

	if h.publisher == nil {
		return nil
	}

	channel := cmd.Channel
	if channel == "" {
		channel = kafka.ChannelStorefront
	}

	event := kafka.ProductSoldEvent{
		ProductID: product.ID,
		DropID:    product.DropID,
		Level:     product.Level,
		Price:     product.Price,
		Channel:   channel,
	}
	if err := h.publisher.PublishProductSold(ctx, event); err != nil {
		// The mark is already persisted; a publish failure only delays
		// downstream projections.
		logger.Logger.Warn().
			Err(err).
			Str("product_id", product.ID).
			Msg("Sold event publish failed")
	}

	return nil
}
