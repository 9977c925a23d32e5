package command

import (
	"fmt"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

// SetBlockedCommand represents the editorial override that withholds a product
// from purchase regardless of its stock state.
type SetBlockedCommand struct {
	ID      string
	Blocked bool
}

// SetBlockedHandler handles the blocked override command
type SetBlockedHandler struct {
	repo domain.ProductRepository
}

// NewSetBlockedHandler creates a new set blocked handler
func NewSetBlockedHandler(repo domain.ProductRepository) *SetBlockedHandler {
	return &SetBlockedHandler{repo: repo}
}

// Handle executes the set blocked command
func (h *SetBlockedHandler) Handle(cmd SetBlockedCommand) error {
	if cmd.ID == "" {
		return fmt.Errorf("invalid product id")
	}

	if err := h.repo.SetBlocked(cmd.ID, cmd.Blocked); err != nil {
		if err == domain.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to set blocked flag: %w", err)
	}

	return nil
}
