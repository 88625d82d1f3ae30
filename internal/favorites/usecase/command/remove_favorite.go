package command

import (
	"context"
	"fmt"

	"github.com/tair/storefront/internal/favorites/domain"
)

// RemoveFavoriteCommand represents the command to unfavorite a product
type RemoveFavoriteCommand struct {
	UserID    int64
	ProductID int64
}

// RemoveFavoriteHandler handles remove favorite command
type RemoveFavoriteHandler struct {
	repo   domain.FavoriteRepository
	events domain.EventPublisher
}

// NewRemoveFavoriteHandler creates a new remove favorite handler. events may be nil.
func NewRemoveFavoriteHandler(repo domain.FavoriteRepository, events domain.EventPublisher) *RemoveFavoriteHandler {
	return &RemoveFavoriteHandler{repo: repo, events: events}
}

// Handle executes the remove favorite command and returns how many rows went away
func (h *RemoveFavoriteHandler) Handle(ctx context.Context, cmd RemoveFavoriteCommand) (int64, error) {
	if cmd.UserID <= 0 {
		return 0, domain.ErrUnauthorized
	}
	if cmd.ProductID <= 0 {
		return 0, domain.ErrInvalidProductID
	}

	deleted, err := h.repo.Delete(ctx, cmd.UserID, cmd.ProductID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove favorite: %w", err)
	}

	if deleted > 0 {
		publish(ctx, h.events, domain.EventTypeFavoriteRemoved, cmd.UserID, cmd.ProductID)
	}
	return deleted, nil
}
