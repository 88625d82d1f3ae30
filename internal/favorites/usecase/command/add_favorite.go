package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/pkg/logger"
)

// AddFavoriteCommand represents the command to favorite a product
type AddFavoriteCommand struct {
	UserID    int64
	ProductID int64
}

// AddFavoriteHandler handles add favorite command
type AddFavoriteHandler struct {
	repo   domain.FavoriteRepository
	events domain.EventPublisher
}

// NewAddFavoriteHandler creates a new add favorite handler. events may be nil.
func NewAddFavoriteHandler(repo domain.FavoriteRepository, events domain.EventPublisher) *AddFavoriteHandler {
	return &AddFavoriteHandler{repo: repo, events: events}
}

// Handle executes the add favorite command. Adding an existing favorite succeeds.
func (h *AddFavoriteHandler) Handle(ctx context.Context, cmd AddFavoriteCommand) error {
	if cmd.UserID <= 0 {
		return domain.ErrUnauthorized
	}
	if cmd.ProductID <= 0 {
		return domain.ErrInvalidProductID
	}

	if err := h.repo.InsertIfAbsent(ctx, cmd.UserID, cmd.ProductID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	publish(ctx, h.events, domain.EventTypeFavoriteAdded, cmd.UserID, cmd.ProductID)
	return nil
}

// publish is best effort; the mutation is already committed.
func publish(ctx context.Context, events domain.EventPublisher, eventType string, userID, productID int64) {
	if events == nil {
		return
	}

	event := domain.FavoriteEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		UserID:     userID,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
	if err := events.PublishFavoriteEvent(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", eventType).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("Failed to publish favorite event")
	}
}
