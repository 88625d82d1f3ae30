package domain

import (
	"context"
	"time"
)

const (
	EventTypeFavoriteAdded   = "favorite.added"
	EventTypeFavoriteRemoved = "favorite.removed"
)

// FavoriteEvent is emitted after a favorite mutation changed state
type FavoriteEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	UserID     int64     `json:"user_id"`
	ProductID  int64     `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers favorite events to downstream consumers
type EventPublisher interface {
	PublishFavoriteEvent(ctx context.Context, event FavoriteEvent) error
}
