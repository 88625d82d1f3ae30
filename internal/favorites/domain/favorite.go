package domain

import (
	"context"
	"time"
)

// Favorite is a (user, product) bookmark. At most one row exists per pair.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:favorites_user_product_key,priority:1"`
	ProductID int64     `json:"product_id" gorm:"not null;uniqueIndex:favorites_user_product_key,priority:2"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}

// FavoriteRepository defines the contract for favorite persistence
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	// InsertIfAbsent is a no-op when the pair is already stored
	InsertIfAbsent(ctx context.Context, userID, productID int64) error
	// Delete returns the number of rows removed, 0 or 1
	Delete(ctx context.Context, userID, productID int64) (int64, error)
	// ListForUser returns the newest favorites first
	ListForUser(ctx context.Context, userID int64) ([]Favorite, error)
}
