package repository

import (
	"context"
	"embed"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/storefront/internal/favorites/domain"
)

// Migrations holds the schema for the favorites table
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the SQL files
const MigrationsDir = "migrations"

// GormFavoriteRepository implements FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GORM favorite repository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Exists reports whether the pair is stored
func (r *GormFavoriteRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var rows []domain.Favorite
	result := r.db.WithContext(ctx).
		Select("id").
		Where("user_id = ? AND product_id = ?", userID, productID).
		Limit(1).
		Find(&rows)
	if result.Error != nil {
		return false, storageError("check favorite", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// InsertIfAbsent stores the pair, relying on the unique constraint to absorb duplicates
func (r *GormFavoriteRepository) InsertIfAbsent(ctx context.Context, userID, productID int64) error {
	favorite := domain.Favorite{UserID: userID, ProductID: productID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&favorite).Error
	if err != nil {
		return storageError("insert favorite", err)
	}
	return nil
}

// Delete removes the pair if present
func (r *GormFavoriteRepository) Delete(ctx context.Context, userID, productID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		return 0, storageError("delete favorite", result.Error)
	}
	return result.RowsAffected, nil
}

// ListForUser returns the user's favorites, newest first
func (r *GormFavoriteRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, storageError("list favorites", err)
	}
	if favorites == nil {
		favorites = []domain.Favorite{}
	}
	return favorites, nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
