package query

import (
	"context"
	"fmt"

	"github.com/tair/storefront/internal/favorites/domain"
)

// CheckFavoriteQuery represents the query for a single (user, product) pair
type CheckFavoriteQuery struct {
	UserID    int64
	ProductID int64
}

// CheckFavoriteHandler handles check favorite query
type CheckFavoriteHandler struct {
	repo domain.FavoriteRepository
}

// NewCheckFavoriteHandler creates a new check favorite handler
func NewCheckFavoriteHandler(repo domain.FavoriteRepository) *CheckFavoriteHandler {
	return &CheckFavoriteHandler{repo: repo}
}

// Handle executes the check favorite query
func (h *CheckFavoriteHandler) Handle(ctx context.Context, query CheckFavoriteQuery) (bool, error) {
	if query.UserID <= 0 {
		return false, domain.ErrUnauthorized
	}
	if query.ProductID <= 0 {
		return false, domain.ErrInvalidProductID
	}

	exists, err := h.repo.Exists(ctx, query.UserID, query.ProductID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}
