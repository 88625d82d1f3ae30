package query

import (
	"context"
	"fmt"

	"github.com/tair/storefront/internal/favorites/domain"
)

// ListFavoritesQuery represents the query for a user's favorites
type ListFavoritesQuery struct {
	UserID int64
}

// ListFavoritesHandler handles list favorites query
type ListFavoritesHandler struct {
	repo domain.FavoriteRepository
}

// NewListFavoritesHandler creates a new list favorites handler
func NewListFavoritesHandler(repo domain.FavoriteRepository) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo}
}

// Handle executes the list favorites query, newest first
func (h *ListFavoritesHandler) Handle(ctx context.Context, query ListFavoritesQuery) ([]domain.Favorite, error) {
	if query.UserID <= 0 {
		return nil, domain.ErrUnauthorized
	}

	favorites, err := h.repo.ListForUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}
