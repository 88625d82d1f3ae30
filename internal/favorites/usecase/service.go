package usecase

import (
	"context"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/internal/favorites/usecase/query"
	"github.com/tair/storefront/pkg/auth"
)

var tracer = otel.Tracer("favorites-service")

// FavoritesService authenticates the caller, validates input and dispatches to the
// command and query handlers. Authentication always happens before validation.
type FavoritesService struct {
	resolver auth.Resolver
	add      *command.AddFavoriteHandler
	remove   *command.RemoveFavoriteHandler
	check    *query.CheckFavoriteHandler
	list     *query.ListFavoritesHandler
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(
	resolver auth.Resolver,
	add *command.AddFavoriteHandler,
	remove *command.RemoveFavoriteHandler,
	check *query.CheckFavoriteHandler,
	list *query.ListFavoritesHandler,
) *FavoritesService {
	return &FavoritesService{
		resolver: resolver,
		add:      add,
		remove:   remove,
		check:    check,
		list:     list,
	}
}

// ParseProductID accepts positive integers, including integral decimals such as "5.0"
func ParseProductID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if id <= 0 {
			return 0, domain.ErrInvalidProductID
		}
		return id, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f <= 0 || f > maxExactID {
		return 0, domain.ErrInvalidProductID
	}
	return int64(f), nil
}

// maxExactID is the largest integer a float64 represents exactly
const maxExactID = 1 << 53

func (s *FavoritesService) authenticate(ctx context.Context, credential string) (int64, error) {
	identity, ok := s.resolver.Resolve(ctx, credential)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return identity.UserID, nil
}

func (s *FavoritesService) authenticateWithProduct(ctx context.Context, credential, rawProductID string) (int64, int64, error) {
	userID, err := s.authenticate(ctx, credential)
	if err != nil {
		return 0, 0, err
	}
	productID, err := ParseProductID(rawProductID)
	if err != nil {
		return 0, 0, err
	}
	return userID, productID, nil
}

// CheckFavorite reports whether the caller favorited the product
func (s *FavoritesService) CheckFavorite(ctx context.Context, credential, rawProductID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "FavoritesService.CheckFavorite")
	defer span.End()

	userID, productID, err := s.authenticateWithProduct(ctx, credential, rawProductID)
	if err != nil {
		return false, err
	}
	span.SetAttributes(attribute.Int64("user.id", userID), attribute.Int64("product.id", productID))

	return s.check.Handle(ctx, query.CheckFavoriteQuery{UserID: userID, ProductID: productID})
}

// AddFavorite favorites the product for the caller. Repeating it is harmless.
func (s *FavoritesService) AddFavorite(ctx context.Context, credential, rawProductID string) error {
	ctx, span := tracer.Start(ctx, "FavoritesService.AddFavorite")
	defer span.End()

	userID, productID, err := s.authenticateWithProduct(ctx, credential, rawProductID)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int64("user.id", userID), attribute.Int64("product.id", productID))

	return s.add.Handle(ctx, command.AddFavoriteCommand{UserID: userID, ProductID: productID})
}

// RemoveFavorite unfavorites the product and returns 1 if a favorite was removed, 0 otherwise
func (s *FavoritesService) RemoveFavorite(ctx context.Context, credential, rawProductID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "FavoritesService.RemoveFavorite")
	defer span.End()

	userID, productID, err := s.authenticateWithProduct(ctx, credential, rawProductID)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("user.id", userID), attribute.Int64("product.id", productID))

	return s.remove.Handle(ctx, command.RemoveFavoriteCommand{UserID: userID, ProductID: productID})
}

// ListFavorites returns the caller's favorites, newest first
func (s *FavoritesService) ListFavorites(ctx context.Context, credential string) ([]domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "FavoritesService.ListFavorites")
	defer span.End()

	userID, err := s.authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", userID))

	return s.list.Handle(ctx, query.ListFavoritesQuery{UserID: userID})
}
