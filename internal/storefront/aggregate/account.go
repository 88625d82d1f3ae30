package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/tair/storefront/internal/storefront/client"
	"github.com/tair/storefront/pkg/logger"
)

// FavoriteLister lists a viewer's favorites
type FavoriteLister interface {
	List(ctx context.Context, credential string) ([]client.Favorite, error)
}

// FavoriteItem is a favorite joined with its product snapshot
type FavoriteItem struct {
	FavoriteID      int64     `json:"favorite_id"`
	ProductID       int64     `json:"product_id"`
	ProductName     string    `json:"product_name"`
	ProductPrice    float64   `json:"product_price"`
	ProductImageURL string    `json:"product_image_url"`
	ProductStock    int       `json:"product_stock"`
	CreatedAt       time.Time `json:"created_at"`
}

// AccountFavorites builds the account page favorites list
type AccountFavorites struct {
	favorites   FavoriteLister
	catalog     CatalogFetcher
	concurrency int
}

// NewAccountFavorites creates a new account favorites reader
func NewAccountFavorites(favorites FavoriteLister, catalog CatalogFetcher, concurrency int) *AccountFavorites {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &AccountFavorites{favorites: favorites, catalog: catalog, concurrency: concurrency}
}

// List returns the viewer's favorites newest first. Favorites whose product can no
// longer be loaded are left out.
func (a *AccountFavorites) List(ctx context.Context, credential string) ([]FavoriteItem, error) {
	ctx, span := tracer.Start(ctx, "aggregate.AccountFavorites")
	defer span.End()

	favorites, err := a.favorites.List(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	span.SetAttributes(attribute.Int("favorites.count", len(favorites)))

	hydrated := make([]*FavoriteItem, len(favorites))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, fav := range favorites {
		g.Go(func() error {
			product, err := a.catalog.GetProduct(gctx, fav.ProductID)
			if err != nil {
				if !errors.Is(err, client.ErrProductNotFound) {
					logger.Warn(gctx).Err(err).Int64("product_id", fav.ProductID).Msg("Dropping favorite with unloadable product")
				}
				return nil
			}
			hydrated[i] = &FavoriteItem{
				FavoriteID:      fav.ID,
				ProductID:       fav.ProductID,
				ProductName:     product.Name,
				ProductPrice:    product.Price,
				ProductImageURL: product.ImageURL,
				ProductStock:    product.StockLevel(),
				CreatedAt:       fav.CreatedAt,
			}
			return nil
		})
	}
	_ = g.Wait()

	items := make([]FavoriteItem, 0, len(hydrated))
	for _, item := range hydrated {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items, nil
}
