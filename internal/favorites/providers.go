package favorites

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/repository"
	"github.com/tair/storefront/internal/favorites/usecase"
	"github.com/tair/storefront/internal/favorites/usecase/command"
	"github.com/tair/storefront/internal/favorites/usecase/query"
)

// ProvideFavoriteRepository provides the traced GORM favorite repository
func ProvideFavoriteRepository(db *gorm.DB) domain.FavoriteRepository {
	return repository.NewFavoriteRepositoryWithTracing(repository.NewGormFavoriteRepository(db))
}

// RepositorySet binds the favorite repository
var RepositorySet = wire.NewSet(
	ProvideFavoriteRepository,
)

// UsecaseSet builds the command and query handlers behind the favorites service
var UsecaseSet = wire.NewSet(
	command.NewAddFavoriteHandler,
	command.NewRemoveFavoriteHandler,
	query.NewCheckFavoriteHandler,
	query.NewListFavoritesHandler,
	usecase.NewFavoritesService,
)
