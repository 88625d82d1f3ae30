//go:build wireinject
// +build wireinject

package favorites

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/storefront/internal/favorites/delivery/http"
	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/pkg/auth"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	resolver auth.Resolver,
	events domain.EventPublisher,
	reg prometheus.Registerer,
) (*http.FavoriteHandler, error) {
	wire.Build(
		RepositorySet,
		UsecaseSet,
		http.NewFavoriteHandler,
	)
	return nil, nil
}
