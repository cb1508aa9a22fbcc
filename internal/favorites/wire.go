//go:build wireinject
// +build wireinject

package favorites

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/panpal/panpal/internal/favorites/delivery/http"
	"github.com/panpal/panpal/internal/favorites/domain"
	"github.com/panpal/panpal/internal/favorites/repository"
	"github.com/panpal/panpal/kafka"
)

// ProvideFavoriteRepository provides the favorites repository
func ProvideFavoriteRepository(db *gorm.DB) domain.FavoriteRepository {
	return repository.NewGormFavoriteRepository(db)
}

var RepositorySet = wire.NewSet(
	ProvideFavoriteRepository,
)

// InitializeHTTPHandler initializes the favorites HTTP handler
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher) (*http.FavoriteHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewFavoriteHandler,
	)
	return nil, nil
}
