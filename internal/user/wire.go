//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/panpal/panpal/internal/user/delivery/http"
	"github.com/panpal/panpal/internal/user/domain"
	"github.com/panpal/panpal/internal/user/repository"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

// InitializeHTTPHandler initializes the user HTTP handler
func InitializeHTTPHandler(db *gorm.DB) (*http.UserHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewUserHandler,
	)
	return nil, nil
}
