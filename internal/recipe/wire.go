//go:build wireinject
// +build wireinject

package recipe

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/panpal/panpal/internal/recipe/delivery/http"
	"github.com/panpal/panpal/internal/recipe/domain"
	"github.com/panpal/panpal/internal/recipe/repository"
)

// ProvideRecipeRepository provides the recipe repository
func ProvideRecipeRepository(db *gorm.DB) domain.RecipeRepository {
	return repository.NewGormRecipeRepository(db)
}

var RepositorySet = wire.NewSet(
	ProvideRecipeRepository,
)

// InitializeHTTPHandler initializes the recipe HTTP handler
func InitializeHTTPHandler(db *gorm.DB) (*http.RecipeHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewRecipeHandler,
	)
	return nil, nil
}
