package query

import (
	"fmt"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// GetRecipeQuery represents the query to get a recipe by ID
type GetRecipeQuery struct {
	ID uint
}

// GetRecipeHandler handles the get recipe query
type GetRecipeHandler struct {
	repo domain.RecipeRepository
}

// NewGetRecipeHandler creates a new get recipe handler
func NewGetRecipeHandler(repo domain.RecipeRepository) *GetRecipeHandler {
	return &GetRecipeHandler{repo: repo}
}

// Handle executes the get recipe query
func (h *GetRecipeHandler) Handle(q GetRecipeQuery) (*domain.Recipe, error) {
	if q.ID == 0 {
		return nil, fmt.Errorf("invalid recipe id")
	}

	recipe, err := h.repo.FindByID(q.ID)
	if err != nil {
		return nil, fmt.Errorf("recipe not found: %w", err)
	}
	return recipe, nil
}
