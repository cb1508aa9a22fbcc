package command

import (
	"fmt"
	"time"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// RateRecipeCommand represents the command to score a recipe 1-5.
// Rating a recipe twice replaces the previous score.
type RateRecipeCommand struct {
	RecipeID uint
	UserID   uint
	Score    int
}

// RateRecipeHandler handles recipe rating
type RateRecipeHandler struct {
	repo domain.RecipeRepository
}

// NewRateRecipeHandler creates a new rate recipe handler
func NewRateRecipeHandler(repo domain.RecipeRepository) *RateRecipeHandler {
	return &RateRecipeHandler{repo: repo}
}

// Handle executes the rate recipe command and refreshes the recipe's
// rating aggregates.
func (h *RateRecipeHandler) Handle(cmd RateRecipeCommand) (*domain.Recipe, error) {
	if cmd.RecipeID == 0 || cmd.UserID == 0 {
		return nil, fmt.Errorf("recipe id and user id are required")
	}
	if cmd.Score < 1 || cmd.Score > 5 {
		return nil, fmt.Errorf("score must be between 1 and 5")
	}

	if _, err := h.repo.FindByID(cmd.RecipeID); err != nil {
		return nil, fmt.Errorf("recipe not found: %w", err)
	}

	rating := &domain.Rating{
		RecipeID:  cmd.RecipeID,
		UserID:    cmd.UserID,
		Score:     cmd.Score,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.repo.UpsertRating(rating); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}
	if err := h.repo.RecalculateRating(cmd.RecipeID); err != nil {
		return nil, fmt.Errorf("failed to update rating aggregates: %w", err)
	}

	recipe, err := h.repo.FindByID(cmd.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload recipe: %w", err)
	}
	return recipe, nil
}
