package command

import (
	"fmt"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// DeleteRecipeCommand represents the command to delete a recipe.
// Admins may delete any recipe, authors only their own.
type DeleteRecipeCommand struct {
	ID          uint
	RequesterID uint
	IsAdmin     bool
}

// DeleteRecipeHandler handles recipe deletion
type DeleteRecipeHandler struct {
	repo domain.RecipeRepository
}

// NewDeleteRecipeHandler creates a new delete recipe handler
func NewDeleteRecipeHandler(repo domain.RecipeRepository) *DeleteRecipeHandler {
	return &DeleteRecipeHandler{repo: repo}
}

// Handle executes the delete recipe command
func (h *DeleteRecipeHandler) Handle(cmd DeleteRecipeCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("recipe id is required")
	}

	recipe, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return fmt.Errorf("recipe not found: %w", err)
	}
	if !cmd.IsAdmin && recipe.AuthorID != cmd.RequesterID {
		return fmt.Errorf("only the author can delete this recipe")
	}

	if err := h.repo.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
