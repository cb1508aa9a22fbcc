package command

import (
	"fmt"
	"time"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// UpdateRecipeCommand represents the command to edit an existing recipe.
// Only the recipe's author may edit it.
type UpdateRecipeCommand struct {
	ID          uint
	EditorID    uint
	Title       string
	Description string
	Cuisine     string
	Difficulty  string
	PrepMinutes int
	CookMinutes int
	Servings    int
	ImageURL    string
	Ingredients []IngredientInput
	Steps       []StepInput
}

// UpdateRecipeHandler handles recipe updates
type UpdateRecipeHandler struct {
	repo domain.RecipeRepository
}

// NewUpdateRecipeHandler creates a new update recipe handler
func NewUpdateRecipeHandler(repo domain.RecipeRepository) *UpdateRecipeHandler {
	return &UpdateRecipeHandler{repo: repo}
}

// Handle executes the update recipe command
func (h *UpdateRecipeHandler) Handle(cmd UpdateRecipeCommand) (*domain.Recipe, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("recipe id is required")
	}
	if cmd.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	recipe, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("recipe not found: %w", err)
	}
	if recipe.AuthorID != cmd.EditorID {
		return nil, fmt.Errorf("only the author can edit this recipe")
	}

	if cmd.Difficulty != "" &&
		cmd.Difficulty != domain.DifficultyEasy &&
		cmd.Difficulty != domain.DifficultyMedium &&
		cmd.Difficulty != domain.DifficultyHard {
		return nil, fmt.Errorf("invalid difficulty")
	}

	recipe.Title = cmd.Title
	recipe.Description = cmd.Description
	recipe.Cuisine = cmd.Cuisine
	if cmd.Difficulty != "" {
		recipe.Difficulty = cmd.Difficulty
	}
	recipe.PrepMinutes = cmd.PrepMinutes
	recipe.CookMinutes = cmd.CookMinutes
	recipe.Servings = cmd.Servings
	recipe.ImageURL = cmd.ImageURL
	recipe.UpdatedAt = time.Now()

	recipe.Ingredients = nil
	for i, ing := range cmd.Ingredients {
		if ing.Name == "" {
			return nil, fmt.Errorf("ingredient %d: name is required", i+1)
		}
		recipe.Ingredients = append(recipe.Ingredients, domain.Ingredient{
			RecipeID: recipe.ID,
			Position: i,
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	recipe.Steps = nil
	for i, step := range cmd.Steps {
		if step.Text == "" {
			return nil, fmt.Errorf("step %d: text is required", i+1)
		}
		recipe.Steps = append(recipe.Steps, domain.Step{
			RecipeID: recipe.ID,
			Position: i,
			Text:     step.Text,
		})
	}

	if err := h.repo.Update(recipe); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}
