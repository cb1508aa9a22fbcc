package command

import (
	"fmt"
	"time"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// IngredientInput is one ingredient line in a create or update command
type IngredientInput struct {
	Name     string
	Quantity float64
	Unit     string
}

// StepInput is one instruction in a create or update command
type StepInput struct {
	Text string
}

// CreateRecipeCommand represents the command to publish a new recipe
type CreateRecipeCommand struct {
	AuthorID    uint
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

// CreateRecipeHandler handles recipe creation
type CreateRecipeHandler struct {
	repo domain.RecipeRepository
}

// NewCreateRecipeHandler creates a new create recipe handler
func NewCreateRecipeHandler(repo domain.RecipeRepository) *CreateRecipeHandler {
	return &CreateRecipeHandler{repo: repo}
}

// Handle executes the create recipe command
func (h *CreateRecipeHandler) Handle(cmd CreateRecipeCommand) (*domain.Recipe, error) {
	if cmd.AuthorID == 0 {
		return nil, fmt.Errorf("author id is required")
	}
	if cmd.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len(cmd.Ingredients) == 0 {
		return nil, fmt.Errorf("at least one ingredient is required")
	}
	if len(cmd.Steps) == 0 {
		return nil, fmt.Errorf("at least one step is required")
	}

	difficulty := cmd.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyMedium
	}
	if difficulty != domain.DifficultyEasy && difficulty != domain.DifficultyMedium && difficulty != domain.DifficultyHard {
		return nil, fmt.Errorf("invalid difficulty")
	}

	recipe := &domain.Recipe{
		AuthorID:    cmd.AuthorID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Cuisine:     cmd.Cuisine,
		Difficulty:  difficulty,
		PrepMinutes: cmd.PrepMinutes,
		CookMinutes: cmd.CookMinutes,
		Servings:    cmd.Servings,
		ImageURL:    cmd.ImageURL,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	for i, ing := range cmd.Ingredients {
		if ing.Name == "" {
			return nil, fmt.Errorf("ingredient %d: name is required", i+1)
		}
		recipe.Ingredients = append(recipe.Ingredients, domain.Ingredient{
			Position: i,
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	for i, step := range cmd.Steps {
		if step.Text == "" {
			return nil, fmt.Errorf("step %d: text is required", i+1)
		}
		recipe.Steps = append(recipe.Steps, domain.Step{
			Position: i,
			Text:     step.Text,
		})
	}

	if err := h.repo.Create(recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}
