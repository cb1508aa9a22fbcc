package command

import (
	"fmt"
	"testing"

	"github.com/panpal/panpal/internal/recipe/domain"
)

type fakeRepo struct {
	recipes map[uint]*domain.Recipe
	ratings map[string]*domain.Rating
	nextID  uint

	recalculated []uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recipes: make(map[uint]*domain.Recipe),
		ratings: make(map[string]*domain.Rating),
		nextID:  1,
	}
}

func (r *fakeRepo) Create(recipe *domain.Recipe) error {
	recipe.ID = r.nextID
	r.nextID++
	r.recipes[recipe.ID] = recipe
	return nil
}

func (r *fakeRepo) FindByID(id uint) (*domain.Recipe, error) {
	if rec, ok := r.recipes[id]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("recipe not found")
}

func (r *fakeRepo) FindByIDs(ids []uint) ([]domain.Recipe, error) {
	var out []domain.Recipe
	for _, id := range ids {
		if rec, ok := r.recipes[id]; ok {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) List(filter domain.ListFilter) ([]domain.Recipe, int64, error) {
	var out []domain.Recipe
	for _, rec := range r.recipes {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(recipe *domain.Recipe) error {
	r.recipes[recipe.ID] = recipe
	return nil
}

func (r *fakeRepo) Delete(id uint) error {
	if _, ok := r.recipes[id]; !ok {
		return fmt.Errorf("recipe not found")
	}
	delete(r.recipes, id)
	return nil
}

func (r *fakeRepo) UpsertRating(rating *domain.Rating) error {
	key := fmt.Sprintf("%d:%d", rating.UserID, rating.RecipeID)
	r.ratings[key] = rating
	return nil
}

func (r *fakeRepo) RecalculateRating(recipeID uint) error {
	r.recalculated = append(r.recalculated, recipeID)
	return nil
}

func (r *fakeRepo) AddComment(comment *domain.Comment) error { return nil }

func (r *fakeRepo) ListComments(recipeID uint, limit, offset int) ([]domain.Comment, error) {
	return nil, nil
}

func (r *fakeRepo) AdjustFavoriteCount(recipeID uint, delta int) error { return nil }

func validCreateCommand() CreateRecipeCommand {
	return CreateRecipeCommand{
		AuthorID:    1,
		Title:       "Shakshuka",
		Cuisine:     "middle-eastern",
		PrepMinutes: 10,
		CookMinutes: 20,
		Servings:    2,
		Ingredients: []IngredientInput{
			{Name: "eggs", Quantity: 4, Unit: "pcs"},
			{Name: "crushed tomatoes", Quantity: 400, Unit: "g"},
		},
		Steps: []StepInput{
			{Text: "Simmer the tomatoes."},
			{Text: "Crack in the eggs and cover."},
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	repo := newFakeRepo()
	handler := NewCreateRecipeHandler(repo)

	recipe, err := handler.Handle(validCreateCommand())
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if recipe.ID == 0 {
		t.Error("expected recipe to get an ID")
	}
	if recipe.Difficulty != domain.DifficultyMedium {
		t.Errorf("Difficulty = %q, want default %q", recipe.Difficulty, domain.DifficultyMedium)
	}
	if len(recipe.Ingredients) != 2 || recipe.Ingredients[1].Position != 1 {
		t.Error("ingredients not stored with positions")
	}
	if len(recipe.Steps) != 2 || recipe.Steps[1].Position != 1 {
		t.Error("steps not stored with positions")
	}
}

func TestCreateRecipeValidation(t *testing.T) {
	handler := NewCreateRecipeHandler(newFakeRepo())

	cases := []struct {
		name   string
		mutate func(*CreateRecipeCommand)
	}{
		{"missing author", func(c *CreateRecipeCommand) { c.AuthorID = 0 }},
		{"missing title", func(c *CreateRecipeCommand) { c.Title = "" }},
		{"no ingredients", func(c *CreateRecipeCommand) { c.Ingredients = nil }},
		{"no steps", func(c *CreateRecipeCommand) { c.Steps = nil }},
		{"bad difficulty", func(c *CreateRecipeCommand) { c.Difficulty = "impossible" }},
		{"unnamed ingredient", func(c *CreateRecipeCommand) { c.Ingredients[0].Name = "" }},
		{"empty step", func(c *CreateRecipeCommand) { c.Steps[0].Text = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := validCreateCommand()
			tc.mutate(&cmd)
			if _, err := handler.Handle(cmd); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRateRecipe(t *testing.T) {
	repo := newFakeRepo()
	create := NewCreateRecipeHandler(repo)
	rate := NewRateRecipeHandler(repo)

	recipe, err := create.Handle(validCreateCommand())
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	if _, err := rate.Handle(RateRecipeCommand{RecipeID: recipe.ID, UserID: 7, Score: 4}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(repo.ratings) != 1 {
		t.Errorf("stored ratings = %d, want 1", len(repo.ratings))
	}
	if len(repo.recalculated) != 1 || repo.recalculated[0] != recipe.ID {
		t.Error("expected rating aggregates to be recalculated")
	}

	// A second score from the same user replaces the first
	if _, err := rate.Handle(RateRecipeCommand{RecipeID: recipe.ID, UserID: 7, Score: 2}); err != nil {
		t.Fatalf("second Handle() error = %v", err)
	}
	if len(repo.ratings) != 1 {
		t.Errorf("stored ratings after re-rate = %d, want 1", len(repo.ratings))
	}
}

func TestRateRecipeScoreBounds(t *testing.T) {
	repo := newFakeRepo()
	create := NewCreateRecipeHandler(repo)
	rate := NewRateRecipeHandler(repo)

	recipe, err := create.Handle(validCreateCommand())
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	for _, score := range []int{0, 6, -1} {
		if _, err := rate.Handle(RateRecipeCommand{RecipeID: recipe.ID, UserID: 7, Score: score}); err == nil {
			t.Errorf("expected error for score %d", score)
		}
	}
}

func TestUpdateRecipeAuthorOnly(t *testing.T) {
	repo := newFakeRepo()
	create := NewCreateRecipeHandler(repo)
	update := NewUpdateRecipeHandler(repo)

	recipe, err := create.Handle(validCreateCommand())
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	cmd := UpdateRecipeCommand{
		ID:       recipe.ID,
		EditorID: 99, // not the author
		Title:    "Stolen Shakshuka",
		Ingredients: []IngredientInput{
			{Name: "eggs", Quantity: 4, Unit: "pcs"},
		},
		Steps: []StepInput{{Text: "Cook."}},
	}
	if _, err := update.Handle(cmd); err == nil {
		t.Error("expected error when a non-author edits")
	}

	cmd.EditorID = recipe.AuthorID
	updated, err := update.Handle(cmd)
	if err != nil {
		t.Fatalf("author edit error = %v", err)
	}
	if updated.Title != "Stolen Shakshuka" {
		t.Errorf("Title = %q, not updated", updated.Title)
	}
}

func TestDeleteRecipePermissions(t *testing.T) {
	repo := newFakeRepo()
	create := NewCreateRecipeHandler(repo)
	del := NewDeleteRecipeHandler(repo)

	recipe, err := create.Handle(validCreateCommand())
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	if err := del.Handle(DeleteRecipeCommand{ID: recipe.ID, RequesterID: 99}); err == nil {
		t.Error("expected error when a non-author deletes")
	}

	// Admins can delete anything
	if err := del.Handle(DeleteRecipeCommand{ID: recipe.ID, RequesterID: 99, IsAdmin: true}); err != nil {
		t.Errorf("admin delete error = %v", err)
	}
	if _, ok := repo.recipes[recipe.ID]; ok {
		t.Error("recipe still present after delete")
	}
}

func TestRateRecipeUnknownRecipe(t *testing.T) {
	rate := NewRateRecipeHandler(newFakeRepo())

	if _, err := rate.Handle(RateRecipeCommand{RecipeID: 999, UserID: 7, Score: 3}); err == nil {
		t.Error("expected error for unknown recipe")
	}
}
