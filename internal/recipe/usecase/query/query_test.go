package query

import (
	"fmt"
	"testing"

	"github.com/panpal/panpal/internal/recipe/domain"
)

type fakeRepo struct {
	recipes    map[uint]*domain.Recipe
	lastFilter domain.ListFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{recipes: make(map[uint]*domain.Recipe)}
}

func (r *fakeRepo) Create(recipe *domain.Recipe) error { return nil }

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
	r.lastFilter = filter
	var out []domain.Recipe
	for _, rec := range r.recipes {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(recipe *domain.Recipe) error { return nil }
func (r *fakeRepo) Delete(id uint) error               { return nil }

func (r *fakeRepo) UpsertRating(rating *domain.Rating) error           { return nil }
func (r *fakeRepo) RecalculateRating(recipeID uint) error              { return nil }
func (r *fakeRepo) AddComment(comment *domain.Comment) error           { return nil }
func (r *fakeRepo) AdjustFavoriteCount(recipeID uint, delta int) error { return nil }

func (r *fakeRepo) ListComments(recipeID uint, limit, offset int) ([]domain.Comment, error) {
	return nil, nil
}

func TestListRecipesPagingDefaults(t *testing.T) {
	repo := newFakeRepo()
	handler := NewListRecipesHandler(repo)

	page, err := handler.Handle(ListRecipesQuery{})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if page.Limit != defaultPageSize {
		t.Errorf("Limit = %d, want default %d", page.Limit, defaultPageSize)
	}
	if repo.lastFilter.Limit != defaultPageSize {
		t.Errorf("filter limit = %d, want %d", repo.lastFilter.Limit, defaultPageSize)
	}
	if page.Recipes == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestListRecipesPagingClamped(t *testing.T) {
	repo := newFakeRepo()
	handler := NewListRecipesHandler(repo)

	page, err := handler.Handle(ListRecipesQuery{Limit: 10000, Offset: -5})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if page.Limit != maxPageSize {
		t.Errorf("Limit = %d, want clamped %d", page.Limit, maxPageSize)
	}
	if page.Offset != 0 {
		t.Errorf("Offset = %d, want 0", page.Offset)
	}
}

func TestListRecipesPassesFilters(t *testing.T) {
	repo := newFakeRepo()
	handler := NewListRecipesHandler(repo)

	_, err := handler.Handle(ListRecipesQuery{
		Search:     "shakshuka",
		Cuisine:    "middle-eastern",
		Difficulty: "easy",
		MaxMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	f := repo.lastFilter
	if f.Search != "shakshuka" || f.Cuisine != "middle-eastern" || f.Difficulty != "easy" || f.MaxMinutes != 30 {
		t.Errorf("filter not forwarded: %+v", f)
	}
}

func TestListByIDs(t *testing.T) {
	repo := newFakeRepo()
	repo.recipes[5] = &domain.Recipe{ID: 5, Title: "Shakshuka"}
	repo.recipes[8] = &domain.Recipe{ID: 8, Title: "Pad Thai"}
	handler := NewListByIDsHandler(repo)

	// Deleted or unknown IDs are dropped silently
	recipes, err := handler.Handle(ListByIDsQuery{IDs: []uint{5, 8, 999}})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(recipes) != 2 {
		t.Errorf("len(recipes) = %d, want 2", len(recipes))
	}
}

func TestListByIDsEmpty(t *testing.T) {
	handler := NewListByIDsHandler(newFakeRepo())

	recipes, err := handler.Handle(ListByIDsQuery{})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if recipes == nil || len(recipes) != 0 {
		t.Errorf("recipes = %v, want empty slice", recipes)
	}
}

func TestListByIDsBatchLimit(t *testing.T) {
	handler := NewListByIDsHandler(newFakeRepo())

	ids := make([]uint, maxBatchSize+1)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	if _, err := handler.Handle(ListByIDsQuery{IDs: ids}); err == nil {
		t.Error("expected error for oversized batch")
	}
}
