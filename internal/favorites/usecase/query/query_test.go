package query

import (
	"testing"
)

type fakeRepo struct {
	ids         []uint
	isFavorite  bool
	recipeCount int64
}

func (r *fakeRepo) Add(userID, recipeID uint) (bool, error)    { return false, nil }
func (r *fakeRepo) Remove(userID, recipeID uint) (bool, error) { return false, nil }

func (r *fakeRepo) ListRecipeIDs(userID uint) ([]uint, error) {
	return r.ids, nil
}

func (r *fakeRepo) IsFavorite(userID, recipeID uint) (bool, error) {
	return r.isFavorite, nil
}

func (r *fakeRepo) CountByUser(userID uint) (int64, error) {
	return int64(len(r.ids)), nil
}

func (r *fakeRepo) CountByRecipe(recipeID uint) (int64, error) {
	return r.recipeCount, nil
}

func TestListFavoriteIDs(t *testing.T) {
	handler := NewListFavoriteIDsHandler(&fakeRepo{ids: []uint{5, 8, 13}})

	ids, err := handler.Handle(ListFavoriteIDsQuery{UserID: 1})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("len(ids) = %d, want 3", len(ids))
	}
}

func TestListFavoriteIDsEmptyNotNil(t *testing.T) {
	handler := NewListFavoriteIDsHandler(&fakeRepo{})

	ids, err := handler.Handle(ListFavoriteIDsQuery{UserID: 1})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if ids == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(ids) != 0 {
		t.Errorf("len(ids) = %d, want 0", len(ids))
	}
}

func TestGetFavoriteStatus(t *testing.T) {
	handler := NewGetFavoriteStatusHandler(&fakeRepo{isFavorite: true, recipeCount: 12})

	status, err := handler.Handle(GetFavoriteStatusQuery{UserID: 1, RecipeID: 42})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !status.IsFavorited {
		t.Error("expected IsFavorited = true")
	}
	if status.RecipeCount != 12 {
		t.Errorf("RecipeCount = %d, want 12", status.RecipeCount)
	}
	if status.RecipeID != 42 {
		t.Errorf("RecipeID = %d, want 42", status.RecipeID)
	}
}

func TestGetFavoriteStatusValidation(t *testing.T) {
	handler := NewGetFavoriteStatusHandler(&fakeRepo{})

	if _, err := handler.Handle(GetFavoriteStatusQuery{UserID: 0, RecipeID: 42}); err == nil {
		t.Error("expected error for missing user id")
	}
	if _, err := handler.Handle(GetFavoriteStatusQuery{UserID: 1, RecipeID: 0}); err == nil {
		t.Error("expected error for missing recipe id")
	}
}
