package query

import (
	"fmt"

	"github.com/panpal/panpal/internal/recipe/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListRecipesQuery represents the recipe browse/search query
type ListRecipesQuery struct {
	Search     string
	Cuisine    string
	Difficulty string
	AuthorID   uint
	MaxMinutes int
	Limit      int
	Offset     int
}

// RecipePage is one page of listing results
type RecipePage struct {
	Recipes []domain.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ListRecipesHandler handles the recipe listing query
type ListRecipesHandler struct {
	repo domain.RecipeRepository
}

// NewListRecipesHandler creates a new list recipes handler
func NewListRecipesHandler(repo domain.RecipeRepository) *ListRecipesHandler {
	return &ListRecipesHandler{repo: repo}
}

// Handle executes the listing query with clamped pagination
func (h *ListRecipesHandler) Handle(q ListRecipesQuery) (*RecipePage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	recipes, total, err := h.repo.List(domain.ListFilter{
		Search:     q.Search,
		Cuisine:    q.Cuisine,
		Difficulty: q.Difficulty,
		AuthorID:   q.AuthorID,
		MaxMinutes: q.MaxMinutes,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}

	return &RecipePage{
		Recipes: recipes,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}
