package query

import (
	"fmt"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// ListByIDsQuery fetches full recipes for a set of IDs. This is the read
// path that resolves a user's favorite IDs into recipe details.
type ListByIDsQuery struct {
	IDs []uint
}

const maxBatchSize = 200

// ListByIDsHandler handles the batch recipe query
type ListByIDsHandler struct {
	repo domain.RecipeRepository
}

// NewListByIDsHandler creates a new batch recipe handler
func NewListByIDsHandler(repo domain.RecipeRepository) *ListByIDsHandler {
	return &ListByIDsHandler{repo: repo}
}

// Handle executes the batch query. IDs that no longer resolve to a
// recipe are omitted from the result.
func (h *ListByIDsHandler) Handle(q ListByIDsQuery) ([]domain.Recipe, error) {
	if len(q.IDs) == 0 {
		return []domain.Recipe{}, nil
	}
	if len(q.IDs) > maxBatchSize {
		return nil, fmt.Errorf("at most %d ids per request", maxBatchSize)
	}

	recipes, err := h.repo.FindByIDs(q.IDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	return recipes, nil
}
