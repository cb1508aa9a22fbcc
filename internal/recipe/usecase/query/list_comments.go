package query

import (
	"fmt"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// ListCommentsQuery represents the query for a recipe's comments
type ListCommentsQuery struct {
	RecipeID uint
	Limit    int
	Offset   int
}

// ListCommentsHandler handles the comment listing query
type ListCommentsHandler struct {
	repo domain.RecipeRepository
}

// NewListCommentsHandler creates a new list comments handler
func NewListCommentsHandler(repo domain.RecipeRepository) *ListCommentsHandler {
	return &ListCommentsHandler{repo: repo}
}

// Handle executes the comment listing query
func (h *ListCommentsHandler) Handle(q ListCommentsQuery) ([]domain.Comment, error) {
	if q.RecipeID == 0 {
		return nil, fmt.Errorf("recipe id is required")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	comments, err := h.repo.ListComments(q.RecipeID, limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}
