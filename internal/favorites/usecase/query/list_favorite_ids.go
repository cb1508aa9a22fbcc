package query

import (
	"fmt"

	"github.com/panpal/panpal/internal/favorites/domain"
)

// ListFavoriteIDsQuery represents the query for a user's favorite recipe IDs
type ListFavoriteIDsQuery struct {
	UserID uint
}

// ListFavoriteIDsHandler handles the favorite IDs query
type ListFavoriteIDsHandler struct {
	repo domain.FavoriteRepository
}

// NewListFavoriteIDsHandler creates a new list favorite IDs handler
func NewListFavoriteIDsHandler(repo domain.FavoriteRepository) *ListFavoriteIDsHandler {
	return &ListFavoriteIDsHandler{repo: repo}
}

// Handle executes the query. A user with no favorites gets an empty
// list, not an error.
func (h *ListFavoriteIDsHandler) Handle(q ListFavoriteIDsQuery) ([]uint, error) {
	if q.UserID == 0 {
		return nil, fmt.Errorf("user id is required")
	}

	ids, err := h.repo.ListRecipeIDs(q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite ids: %w", err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}
