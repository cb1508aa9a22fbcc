package query

import (
	"fmt"

	"github.com/panpal/panpal/internal/favorites/domain"
)

// GetFavoriteStatusQuery asks whether a recipe is favorited and how
// popular it is overall.
type GetFavoriteStatusQuery struct {
	UserID   uint
	RecipeID uint
}

// FavoriteStatus is the query result
type FavoriteStatus struct {
	RecipeID    uint  `json:"recipe_id"`
	IsFavorited bool  `json:"is_favorited"`
	RecipeCount int64 `json:"recipe_count"`
}

// GetFavoriteStatusHandler handles the favorite status query
type GetFavoriteStatusHandler struct {
	repo domain.FavoriteRepository
}

// NewGetFavoriteStatusHandler creates a new favorite status handler
func NewGetFavoriteStatusHandler(repo domain.FavoriteRepository) *GetFavoriteStatusHandler {
	return &GetFavoriteStatusHandler{repo: repo}
}

// Handle executes the favorite status query
func (h *GetFavoriteStatusHandler) Handle(q GetFavoriteStatusQuery) (*FavoriteStatus, error) {
	if q.UserID == 0 || q.RecipeID == 0 {
		return nil, fmt.Errorf("user id and recipe id are required")
	}

	favorited, err := h.repo.IsFavorite(q.UserID, q.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}

	total, err := h.repo.CountByRecipe(q.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipe favorites: %w", err)
	}

	return &FavoriteStatus{
		RecipeID:    q.RecipeID,
		IsFavorited: favorited,
		RecipeCount: total,
	}, nil
}
