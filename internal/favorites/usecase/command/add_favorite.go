package command

import (
	"fmt"

	"github.com/panpal/panpal/internal/favorites/domain"
)

// AddFavoriteCommand represents the command to favorite a recipe
type AddFavoriteCommand struct {
	UserID   uint
	RecipeID uint
}

// AddFavoriteResult reports whether the favorite was newly created
type AddFavoriteResult struct {
	Added bool  `json:"added"`
	Count int64 `json:"count"`
}

// AddFavoriteHandler handles the add favorite command
type AddFavoriteHandler struct {
	repo domain.FavoriteRepository
}

// NewAddFavoriteHandler creates a new add favorite handler
func NewAddFavoriteHandler(repo domain.FavoriteRepository) *AddFavoriteHandler {
	return &AddFavoriteHandler{repo: repo}
}

// Handle executes the add favorite command. Adding an existing favorite
// succeeds without effect.
func (h *AddFavoriteHandler) Handle(cmd AddFavoriteCommand) (*AddFavoriteResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if cmd.RecipeID == 0 {
		return nil, fmt.Errorf("recipe id is required")
	}

	added, err := h.repo.Add(cmd.UserID, cmd.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	count, err := h.repo.CountByUser(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}

	return &AddFavoriteResult{Added: added, Count: count}, nil
}
