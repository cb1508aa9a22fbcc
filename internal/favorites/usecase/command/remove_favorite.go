package command

import (
	"fmt"

	"github.com/panpal/panpal/internal/favorites/domain"
)

// RemoveFavoriteCommand represents the command to unfavorite a recipe
type RemoveFavoriteCommand struct {
	UserID   uint
	RecipeID uint
}

// RemoveFavoriteResult reports whether a favorite was actually removed
type RemoveFavoriteResult struct {
	Removed bool  `json:"removed"`
	Count   int64 `json:"count"`
}

// RemoveFavoriteHandler handles the remove favorite command
type RemoveFavoriteHandler struct {
	repo domain.FavoriteRepository
}

// NewRemoveFavoriteHandler creates a new remove favorite handler
func NewRemoveFavoriteHandler(repo domain.FavoriteRepository) *RemoveFavoriteHandler {
	return &RemoveFavoriteHandler{repo: repo}
}

// Handle executes the remove favorite command. Removing an absent
// favorite succeeds without effect.
func (h *RemoveFavoriteHandler) Handle(cmd RemoveFavoriteCommand) (*RemoveFavoriteResult, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if cmd.RecipeID == 0 {
		return nil, fmt.Errorf("recipe id is required")
	}

	removed, err := h.repo.Remove(cmd.UserID, cmd.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove favorite: %w", err)
	}

	count, err := h.repo.CountByUser(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}

	return &RemoveFavoriteResult{Removed: removed, Count: count}, nil
}
