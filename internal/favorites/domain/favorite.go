package domain

import (
	"time"
)

// Favorite marks a recipe as saved by a user. The (user, recipe) pair is
// unique; adding an existing pair and removing an absent one are both
// no-ops, so retried client toggles stay idempotent.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_recipe"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_user_recipe"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}

// FavoriteRepository defines the contract for favorites data access
type FavoriteRepository interface {
	// Add records the favorite. Returns false if it already existed.
	Add(userID, recipeID uint) (bool, error)
	// Remove deletes the favorite. Returns false if it did not exist.
	Remove(userID, recipeID uint) (bool, error)
	ListRecipeIDs(userID uint) ([]uint, error)
	IsFavorite(userID, recipeID uint) (bool, error)
	CountByUser(userID uint) (int64, error)
	CountByRecipe(recipeID uint) (int64, error)
}
