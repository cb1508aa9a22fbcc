package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/panpal/panpal/internal/favorites/domain"
)

// GormFavoriteRepository implements FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GORM favorites repository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add inserts the favorite, ignoring the conflict if it already exists
func (r *GormFavoriteRepository) Add(userID, recipeID uint) (bool, error) {
	fav := domain.Favorite{UserID: userID, RecipeID: recipeID}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&fav)
	if result.Error != nil {
		return false, fmt.Errorf("failed to add favorite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the favorite if present
func (r *GormFavoriteRepository) Remove(userID, recipeID uint) (bool, error) {
	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListRecipeIDs returns the user's favorite recipe IDs, newest first
func (r *GormFavoriteRepository) ListRecipeIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}

// IsFavorite reports whether the user has favorited the recipe
func (r *GormFavoriteRepository) IsFavorite(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// CountByUser returns the number of favorites a user holds
func (r *GormFavoriteRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// CountByRecipe returns how many users favorited a recipe
func (r *GormFavoriteRepository) CountByRecipe(recipeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Favorite{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// AutoMigrate runs database migrations
func (r *GormFavoriteRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Favorite{})
}
