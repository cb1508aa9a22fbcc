package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// GormRecipeRepository implements RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GORM recipe repository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// Create inserts a recipe with its ingredients and steps
func (r *GormRecipeRepository) Create(recipe *domain.Recipe) error {
	if err := r.db.Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// FindByID retrieves a recipe with ingredients and steps
func (r *GormRecipeRepository) FindByID(id uint) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.db.
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&recipe, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("recipe not found")
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return &recipe, nil
}

// FindByIDs retrieves recipes by ID in one query. Unknown IDs are
// silently absent from the result.
func (r *GormRecipeRepository) FindByIDs(ids []uint) ([]domain.Recipe, error) {
	if len(ids) == 0 {
		return []domain.Recipe{}, nil
	}
	var recipes []domain.Recipe
	err := r.db.
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id IN ?", ids).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recipes: %w", err)
	}
	return recipes, nil
}

// List retrieves recipes matching the filter, newest first, with the
// total match count for pagination.
func (r *GormRecipeRepository) List(filter domain.ListFilter) ([]domain.Recipe, int64, error) {
	query := r.db.Model(&domain.Recipe{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Cuisine != "" {
		query = query.Where("cuisine = ?", filter.Cuisine)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.MaxMinutes > 0 {
		query = query.Where("prep_minutes + cook_minutes <= ?", filter.MaxMinutes)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []domain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// Update saves a recipe, replacing its ingredients and steps
func (r *GormRecipeRepository) Update(recipe *domain.Recipe) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear ingredients: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.Step{}).Error; err != nil {
			return fmt.Errorf("failed to clear steps: %w", err)
		}
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(recipe).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return nil
	})
}

// Delete soft deletes a recipe
func (r *GormRecipeRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Recipe{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recipe not found")
	}
	return nil
}

// UpsertRating inserts or replaces the user's score for a recipe
func (r *GormRecipeRepository) UpsertRating(rating *domain.Rating) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// RecalculateRating refreshes the denormalized rating aggregates
func (r *GormRecipeRepository) RecalculateRating(recipeID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&domain.Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	err = r.db.Model(&domain.Recipe{}).
		Where("id = ?", recipeID).
		Updates(map[string]interface{}{
			"avg_rating":   agg.Avg,
			"rating_count": agg.Count,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to store rating aggregates: %w", err)
	}
	return nil
}

// AddComment inserts a comment
func (r *GormRecipeRepository) AddComment(comment *domain.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// ListComments retrieves a recipe's comments, newest first
func (r *GormRecipeRepository) ListComments(recipeID uint, limit, offset int) ([]domain.Comment, error) {
	query := r.db.Where("recipe_id = ?", recipeID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var comments []domain.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AdjustFavoriteCount moves the denormalized favorite counter by delta,
// clamped at zero.
func (r *GormRecipeRepository) AdjustFavoriteCount(recipeID uint, delta int) error {
	err := r.db.Model(&domain.Recipe{}).
		Where("id = ?", recipeID).
		Update("favorite_count", gorm.Expr("GREATEST(favorite_count + ?, 0)", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to adjust favorite count: %w", err)
	}
	return nil
}

// AutoMigrate runs database migrations
func (r *GormRecipeRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Recipe{},
		&domain.Ingredient{},
		&domain.Step{},
		&domain.Rating{},
		&domain.Comment{},
	)
}
