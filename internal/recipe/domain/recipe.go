package domain

import (
	"time"

	"gorm.io/gorm"
)

// Difficulty levels
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Recipe is a published recipe with its nested ingredients and steps
type Recipe struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	AuthorID    uint           `json:"author_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Cuisine     string         `json:"cuisine" gorm:"index"`
	Difficulty  string         `json:"difficulty" gorm:"index;default:'medium'"`
	PrepMinutes int            `json:"prep_minutes"`
	CookMinutes int            `json:"cook_minutes"`
	Servings    int            `json:"servings"`
	ImageURL    string         `json:"image_url"`
	Ingredients []Ingredient   `json:"ingredients" gorm:"constraint:OnDelete:CASCADE"`
	Steps       []Step         `json:"steps" gorm:"constraint:OnDelete:CASCADE"`
	// Denormalized aggregates kept current by ratings and favorite events
	AvgRating     float64        `json:"avg_rating"`
	RatingCount   int64          `json:"rating_count"`
	FavoriteCount int64          `json:"favorite_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Recipe) TableName() string {
	return "recipes"
}

// Ingredient is one line of a recipe's ingredient list
type Ingredient struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	RecipeID uint    `json:"-" gorm:"not null;index"`
	Position int     `json:"position"`
	Name     string  `json:"name" gorm:"not null"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Step is one ordered instruction of a recipe
type Step struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	RecipeID uint   `json:"-" gorm:"not null;index"`
	Position int    `json:"position"`
	Text     string `json:"text" gorm:"not null"`
}

// Rating is a user's 1-5 score for a recipe; one per (user, recipe)
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_rating_user_recipe"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_rating_user_recipe"`
	Score     int       `json:"score" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Rating) TableName() string {
	return "ratings"
}

// Comment is a user's comment on a recipe
type Comment struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RecipeID  uint           `json:"recipe_id" gorm:"not null;index"`
	UserID    uint           `json:"user_id" gorm:"not null"`
	Body      string         `json:"body" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Comment) TableName() string {
	return "comments"
}

// ListFilter narrows and pages recipe listings
type ListFilter struct {
	Search     string // matches title and description
	Cuisine    string
	Difficulty string
	AuthorID   uint
	MaxMinutes int // total prep + cook time ceiling
	Limit      int
	Offset     int
}

// RecipeRepository defines the contract for recipe data access
type RecipeRepository interface {
	Create(recipe *Recipe) error
	FindByID(id uint) (*Recipe, error)
	FindByIDs(ids []uint) ([]Recipe, error)
	List(filter ListFilter) ([]Recipe, int64, error)
	Update(recipe *Recipe) error
	Delete(id uint) error

	UpsertRating(rating *Rating) error
	RecalculateRating(recipeID uint) error

	AddComment(comment *Comment) error
	ListComments(recipeID uint, limit, offset int) ([]Comment, error)

	AdjustFavoriteCount(recipeID uint, delta int) error
}
