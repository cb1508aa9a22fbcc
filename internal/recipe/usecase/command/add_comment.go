package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/panpal/panpal/internal/recipe/domain"
)

// AddCommentCommand represents the command to comment on a recipe
type AddCommentCommand struct {
	RecipeID uint
	UserID   uint
	Body     string
}

const maxCommentLength = 2000

// AddCommentHandler handles comment creation
type AddCommentHandler struct {
	repo domain.RecipeRepository
}

// NewAddCommentHandler creates a new add comment handler
func NewAddCommentHandler(repo domain.RecipeRepository) *AddCommentHandler {
	return &AddCommentHandler{repo: repo}
}

// Handle executes the add comment command
func (h *AddCommentHandler) Handle(cmd AddCommentCommand) (*domain.Comment, error) {
	if cmd.RecipeID == 0 || cmd.UserID == 0 {
		return nil, fmt.Errorf("recipe id and user id are required")
	}
	body := strings.TrimSpace(cmd.Body)
	if body == "" {
		return nil, fmt.Errorf("comment body is required")
	}
	if len(body) > maxCommentLength {
		return nil, fmt.Errorf("comment exceeds %d characters", maxCommentLength)
	}

	if _, err := h.repo.FindByID(cmd.RecipeID); err != nil {
		return nil, fmt.Errorf("recipe not found: %w", err)
	}

	comment := &domain.Comment{
		RecipeID:  cmd.RecipeID,
		UserID:    cmd.UserID,
		Body:      body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.repo.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}
