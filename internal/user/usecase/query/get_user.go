package query

import (
	"github.com/panpal/panpal/internal/user/domain"
)

// GetUserQuery represents a single user lookup
type GetUserQuery struct {
	ID uint
}

// GetUserHandler handles user lookups
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle retrieves the user by ID
func (h *GetUserHandler) Handle(q GetUserQuery) (*domain.User, error) {
	return h.repo.FindByID(q.ID)
}
