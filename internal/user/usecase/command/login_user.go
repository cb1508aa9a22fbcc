package command

import (
	"fmt"

	"github.com/panpal/panpal/internal/user/domain"
	"github.com/panpal/panpal/pkg/auth"
)

// LoginUserCommand represents the login request
type LoginUserCommand struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles user authentication
type LoginUserHandler struct {
	repo domain.UserRepository
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle verifies credentials and issues a JWT
func (h *LoginUserHandler) Handle(cmd LoginUserCommand) (*LoginResponse, error) {
	user, err := h.repo.FindByUsername(cmd.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is disabled")
	}
	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{Token: token, User: user}, nil
}
