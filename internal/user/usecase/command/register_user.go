package command

import (
	"fmt"
	"strings"

	"github.com/panpal/panpal/internal/user/domain"
	"github.com/panpal/panpal/pkg/auth"
)

// RegisterUserCommand represents the registration request
type RegisterUserCommand struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
}

// RegisterUserHandler handles user registration
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle validates the command and creates the user
func (h *RegisterUserHandler) Handle(cmd RegisterUserCommand) (*domain.User, error) {
	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.Email = strings.TrimSpace(strings.ToLower(cmd.Email))

	if len(cmd.Username) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters")
	}
	if !strings.Contains(cmd.Email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}
	if len(cmd.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := h.repo.FindByUsername(cmd.Username); err == nil {
		return nil, fmt.Errorf("username already taken")
	}
	if _, err := h.repo.FindByEmail(cmd.Email); err == nil {
		return nil, fmt.Errorf("email already registered")
	}

	hashed, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username: cmd.Username,
		Email:    cmd.Email,
		Password: hashed,
		FullName: strings.TrimSpace(cmd.FullName),
		Bio:      cmd.Bio,
		Role:     domain.RoleUser,
		Provider: domain.ProviderLocal,
		IsActive: true,
	}

	if err := h.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
