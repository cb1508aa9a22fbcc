package command

import (
	"fmt"
	"strings"

	"github.com/panpal/panpal/internal/user/domain"
)

// UpdateProfileCommand represents a profile update for the authenticated user
type UpdateProfileCommand struct {
	UserID    uint
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Email     *string `json:"email"`
}

// UpdateProfileHandler handles profile updates
type UpdateProfileHandler struct {
	repo domain.UserRepository
}

// NewUpdateProfileHandler creates a new update profile handler
func NewUpdateProfileHandler(repo domain.UserRepository) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

// Handle applies the provided fields to the user's profile
func (h *UpdateProfileHandler) Handle(cmd UpdateProfileCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.FullName != nil {
		user.FullName = strings.TrimSpace(*cmd.FullName)
	}
	if cmd.Bio != nil {
		user.Bio = strings.TrimSpace(*cmd.Bio)
	}
	if cmd.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*cmd.AvatarURL)
	}
	if cmd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*cmd.Email))
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("invalid email address")
		}
		if email != user.Email {
			if _, err := h.repo.FindByEmail(email); err == nil {
				return nil, fmt.Errorf("email already registered")
			}
			user.Email = email
		}
	}

	if err := h.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
