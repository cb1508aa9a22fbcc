package query

import (
	"github.com/panpal/panpal/internal/user/domain"
)

// UserStats summarizes the user base for the admin dashboard
type UserStats struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
}

// GetStatsHandler handles user statistics queries
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle computes the current user statistics
func (h *GetStatsHandler) Handle() (*UserStats, error) {
	total, err := h.repo.Count()
	if err != nil {
		return nil, err
	}
	active, err := h.repo.CountActive()
	if err != nil {
		return nil, err
	}
	return &UserStats{TotalUsers: total, ActiveUsers: active}, nil
}
