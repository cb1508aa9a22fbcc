package query

import (
	"github.com/panpal/panpal/internal/user/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListUsersQuery represents a paginated user listing
type ListUsersQuery struct {
	Limit  int
	Offset int
}

// ListUsersHandler handles user listings
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle retrieves a page of users
func (h *ListUsersHandler) Handle(q ListUsersQuery) ([]domain.User, error) {
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	users, err := h.repo.FindAll(q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
