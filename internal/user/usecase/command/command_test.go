package command

import (
	"fmt"
	"testing"

	"github.com/panpal/panpal/internal/user/domain"
	"github.com/panpal/panpal/pkg/auth"
)

type fakeRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uint]*domain.User), nextID: 1}
}

func (r *fakeRepo) Create(user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeRepo) FindByID(id uint) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeRepo) FindByUsername(username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeRepo) FindAll(limit, offset int) ([]domain.User, error) {
	var users []domain.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeRepo) Update(user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeRepo) Delete(id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeRepo) CountActive() (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func TestRegisterUser(t *testing.T) {
	repo := newFakeRepo()
	handler := NewRegisterUserHandler(repo)

	user, err := handler.Handle(RegisterUserCommand{
		Username: "chef_anna",
		Email:    "Anna@Example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("expected user to get an ID")
	}
	if user.Email != "anna@example.com" {
		t.Errorf("Email = %q, want lowercase", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("Role = %q, want %q", user.Role, domain.RoleUser)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
	if user.Password == "supersecret" {
		t.Error("password stored in plain text")
	}
	if !auth.CheckPassword(user.Password, "supersecret") {
		t.Error("stored hash does not match password")
	}
}

func TestRegisterUserValidation(t *testing.T) {
	handler := NewRegisterUserHandler(newFakeRepo())

	cases := []struct {
		name string
		cmd  RegisterUserCommand
	}{
		{"short username", RegisterUserCommand{Username: "ab", Email: "a@b.com", Password: "supersecret"}},
		{"bad email", RegisterUserCommand{Username: "chef_anna", Email: "nope", Password: "supersecret"}},
		{"short password", RegisterUserCommand{Username: "chef_anna", Email: "a@b.com", Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := handler.Handle(tc.cmd); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRegisterUserDuplicate(t *testing.T) {
	repo := newFakeRepo()
	handler := NewRegisterUserHandler(repo)

	cmd := RegisterUserCommand{Username: "chef_anna", Email: "anna@example.com", Password: "supersecret"}
	if _, err := handler.Handle(cmd); err != nil {
		t.Fatalf("first Handle() error = %v", err)
	}

	if _, err := handler.Handle(cmd); err == nil {
		t.Error("expected error for duplicate username")
	}

	cmd.Username = "other_anna"
	if _, err := handler.Handle(cmd); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestLoginUser(t *testing.T) {
	repo := newFakeRepo()
	register := NewRegisterUserHandler(repo)
	login := NewLoginUserHandler(repo)

	if _, err := register.Handle(RegisterUserCommand{
		Username: "chef_anna",
		Email:    "anna@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("register error = %v", err)
	}

	resp, err := login.Handle(LoginUserCommand{Username: "chef_anna", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Username != "chef_anna" {
		t.Errorf("claims.Username = %q, want chef_anna", claims.Username)
	}
}

func TestLoginUserWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	register := NewRegisterUserHandler(repo)
	login := NewLoginUserHandler(repo)

	if _, err := register.Handle(RegisterUserCommand{
		Username: "chef_anna",
		Email:    "anna@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("register error = %v", err)
	}

	if _, err := login.Handle(LoginUserCommand{Username: "chef_anna", Password: "wrong"}); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, err := login.Handle(LoginUserCommand{Username: "nobody", Password: "supersecret"}); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestLoginUserDisabled(t *testing.T) {
	repo := newFakeRepo()
	register := NewRegisterUserHandler(repo)
	login := NewLoginUserHandler(repo)

	user, err := register.Handle(RegisterUserCommand{
		Username: "chef_anna",
		Email:    "anna@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register error = %v", err)
	}

	user.IsActive = false
	if err := repo.Update(user); err != nil {
		t.Fatalf("update error = %v", err)
	}

	if _, err := login.Handle(LoginUserCommand{Username: "chef_anna", Password: "supersecret"}); err == nil {
		t.Error("expected error for disabled account")
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeRepo()
	register := NewRegisterUserHandler(repo)
	update := NewUpdateProfileHandler(repo)

	user, err := register.Handle(RegisterUserCommand{
		Username: "chef_anna",
		Email:    "anna@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register error = %v", err)
	}

	bio := "I cook things."
	avatar := "https://cdn.example.com/anna.png"
	updated, err := update.Handle(UpdateProfileCommand{
		UserID:    user.ID,
		Bio:       &bio,
		AvatarURL: &avatar,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if updated.Bio != bio {
		t.Errorf("Bio = %q, want %q", updated.Bio, bio)
	}
	if updated.AvatarURL != avatar {
		t.Errorf("AvatarURL = %q, want %q", updated.AvatarURL, avatar)
	}
	// Untouched fields stay put
	if updated.Email != "anna@example.com" {
		t.Errorf("Email changed unexpectedly: %q", updated.Email)
	}
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	repo := newFakeRepo()
	register := NewRegisterUserHandler(repo)
	update := NewUpdateProfileHandler(repo)

	first, err := register.Handle(RegisterUserCommand{
		Username: "chef_anna",
		Email:    "anna@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register error = %v", err)
	}
	if _, err := register.Handle(RegisterUserCommand{
		Username: "chef_bob",
		Email:    "bob@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("register error = %v", err)
	}

	taken := "bob@example.com"
	if _, err := update.Handle(UpdateProfileCommand{UserID: first.ID, Email: &taken}); err == nil {
		t.Error("expected error when changing to a taken email")
	}
}
