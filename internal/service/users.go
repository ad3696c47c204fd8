package service

import (
	"marketplace-api/internal/audit"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
	"marketplace-api/pkg/apierror"
)

// UserService handles signup, login and user lookup.
type UserService struct {
	store *repository.Store
	audit *audit.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *repository.Store, logger *audit.Logger) *UserService {
	return &UserService{store: store, audit: logger}
}

// Signup registers a new account. Username and email must both be unused.
func (s *UserService) Signup(username, email, password, remoteAddr string) (model.UserResponse, error) {
	if _, exists := s.store.UserByUsername(username); exists {
		return model.UserResponse{}, apierror.BadRequest("Username already registered")
	}
	if _, exists := s.store.UserByEmail(email); exists {
		return model.UserResponse{}, apierror.BadRequest("Email already registered")
	}

	users := s.store.Users.Load()
	user := model.User{
		ID:       repository.NextID(users, func(u model.User) int { return u.ID }),
		Username: username,
		Email:    email,
		Password: password,
	}
	users = append(users, user)
	if err := s.store.Users.Save(users); err != nil {
		return model.UserResponse{}, apierror.InternalError("failed to persist user")
	}

	s.audit.LogEvent("user_signup", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	}, remoteAddr, user.Username)

	return user.Public(), nil
}

// Login checks the credentials against the stored account. A failed attempt
// is audited as login_failed before the 401 is returned.
func (s *UserService) Login(username, password, remoteAddr string) (model.LoginResponse, error) {
	user, exists := s.store.UserByUsername(username)
	if !exists || user.Password != password {
		s.audit.LogEvent("login_failed", map[string]any{"username": username}, remoteAddr, username)
		return model.LoginResponse{}, apierror.Unauthorized("Incorrect username or password")
	}

	s.audit.LogEvent("user_login", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	}, remoteAddr, user.Username)

	pub := user.Public()
	return model.LoginResponse{Success: true, Message: "Login successful", User: &pub}, nil
}

// Me returns the public view of a user by username.
func (s *UserService) Me(username string) (model.UserResponse, error) {
	user, exists := s.store.UserByUsername(username)
	if !exists {
		return model.UserResponse{}, apierror.NotFound("User not found")
	}
	return user.Public(), nil
}
