package service

import (
	"strings"
	"sync"

	"carcatalog/internal/config"
	"carcatalog/internal/model"
)

// AuthService tracks the single current session and answers capability
// questions for it. It performs no enforcement itself; mutating catalog
// operations consult it through CatalogService.
type AuthService interface {
	// Login matches username case-insensitively and password exactly
	// against the credential set. On success the session transitions to the
	// matched user and ok is true; on any mismatch the session is left
	// untouched and ok is false. Bad credentials are never an error.
	Login(username, password string) (user *model.User, ok bool)

	// Logout unconditionally clears the session.
	Logout()

	// CurrentUser returns the session user, nil when anonymous.
	CurrentUser() *model.User

	IsAdmin() bool
	IsStandardUser() bool
	IsLoggedIn() bool
}

type authService struct {
	mu      sync.RWMutex
	users   []model.User
	current *model.User
}

// NewAuthService builds the gate over a fixed credential set. The session
// starts anonymous.
func NewAuthService(users []model.User) AuthService {
	return &authService{users: users}
}

// DefaultUsers returns the built-in credential set. Passwords are held in
// plaintext because the accounts are demo fixtures; the admin pair is
// overridable through configuration.
func DefaultUsers(cfg config.AuthConfig) []model.User {
	return []model.User{
		{Username: cfg.AdminUsername, Password: cfg.AdminPassword, Role: model.RoleAdmin, DisplayName: "Administrator"},
		{Username: "john", Password: "user123", Role: model.RoleStandard, DisplayName: "John Smith"},
		{Username: "sarah", Password: "user123", Role: model.RoleStandard, DisplayName: "Sarah Johnson"},
		{Username: "mike", Password: "user123", Role: model.RoleStandard, DisplayName: "Mike Wilson"},
	}
}

func (s *authService) Login(username, password string) (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		u := s.users[i]
		if strings.EqualFold(u.Username, username) && u.Password == password {
			s.current = &u
			out := u
			return &out, true
		}
	}
	return nil, false
}

func (s *authService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *authService) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

func (s *authService) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAdmin()
}

func (s *authService) IsStandardUser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Role == model.RoleStandard
}

func (s *authService) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}
