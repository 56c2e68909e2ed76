package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/models"
)

// ProtectedUsername is the built-in account that cannot be deleted.
const ProtectedUsername = "admin"

// Login matches username and password exactly against the stored accounts and
// records the match as the current user. Passwords are compared in plaintext.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, error) {
	users, err := s.repos.Users.GetAll(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Username == username && u.Password == password {
			if err := s.repos.Session.SetCurrent(ctx, &u); err != nil {
				return models.User{}, err
			}
			s.loginAttempt(true)
			s.logger.Info("login", slog.String("username", u.Username), slog.String("role", string(u.Role)))
			return u, nil
		}
	}
	s.loginAttempt(false)
	return models.User{}, apperr.ErrInvalidCredentials
}

func (s *Service) loginAttempt(ok bool) {
	if s.metrics != nil {
		s.metrics.LoginAttempt(ok)
	}
}

// Logout clears the current user.
func (s *Service) Logout(ctx context.Context) error {
	return s.repos.Session.SetCurrent(ctx, nil)
}

// CurrentUser returns the logged-in user or apperr.ErrNotFound.
func (s *Service) CurrentUser(ctx context.Context) (models.User, error) {
	u, err := s.repos.Session.Current(ctx)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, fmt.Errorf("current user: %w", apperr.ErrNotFound)
	}
	return *u, nil
}

// User returns one account by id.
func (s *Service) User(ctx context.Context, id string) (models.User, error) {
	return s.repos.Users.Get(ctx, id)
}

// ListUsers returns every account without passwords.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repos.Users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}

// CreateUser adds an account with a fresh id. Usernames are unique.
func (s *Service) CreateUser(ctx context.Context, username, password string, role models.Role) (models.User, error) {
	u := models.User{
		ID:       s.newID(),
		Username: strings.TrimSpace(username),
		Password: password,
		Role:     role,
	}
	if err := u.Validate(); err != nil {
		return models.User{}, invalid(err)
	}

	err := s.repos.Users.Update(ctx, func(users []models.User) ([]models.User, error) {
		if slices.ContainsFunc(users, func(x models.User) bool { return x.Username == u.Username }) {
			return nil, fmt.Errorf("username %q: %w", u.Username, apperr.ErrAlreadyExists)
		}
		return append(users, u), nil
	})
	if err != nil {
		return models.User{}, err
	}
	s.changed(ctx, ChangeUserSaved, u.ID)
	return u.Public(), nil
}

// UserUpdate lists the mutable account fields. Nil fields are unchanged.
type UserUpdate struct {
	Role     *models.Role
	Password *string
}

// UpdateUser changes role and/or password of an existing account.
func (s *Service) UpdateUser(ctx context.Context, id string, upd UserUpdate) (models.User, error) {
	var out models.User
	err := s.repos.Users.Update(ctx, func(users []models.User) ([]models.User, error) {
		i := slices.IndexFunc(users, func(x models.User) bool { return x.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("user %q: %w", id, apperr.ErrNotFound)
		}
		u := users[i]
		if upd.Role != nil {
			u.Role = *upd.Role
		}
		if upd.Password != nil {
			u.Password = *upd.Password
		}
		if err := u.Validate(); err != nil {
			return nil, invalid(err)
		}
		users[i] = u
		out = u
		return users, nil
	})
	if err != nil {
		return models.User{}, err
	}
	s.changed(ctx, ChangeUserSaved, out.ID)
	return out.Public(), nil
}

// DeleteUser removes an account. The built-in admin account is protected.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	removed := false
	err := s.repos.Users.Update(ctx, func(users []models.User) ([]models.User, error) {
		i := slices.IndexFunc(users, func(x models.User) bool { return x.ID == id })
		if i < 0 {
			return users, nil
		}
		if users[i].Username == ProtectedUsername {
			return nil, fmt.Errorf("delete %q: %w", users[i].Username, apperr.ErrProtected)
		}
		removed = true
		return slices.Delete(users, i, i+1), nil
	})
	if err != nil || !removed {
		return err
	}
	s.changed(ctx, ChangeUserDeleted, id)
	return nil
}
