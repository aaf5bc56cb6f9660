// Package account handles registration, login and self-service profile
// changes.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"devcamper/internal/apperr"
	"devcamper/internal/domain/user"
	"devcamper/internal/store/repositories"
	"devcamper/internal/validation"

	"github.com/rs/zerolog/log"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// RegisterRequest is the body of POST /auth/register. Admins cannot be
// self-registered.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateDetailsRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// Session is a signed-in user and their token.
type Session struct {
	User  *user.User
	Token string
}

type Service struct {
	users  repositories.UserRepository
	tokens TokenIssuer
}

func NewService(users repositories.UserRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	u, err := user.NewUser(req.Name, req.Email, req.Password, user.Role(req.Role))
	if err != nil {
		return nil, apperr.BadRequest("%v", err)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, &ServiceError{Op: "create_user", Err: err}
	}
	log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user registered")
	return s.session(u)
}

// Login checks credentials. Unknown emails and wrong passwords get the same
// answer.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperr.BadRequest("Please provide an email and password")
	}
	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, &ServiceError{Op: "find_user", Err: err}
	}
	if !u.MatchPassword(req.Password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return s.session(u)
}

// Me reloads the signed-in user.
func (s *Service) Me(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_user", Err: err}
	}
	return u, nil
}

func (s *Service) UpdateDetails(ctx context.Context, actor *user.User, req UpdateDetailsRequest) (*user.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, &ServiceError{Op: "get_user", Err: err}
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = user.NormalizeEmail(*req.Email)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, &ServiceError{Op: "update_user", Err: err}
	}
	return u, nil
}

// UpdatePassword changes the password and issues a fresh token.
func (s *Service) UpdatePassword(ctx context.Context, actor *user.User, req UpdatePasswordRequest) (*Session, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, &ServiceError{Op: "get_user", Err: err}
	}
	if !u.MatchPassword(req.CurrentPassword) {
		return nil, apperr.Unauthorized("Password is incorrect")
	}
	if err := u.SetPassword(req.NewPassword); err != nil {
		return nil, &ServiceError{Op: "hash_password", Err: err}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, &ServiceError{Op: "update_user", Err: err}
	}
	return s.session(u)
}

func (s *Service) session(u *user.User) (*Session, error) {
	tok, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, &ServiceError{Op: "issue_token", Err: err}
	}
	return &Session{User: u, Token: tok}, nil
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("account service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
