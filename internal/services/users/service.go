package users

import (
	"context"
	"fmt"

	"devcamper/internal/apperr"
	"devcamper/internal/domain/user"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
	"devcamper/internal/validation"

	"github.com/rs/zerolog/log"
)

// CreateRequest is the body of POST /users
type CreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

// UpdateRequest is the body of PUT /users/{id}
type UpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

// Service is the admin-only user management surface.
type Service struct {
	users repositories.UserRepository
}

func NewService(users repositories.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) List(ctx context.Context, p query.Params) (query.Result[*user.User], error) {
	res, err := s.users.Find(ctx, p)
	if err != nil {
		return res, &ServiceError{Op: "list_users", Err: err}
	}
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_user", Err: err}
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*user.User, error) {
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
	log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user created by admin")
	return u, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*user.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_user", Err: err}
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = user.NormalizeEmail(*req.Email)
	}
	if req.Role != nil {
		u.Role = user.Role(*req.Role)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, &ServiceError{Op: "update_user", Err: err}
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return &ServiceError{Op: "delete_user", Err: err}
	}
	log.Info().Str("user_id", id).Msg("user deleted by admin")
	return nil
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("user service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
