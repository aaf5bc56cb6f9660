package review

import (
	"context"
	"fmt"
	"strings"

	"devcamper/internal/apperr"
	"devcamper/internal/domain/review"
	"devcamper/internal/domain/user"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
	"devcamper/internal/validation"

	"github.com/rs/zerolog/log"
)

// CreateRequest is the body of POST /bootcamps/{id}/reviews
type CreateRequest struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=10"`
}

// UpdateRequest is the body of PUT /reviews/{id}
type UpdateRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1,max=100"`
	Text   *string `json:"text" validate:"omitempty,min=1"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=10"`
}

// Service manages reviews and keeps bootcamp averageRating current.
type Service struct {
	reviews   repositories.ReviewRepository
	bootcamps repositories.BootcampRepository
	uow       repositories.UnitOfWork
}

func NewService(reviews repositories.ReviewRepository, bootcamps repositories.BootcampRepository, uow repositories.UnitOfWork) *Service {
	return &Service{reviews: reviews, bootcamps: bootcamps, uow: uow}
}

func (s *Service) List(ctx context.Context, p query.Params) (query.Result[*review.Review], error) {
	res, err := s.reviews.Find(ctx, p)
	if err != nil {
		return res, &ServiceError{Op: "list_reviews", Err: err}
	}
	return res, nil
}

// ListByBootcamp is List scoped to one bootcamp, which must exist.
func (s *Service) ListByBootcamp(ctx context.Context, bootcampID string, p query.Params) (query.Result[*review.Review], error) {
	if _, err := s.bootcamps.FindByID(ctx, bootcampID); err != nil {
		return query.Result[*review.Review]{}, &ServiceError{Op: "get_bootcamp", Err: err}
	}
	return s.List(ctx, p.Where("bootcamp", review.QuerySchema, bootcampID))
}

func (s *Service) Get(ctx context.Context, id string) (*review.Review, error) {
	rv, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_review", Err: err}
	}
	return rv, nil
}

// Create adds actor's review of a bootcamp. A second review of the same
// bootcamp by the same user is rejected as a duplicate.
func (s *Service) Create(ctx context.Context, actor *user.User, bootcampID string, req CreateRequest) (*review.Review, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	rv := review.New(bootcampID, actor.ID)
	rv.Title = strings.TrimSpace(req.Title)
	rv.Text = req.Text
	rv.Rating = req.Rating

	err := repositories.InTx(ctx, s.uow, func(tx repositories.Transaction) error {
		b, err := tx.BootcampRepository().FindByID(ctx, bootcampID)
		if err != nil {
			return &ServiceError{Op: "get_bootcamp", Err: err}
		}
		if err := tx.ReviewRepository().Create(ctx, rv); err != nil {
			return &ServiceError{Op: "create_review", Err: err}
		}
		rv.Bootcamp.Name, rv.Bootcamp.Description = b.Name, b.Description
		return refreshAverageRating(ctx, tx, bootcampID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("review_id", rv.ID).Str("bootcamp_id", bootcampID).Msg("review created")
	return rv, nil
}

func (s *Service) Update(ctx context.Context, actor *user.User, id string, req UpdateRequest) (*review.Review, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var out *review.Review
	err := repositories.InTx(ctx, s.uow, func(tx repositories.Transaction) error {
		rv, err := tx.ReviewRepository().FindByID(ctx, id)
		if err != nil {
			return &ServiceError{Op: "get_review", Err: err}
		}
		if !actor.Owns(rv.UserID) {
			return apperr.Forbidden("Not authorized to update review")
		}

		if req.Title != nil {
			rv.Title = strings.TrimSpace(*req.Title)
		}
		if req.Text != nil {
			rv.Text = *req.Text
		}
		if req.Rating != nil {
			rv.Rating = *req.Rating
		}

		if err := tx.ReviewRepository().Update(ctx, rv); err != nil {
			return &ServiceError{Op: "update_review", Err: err}
		}
		out = rv
		return refreshAverageRating(ctx, tx, rv.BootcampID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, actor *user.User, id string) error {
	return repositories.InTx(ctx, s.uow, func(tx repositories.Transaction) error {
		rv, err := tx.ReviewRepository().FindByID(ctx, id)
		if err != nil {
			return &ServiceError{Op: "get_review", Err: err}
		}
		if !actor.Owns(rv.UserID) {
			return apperr.Forbidden("Not authorized to delete review")
		}
		if err := tx.ReviewRepository().Delete(ctx, id); err != nil {
			return &ServiceError{Op: "delete_review", Err: err}
		}
		return refreshAverageRating(ctx, tx, rv.BootcampID)
	})
}

func refreshAverageRating(ctx context.Context, tx repositories.Transaction, bootcampID string) error {
	ratings, err := tx.ReviewRepository().Ratings(ctx, bootcampID)
	if err != nil {
		return &ServiceError{Op: "load_ratings", Err: err}
	}
	if err := tx.BootcampRepository().SetAverageRating(ctx, bootcampID, review.AverageRating(ratings)); err != nil {
		return &ServiceError{Op: "set_average_rating", Err: err}
	}
	return nil
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("review service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
