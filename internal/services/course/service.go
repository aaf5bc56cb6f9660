package course

import (
	"context"
	"fmt"
	"strings"

	"devcamper/internal/apperr"
	"devcamper/internal/domain/course"
	"devcamper/internal/domain/user"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
	"devcamper/internal/validation"

	"github.com/rs/zerolog/log"
)

// CreateRequest is the body of POST /bootcamps/{id}/courses
type CreateRequest struct {
	Title                string  `json:"title" validate:"required"`
	Description          string  `json:"description" validate:"required"`
	Weeks                string  `json:"weeks" validate:"required"`
	Tuition              float64 `json:"tuition" validate:"required,gt=0"`
	MinimumSkill         string  `json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

// UpdateRequest is the body of PUT /courses/{id}
type UpdateRequest struct {
	Title                *string  `json:"title" validate:"omitempty,min=1"`
	Description          *string  `json:"description" validate:"omitempty,min=1"`
	Weeks                *string  `json:"weeks" validate:"omitempty,min=1"`
	Tuition              *float64 `json:"tuition" validate:"omitempty,gt=0"`
	MinimumSkill         *string  `json:"minimumSkill" validate:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

// Service manages courses. Every write recomputes the averageCost of the
// owning bootcamp in the same transaction.
type Service struct {
	courses   repositories.CourseRepository
	bootcamps repositories.BootcampRepository
	uow       repositories.UnitOfWork
}

func NewService(courses repositories.CourseRepository, bootcamps repositories.BootcampRepository, uow repositories.UnitOfWork) *Service {
	return &Service{courses: courses, bootcamps: bootcamps, uow: uow}
}

func (s *Service) List(ctx context.Context, p query.Params) (query.Result[*course.Course], error) {
	res, err := s.courses.Find(ctx, p)
	if err != nil {
		return res, &ServiceError{Op: "list_courses", Err: err}
	}
	return res, nil
}

// ListByBootcamp returns every course of one bootcamp, unpaginated.
func (s *Service) ListByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error) {
	if _, err := s.bootcamps.FindByID(ctx, bootcampID); err != nil {
		return nil, &ServiceError{Op: "get_bootcamp", Err: err}
	}
	list, err := s.courses.FindByBootcamp(ctx, bootcampID)
	if err != nil {
		return nil, &ServiceError{Op: "list_bootcamp_courses", Err: err}
	}
	if list == nil {
		list = []*course.Course{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*course.Course, error) {
	c, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_course", Err: err}
	}
	return c, nil
}

// Create adds a course to a bootcamp owned by actor (or any bootcamp for
// admins).
func (s *Service) Create(ctx context.Context, actor *user.User, bootcampID string, req CreateRequest) (*course.Course, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c := course.New(bootcampID, actor.ID)
	c.Title = strings.TrimSpace(req.Title)
	c.Description = req.Description
	c.Weeks = req.Weeks
	c.Tuition = req.Tuition
	c.MinimumSkill = course.Skill(req.MinimumSkill)
	c.ScholarshipAvailable = req.ScholarshipAvailable

	err := repositories.InTx(ctx, s.uow, func(tx repositories.Transaction) error {
		b, err := tx.BootcampRepository().FindByID(ctx, bootcampID)
		if err != nil {
			return &ServiceError{Op: "get_bootcamp", Err: err}
		}
		if !actor.Owns(b.UserID) {
			return apperr.Forbidden("User %s is not authorized to add a course to bootcamp %s", actor.ID, bootcampID)
		}
		if err := tx.CourseRepository().Create(ctx, c); err != nil {
			return &ServiceError{Op: "create_course", Err: err}
		}
		c.Bootcamp.Name, c.Bootcamp.Description = b.Name, b.Description
		return refreshAverageCost(ctx, tx, bootcampID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("course_id", c.ID).Str("bootcamp_id", bootcampID).Msg("course created")
	return c, nil
}

func (s *Service) Update(ctx context.Context, actor *user.User, id string, req UpdateRequest) (*course.Course, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var out *course.Course
	err := repositories.InTx(ctx, s.uow, func(tx repositories.Transaction) error {
		c, err := tx.CourseRepository().FindByID(ctx, id)
		if err != nil {
			return &ServiceError{Op: "get_course", Err: err}
		}
		if !actor.Owns(c.UserID) {
			return apperr.Forbidden("User %s is not authorized to update course %s", actor.ID, id)
		}

		if req.Title != nil {
			c.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		if req.Weeks != nil {
			c.Weeks = *req.Weeks
		}
		if req.Tuition != nil {
			c.Tuition = *req.Tuition
		}
		if req.MinimumSkill != nil {
			c.MinimumSkill = course.Skill(*req.MinimumSkill)
		}
		if req.ScholarshipAvailable != nil {
			c.ScholarshipAvailable = *req.ScholarshipAvailable
		}

		if err := tx.CourseRepository().Update(ctx, c); err != nil {
			return &ServiceError{Op: "update_course", Err: err}
		}
		out = c
		return refreshAverageCost(ctx, tx, c.BootcampID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, actor *user.User, id string) error {
	return repositories.InTx(ctx, s.uow, func(tx repositories.Transaction) error {
		c, err := tx.CourseRepository().FindByID(ctx, id)
		if err != nil {
			return &ServiceError{Op: "get_course", Err: err}
		}
		if !actor.Owns(c.UserID) {
			return apperr.Forbidden("User %s is not authorized to delete course %s", actor.ID, id)
		}
		if err := tx.CourseRepository().Delete(ctx, id); err != nil {
			return &ServiceError{Op: "delete_course", Err: err}
		}
		return refreshAverageCost(ctx, tx, c.BootcampID)
	})
}

func refreshAverageCost(ctx context.Context, tx repositories.Transaction, bootcampID string) error {
	tuitions, err := tx.CourseRepository().Tuitions(ctx, bootcampID)
	if err != nil {
		return &ServiceError{Op: "load_tuitions", Err: err}
	}
	if err := tx.BootcampRepository().SetAverageCost(ctx, bootcampID, course.AverageCost(tuitions)); err != nil {
		return &ServiceError{Op: "set_average_cost", Err: err}
	}
	return nil
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("course service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
