package repositories

import (
	"context"
	"errors"

	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/domain/course"
	"devcamper/internal/domain/review"
	"devcamper/internal/domain/user"
	"devcamper/internal/query"
)

var (
	// ErrNotFound is returned when no record matches an id or key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// BootcampRepository defines the contract for bootcamp data access
type BootcampRepository interface {
	Find(ctx context.Context, p query.Params) (query.Result[*bootcamp.Bootcamp], error)
	FindByID(ctx context.Context, id string) (*bootcamp.Bootcamp, error)
	// FindWithinRadius returns bootcamps whose location lies within radius
	// (in radians of a great circle) of the given point.
	FindWithinRadius(ctx context.Context, lat, lng, radius float64) ([]*bootcamp.Bootcamp, error)
	Create(ctx context.Context, b *bootcamp.Bootcamp) error
	Update(ctx context.Context, b *bootcamp.Bootcamp) error
	Delete(ctx context.Context, id string) error
	SetAverageCost(ctx context.Context, id string, cost *float64) error
	SetAverageRating(ctx context.Context, id string, rating *float64) error
}

// CourseRepository defines the contract for course data access
type CourseRepository interface {
	Find(ctx context.Context, p query.Params) (query.Result[*course.Course], error)
	FindByID(ctx context.Context, id string) (*course.Course, error)
	FindByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error)
	// FindByBootcamps groups the courses of several bootcamps by bootcamp id.
	FindByBootcamps(ctx context.Context, bootcampIDs []string) (map[string][]*course.Course, error)
	Tuitions(ctx context.Context, bootcampID string) ([]float64, error)
	Create(ctx context.Context, c *course.Course) error
	Update(ctx context.Context, c *course.Course) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the contract for review data access
type ReviewRepository interface {
	Find(ctx context.Context, p query.Params) (query.Result[*review.Review], error)
	FindByID(ctx context.Context, id string) (*review.Review, error)
	Ratings(ctx context.Context, bootcampID string) ([]int, error)
	Create(ctx context.Context, r *review.Review) error
	Update(ctx context.Context, r *review.Review) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Find(ctx context.Context, p query.Params) (query.Result[*user.User], error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id string) error
}

// UnitOfWork defines transactional operations
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction defines a database transaction
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	BootcampRepository() BootcampRepository
	CourseRepository() CourseRepository
	ReviewRepository() ReviewRepository
}

// InTx runs fn inside a transaction, committing when fn succeeds and
// rolling back otherwise.
func InTx(ctx context.Context, uow UnitOfWork, fn func(tx Transaction) error) error {
	tx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
