package postgres

import (
	"context"

	"devcamper/internal/store/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo hands out the repositories backed by one connection pool.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

// Expose the underlying pool for health checks.
func (r *Repo) DB() *pgxpool.Pool { return r.db }

func (r *Repo) Ping(ctx context.Context) error { return r.db.Ping(ctx) }

func (r *Repo) Bootcamps() repositories.BootcampRepository { return &bootcampRepository{db: r.db} }

func (r *Repo) Courses() repositories.CourseRepository { return &courseRepository{db: r.db} }

func (r *Repo) Reviews() repositories.ReviewRepository { return &reviewRepository{db: r.db} }

func (r *Repo) Users() repositories.UserRepository { return &userRepository{db: r.db} }

func (r *Repo) UnitOfWork() repositories.UnitOfWork { return NewUnitOfWork(r.db) }
