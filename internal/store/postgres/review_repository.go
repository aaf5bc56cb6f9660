package postgres

import (
	"context"

	"devcamper/internal/domain/course"
	"devcamper/internal/domain/review"
	"devcamper/internal/query"

	"github.com/jackc/pgx/v5"
)

const reviewColumns = `r.id, r.title, r.text, r.rating, r.bootcamp_id, r.user_id, r.created_at,
	b.name, b.description`

const reviewFrom = `reviews r JOIN bootcamps b ON b.id = r.bootcamp_id`

// reviewRepository implements ReviewRepository over Postgres
type reviewRepository struct {
	db querier
}

func (r *reviewRepository) Find(ctx context.Context, p query.Params) (query.Result[*review.Review], error) {
	base := psql.Select(reviewColumns).From(reviewFrom)
	return find(ctx, r.db, base, "reviews r", "r.id", p, scanReview)
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM `+reviewFrom+` WHERE r.id = $1`, id)
	rv, err := scanReview(row)
	return rv, mapError(err)
}

func (r *reviewRepository) Ratings(ctx context.Context, bootcampID string) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT rating FROM reviews WHERE bootcamp_id = $1`, bootcampID)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[int])
	return out, mapError(err)
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (id, title, text, rating, bootcamp_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rv.ID, rv.Title, rv.Text, rv.Rating, rv.BootcampID, rv.UserID, rv.CreatedAt)
	return mapError(err)
}

func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	return execOne(ctx, r.db, `
		UPDATE reviews SET title = $2, text = $3, rating = $4 WHERE id = $1`,
		rv.ID, rv.Title, rv.Text, rv.Rating)
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM reviews WHERE id = $1`, id)
}

func scanReview(row pgx.Row) (*review.Review, error) {
	var rv review.Review
	var ref course.BootcampRef

	err := row.Scan(
		&rv.ID, &rv.Title, &rv.Text, &rv.Rating, &rv.BootcampID, &rv.UserID, &rv.CreatedAt,
		&ref.Name, &ref.Description)
	if err != nil {
		return nil, err
	}
	ref.ID = rv.BootcampID
	rv.Bootcamp = &ref
	return &rv, nil
}
