package postgres

import (
	"context"

	"devcamper/internal/domain/course"
	"devcamper/internal/query"

	"github.com/jackc/pgx/v5"
)

const courseColumns = `c.id, c.title, c.description, c.weeks, c.tuition, c.minimum_skill,
	c.scholarship_available, c.bootcamp_id, c.user_id, c.created_at, b.name, b.description`

const courseFrom = `courses c JOIN bootcamps b ON b.id = c.bootcamp_id`

// courseRepository implements CourseRepository over Postgres
type courseRepository struct {
	db querier
}

func (r *courseRepository) Find(ctx context.Context, p query.Params) (query.Result[*course.Course], error) {
	base := psql.Select(courseColumns).From(courseFrom)
	return find(ctx, r.db, base, "courses c", "c.id", p, scanCourse)
}

func (r *courseRepository) FindByID(ctx context.Context, id string) (*course.Course, error) {
	row := r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM `+courseFrom+` WHERE c.id = $1`, id)
	c, err := scanCourse(row)
	return c, mapError(err)
}

func (r *courseRepository) FindByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+courseColumns+`
		FROM `+courseFrom+`
		WHERE c.bootcamp_id = $1
		ORDER BY c.created_at DESC, c.id ASC`, bootcampID)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := collect(rows, scanCourse)
	return items, mapError(err)
}

func (r *courseRepository) FindByBootcamps(ctx context.Context, bootcampIDs []string) (map[string][]*course.Course, error) {
	out := make(map[string][]*course.Course, len(bootcampIDs))
	if len(bootcampIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+courseColumns+`
		FROM `+courseFrom+`
		WHERE c.bootcamp_id = ANY($1)
		ORDER BY c.created_at DESC, c.id ASC`, bootcampIDs)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := collect(rows, scanCourse)
	if err != nil {
		return nil, mapError(err)
	}
	for _, c := range items {
		out[c.BootcampID] = append(out[c.BootcampID], c)
	}
	return out, nil
}

func (r *courseRepository) Tuitions(ctx context.Context, bootcampID string) ([]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT tuition FROM courses WHERE bootcamp_id = $1`, bootcampID)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[float64])
	return out, mapError(err)
}

func (r *courseRepository) Create(ctx context.Context, c *course.Course) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO courses (id, title, description, weeks, tuition, minimum_skill,
		                     scholarship_available, bootcamp_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Title, c.Description, c.Weeks, c.Tuition, string(c.MinimumSkill),
		c.ScholarshipAvailable, c.BootcampID, c.UserID, c.CreatedAt)
	return mapError(err)
}

func (r *courseRepository) Update(ctx context.Context, c *course.Course) error {
	return execOne(ctx, r.db, `
		UPDATE courses
		SET title = $2, description = $3, weeks = $4, tuition = $5,
		    minimum_skill = $6, scholarship_available = $7
		WHERE id = $1`,
		c.ID, c.Title, c.Description, c.Weeks, c.Tuition,
		string(c.MinimumSkill), c.ScholarshipAvailable)
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM courses WHERE id = $1`, id)
}

func scanCourse(row pgx.Row) (*course.Course, error) {
	var c course.Course
	var ref course.BootcampRef
	var skill string

	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Weeks, &c.Tuition, &skill,
		&c.ScholarshipAvailable, &c.BootcampID, &c.UserID, &c.CreatedAt,
		&ref.Name, &ref.Description)
	if err != nil {
		return nil, err
	}
	c.MinimumSkill = course.Skill(skill)
	ref.ID = c.BootcampID
	c.Bootcamp = &ref
	return &c, nil
}
