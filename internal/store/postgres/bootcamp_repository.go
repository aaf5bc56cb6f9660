package postgres

import (
	"context"

	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/query"

	"github.com/jackc/pgx/v5"
)

const bootcampColumns = `id, name, slug, description, website, phone, email, address,
	location_lng, location_lat, formatted_address, street, city, state, zipcode, country,
	careers, average_rating, average_cost, photo, housing, job_assistance, job_guarantee,
	accept_gi, user_id, created_at`

// bootcampRepository implements BootcampRepository over Postgres
type bootcampRepository struct {
	db querier
}

func (r *bootcampRepository) Find(ctx context.Context, p query.Params) (query.Result[*bootcamp.Bootcamp], error) {
	base := psql.Select(bootcampColumns).From("bootcamps")
	return find(ctx, r.db, base, "bootcamps", "id", p, scanBootcamp)
}

func (r *bootcampRepository) FindByID(ctx context.Context, id string) (*bootcamp.Bootcamp, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bootcampColumns+` FROM bootcamps WHERE id = $1`, id)
	b, err := scanBootcamp(row)
	return b, mapError(err)
}

// FindWithinRadius uses the haversine central angle between the stored
// point and (lat, lng).
func (r *bootcampRepository) FindWithinRadius(ctx context.Context, lat, lng, radius float64) ([]*bootcamp.Bootcamp, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bootcampColumns+`
		FROM bootcamps
		WHERE location_lat IS NOT NULL AND location_lng IS NOT NULL
		  AND 2 * asin(least(1, sqrt(
		        power(sin(radians(location_lat - $1) / 2), 2) +
		        cos(radians($1)) * cos(radians(location_lat)) *
		        power(sin(radians(location_lng - $2) / 2), 2)
		      ))) <= $3
		ORDER BY created_at DESC, id ASC`, lat, lng, radius)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := collect(rows, scanBootcamp)
	return items, mapError(err)
}

func (r *bootcampRepository) Create(ctx context.Context, b *bootcamp.Bootcamp) error {
	lng, lat, loc := locationArgs(b.Location)
	_, err := r.db.Exec(ctx, `
		INSERT INTO bootcamps (`+bootcampColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		b.ID, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email, b.Address,
		lng, lat, loc.FormattedAddress, loc.Street, loc.City, loc.State, loc.Zipcode, loc.Country,
		careersArg(b.Careers), b.AverageRating, b.AverageCost, b.Photo, b.Housing, b.JobAssistance,
		b.JobGuarantee, b.AcceptGi, b.UserID, b.CreatedAt)
	return mapError(err)
}

func (r *bootcampRepository) Update(ctx context.Context, b *bootcamp.Bootcamp) error {
	lng, lat, loc := locationArgs(b.Location)
	return execOne(ctx, r.db, `
		UPDATE bootcamps
		SET name = $2, slug = $3, description = $4, website = $5, phone = $6, email = $7,
		    address = $8, location_lng = $9, location_lat = $10, formatted_address = $11,
		    street = $12, city = $13, state = $14, zipcode = $15, country = $16,
		    careers = $17, photo = $18, housing = $19, job_assistance = $20,
		    job_guarantee = $21, accept_gi = $22
		WHERE id = $1`,
		b.ID, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email,
		b.Address, lng, lat, loc.FormattedAddress,
		loc.Street, loc.City, loc.State, loc.Zipcode, loc.Country,
		careersArg(b.Careers), b.Photo, b.Housing, b.JobAssistance,
		b.JobGuarantee, b.AcceptGi)
}

// Delete removes the bootcamp; its courses and reviews go with it through
// ON DELETE CASCADE.
func (r *bootcampRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM bootcamps WHERE id = $1`, id)
}

func (r *bootcampRepository) SetAverageCost(ctx context.Context, id string, cost *float64) error {
	return execOne(ctx, r.db, `UPDATE bootcamps SET average_cost = $2 WHERE id = $1`, id, cost)
}

func (r *bootcampRepository) SetAverageRating(ctx context.Context, id string, rating *float64) error {
	return execOne(ctx, r.db, `UPDATE bootcamps SET average_rating = $2 WHERE id = $1`, id, rating)
}

func scanBootcamp(row pgx.Row) (*bootcamp.Bootcamp, error) {
	var b bootcamp.Bootcamp
	var loc bootcamp.Location
	var lng, lat *float64

	err := row.Scan(
		&b.ID, &b.Name, &b.Slug, &b.Description, &b.Website, &b.Phone, &b.Email, &b.Address,
		&lng, &lat, &loc.FormattedAddress, &loc.Street, &loc.City, &loc.State, &loc.Zipcode, &loc.Country,
		&b.Careers, &b.AverageRating, &b.AverageCost, &b.Photo, &b.Housing, &b.JobAssistance, &b.JobGuarantee,
		&b.AcceptGi, &b.UserID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}

	if lng != nil && lat != nil {
		loc.Type = "Point"
		loc.Coordinates = [2]float64{*lng, *lat}
		b.Location = &loc
	}
	return &b, nil
}

func locationArgs(loc *bootcamp.Location) (lng, lat *float64, out bootcamp.Location) {
	if loc == nil {
		return nil, nil, bootcamp.Location{}
	}
	x, y := loc.Lng(), loc.Lat()
	return &x, &y, *loc
}

// careersArg keeps NOT NULL text[] columns from receiving a nil slice.
func careersArg(c []string) []string {
	if c == nil {
		return []string{}
	}
	return c
}
