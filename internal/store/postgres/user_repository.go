package postgres

import (
	"context"

	"devcamper/internal/domain/user"
	"devcamper/internal/query"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, role, password_hash, created_at`

// userRepository implements UserRepository over Postgres
type userRepository struct {
	db querier
}

func (r *userRepository) Find(ctx context.Context, p query.Params) (query.Result[*user.User], error) {
	base := psql.Select(userColumns).From("users")
	return find(ctx, r.db, base, "users", "id", p, scanUser)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	return u, mapError(err)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, user.NormalizeEmail(email))
	u, err := scanUser(row)
	return u, mapError(err)
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, string(u.Role), u.PasswordHash, u.CreatedAt)
	return mapError(err)
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	return execOne(ctx, r.db, `
		UPDATE users SET name = $2, email = $3, role = $4, password_hash = $5
		WHERE id = $1`,
		u.ID, u.Name, u.Email, string(u.Role), u.PasswordHash)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM users WHERE id = $1`, id)
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	return &u, nil
}
