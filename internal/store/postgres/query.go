package postgres

import (
	"context"
	"errors"
	"fmt"

	"devcamper/internal/query"
	"devcamper/internal/store/repositories"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is the part of pgxpool.Pool and pgx.Tx the repositories use, so
// the same repository code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// where compiles filter predicates into one AND condition. Columns come
// from the resource schema, values are always bound as arguments.
func where(preds []query.Predicate) sq.And {
	and := make(sq.And, 0, len(preds))
	for _, p := range preds {
		and = append(and, predicate(p))
	}
	return and
}

func predicate(p query.Predicate) sq.Sqlizer {
	if p.Kind == query.KindTextArray {
		vals := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			vals = append(vals, fmt.Sprint(v))
		}
		if p.Op == query.OpIn {
			return sq.Expr(p.Column+" && ?", vals)
		}
		return sq.Expr(p.Column+" @> ?", vals)
	}

	switch p.Op {
	case query.OpGt:
		return sq.Gt{p.Column: p.Value()}
	case query.OpGte:
		return sq.GtOrEq{p.Column: p.Value()}
	case query.OpLt:
		return sq.Lt{p.Column: p.Value()}
	case query.OpLte:
		return sq.LtOrEq{p.Column: p.Value()}
	case query.OpIn:
		return sq.Eq{p.Column: p.Values}
	default:
		return sq.Eq{p.Column: p.Value()}
	}
}

// listQuery applies filter, sort and the page window to base. idColumn is
// appended to the ordering so pages are stable under equal sort keys.
func listQuery(base sq.SelectBuilder, p query.Params, idColumn string) sq.SelectBuilder {
	if len(p.Filter) > 0 {
		base = base.Where(where(p.Filter))
	}
	for _, s := range p.Sort {
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		base = base.OrderBy(s.Column + dir)
	}
	return base.
		OrderBy(idColumn + " ASC").
		Limit(uint64(p.Page.Limit)).
		Offset(uint64(p.Page.StartIndex()))
}

// countQuery counts the records matching the filter of p, ignoring the
// page window.
func countQuery(from string, p query.Params) sq.SelectBuilder {
	b := psql.Select("COUNT(*)").From(from)
	if len(p.Filter) > 0 {
		b = b.Where(where(p.Filter))
	}
	return b
}

func count(ctx context.Context, db querier, from string, p query.Params) (int64, error) {
	sqlStr, args, err := countQuery(from, p).ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// find runs the count and the page query of a list request.
func find[T any](ctx context.Context, db querier, base sq.SelectBuilder, from, idColumn string, p query.Params, scan func(pgx.Row) (T, error)) (query.Result[T], error) {
	total, err := count(ctx, db, from, p)
	if err != nil {
		return query.Result[T]{}, mapError(err)
	}

	sqlStr, args, err := listQuery(base, p, idColumn).ToSql()
	if err != nil {
		return query.Result[T]{}, err
	}
	rows, err := db.Query(ctx, sqlStr, args...)
	if err != nil {
		return query.Result[T]{}, mapError(err)
	}
	items, err := collect(rows, scan)
	if err != nil {
		return query.Result[T]{}, mapError(err)
	}
	return query.Result[T]{Items: items, Total: total}, nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

const uniqueViolation = "23505"

// mapError translates driver errors into the repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repositories.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repositories.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db querier, sqlStr string, args ...any) error {
	tag, err := db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
